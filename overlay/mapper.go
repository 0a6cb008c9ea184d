// Package overlay maps detection boxes from the resolution space they were
// produced in onto the presentation container, and draws them.
package overlay

import (
	"github.com/camlab-ai/go-campipe/common"
	"github.com/camlab-ai/go-campipe/images"
)

// Transform is the affine fit of a source resolution into a container:
// uniform scale-to-fit with centered letterboxing. Never crops, never
// stretches non-uniformly.
type Transform struct {
	Scale            float32
	OffsetX, OffsetY float32

	// SrcWidth is kept for the mirror reflection, which pivots around the
	// source frame's vertical center line.
	SrcWidth float32
}

// Fit computes the transform from a source resolution label into a
// container. Returns ok=false, and no transform, when the container
// dimensions are not yet known or the label does not parse to two positive
// integers; callers then simply draw nothing for this cycle.
func Fit(src images.Label, containerW, containerH int) (Transform, bool) {
	if containerW <= 0 || containerH <= 0 {
		return Transform{}, false
	}
	srcW, srcH, err := src.Parse()
	if err != nil {
		return Transform{}, false
	}

	sw, sh := float32(srcW), float32(srcH)
	cw, ch := float32(containerW), float32(containerH)

	scale := min(cw/sw, ch/sh)
	return Transform{
		Scale:    scale,
		OffsetX:  (cw - sw*scale) / 2,
		OffsetY:  (ch - sh*scale) / 2,
		SrcWidth: sw,
	}, true
}

// MapBox converts a box from source space to container pixels. With mirror
// set (front camera), the x-axis is reflected: the mapped left edge comes
// from the source box's right edge.
func (t Transform) MapBox(b common.BoundingBox, mirror bool) common.BoundingBox {
	left := t.OffsetX + b.X1*t.Scale
	if mirror {
		left = t.OffsetX + (t.SrcWidth-b.X2)*t.Scale
	}
	top := t.OffsetY + b.Y1*t.Scale
	return common.BoxFromXYWH(left, top, b.W()*t.Scale, b.H()*t.Scale)
}

// UnmapBox converts a container-space box back into source space. Inverse
// of MapBox for the same transform and mirror flag; used for hit-testing
// taps on drawn boxes.
func (t Transform) UnmapBox(b common.BoundingBox, mirror bool) common.BoundingBox {
	w := b.W() / t.Scale
	h := b.H() / t.Scale
	x := (b.X1 - t.OffsetX) / t.Scale
	if mirror {
		x = t.SrcWidth - (b.X1-t.OffsetX)/t.Scale - w
	}
	y := (b.Y1 - t.OffsetY) / t.Scale
	return common.BoxFromXYWH(x, y, w, h)
}
