// Package common holds the detection types shared by the inference and face
// capabilities, the pipeline, and the presentation overlay.
package common

import (
	"fmt"
	"image"

	"github.com/chewxy/math32"
)

// BoundingBox is a float box in the coordinate space of the frame that
// produced it (pixel units, not normalized).
type BoundingBox struct {
	X1, Y1, X2, Y2 float32
}

// BoxFromXYWH builds a box from a top-left corner and a size.
func BoxFromXYWH(x, y, w, h float32) BoundingBox {
	return BoundingBox{X1: x, Y1: y, X2: x + w, Y2: y + h}
}

// W returns the box width.
func (b BoundingBox) W() float32 { return b.X2 - b.X1 }

// H returns the box height.
func (b BoundingBox) H() float32 { return b.Y2 - b.Y1 }

func (b BoundingBox) String() string {
	return fmt.Sprintf("(%.2f, %.2f)-(%.2f, %.2f)", b.X1, b.Y1, b.X2, b.Y2)
}

// ToRect converts the box to an integral image.Rectangle. This loses
// sub-pixel precision, which is fine for drawing and overlap estimates.
func (b BoundingBox) ToRect() image.Rectangle {
	return image.Rect(int(b.X1), int(b.Y1), int(b.X2), int(b.Y2)).Canon()
}

// Intersection returns the overlap area between two boxes in square pixels.
func (b BoundingBox) Intersection(other BoundingBox) float32 {
	ix1 := math32.Max(b.X1, other.X1)
	iy1 := math32.Max(b.Y1, other.Y1)
	ix2 := math32.Min(b.X2, other.X2)
	iy2 := math32.Min(b.Y2, other.Y2)
	if ix2 <= ix1 || iy2 <= iy1 {
		return 0
	}
	return (ix2 - ix1) * (iy2 - iy1)
}

// Union returns the combined area of two boxes in square pixels.
func (b BoundingBox) Union(other BoundingBox) float32 {
	return b.W()*b.H() + other.W()*other.H() - b.Intersection(other)
}

// IoU is the intersection-over-union overlap metric used by non-maximum
// suppression: 1.0 means identical boxes, 0.0 means disjoint.
func (b BoundingBox) IoU(other BoundingBox) float32 {
	union := b.Union(other)
	if union <= 0 {
		return 0
	}
	return b.Intersection(other) / union
}
