package images

import (
	"image"
	"image/draw"
	"math"

	"github.com/nfnt/resize"
	"github.com/pkg/errors"
)

// ScaledDims computes the working dimensions for a downsample to
// targetWidth: the height is always derived from the exact source aspect
// ratio, never hardcoded.
func ScaledDims(srcWidth, srcHeight, targetWidth int) (int, int, error) {
	if srcWidth <= 0 || srcHeight <= 0 {
		return 0, 0, errors.Errorf("invalid source dimensions %dx%d", srcWidth, srcHeight)
	}
	if targetWidth <= 0 {
		return 0, 0, errors.Errorf("target width must be positive, got %d", targetWidth)
	}
	h := int(math.Round(float64(targetWidth) * float64(srcHeight) / float64(srcWidth)))
	if h < 1 {
		h = 1
	}
	return targetWidth, h, nil
}

// ScaleToWidth downsamples src into dst, which must be sized via ScaledDims.
// Bilinear is enough for an inference input and keeps the per-frame cost
// predictable.
func ScaleToWidth(src *Frame, targetWidth int, dst *Frame) error {
	w, h, err := ScaledDims(src.Width, src.Height, targetWidth)
	if err != nil {
		return err
	}
	if dst.Width != w || dst.Height != h {
		return errors.Errorf("destination frame is %dx%d, want %dx%d", dst.Width, dst.Height, w, h)
	}

	resized := resize.Resize(uint(w), uint(h), src.RGBA(), resize.Bilinear)
	draw.Draw(dst.RGBA(), image.Rect(0, 0, w, h), resized, image.Point{}, draw.Src)
	return nil
}
