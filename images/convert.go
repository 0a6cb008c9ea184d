package images

import "github.com/pkg/errors"

// ConvertYUV420 converts three-plane YUV_420_888 sensor data into packed
// RGBA, writing into dst. Each plane carries its own row stride, and the
// chroma planes share a pixel stride, so both the tightly packed (I420,
// pixel stride 1) and the semi-planar (NV-style, pixel stride 2) layouts are
// handled. Strides may exceed the logical row width and are honored, never
// assumed equal to width.
//
// The conversion uses BT.601 studio-swing coefficients, matching what the
// sensor stack produces for YUV_420_888.
func ConvertYUV420(y []byte, yStride int, u []byte, uStride int, v []byte, vStride int, uvPixelStride, width, height int, dst *Frame) error {
	if width <= 0 || height <= 0 {
		return errors.Errorf("invalid frame dimensions %dx%d", width, height)
	}
	if yStride < width || uStride < width/2 || vStride < width/2 {
		return errors.Errorf("plane stride smaller than row width (y=%d u=%d v=%d, width=%d)",
			yStride, uStride, vStride, width)
	}
	if uvPixelStride < 1 {
		return errors.Errorf("invalid chroma pixel stride %d", uvPixelStride)
	}
	if len(y) < (height-1)*yStride+width {
		return errors.Errorf("luma plane too short: have %d bytes", len(y))
	}
	// The pixel loop reads chroma row row/2 and column (col/2)*pixelStride,
	// so the last indices touched are (height-1)/2 and ((width-1)/2)*stride.
	// For odd dimensions those are one past height/2-1 and width/2-1.
	chromaRowMin := ((width-1)/2)*uvPixelStride + 1
	lastChromaRow := (height - 1) / 2
	if len(u) < lastChromaRow*uStride+chromaRowMin || len(v) < lastChromaRow*vStride+chromaRowMin {
		return errors.Errorf("chroma plane too short: have u=%d v=%d bytes", len(u), len(v))
	}
	if dst.Width != width || dst.Height != height {
		return errors.Errorf("destination frame is %dx%d, want %dx%d",
			dst.Width, dst.Height, width, height)
	}

	for row := 0; row < height; row++ {
		yRow := y[row*yStride:]
		uRow := u[(row/2)*uStride:]
		vRow := v[(row/2)*vStride:]
		out := dst.Pix[row*width*4:]

		for col := 0; col < width; col++ {
			ci := (col / 2) * uvPixelStride

			// BT.601: expand studio swing, then mix chroma in.
			c := (int(yRow[col]) - 16) * 298
			d := int(uRow[ci]) - 128
			e := int(vRow[ci]) - 128

			r := (c + 409*e + 128) >> 8
			g := (c - 100*d - 208*e + 128) >> 8
			b := (c + 516*d + 128) >> 8

			pi := col * 4
			out[pi] = clampU8(r)
			out[pi+1] = clampU8(g)
			out[pi+2] = clampU8(b)
			out[pi+3] = 255
		}
	}
	return nil
}

func clampU8(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
