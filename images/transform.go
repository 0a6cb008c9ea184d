package images

import "github.com/pkg/errors"

// OrientedDims returns the dimensions of a width x height frame after
// rotating by the given canonical angle: 90 and 270 swap width and height.
func OrientedDims(width, height, rotation int) (int, int) {
	if rotation == 90 || rotation == 270 {
		return height, width
	}
	return width, height
}

// Orient writes the upright, viewer-correct version of src into dst:
// a clockwise rotation by the frame's rotation-to-upright value, then a
// horizontal flip when the capture stream is mirrored (user-facing lens).
//
// Only the canonical rotations 0/90/180/270 are supported; anything else is
// an error and the caller abandons the frame. dst must already have the
// post-rotation dimensions (see OrientedDims) and must not alias src.
func Orient(src *Frame, rotation int, mirror bool, dst *Frame) error {
	switch rotation {
	case 0, 90, 180, 270:
	default:
		return errors.Errorf("unsupported rotation %d, want 0/90/180/270", rotation)
	}
	ow, oh := OrientedDims(src.Width, src.Height, rotation)
	if dst.Width != ow || dst.Height != oh {
		return errors.Errorf("destination frame is %dx%d, want %dx%d", dst.Width, dst.Height, ow, oh)
	}
	if &dst.Pix[0] == &src.Pix[0] {
		return errors.New("rotation cannot run in place")
	}

	sw, sh := src.Width, src.Height
	for y := 0; y < oh; y++ {
		for x := 0; x < ow; x++ {
			var sx, sy int
			switch rotation {
			case 0:
				sx, sy = x, y
			case 90: // clockwise: dst(x,y) reads src(y, H-1-x)
				sx, sy = y, sh-1-x
			case 180:
				sx, sy = sw-1-x, sh-1-y
			case 270: // counter-clockwise: dst(x,y) reads src(W-1-y, x)
				sx, sy = sw-1-y, x
			}
			di := (y*ow + x) * 4
			si := (sy*sw + sx) * 4
			copy(dst.Pix[di:di+4], src.Pix[si:si+4])
		}
	}

	if mirror {
		MirrorH(dst)
	}
	return nil
}

// MirrorH flips the frame horizontally in place.
func MirrorH(f *Frame) {
	w := f.Width
	for y := 0; y < f.Height; y++ {
		row := f.Pix[y*w*4 : (y+1)*w*4]
		for x := 0; x < w/2; x++ {
			l := x * 4
			r := (w - 1 - x) * 4
			for i := 0; i < 4; i++ {
				row[l+i], row[r+i] = row[r+i], row[l+i]
			}
		}
	}
}

// MirrorGray flips an 8-bit single-channel image horizontally in place.
// The face capability uses this for luma planes.
func MirrorGray(pix []uint8, width, height int) {
	for y := 0; y < height; y++ {
		row := pix[y*width : (y+1)*width]
		for x := 0; x < width/2; x++ {
			row[x], row[width-1-x] = row[width-1-x], row[x]
		}
	}
}

// OrientGray rotates an 8-bit single-channel image by a canonical angle,
// returning a new buffer with swapped dimensions for 90/270.
func OrientGray(pix []uint8, width, height, rotation int) ([]uint8, int, int, error) {
	switch rotation {
	case 0:
		out := make([]uint8, len(pix))
		copy(out, pix)
		return out, width, height, nil
	case 90, 180, 270:
	default:
		return nil, 0, 0, errors.Errorf("unsupported rotation %d, want 0/90/180/270", rotation)
	}

	ow, oh := OrientedDims(width, height, rotation)
	out := make([]uint8, len(pix))
	for y := 0; y < oh; y++ {
		for x := 0; x < ow; x++ {
			var sx, sy int
			switch rotation {
			case 90:
				sx, sy = y, height-1-x
			case 180:
				sx, sy = width-1-x, height-1-y
			case 270:
				sx, sy = width-1-y, x
			}
			out[y*ow+x] = pix[sy*width+sx]
		}
	}
	return out, ow, oh, nil
}
