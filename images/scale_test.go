package images

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScaledDims(t *testing.T) {
	tests := []struct {
		name         string
		srcW, srcH   int
		target       int
		wantW, wantH int
		wantErr      bool
	}{
		{"16:9 to 640", 1280, 720, 640, 640, 360, false},
		{"4:3 to 640", 1600, 1200, 640, 640, 480, false},
		{"portrait", 720, 1280, 360, 360, 640, false},
		{"rounding", 1920, 1080, 500, 500, 281, false},
		{"upscale allowed", 320, 240, 640, 640, 480, false},
		{"degenerate source", 0, 720, 640, 0, 0, true},
		{"zero target", 1280, 720, 0, 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h, err := ScaledDims(tt.srcW, tt.srcH, tt.target)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantW, w)
			assert.Equal(t, tt.wantH, h)
		})
	}
}

func TestScaleToWidth(t *testing.T) {
	// Uniform gray source: every output pixel must stay that gray no matter
	// where the kernel samples.
	src := NewFrame(8, 4)
	for i := 0; i < len(src.Pix); i += 4 {
		src.Pix[i], src.Pix[i+1], src.Pix[i+2], src.Pix[i+3] = 100, 100, 100, 255
	}

	dst := NewFrame(4, 2)
	require.NoError(t, ScaleToWidth(src, 4, dst))
	for i := 0; i < len(dst.Pix); i += 4 {
		assert.InDelta(t, 100, dst.Pix[i], 1)
		assert.InDelta(t, 100, dst.Pix[i+1], 1)
		assert.InDelta(t, 100, dst.Pix[i+2], 1)
	}
}

func TestScaleToWidth_DestinationMismatch(t *testing.T) {
	src := NewFrame(8, 4)
	dst := NewFrame(4, 4)
	assert.Error(t, ScaleToWidth(src, 4, dst))
}
