package images

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// frameFromGrid builds a frame whose pixel (x,y) has R = grid[y][x], with
// G/B zero and A 255, so rotations can be checked by a single channel.
func frameFromGrid(grid [][]uint8) *Frame {
	h := len(grid)
	w := len(grid[0])
	f := NewFrame(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := (y*w + x) * 4
			f.Pix[i] = grid[y][x]
			f.Pix[i+3] = 255
		}
	}
	return f
}

func gridFromFrame(f *Frame) [][]uint8 {
	grid := make([][]uint8, f.Height)
	for y := 0; y < f.Height; y++ {
		grid[y] = make([]uint8, f.Width)
		for x := 0; x < f.Width; x++ {
			grid[y][x] = f.Pix[(y*f.Width+x)*4]
		}
	}
	return grid
}

func TestOrientedDims(t *testing.T) {
	tests := []struct {
		rotation     int
		wantW, wantH int
	}{
		{0, 1280, 720},
		{90, 720, 1280},
		{180, 1280, 720},
		{270, 720, 1280},
	}
	for _, tt := range tests {
		w, h := OrientedDims(1280, 720, tt.rotation)
		assert.Equal(t, tt.wantW, w, "rotation %d width", tt.rotation)
		assert.Equal(t, tt.wantH, h, "rotation %d height", tt.rotation)
	}
}

func TestOrient_Rotations(t *testing.T) {
	// 2x2 source:
	//   A B
	//   C D
	src := frameFromGrid([][]uint8{
		{'A', 'B'},
		{'C', 'D'},
	})

	tests := []struct {
		name     string
		rotation int
		want     [][]uint8
	}{
		{"identity", 0, [][]uint8{{'A', 'B'}, {'C', 'D'}}},
		{"clockwise 90", 90, [][]uint8{{'C', 'A'}, {'D', 'B'}}},
		{"half turn", 180, [][]uint8{{'D', 'C'}, {'B', 'A'}}},
		{"clockwise 270", 270, [][]uint8{{'B', 'D'}, {'A', 'C'}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ow, oh := OrientedDims(src.Width, src.Height, tt.rotation)
			dst := NewFrame(ow, oh)
			require.NoError(t, Orient(src, tt.rotation, false, dst))
			assert.Equal(t, tt.want, gridFromFrame(dst))
		})
	}
}

func TestOrient_NonSquare(t *testing.T) {
	// 3x2 source rotated clockwise becomes 2x3 with the left column on top.
	src := frameFromGrid([][]uint8{
		{1, 2, 3},
		{4, 5, 6},
	})
	dst := NewFrame(2, 3)
	require.NoError(t, Orient(src, 90, false, dst))
	assert.Equal(t, [][]uint8{{4, 1}, {5, 2}, {6, 3}}, gridFromFrame(dst))
}

func TestOrient_180TwiceIsIdentity(t *testing.T) {
	src := frameFromGrid([][]uint8{
		{1, 2, 3},
		{4, 5, 6},
	})
	once := NewFrame(3, 2)
	twice := NewFrame(3, 2)
	require.NoError(t, Orient(src, 180, false, once))
	require.NoError(t, Orient(once, 180, false, twice))
	assert.Equal(t, src.Pix, twice.Pix)
}

func TestOrient_Mirror(t *testing.T) {
	src := frameFromGrid([][]uint8{
		{1, 2, 3},
		{4, 5, 6},
	})
	dst := NewFrame(3, 2)
	require.NoError(t, Orient(src, 0, true, dst))
	assert.Equal(t, [][]uint8{{3, 2, 1}, {6, 5, 4}}, gridFromFrame(dst))

	// Mirroring twice restores the original.
	MirrorH(dst)
	assert.Equal(t, src.Pix, dst.Pix)
}

func TestOrient_Errors(t *testing.T) {
	src := NewFrame(4, 2)

	t.Run("unsupported angle", func(t *testing.T) {
		dst := NewFrame(4, 2)
		assert.Error(t, Orient(src, 45, false, dst))
	})
	t.Run("wrong destination dimensions", func(t *testing.T) {
		dst := NewFrame(4, 2)
		assert.Error(t, Orient(src, 90, false, dst))
	})
	t.Run("in place", func(t *testing.T) {
		assert.Error(t, Orient(src, 0, false, src))
	})
}

func TestOrientGray(t *testing.T) {
	pix := []uint8{
		1, 2, 3,
		4, 5, 6,
	}
	out, w, h, err := OrientGray(pix, 3, 2, 90)
	require.NoError(t, err)
	assert.Equal(t, 2, w)
	assert.Equal(t, 3, h)
	assert.Equal(t, []uint8{4, 1, 5, 2, 6, 3}, out)

	_, _, _, err = OrientGray(pix, 3, 2, 30)
	assert.Error(t, err)
}

func TestMirrorGray(t *testing.T) {
	pix := []uint8{1, 2, 3, 4, 5, 6}
	MirrorGray(pix, 3, 2)
	assert.Equal(t, []uint8{3, 2, 1, 6, 5, 4}, pix)
}
