package common

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBoxFromXYWH(t *testing.T) {
	b := BoxFromXYWH(10, 20, 100, 50)
	assert.Equal(t, BoundingBox{X1: 10, Y1: 20, X2: 110, Y2: 70}, b)
	assert.EqualValues(t, 100, b.W())
	assert.EqualValues(t, 50, b.H())
}

func TestIoU(t *testing.T) {
	tests := []struct {
		name string
		a, b BoundingBox
		want float32
	}{
		{"identical", BoundingBox{0, 0, 100, 100}, BoundingBox{0, 0, 100, 100}, 1},
		{"disjoint", BoundingBox{0, 0, 100, 100}, BoundingBox{200, 200, 300, 300}, 0},
		{"contained quarter", BoundingBox{0, 0, 100, 100}, BoundingBox{0, 0, 50, 50}, 0.25},
		{"touching", BoundingBox{0, 0, 100, 100}, BoundingBox{100, 0, 200, 100}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, tt.a.IoU(tt.b), 1e-6)
			assert.InDelta(t, tt.want, tt.b.IoU(tt.a), 1e-6, "IoU is symmetric")
		})
	}
}

func TestToRect(t *testing.T) {
	b := BoundingBox{X1: 10.7, Y1: 20.2, X2: 110.9, Y2: 70.5}
	assert.Equal(t, image.Rect(10, 20, 110, 70), b.ToRect())

	// Inverted coordinates are canonicalized, never a negative-size rect.
	inv := BoundingBox{X1: 100, Y1: 100, X2: 0, Y2: 0}
	assert.Equal(t, image.Rect(0, 0, 100, 100), inv.ToRect())
}
