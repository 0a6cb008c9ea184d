package images

import (
	"math"
	"testing"
)

func TestCalculateIoU(t *testing.T) {
	tests := []struct {
		name     string
		r1       Rect
		r2       Rect
		expected float32
	}{
		{"identical", Rect{0, 0, 100, 100}, Rect{0, 0, 100, 100}, 1.0},
		{"disjoint", Rect{0, 0, 100, 100}, Rect{200, 200, 300, 300}, 0.0},
		{"touching edges", Rect{0, 0, 100, 100}, Rect{100, 0, 200, 100}, 0.0},
		// intersection=2500, union=17500
		{"half overlap", Rect{0, 0, 100, 100}, Rect{50, 50, 150, 150}, 0.142857},
		// intersection=2500, union=10000
		{"contained", Rect{0, 0, 100, 100}, Rect{25, 25, 75, 75}, 0.25},
	}

	const epsilon = 0.001
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateIoU(tt.r1, tt.r2)
			if math.Abs(float64(got-tt.expected)) > epsilon {
				t.Errorf("CalculateIoU() = %v, expected %v", got, tt.expected)
			}

			// IoU(A, B) must equal IoU(B, A).
			if rev := CalculateIoU(tt.r2, tt.r1); math.Abs(float64(got-rev)) > epsilon {
				t.Errorf("not symmetric: %v != %v", got, rev)
			}
		})
	}
}

func TestRectFromXYWH(t *testing.T) {
	r := RectFromXYWH(10, 20, 30, 40)
	if r.X1 != 10 || r.Y1 != 20 || r.X2 != 40 || r.Y2 != 60 {
		t.Errorf("unexpected rect %+v", r)
	}
	if r.W() != 30 || r.H() != 40 {
		t.Errorf("unexpected size %dx%d", r.W(), r.H())
	}
}
