package images

// Rect is a lightweight bounding box in pixel units.
type Rect struct {
	// X2,Y2 are exclusive (like image.Rectangle).
	X1, Y1, X2, Y2 int
}

// RectFromXYWH builds a Rect from a top-left corner and a size.
func RectFromXYWH(x, y, w, h int) Rect {
	return Rect{X1: x, Y1: y, X2: x + w, Y2: y + h}
}

// W returns the rectangle width.
func (r Rect) W() int { return r.X2 - r.X1 }

// H returns the rectangle height.
func (r Rect) H() int { return r.Y2 - r.Y1 }

// CalculateIoU measures the extent of overlap between two rectangles as
// intersection area over union area: 1.0 means identical, 0.0 means
// disjoint. Used by non-maximum suppression and by the face tracker to
// decide whether two boxes describe the same object.
func CalculateIoU(r, o Rect) float32 {
	// The intersection starts where both rectangles have begun and ends as
	// soon as the first one ends.
	ix1 := max(r.X1, o.X1)
	iy1 := max(r.Y1, o.Y1)
	ix2 := min(r.X2, o.X2)
	iy2 := min(r.Y2, o.Y2)

	interW := ix2 - ix1
	interH := iy2 - iy1
	if interW <= 0 || interH <= 0 {
		return 0.0
	}
	interArea := interW * interH

	// Inclusion-exclusion: Union(A, B) = Area(A) + Area(B) - Intersection(A, B).
	areaR := (r.X2 - r.X1) * (r.Y2 - r.Y1)
	areaO := (o.X2 - o.X1) * (o.Y2 - o.Y1)
	union := areaR + areaO - interArea
	if union <= 0 {
		return 0.0
	}

	return float32(interArea) / float32(union)
}
