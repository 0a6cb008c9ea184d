package face

import "github.com/camlab-ai/go-campipe/images"

// trackMatchIoU is the overlap above which a face in the current frame is
// considered the same face as one from the previous frame.
const trackMatchIoU = 0.3

// tracker assigns stable tracking IDs by greedy IoU association against the
// previous frame's faces. Only the capability worker touches it.
type tracker struct {
	prev   []Result
	nextID int
}

// assign sets TrackingID on each face: a previous face's ID when the boxes
// overlap enough, a fresh one otherwise. IDs from faces that disappeared
// are never reused.
func (t *tracker) assign(faces []Result) {
	taken := make(map[int]bool, len(t.prev))
	for i := range faces {
		bestIoU := float32(trackMatchIoU)
		bestID := -1
		for _, old := range t.prev {
			if taken[old.TrackingID] {
				continue
			}
			if iou := images.CalculateIoU(faces[i].Box, old.Box); iou >= bestIoU {
				bestIoU = iou
				bestID = old.TrackingID
			}
		}
		if bestID >= 0 {
			faces[i].TrackingID = bestID
			taken[bestID] = true
			continue
		}
		faces[i].TrackingID = t.nextID
		t.nextID++
	}

	t.prev = append(t.prev[:0], faces...)
}
