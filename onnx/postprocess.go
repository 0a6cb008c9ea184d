package onnx

import (
	"sort"

	"github.com/camlab-ai/go-campipe/common"
)

// DecodeOutput parses a YOLO-family output tensor into detections in the
// working frame's pixel space. Both tensor layouts are handled:
// [1, 4+numClasses, N] (attributes first) and [1, N, 4+numClasses]. Each
// anchor carries a center-format box in model-input units plus one score
// per class; scaleX/scaleY map boxes back to the frame that was resized
// into the model input.
//
// Only anchors whose best class is in active and whose score passes conf
// survive. An unexpected shape yields zero detections, never an error: a
// malformed result costs one frame of boxes, not the stream.
func DecodeOutput(data []float32, shape []int64, labels []string, conf float32, active map[int]bool, scaleX, scaleY float32) []common.Detection {
	if len(shape) != 3 || shape[0] != 1 {
		return nil
	}
	attrs := int64(4 + len(labels))

	var anchors int
	var attrFirst bool
	switch {
	case shape[1] == attrs:
		anchors = int(shape[2])
		attrFirst = true
	case shape[2] == attrs:
		anchors = int(shape[1])
	default:
		return nil
	}
	if int64(len(data)) < shape[1]*shape[2] {
		return nil
	}

	at := func(anchor, attr int) float32 {
		if attrFirst {
			return data[attr*anchors+anchor]
		}
		return data[anchor*int(attrs)+attr]
	}

	var dets []common.Detection
	for a := 0; a < anchors; a++ {
		best := -1
		var bestScore float32
		for c := 0; c < len(labels); c++ {
			score := at(a, 4+c)
			if best < 0 || score > bestScore {
				bestScore = score
				best = c
			}
		}
		if best < 0 || bestScore < conf {
			continue
		}
		if active != nil && !active[best] {
			continue
		}

		cx, cy := at(a, 0), at(a, 1)
		w, h := at(a, 2), at(a, 3)
		dets = append(dets, common.Detection{
			Label:      labels[best],
			Confidence: bestScore,
			Box: common.BoxFromXYWH(
				(cx-w/2)*scaleX,
				(cy-h/2)*scaleY,
				w*scaleX,
				h*scaleY,
			),
			TrackingID: common.NoTrackingID,
		})
	}
	return dets
}

// NonMaxSuppression greedily keeps the highest-confidence detection and
// drops any lower-confidence box of the same class that overlaps it beyond
// the IoU threshold.
func NonMaxSuppression(dets []common.Detection, iouThreshold float32) []common.Detection {
	if len(dets) == 0 {
		return nil
	}

	sort.SliceStable(dets, func(i, j int) bool {
		return dets[i].Confidence > dets[j].Confidence
	})

	kept := make([]common.Detection, 0, len(dets))
	used := make([]bool, len(dets))
	for i := range dets {
		if used[i] {
			continue
		}
		kept = append(kept, dets[i])
		used[i] = true
		for j := i + 1; j < len(dets); j++ {
			if used[j] || dets[i].Label != dets[j].Label {
				continue
			}
			if dets[i].Box.IoU(dets[j].Box) > iouThreshold {
				used[j] = true
			}
		}
	}
	return kept
}
