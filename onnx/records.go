package onnx

import (
	"encoding/json"

	"github.com/camlab-ai/go-campipe/common"
)

// record is one entry of the capability's self-describing result: an array
// of {label, confidence, box:[x,y,w,h]} records in working-frame pixels.
type record struct {
	Label      string     `json:"label"`
	Confidence float32    `json:"confidence"`
	Box        [4]float32 `json:"box"`
}

// MarshalRecords serializes detections as the capability's wire format.
func MarshalRecords(dets []common.Detection) ([]byte, error) {
	records := make([]record, len(dets))
	for i, d := range dets {
		records[i] = record{
			Label:      d.Label,
			Confidence: d.Confidence,
			Box:        [4]float32{d.Box.X1, d.Box.Y1, d.Box.W(), d.Box.H()},
		}
	}
	return json.Marshal(records)
}
