package pipeline

import (
	"github.com/camlab-ai/go-campipe/common"
	"github.com/camlab-ai/go-campipe/images"
	"github.com/camlab-ai/go-campipe/stats"
	"github.com/tidwall/gjson"
)

// Snapshot is one completed pipeline iteration's publication to the
// presentation layer. Everything in it is a copy: the worker never touches
// a snapshot after handing it off, so presentation can read it on its own
// schedule without observing a buffer mid-rewrite.
type Snapshot struct {
	// Image is the display-ready frame, owned by the snapshot.
	Image *images.Frame

	// Detections is the most recently completed detection set, in the
	// coordinate space named by WorkingResolution.
	Detections []common.Detection

	// CaptureResolution is the source's negotiated resolution for this
	// frame; WorkingResolution names the space the detections (and the
	// display image) are expressed in.
	CaptureResolution images.Label
	WorkingResolution images.Label

	// Mirror tells the overlay to reflect box x-coordinates.
	Mirror bool

	Stats stats.Stats
	Seq   uint64
}

// parseDetections decodes the inference capability's self-describing JSON
// records. Malformed payloads or records with missing fields are treated as
// zero detections for the frame, never as a fatal error.
func parseDetections(payload []byte) []common.Detection {
	if len(payload) == 0 || !gjson.ValidBytes(payload) {
		return nil
	}
	parsed := gjson.ParseBytes(payload)
	if !parsed.IsArray() {
		return nil
	}

	var dets []common.Detection
	for _, rec := range parsed.Array() {
		label := rec.Get("label")
		confidence := rec.Get("confidence")
		box := rec.Get("box")
		if !label.Exists() || !confidence.Exists() || !box.Exists() {
			continue
		}
		coords := box.Array()
		if len(coords) != 4 {
			continue
		}
		dets = append(dets, common.Detection{
			Label:      label.String(),
			Confidence: float32(confidence.Float()),
			Box: common.BoxFromXYWH(
				float32(coords[0].Float()),
				float32(coords[1].Float()),
				float32(coords[2].Float()),
				float32(coords[3].Float()),
			),
			TrackingID: common.NoTrackingID,
		})
	}
	return dets
}
