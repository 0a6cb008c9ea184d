// Package face wraps the asynchronous face-detection capability. Detection
// runs on the capability's own schedule: the pipeline dispatches a request
// and moves on, and results rejoin shared state through the callback, which
// may lag the frame that triggered them by one or more iterations.
package face

import "github.com/camlab-ai/go-campipe/images"

// Result is one detected face. Box is in the coordinate space of the
// upright image the capability derives from the request (see Request), and
// TrackingID is the capability's identity hint, carried through but never
// interpreted by the pipeline.
type Result struct {
	Box        images.Rect
	Quality    float32
	TrackingID int
}

// Request carries the camera-native luma plane, un-rotated and un-mirrored,
// plus its rotation-to-upright. The capability rotates internally and
// reports boxes in the upright space; the resolution label passed to the
// callback names that space, and it is the authoritative source resolution
// for mapping face boxes onto the display.
//
// Gray must be tightly packed (stride == width) and owned by the request:
// the dispatcher keeps it past the call.
type Request struct {
	Gray          []uint8
	Width, Height int
	Rotation      int

	// Epoch tags the pipeline binding/mode generation that produced the
	// request, so late results from a superseded generation can be dropped.
	Epoch uint64
}

// Callback delivers a completed detection on the capability's schedule.
// upright names the coordinate space of the result boxes.
type Callback func(epoch uint64, upright images.Label, faces []Result)

// Detector is the face-detection capability boundary.
type Detector interface {
	// Dispatch hands a frame to the capability without blocking. Returns
	// false when the capability is still busy with a previous frame, in
	// which case this frame simply produces no face result.
	Dispatch(req Request) bool

	// Close stops the capability. Requests in flight are discarded; the
	// callback is never invoked after Close returns.
	Close() error
}
