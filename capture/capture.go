// Package capture defines the boundary to the camera: raw planar frames,
// the Source interface, and a latest-wins mailbox that bounds worst-case
// pipeline latency by dropping frames while the worker is still busy with
// the previous one.
package capture

import (
	"context"

	"github.com/camlab-ai/go-campipe/images"
)

// RawFrame is one sensor frame in its native three-plane layout: a luma
// plane plus two chroma planes, each with its own row stride and, for
// chroma, a shared pixel stride.
//
// A RawFrame is owned by the capture subsystem; the pipeline may read it
// only for the duration of one invocation and must copy anything it needs
// to retain.
type RawFrame struct {
	Y, U, V                   []byte
	YStride, UStride, VStride int
	UVPixelStride             int

	Width, Height int

	// Rotation is the clockwise rotation-to-upright in degrees
	// (0/90/180/270).
	Rotation int

	// Mirror is set for user-facing lenses whose display must be flipped
	// horizontally.
	Mirror bool

	// Seq is a monotonically increasing frame counter per binding.
	Seq uint64
}

// Source produces a stream of raw frames into a mailbox.
type Source interface {
	// Run publishes frames until ctx is canceled or the stream ends. The
	// mailbox applies the keep-only-latest policy; Run never blocks on a
	// slow consumer.
	Run(ctx context.Context, box *Mailbox) error

	// Resolution reports the source's negotiated capture resolution. It may
	// change if the binding is renegotiated, so the pipeline reads each
	// frame's own dimensions and uses this only for labeling.
	Resolution() images.Label
}
