// Package pipeline sequences the per-frame processing stages and owns the
// background worker that drains the capture mailbox: normalize, route to
// one branch (filter, object inference, or face dispatch), publish an
// immutable snapshot, update stats.
package pipeline

import "github.com/pkg/errors"

// Mode selects which branch processes each frame. Exactly one mode is
// active at a time.
type Mode int

const (
	// ModeCamera shows the normalized frame, optionally through a filter.
	ModeCamera Mode = iota
	// ModeObjects runs object detection on the working frame.
	ModeObjects
	// ModeFaces dispatches the frame to the face capability.
	ModeFaces
)

var modeNames = map[Mode]string{
	ModeCamera:  "camera",
	ModeObjects: "objects",
	ModeFaces:   "faces",
}

func (m Mode) String() string {
	if n, ok := modeNames[m]; ok {
		return n
	}
	return "unknown"
}

// ParseMode resolves a mode name from configuration.
func ParseMode(s string) (Mode, error) {
	for m, n := range modeNames {
		if n == s {
			return m, nil
		}
	}
	return ModeCamera, errors.Errorf("unknown mode %q", s)
}

// Branch identifies the stage chosen for one frame.
type Branch int

const (
	// BranchNone is camera mode with the Normal filter: plain passthrough.
	BranchNone Branch = iota
	BranchFilter
	BranchInference
	BranchFace
)

// Route is the pure mode-routing decision. Per frame, exactly one of
// {filter, inference, face} runs, or none at all. hasFilter reports whether
// a non-identity filter is selected.
func Route(m Mode, hasFilter bool) Branch {
	switch m {
	case ModeObjects:
		return BranchInference
	case ModeFaces:
		return BranchFace
	default:
		if hasFilter {
			return BranchFilter
		}
		return BranchNone
	}
}
