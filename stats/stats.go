// Package stats tracks rolling pipeline performance: an exponentially
// smoothed frame rate and the last iteration's latency.
package stats

import (
	"sync"
	"time"
)

// smoothing is the EMA weight kept from the previous frame-rate estimate.
const smoothing = 0.9

// Stats is an immutable reading, safe to hand to the presentation layer.
type Stats struct {
	FramesPerSecond   float32
	LastLatencyMillis int64
}

// Tracker is written by the pipeline worker once per iteration and read by
// presentation on its own schedule.
type Tracker struct {
	mu      sync.Mutex
	fps     float32
	latency int64
	lastEnd time.Time
}

// New creates an idle tracker.
func New() *Tracker {
	return &Tracker{}
}

// Observe records one completed pipeline iteration. The frame rate is
// smoothed over the gap between consecutive iteration ends and only updated
// for strictly positive gaps, which guards against clock non-monotonicity
// and division by zero.
func (t *Tracker) Observe(start, end time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.latency = end.Sub(start).Milliseconds()

	if !t.lastEnd.IsZero() {
		gap := end.Sub(t.lastEnd).Milliseconds()
		if gap > 0 {
			t.fps = smoothing*t.fps + (1-smoothing)*(1000/float32(gap))
		}
	}
	t.lastEnd = end
}

// Snapshot returns the current reading.
func (t *Tracker) Snapshot() Stats {
	t.mu.Lock()
	defer t.mu.Unlock()
	return Stats{FramesPerSecond: t.fps, LastLatencyMillis: t.latency}
}

// Reset clears the tracker, as on rebind.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.fps = 0
	t.latency = 0
	t.lastEnd = time.Time{}
}
