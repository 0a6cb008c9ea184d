package images

import (
	"image"
	"sync"
)

// Frame is a packed RGBA image. Frames that come out of a Pool are owned by
// that pool slot and overwritten every iteration; callers that need to keep
// pixels past one iteration must Clone.
type Frame struct {
	Pix    []uint8 // 4 bytes per pixel, row-major, no padding
	Width  int
	Height int
}

// NewFrame allocates a frame of the given dimensions.
func NewFrame(width, height int) *Frame {
	return &Frame{
		Pix:    make([]uint8, width*height*4),
		Width:  width,
		Height: height,
	}
}

// Label returns the frame's dimensions as a resolution label.
func (f *Frame) Label() Label {
	return FormatLabel(f.Width, f.Height)
}

// RGBA wraps the frame's pixels in an image.RGBA without copying. Mutating
// the returned image mutates the frame.
func (f *Frame) RGBA() *image.RGBA {
	return &image.RGBA{
		Pix:    f.Pix,
		Stride: f.Width * 4,
		Rect:   image.Rect(0, 0, f.Width, f.Height),
	}
}

// Clone returns an independent copy of the frame.
func (f *Frame) Clone() *Frame {
	out := NewFrame(f.Width, f.Height)
	copy(out.Pix, f.Pix)
	return out
}

// Slot names one long-lived buffer inside a Pool. Each pipeline stage writes
// into its own slot, so a frame is never read from the buffer it is being
// written to.
type Slot string

// The pipeline's stage slots.
const (
	SlotConverted  Slot = "converted"  // color-converted, still sensor-oriented
	SlotNormalized Slot = "normalized" // upright, mirror-corrected display frame
	SlotWorking    Slot = "working"    // downsampled inference frame
)

// Pool owns a small set of reusable frames keyed by stage slot, so steady
// state processing allocates nothing per frame. Buffers are resized when a
// stage's dimensions change (rebind, rotation swap, mode switch) and dropped
// on Release.
//
// Only the pipeline worker writes to pooled frames; the mutex exists so that
// Release during teardown cannot race a concurrent Get.
type Pool struct {
	mu    sync.Mutex
	slots map[Slot]*Frame
}

// NewPool creates an empty pool.
func NewPool() *Pool {
	return &Pool{slots: make(map[Slot]*Frame)}
}

// Get returns the slot's buffer sized to width x height, reallocating only
// when the dimensions changed since the previous frame.
func (p *Pool) Get(slot Slot, width, height int) *Frame {
	p.mu.Lock()
	defer p.mu.Unlock()

	f, ok := p.slots[slot]
	if !ok || f.Width != width || f.Height != height {
		f = NewFrame(width, height)
		p.slots[slot] = f
	}
	return f
}

// Release drops every buffer. Called on unbind; subsequent Gets reallocate.
func (p *Pool) Release() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.slots = make(map[Slot]*Frame)
}

// Len reports how many slots currently hold a buffer.
func (p *Pool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.slots)
}
