package capture

import "sync"

// Mailbox is a single-slot frame buffer with overwrite-on-publish
// semantics: there is never a queue of pending frames. A frame published
// while the previous one is still unconsumed silently replaces it, which
// bounds worst-case latency at the cost of skipped frames under load.
//
// Publish is called by the capture source; Next must be called from a
// single consumer goroutine.
type Mailbox struct {
	mu   sync.Mutex
	cond *sync.Cond

	frame  *RawFrame // nil = consumed
	closed bool

	published uint64
	consumed  uint64
	dropped   uint64
}

// NewMailbox creates an empty mailbox.
func NewMailbox() *Mailbox {
	m := &Mailbox{}
	m.cond = sync.NewCond(&m.mu)
	return m
}

// Publish places a frame in the slot, replacing any unconsumed previous
// frame, and wakes the consumer. Never blocks. Publishing to a closed
// mailbox is a no-op.
func (m *Mailbox) Publish(f *RawFrame) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return
	}
	if m.frame != nil {
		m.dropped++
	}
	m.frame = f
	m.published++
	m.cond.Signal()
}

// Next blocks until a frame is available or the mailbox is closed, in which
// case it returns nil. The returned frame is the most recently published
// one; anything older has already been dropped.
func (m *Mailbox) Next() *RawFrame {
	m.mu.Lock()
	defer m.mu.Unlock()

	for m.frame == nil && !m.closed {
		m.cond.Wait()
	}
	if m.frame == nil {
		return nil
	}
	f := m.frame
	m.frame = nil
	m.consumed++
	return f
}

// Close wakes the consumer and makes all future Next calls return nil. Any
// unconsumed frame is discarded.
func (m *Mailbox) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	m.frame = nil
	m.cond.Broadcast()
}

// Counters reports lifetime published, consumed and dropped frame counts.
func (m *Mailbox) Counters() (published, consumed, dropped uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.published, m.consumed, m.dropped
}
