package exec

import (
	"bytes"
	"sync"
)

// boundedBuffer collects one output stream of a child process.
//
// It keeps at most limit bytes. Writes never fail: once the cap is reached
// further chunks are counted as overflow and discarded so the child can keep
// writing until it exits. onOverflow runs once, on the first discarded chunk.
type boundedBuffer struct {
	mu         sync.Mutex
	buf        bytes.Buffer
	limit      int
	overflowed bool
	onOverflow func()
}

// newBoundedBuffer creates a buffer capped at limit bytes.
// A limit of zero or less means unbounded.
func newBoundedBuffer(limit int, onOverflow func()) *boundedBuffer {
	return &boundedBuffer{
		limit:      limit,
		onOverflow: onOverflow,
	}
}

// Write appends p, truncating at the cap.
func (b *boundedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	if b.limit <= 0 || b.buf.Len()+len(p) <= b.limit {
		b.buf.Write(p)
		b.mu.Unlock()
		return len(p), nil
	}

	if remaining := b.limit - b.buf.Len(); remaining > 0 {
		b.buf.Write(p[:remaining])
	}
	first := !b.overflowed
	b.overflowed = true
	b.mu.Unlock()

	if first && b.onOverflow != nil {
		b.onOverflow()
	}
	return len(p), nil
}

// String returns the collected output.
func (b *boundedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// Overflowed reports whether any output was discarded.
func (b *boundedBuffer) Overflowed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.overflowed
}
