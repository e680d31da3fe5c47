// Package pool provides a reusable byte-buffer pool. dictionary.Builder
// assembles the dictionary text it saves in a pooled Buffer.
//
// Adapted from the byte-buffer pool in github.com/arloliu/mebo's
// internal/pool package; the growth strategy and API shape are kept, the
// size classes are retuned for bit-packed Package payloads instead of
// columnar time-series blobs.
package pool

import "sync"

// DefaultSize is the default capacity handed out by the package pool,
// large enough to hold one macro-region's worth of Block/Delta output
// without a reallocation in the common case.
const DefaultSize = 1024

// Buffer is a growable byte slice that supports being reset and reused.
type Buffer struct {
	B []byte
}

// NewBuffer creates a Buffer with the given initial capacity.
func NewBuffer(capacity int) *Buffer {
	return &Buffer{B: make([]byte, 0, capacity)}
}

// Bytes returns the buffer's current contents.
func (b *Buffer) Bytes() []byte { return b.B }

// Len returns the number of bytes currently held.
func (b *Buffer) Len() int { return len(b.B) }

// Reset empties the buffer while retaining its backing array.
func (b *Buffer) Reset() { b.B = b.B[:0] }

// AppendByte appends a single byte, growing the backing array if needed.
func (b *Buffer) AppendByte(v byte) { b.B = append(b.B, v) }

// Write appends p to the buffer, growing it as needed, and implements
// io.Writer so a Buffer can be passed directly to fmt.Fprintf and friends.
func (b *Buffer) Write(p []byte) (int, error) {
	b.Grow(len(p))
	b.B = append(b.B, p...)
	return len(p), nil
}

// Grow ensures the buffer can hold extraBytes more bytes without a
// reallocation, using an additive-then-proportional growth strategy.
func (b *Buffer) Grow(extraBytes int) {
	available := cap(b.B) - len(b.B)
	if available >= extraBytes {
		return
	}

	growBy := DefaultSize
	if cap(b.B) > 4*DefaultSize {
		growBy = cap(b.B) / 4
	}
	if growBy < extraBytes {
		growBy = extraBytes
	}

	next := make([]byte, len(b.B), len(b.B)+growBy)
	copy(next, b.B)
	b.B = next
}

var bufferPool = sync.Pool{
	New: func() any { return NewBuffer(DefaultSize) },
}

// Get retrieves a reset Buffer from the pool.
func Get() *Buffer {
	buf, _ := bufferPool.Get().(*Buffer)
	buf.Reset()
	return buf
}

// Put returns a Buffer to the pool.
func Put(b *Buffer) {
	bufferPool.Put(b)
}
