// Package history records the directions a robot moved on its way out, so the
// path can be retraced back home.
package history

import (
	"errors"
	"fmt"

	"github.com/beka-birhanu/gridbot/world"
)

const (
	// DefaultCapacity is the number of moves remembered by default.
	DefaultCapacity = 100
	// MaxCapacity is the largest buffer New accepts.
	MaxCapacity = 10000
)

var ErrInvalidCapacity = errors.New("history capacity out of range")

// Buffer is a bounded FIFO of directions. When full, pushing a new entry
// evicts the oldest one. It is a ring buffer: entries never move in memory.
type Buffer struct {
	entries []world.Direction
	head    int // index of the oldest entry
	count   int
	evicted int // entries lost to eviction since the last Reset
}

// New creates an empty buffer holding at most capacity entries.
func New(capacity int) (*Buffer, error) {
	if capacity <= 0 || capacity > MaxCapacity {
		return nil, fmt.Errorf("%w: %d not in [1, %d]", ErrInvalidCapacity, capacity, MaxCapacity)
	}
	return &Buffer{entries: make([]world.Direction, capacity)}, nil
}

// Push appends d as the newest entry. It reports whether the oldest entry
// had to be evicted to make room.
func (b *Buffer) Push(d world.Direction) (bool, error) {
	if !d.Valid() {
		return false, fmt.Errorf("push %s: %w", d, world.ErrInvalidDirection)
	}

	if b.count == len(b.entries) {
		b.entries[b.head] = d
		b.head = (b.head + 1) % len(b.entries)
		b.evicted++
		return true, nil
	}

	b.entries[(b.head+b.count)%len(b.entries)] = d
	b.count++
	return false, nil
}

// PopForReturn removes and returns the most recent entry. The second result is
// false when the buffer is empty.
func (b *Buffer) PopForReturn() (world.Direction, bool) {
	if b.count == 0 {
		return 0, false
	}
	b.count--
	return b.entries[(b.head+b.count)%len(b.entries)], true
}

// Len returns the number of stored entries.
func (b *Buffer) Len() int {
	return b.count
}

// Cap returns the maximum number of stored entries.
func (b *Buffer) Cap() int {
	return len(b.entries)
}

// Evicted returns how many entries were dropped since the last Reset. A
// non-zero value means the stored trail no longer reaches its start.
func (b *Buffer) Evicted() int {
	return b.evicted
}

// Entries returns the stored directions from oldest to newest.
func (b *Buffer) Entries() []world.Direction {
	out := make([]world.Direction, b.count)
	for i := range out {
		out[i] = b.entries[(b.head+i)%len(b.entries)]
	}
	return out
}

// Reset empties the buffer and clears the eviction count.
func (b *Buffer) Reset() {
	b.head, b.count, b.evicted = 0, 0, 0
}
