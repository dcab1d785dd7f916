// Package payload implements the bounded, append-only byte buffer backing a
// single cache entry's response body.
package payload

import (
	"sync/atomic"
)

// Buffer is a pre-sized byte region written by exactly one producer (the
// fetch coordinator) and read concurrently by any number of followers.
//
// The buffer never grows beyond the capacity fixed at construction. Appended
// bytes are immutable once observable: a reader that has seen length k will
// always see the same bytes in [0, k) no matter how much more is appended
// later. Length is published with a release store after the bytes land in
// the backing array, and readers acquire-load the length before touching the
// array, so a follower can never observe a torn write.
type Buffer struct {
	data []byte
	len  atomic.Int64
}

// New allocates a buffer with the given fixed capacity.
func New(capacity int) *Buffer {
	return &Buffer{data: make([]byte, capacity)}
}

// Capacity returns the fixed size this buffer was constructed with.
func (b *Buffer) Capacity() int {
	return len(b.data)
}

// Len returns the current number of valid bytes, acquired from the producer.
func (b *Buffer) Len() int {
	return int(b.len.Load())
}

// Append writes p to the tail of the buffer. It is only safe to call from a
// single goroutine at a time (the leader); concurrent Append calls on the
// same Buffer are not supported. Returns ErrCapacityExceeded without writing
// anything if p would not fit.
func (b *Buffer) Append(p []byte) error {
	if len(p) == 0 {
		return nil
	}
	cur := int(b.len.Load())
	if cur+len(p) > len(b.data) {
		return ErrCapacityExceeded
	}
	copy(b.data[cur:cur+len(p)], p)
	b.len.Store(int64(cur + len(p)))
	return nil
}

// ReadAt returns the slice of bytes observable from offset to the buffer's
// current length. The returned slice aliases the internal array and must be
// treated as read-only; it is a stable snapshot of the bytes that exist at
// the moment of the call — later appends never mutate it.
func (b *Buffer) ReadAt(offset int) []byte {
	n := int(b.len.Load())
	if offset >= n {
		return nil
	}
	return b.data[offset:n]
}
