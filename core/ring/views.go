// File: core/ring/views.go
// Package ring: borrowed zero-copy views into ring storage.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// A view is an exclusive borrow of one side of the ring: the consumer
// side for read views, the producer side for write views. The covered
// slots stay untouched by the local side until the view is released
// (AdvanceRead for read views, Commit/Close for write views); the
// opposite side keeps operating concurrently. Issuing any other local
// operation while a view is live invalidates the view.

package ring

import "github.com/momentics/hioload-pipe/api"

// ReadView is an immutable borrow of up to two consumer-visible segments
// starting at tail.
type ReadView[T any] struct {
	segs SegPair[T]
}

// Segments returns the number of non-empty segments (0, 1 or 2).
func (v *ReadView[T]) Segments() int { return v.segs.Len() }

// Segment returns segment i. Segment 0 starts at tail; segment 1, when
// present, continues from slot 0 after the wrap.
func (v *ReadView[T]) Segment(i int) []T { return v.segs.At(i) }

// Len returns the combined element count.
func (v *ReadView[T]) Len() int { return v.segs.Total() }

// At returns the element at logical position i across segments.
func (v *ReadView[T]) At(i int) T {
	if s0 := v.segs.At(0); i < len(s0) {
		return s0[i]
	} else {
		return v.segs.At(1)[i-len(s0)]
	}
}

// CopyTo copies the view contents into dst and returns the count copied.
func (v *ReadView[T]) CopyTo(dst []T) int {
	n := 0
	for i := 0; i < v.segs.Len(); i++ {
		n += copy(dst[n:], v.segs.At(i))
	}
	return n
}

// ContiguousReadView borrows a single immutable segment of length
// min(occupancy, max, capacity-tail&mask) starting at tail. Never wraps.
// Release the covered slots with AdvanceRead.
func (r *Ring[T]) ContiguousReadView(max int) ReadView[T] {
	var v ReadView[T]
	tail := r.tail.Load()
	occ := r.head.Load() - tail
	if occ == 0 || max <= 0 {
		return v
	}
	idx := tail & r.mask
	n := occ
	if uint64(max) < n {
		n = uint64(max)
	}
	if c := uint64(len(r.buf)) - idx; c < n {
		n = c
	}
	v.segs.Append(r.buf[idx : idx+n])
	return v
}

// ReadViews borrows up to two immutable segments of combined length
// min(occupancy, max). The second segment is present only when the
// covered range wraps.
func (r *Ring[T]) ReadViews(max int) ReadView[T] {
	var v ReadView[T]
	tail := r.tail.Load()
	occ := r.head.Load() - tail
	if occ == 0 || max <= 0 {
		return v
	}
	n := occ
	if uint64(max) < n {
		n = uint64(max)
	}
	idx := tail & r.mask
	if idx+n <= uint64(len(r.buf)) {
		v.segs.Append(r.buf[idx : idx+n])
	} else {
		prefix := uint64(len(r.buf)) - idx
		v.segs.Append(r.buf[idx:])
		v.segs.Append(r.buf[:n-prefix])
	}
	return v
}

// WriteView is a mutable borrow of a single contiguous run of free slots
// starting at head, with a scoped commit. Commit(n) publishes n written
// elements by advancing the producer cursor; Close without a prior commit
// publishes zero and the writes are abandoned.
type WriteView[T any] struct {
	ring      *Ring[T]
	base      uint64
	data      []T
	committed bool
}

// Data returns the writable slot run.
func (w *WriteView[T]) Data() []T { return w.data }

// Cap returns the view capacity.
func (w *WriteView[T]) Cap() int { return len(w.data) }

// Write copies src into the view and returns the count written.
func (w *WriteView[T]) Write(src []T) int {
	return copy(w.data, src)
}

// Commit publishes n elements, n <= Cap. A second commit is a no-op.
func (w *WriteView[T]) Commit(n int) error {
	if w.committed {
		return nil
	}
	if n > len(w.data) {
		return api.ErrViewOverCommit
	}
	w.committed = true
	if w.ring != nil && n > 0 {
		w.ring.head.Store(w.base + uint64(n))
	}
	return nil
}

// Committed reports whether the view has been committed.
func (w *WriteView[T]) Committed() bool { return w.committed }

// Close commits zero if the view was never committed.
func (w *WriteView[T]) Close() {
	w.committed = true
}

// GetWriteView borrows a mutable contiguous run of length
// min(free, max, capacity-head&mask) starting at head.
func (r *Ring[T]) GetWriteView(max int) WriteView[T] {
	head := r.head.Load()
	free := uint64(len(r.buf)) - (head - r.tail.Load())
	if free == 0 || max <= 0 {
		return WriteView[T]{committed: true}
	}
	idx := head & r.mask
	n := free
	if uint64(max) < n {
		n = uint64(max)
	}
	if c := uint64(len(r.buf)) - idx; c < n {
		n = c
	}
	return WriteView[T]{ring: r, base: head, data: r.buf[idx : idx+n]}
}

// NonContiguousWriteView is a mutable borrow of one or two segments of
// free slots with the same scoped-commit contract as WriteView. The second
// segment is present when the reserved range wraps.
type NonContiguousWriteView[T any] struct {
	ring      *Ring[T]
	base      uint64
	segs      SegPair[T]
	committed bool
}

// Segments returns the segment count.
func (w *NonContiguousWriteView[T]) Segments() int { return w.segs.Len() }

// Segment returns the writable segment i.
func (w *NonContiguousWriteView[T]) Segment(i int) []T { return w.segs.At(i) }

// TotalCapacity returns the combined capacity of all segments.
func (w *NonContiguousWriteView[T]) TotalCapacity() int { return w.segs.Total() }

// Write copies src sequentially across the segments and returns the count
// written.
func (w *NonContiguousWriteView[T]) Write(src []T) int {
	n := 0
	for i := 0; i < w.segs.Len() && n < len(src); i++ {
		n += copy(w.segs.At(i), src[n:])
	}
	return n
}

// Commit publishes n elements, n <= TotalCapacity.
func (w *NonContiguousWriteView[T]) Commit(n int) error {
	if w.committed {
		return nil
	}
	if n > w.segs.Total() {
		return api.ErrViewOverCommit
	}
	w.committed = true
	if w.ring != nil && n > 0 {
		w.ring.head.Store(w.base + uint64(n))
	}
	return nil
}

// Committed reports whether the view has been committed.
func (w *NonContiguousWriteView[T]) Committed() bool { return w.committed }

// Close commits zero if the view was never committed.
func (w *NonContiguousWriteView[T]) Close() {
	w.committed = true
}

// GetNonContiguousWriteView borrows one or two mutable segments of
// combined length min(free, max).
func (r *Ring[T]) GetNonContiguousWriteView(max int) NonContiguousWriteView[T] {
	head := r.head.Load()
	free := uint64(len(r.buf)) - (head - r.tail.Load())
	if free == 0 || max <= 0 {
		return NonContiguousWriteView[T]{committed: true}
	}
	n := free
	if uint64(max) < n {
		n = uint64(max)
	}
	idx := head & r.mask
	v := NonContiguousWriteView[T]{ring: r, base: head}
	if idx+n <= uint64(len(r.buf)) {
		v.segs.Append(r.buf[idx : idx+n])
	} else {
		prefix := uint64(len(r.buf)) - idx
		v.segs.Append(r.buf[idx:])
		v.segs.Append(r.buf[:n-prefix])
	}
	return v
}
