// File: core/ring/ring.go
// Package ring implements the lock-free SPSC ring buffer.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Cursor protocol: producer relaxed-reads its own head, acquire-reads the
// opposite tail and release-publishes the new head; the consumer is
// symmetric. Cached opposite cursors follow the Lamport ring with cached
// index optimization.

package ring

import (
	"sync/atomic"

	"code.hybscloud.com/spin"

	"github.com/momentics/hioload-pipe/api"
)

// Ensure compile-time interface compliance.
var _ api.Ring[any] = (*Ring[any])(nil)

// Policy selects the producer overflow behavior of a ring.
type Policy uint8

const (
	// PolicyBlock busy-waits with a cooperative spin until space frees up.
	PolicyBlock Policy = iota
	// PolicyDrop fails the push when the ring is full.
	PolicyDrop
	// PolicyOverwrite evicts the oldest element and always succeeds.
	PolicyOverwrite
)

// String returns the policy name.
func (p Policy) String() string {
	switch p {
	case PolicyBlock:
		return "block"
	case PolicyDrop:
		return "drop"
	case PolicyOverwrite:
		return "overwrite"
	}
	return "unknown"
}

// Ring is a lock-free SPSC ring buffer with configurable overflow policy.
type Ring[T any] struct {
	head       atomic.Uint64 // producer cursor: next write slot
	_          [56]byte      // padding for hot/cold separation
	cachedTail uint64        // producer's cached view of tail
	_          [56]byte
	tail       atomic.Uint64 // consumer cursor: next read slot
	_          [56]byte
	cachedHead uint64 // consumer's cached view of head
	_          [56]byte

	buf    []T
	mask   uint64
	policy Policy
}

// roundToPow2 rounds n up to the next power of two.
func roundToPow2(n uint64) uint64 {
	if n < 2 {
		return 2
	}
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n |= n >> 32
	return n + 1
}

// New allocates a ring of at least the requested capacity (rounded up to a
// power of two) with the given overflow policy.
func New[T any](capacity int, policy Policy) *Ring[T] {
	size := roundToPow2(uint64(capacity))
	return &Ring[T]{
		buf:    make([]T, size),
		mask:   size - 1,
		policy: policy,
	}
}

// Capacity returns the fixed ring capacity.
func (r *Ring[T]) Capacity() int { return len(r.buf) }

// Policy returns the overflow policy selected at construction.
func (r *Ring[T]) Policy() Policy { return r.policy }

// Head returns the producer cursor. Monotonic; acquire-load.
func (r *Ring[T]) Head() uint64 { return r.head.Load() }

// Tail returns the consumer cursor. Monotonic; acquire-load.
func (r *Ring[T]) Tail() uint64 { return r.tail.Load() }

// Size returns the current occupancy. The value is exact only relative to
// the caller's own side; the opposite cursor is observed via acquire-load.
func (r *Ring[T]) Size() int {
	return int(r.head.Load() - r.tail.Load())
}

// Empty reports whether the ring holds no elements.
func (r *Ring[T]) Empty() bool { return r.Size() == 0 }

// Full reports whether occupancy equals capacity.
func (r *Ring[T]) Full() bool { return r.Size() == len(r.buf) }

// Available returns the free slot count.
func (r *Ring[T]) Available() int { return len(r.buf) - r.Size() }

// Storage exposes the backing slot array. Used by stage windows to
// register ring storage for one-sided transfers; regular producers and
// consumers never touch it.
func (r *Ring[T]) Storage() []T { return r.buf }

// waitForSpace spins until head-tail < capacity. PolicyBlock only.
func (r *Ring[T]) waitForSpace(head uint64) {
	sw := spin.Wait{}
	for {
		r.cachedTail = r.tail.Load()
		if head-r.cachedTail < uint64(len(r.buf)) {
			return
		}
		sw.Once()
	}
}

// evictOldest advances tail by one on behalf of the producer. The CAS
// loses only when the consumer consumed concurrently, which also frees a
// slot, so either outcome leaves space.
func (r *Ring[T]) evictOldest() {
	t := r.tail.Load()
	if r.head.Load()-t == uint64(len(r.buf)) {
		r.tail.CompareAndSwap(t, t+1)
	}
}

// TryPush adds one element. The result depends on the overflow policy:
// drop returns false on a full ring, block waits for space, overwrite
// evicts the oldest element and always succeeds.
func (r *Ring[T]) TryPush(v T) bool {
	head := r.head.Load()
	if head-r.cachedTail >= uint64(len(r.buf)) {
		r.cachedTail = r.tail.Load()
		if head-r.cachedTail >= uint64(len(r.buf)) {
			switch r.policy {
			case PolicyDrop:
				return false
			case PolicyBlock:
				r.waitForSpace(head)
			case PolicyOverwrite:
				r.evictOldest()
				r.cachedTail = r.tail.Load()
			}
		}
	}
	r.buf[head&r.mask] = v
	r.head.Store(head + 1)
	return true
}

// TryPop removes and returns the oldest element, ok==false if empty.
func (r *Ring[T]) TryPop() (T, bool) {
	tail := r.tail.Load()
	if tail >= r.cachedHead {
		r.cachedHead = r.head.Load()
		if tail >= r.cachedHead {
			var zero T
			return zero, false
		}
	}
	v := r.buf[tail&r.mask]
	var zero T
	r.buf[tail&r.mask] = zero
	r.tail.Store(tail + 1)
	return v, true
}

// TryPeek borrows the front element without consuming it. The borrow must
// not outlive the next producer or consumer mutation.
func (r *Ring[T]) TryPeek() (*T, bool) {
	tail := r.tail.Load()
	if tail >= r.cachedHead {
		r.cachedHead = r.head.Load()
		if tail >= r.cachedHead {
			return nil, false
		}
	}
	return &r.buf[tail&r.mask], true
}

// TryPushBulk pushes up to len(src) elements and returns the count
// actually pushed. The copy never overflows: at most Available() elements
// are taken regardless of policy. Split into two block copies when the
// write range wraps.
func (r *Ring[T]) TryPushBulk(src []T) int {
	head := r.head.Load()
	free := uint64(len(r.buf)) - (head - r.tail.Load())
	n := uint64(len(src))
	if n > free {
		n = free
	}
	if n == 0 {
		return 0
	}
	idx := head & r.mask
	if idx+n <= uint64(len(r.buf)) {
		copy(r.buf[idx:idx+n], src[:n])
	} else {
		prefix := uint64(len(r.buf)) - idx
		copy(r.buf[idx:], src[:prefix])
		copy(r.buf[:n-prefix], src[prefix:n])
	}
	r.head.Store(head + n)
	return int(n)
}

// TryPopBulk pops up to len(dst) elements into dst and returns the count
// actually popped.
func (r *Ring[T]) TryPopBulk(dst []T) int {
	tail := r.tail.Load()
	occ := r.head.Load() - tail
	n := uint64(len(dst))
	if n > occ {
		n = occ
	}
	if n == 0 {
		return 0
	}
	idx := tail & r.mask
	if idx+n <= uint64(len(r.buf)) {
		copy(dst[:n], r.buf[idx:idx+n])
	} else {
		prefix := uint64(len(r.buf)) - idx
		copy(dst[:prefix], r.buf[idx:])
		copy(dst[prefix:n], r.buf[:n-prefix])
	}
	r.tail.Store(tail + n)
	return int(n)
}

// Clear drains the ring by snapping tail to head. Consumer-side operation.
func (r *Ring[T]) Clear() {
	r.tail.Store(r.head.Load())
}

// AdvanceRead commits n consumed elements after reading through views,
// releasing their slots to the producer. Fails with ErrViewOverCommit when
// n exceeds the current occupancy.
func (r *Ring[T]) AdvanceRead(n int) error {
	tail := r.tail.Load()
	if uint64(n) > r.head.Load()-tail {
		return api.ErrViewOverCommit
	}
	r.tail.Store(tail + uint64(n))
	return nil
}

// AdvanceWrite publishes n elements already written in place into the
// ring storage (by a transfer adapter or a reserved write), advancing the
// producer cursor. Fails with ErrViewOverCommit when n exceeds free space.
func (r *Ring[T]) AdvanceWrite(n int) error {
	head := r.head.Load()
	if uint64(n) > uint64(len(r.buf))-(head-r.tail.Load()) {
		return api.ErrViewOverCommit
	}
	r.head.Store(head + uint64(n))
	return nil
}

// ReserveWrite advances the producer cursor by n and returns the reserved
// slots as one or two segments. The caller fills the segments after the
// reservation; the consumer may already observe the slots, so this is for
// single-threaded setups and stage windows where publication is governed
// by separate cursor metadata.
func (r *Ring[T]) ReserveWrite(n int) (SegPair[T], error) {
	var segs SegPair[T]
	head := r.head.Load()
	if uint64(n) > uint64(len(r.buf))-(head-r.tail.Load()) {
		return segs, api.ErrViewOverCommit
	}
	idx := head & r.mask
	if idx+uint64(n) <= uint64(len(r.buf)) {
		segs.Append(r.buf[idx : idx+uint64(n)])
	} else {
		prefix := uint64(len(r.buf)) - idx
		segs.Append(r.buf[idx:])
		segs.Append(r.buf[:uint64(n)-prefix])
	}
	r.head.Store(head + uint64(n))
	return segs, nil
}
