// File: core/ring/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

// Package ring implements the lock-free single-producer single-consumer
// ring buffer underlying every hioload-pipe data path.
//
// The ring is coordinated by two monotonically increasing 64-bit cursors:
// head (producer, next write slot) and tail (consumer, next read slot).
// Capacity is rounded up to a power of two so slot i lives at index
// i & (capacity-1). Occupancy is head-tail and is always within
// [0, capacity]. The producer publishes head with release semantics after
// writing a slot; the consumer acquire-loads head before reading, and
// symmetrically for tail. Each side additionally keeps a cached copy of
// the opposite cursor to avoid cross-core traffic on the fast path.
//
// Overflow behavior is selected at construction: PolicyBlock busy-waits
// for space with a cooperative spin (no parking primitive; the Go
// scheduler's preemption bounds the spin), PolicyDrop fails the push, and
// PolicyOverwrite evicts the oldest element.
//
// Beyond push/pop, the ring exposes borrowed zero-copy views into its
// backing storage: immutable read views of one or two segments, and
// mutable write views with a scoped commit. A view borrows the ring
// exclusively on its own side (producer or consumer) for its lifetime;
// the opposite side may keep operating concurrently. Committing is the
// only way to advance the cursor through a view; closing an uncommitted
// view commits zero and discards the writes.
package ring
