// Package api
// Author: momentics@gmail.com
//
// Lock-free SPSC ring buffer contract for cross-thread producer/consumer.

package api

// Ring is the minimal SPSC ring buffer contract.
//
// Exactly one goroutine may act as the producer (TryPush side) and exactly
// one as the consumer (TryPop side). The richer zero-copy view surface is a
// property of the concrete ring in core/ring and is not abstracted here.
type Ring[T any] interface {
	// TryPush adds an item; the result depends on the ring's overflow policy.
	TryPush(item T) bool
	// TryPop removes the oldest item, ok==false if empty.
	TryPop() (T, bool)
	// Size returns the current number of items.
	Size() int
	// Capacity returns the fixed ring capacity.
	Capacity() int
}
