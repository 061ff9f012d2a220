// File: api/adapter.go
// Package api defines the transfer adapter capability.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// A TransferAdapter moves bytes from a local buffer window to a remote
// buffer window and returns a one-shot asynchronous completion token.
// The same capability carries both bulk payload transfers and the 4-byte
// cursor words of the metadata exchange.

package api

// Completion is a one-shot asynchronous completion token.
//
// Done is closed exactly once, after which Err reports the final status
// (nil on success). Err must not be called before Done is closed.
type Completion interface {
	Done() <-chan struct{}
	Err() error
}

// TransferAdapter performs one directed byte transfer.
type TransferAdapter interface {
	// Transfer submits a copy of src into dst and returns its completion
	// token. Submission never blocks on the data path; errors surface
	// through the token.
	Transfer(src LocalBuffer, dst RemoteBuffer) Completion
}

// AtomicAdapter is an optional adapter capability for one-sided atomics,
// detected by interface assertion. Used to implement metadata exchange
// without a full transfer round-trip where the transport supports it.
type AtomicAdapter interface {
	TransferAdapter

	// FetchAdd atomically adds delta to the 8-byte word at dst and
	// completes with the previous value stored into result.
	FetchAdd(result LocalBuffer, dst RemoteBuffer, delta uint64) Completion

	// CompareSwap atomically replaces the 8-byte word at dst with swap if
	// it equals expect; the previous value is stored into result.
	CompareSwap(result LocalBuffer, dst RemoteBuffer, expect, swap uint64) Completion
}
