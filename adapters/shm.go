// File: adapters/shm.go
// Package adapters: shared-memory transfer adapter.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package adapters

import (
	"github.com/momentics/hioload-pipe/api"
)

// Ensure compile-time interface compliance.
var _ api.TransferAdapter = SharedMemoryAdapter{}

// SharedMemoryAdapter moves bytes between windows of locally mapped
// regions. When source and destination alias the same memory the transfer
// completes without touching it; otherwise it is a memmove. Completion is
// always immediate.
type SharedMemoryAdapter struct{}

// NewSharedMemoryAdapter returns the adapter.
func NewSharedMemoryAdapter() SharedMemoryAdapter { return SharedMemoryAdapter{} }

// Transfer implements api.TransferAdapter. The destination must carry a
// locally mapped region.
func (SharedMemoryAdapter) Transfer(src api.LocalBuffer, dst api.RemoteBuffer) api.Completion {
	if dst.Local == nil {
		return Failed(api.ErrInvalidArgument)
	}
	if src.Length != dst.Length {
		return Failed(api.ErrInvalidArgument)
	}
	if src.Length == 0 {
		return Completed()
	}
	s := src.Bytes()
	d := dst.Local.Bytes()[dst.Offset : dst.Offset+dst.Length]
	if &s[0] != &d[0] {
		copy(d, s)
	}
	return Completed()
}
