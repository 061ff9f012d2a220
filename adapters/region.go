// File: adapters/region.go
// Package adapters: region view over caller-owned memory.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package adapters

import (
	"github.com/sugawarayuuta/sonnet"

	"github.com/momentics/hioload-pipe/api"
)

// Ensure compile-time interface compliance.
var _ api.Region = (*StaticRegion)(nil)

// StaticRegion adapts caller-owned memory (ring storage, a stack of
// cursor words) into an api.Region without pool management. The caller
// keeps the memory alive; Release is a no-op.
type StaticRegion struct {
	id     uint64
	data   []byte
	access api.AccessFlags
}

// NewStaticRegion wraps data with the given id and access flags.
func NewStaticRegion(id uint64, data []byte, access api.AccessFlags) *StaticRegion {
	return &StaticRegion{id: id, data: data, access: access}
}

func (r *StaticRegion) ID() uint64              { return r.id }
func (r *StaticRegion) Bytes() []byte           { return r.data }
func (r *StaticRegion) Len() int                { return len(r.data) }
func (r *StaticRegion) Access() api.AccessFlags { return r.access }

// Export implements api.Region.
func (r *StaticRegion) Export() ([]byte, error) {
	return sonnet.Marshal(api.RegionDescriptor{ID: r.id, Len: len(r.data), Access: r.access})
}

// Release implements api.Region; caller-owned memory stays alive.
func (r *StaticRegion) Release() {}

// RingWindow wraps a byte ring's storage as a LocalBuffer window over a
// static region, for use as a stage's source or destination window.
func RingWindow(id uint64, storage []byte) api.LocalBuffer {
	region := NewStaticRegion(id, storage, api.AccessLocalRW|api.AccessRemoteRead|api.AccessRemoteWrite)
	return api.LocalBuffer{Region: region, Offset: 0, Length: len(storage)}
}
