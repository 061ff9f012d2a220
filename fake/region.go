// Package fake
// Author: momentics <momentics@gmail.com>
//
// Heap-backed region for tests that don't need a real pool.

package fake

import (
	"github.com/sugawarayuuta/sonnet"

	"github.com/momentics/hioload-pipe/api"
)

// Ensure compile-time interface compliance.
var _ api.Region = (*Region)(nil)

// Region is a heap-backed api.Region.
type Region struct {
	Id    uint64
	Data  []byte
	Flags api.AccessFlags
}

// NewRegion allocates a heap region with full access.
func NewRegion(id uint64, size int) *Region {
	return &Region{
		Id:    id,
		Data:  make([]byte, size),
		Flags: api.AccessLocalRW | api.AccessRemoteRead | api.AccessRemoteWrite,
	}
}

func (r *Region) ID() uint64              { return r.Id }
func (r *Region) Bytes() []byte           { return r.Data }
func (r *Region) Len() int                { return len(r.Data) }
func (r *Region) Access() api.AccessFlags { return r.Flags }

func (r *Region) Export() ([]byte, error) {
	return sonnet.Marshal(api.RegionDescriptor{ID: r.Id, Len: len(r.Data), Access: r.Flags})
}

func (r *Region) Release() { r.Data = nil }
