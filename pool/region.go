// File: pool/region.go
// Package pool implements the registered region pool.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package pool

import (
	"sync"
	"sync/atomic"

	"github.com/sugawarayuuta/sonnet"

	"github.com/momentics/hioload-pipe/api"
)

// Ensure compile-time interface compliance.
var _ api.Region = (*Region)(nil)

// Region is a registered, page-backed memory region.
type Region struct {
	id     uint64
	data   []byte
	access api.AccessFlags
	pool   *RegionPool
	mapped bool

	released atomic.Bool
}

// ID implements api.Region.
func (r *Region) ID() uint64 { return r.id }

// Bytes implements api.Region.
func (r *Region) Bytes() []byte { return r.data }

// Len implements api.Region.
func (r *Region) Len() int { return len(r.data) }

// Access implements api.Region.
func (r *Region) Access() api.AccessFlags { return r.access }

// Export implements api.Region: produces the descriptor blob exchanged
// over the bootstrap channel.
func (r *Region) Export() ([]byte, error) {
	return sonnet.Marshal(api.RegionDescriptor{
		ID:     r.id,
		Len:    len(r.data),
		Access: r.access,
	})
}

// Release implements api.Region. Idempotent.
func (r *Region) Release() {
	if r.released.Swap(true) {
		return
	}
	r.pool.release(r)
}

// RegionPoolStats aggregates reservation accounting.
type RegionPoolStats struct {
	TotalReserved int64
	TotalReleased int64
	InUse         int64
	BytesInUse    int64
}

// RegionPool reserves and releases registered regions under an inventory
// budget.
type RegionPool struct {
	mu         sync.Mutex
	maxRegions int
	maxBytes   int64
	inUse      int
	bytesInUse int64
	nextID     uint64
	regions    map[uint64]*Region
	lock       bool

	totalReserved int64
	totalReleased int64
}

// Option configures a RegionPool.
type Option func(*RegionPool)

// WithLockedMemory pins reserved regions into RAM (mlock). Linux only;
// ignored elsewhere.
func WithLockedMemory() Option {
	return func(p *RegionPool) { p.lock = true }
}

// NewRegionPool creates a pool bounded by maxRegions handles and maxBytes
// total. Zero means unbounded for either limit.
func NewRegionPool(maxRegions int, maxBytes int64, opts ...Option) *RegionPool {
	p := &RegionPool{
		maxRegions: maxRegions,
		maxBytes:   maxBytes,
		regions:    make(map[uint64]*Region),
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Reserve registers a new region of exactly size bytes with the given
// access flags. Fails with ErrResourceExhausted when the inventory budget
// is spent.
func (p *RegionPool) Reserve(size int, access api.AccessFlags) (*Region, error) {
	if size <= 0 {
		return nil, api.ErrInvalidArgument
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.maxRegions > 0 && p.inUse >= p.maxRegions {
		return nil, api.WrapError(api.ErrCodeResourceExhausted,
			"region pool: region count budget spent", api.ErrResourceExhausted)
	}
	if p.maxBytes > 0 && p.bytesInUse+int64(size) > p.maxBytes {
		return nil, api.WrapError(api.ErrCodeResourceExhausted,
			"region pool: byte budget spent", api.ErrResourceExhausted)
	}

	data, mapped := mapRegion(size, p.lock)
	p.nextID++
	r := &Region{
		id:     p.nextID,
		data:   data,
		access: access,
		pool:   p,
		mapped: mapped,
	}
	p.regions[r.id] = r
	p.inUse++
	p.bytesInUse += int64(size)
	p.totalReserved++
	return r, nil
}

// Lookup resolves a region by ID; used when applying inbound one-sided
// operations against local registrations.
func (p *RegionPool) Lookup(id uint64) (*Region, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	r, ok := p.regions[id]
	return r, ok
}

// Stats returns reservation accounting.
func (p *RegionPool) Stats() RegionPoolStats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return RegionPoolStats{
		TotalReserved: p.totalReserved,
		TotalReleased: p.totalReleased,
		InUse:         int64(p.inUse),
		BytesInUse:    p.bytesInUse,
	}
}

func (p *RegionPool) release(r *Region) {
	p.mu.Lock()
	delete(p.regions, r.id)
	p.inUse--
	p.bytesInUse -= int64(len(r.data))
	p.totalReleased++
	p.mu.Unlock()
	if r.mapped {
		unmapRegion(r.data)
	}
	r.data = nil
}
