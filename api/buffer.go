// Package api
// Author: momentics
//
// Registered memory regions and buffer windows for one-sided transfers.
//
// A Region is a registered, page-backed span of memory whose lifetime must
// cover every stage and adapter that references it. Buffer windows are
// O(1) sub-spans of a region; they carry no ownership.

package api

// AccessFlags describes the permitted access modes of a registered region.
type AccessFlags uint8

const (
	// AccessLocalRW permits local read/write through Region.Bytes.
	AccessLocalRW AccessFlags = 1 << iota
	// AccessRemoteRead permits one-sided reads by the remote peer.
	AccessRemoteRead
	// AccessRemoteWrite permits one-sided writes by the remote peer.
	AccessRemoteWrite
)

// Region is a handle to a registered memory region.
type Region interface {
	// ID returns the pool-unique region identifier used in export descriptors.
	ID() uint64

	// Bytes returns the backing memory. Valid until Release.
	Bytes() []byte

	// Len returns the region length in bytes.
	Len() int

	// Access returns the registered access flags.
	Access() AccessFlags

	// Export produces an opaque descriptor blob for the bootstrap exchange.
	Export() ([]byte, error)

	// Release returns the region to its pool. The region must not be used
	// afterwards.
	Release()
}

// LocalBuffer is a byte window into locally mapped memory.
type LocalBuffer struct {
	Region Region
	Offset int
	Length int
}

// Bytes returns the window's backing slice.
func (b LocalBuffer) Bytes() []byte {
	return b.Region.Bytes()[b.Offset : b.Offset+b.Length]
}

// Slice produces a sub-window in O(1).
func (b LocalBuffer) Slice(from, to int) LocalBuffer {
	return LocalBuffer{Region: b.Region, Offset: b.Offset + from, Length: to - from}
}

// RemoteBuffer is a byte window into a peer's registered region. RegionID
// names the region in the peer's address space; the local side never
// dereferences it directly.
type RemoteBuffer struct {
	RegionID uint64
	Offset   int
	Length   int

	// Local is set when the "remote" region is in fact locally mapped
	// (shared memory neighbors). Adapters that can short-circuit use it.
	Local Region
}

// Slice produces a sub-window in O(1).
func (b RemoteBuffer) Slice(from, to int) RemoteBuffer {
	return RemoteBuffer{RegionID: b.RegionID, Offset: b.Offset + from, Length: to - from, Local: b.Local}
}

// RegionDescriptor is the wire form of a region export, exchanged over the
// bootstrap channel during symmetric region setup.
type RegionDescriptor struct {
	ID     uint64      `json:"id"`
	Len    int         `json:"len"`
	Access AccessFlags `json:"access"`
}
