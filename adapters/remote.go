// File: adapters/remote.go
// Package adapters: remote transfer adapters over a RemoteEndpoint.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package adapters

import (
	"github.com/momentics/hioload-pipe/api"
)

// Compile-time interface compliance.
var (
	_ api.TransferAdapter = RemoteWriteAdapter{}
	_ api.TransferAdapter = RemoteReadAdapter{}
	_ api.TransferAdapter = RemoteMessageAdapter{}
	_ api.AtomicAdapter   = RemoteAtomicAdapter{}
)

// RemoteWriteAdapter pushes local bytes into the peer's registered region
// with a one-sided write.
type RemoteWriteAdapter struct {
	ep api.RemoteEndpoint
}

// NewRemoteWriteAdapter wraps an endpoint.
func NewRemoteWriteAdapter(ep api.RemoteEndpoint) RemoteWriteAdapter {
	return RemoteWriteAdapter{ep: ep}
}

// Transfer implements api.TransferAdapter.
func (a RemoteWriteAdapter) Transfer(src api.LocalBuffer, dst api.RemoteBuffer) api.Completion {
	return a.ep.Write(src, dst)
}

// RemoteReadAdapter pulls the peer's registered region into local memory.
// In transfer terms the local buffer is the destination and the remote
// buffer the source.
type RemoteReadAdapter struct {
	ep api.RemoteEndpoint
}

// NewRemoteReadAdapter wraps an endpoint.
func NewRemoteReadAdapter(ep api.RemoteEndpoint) RemoteReadAdapter {
	return RemoteReadAdapter{ep: ep}
}

// Transfer implements api.TransferAdapter.
func (a RemoteReadAdapter) Transfer(src api.LocalBuffer, dst api.RemoteBuffer) api.Completion {
	return a.ep.Read(src, dst)
}

// RemoteMessageAdapter carries two-sided send/recv semantics for
// message-oriented control paths where one-sided access isn't available.
// Transfer posts a send of src; the remote window only names the logical
// destination.
type RemoteMessageAdapter struct {
	ep api.RemoteEndpoint
}

// NewRemoteMessageAdapter wraps an endpoint.
func NewRemoteMessageAdapter(ep api.RemoteEndpoint) RemoteMessageAdapter {
	return RemoteMessageAdapter{ep: ep}
}

// Transfer implements api.TransferAdapter.
func (a RemoteMessageAdapter) Transfer(src api.LocalBuffer, _ api.RemoteBuffer) api.Completion {
	return a.ep.Send(src)
}

// PostRecv posts a receive for the next inbound message.
func (a RemoteMessageAdapter) PostRecv(dst api.LocalBuffer) api.Completion {
	return a.ep.Recv(dst)
}

// AtomicEndpoint is the optional endpoint capability behind
// RemoteAtomicAdapter.
type AtomicEndpoint interface {
	api.RemoteEndpoint
	FetchAdd(result api.LocalBuffer, dst api.RemoteBuffer, delta uint64) api.Completion
	CompareSwap(result api.LocalBuffer, dst api.RemoteBuffer, expect, swap uint64) api.Completion
}

// RemoteAtomicAdapter exposes one-sided atomics when the endpoint
// supports them; otherwise every operation fails with ErrNotSupported.
type RemoteAtomicAdapter struct {
	ep api.RemoteEndpoint
}

// NewRemoteAtomicAdapter wraps an endpoint.
func NewRemoteAtomicAdapter(ep api.RemoteEndpoint) RemoteAtomicAdapter {
	return RemoteAtomicAdapter{ep: ep}
}

// Transfer implements api.TransferAdapter via a one-sided write.
func (a RemoteAtomicAdapter) Transfer(src api.LocalBuffer, dst api.RemoteBuffer) api.Completion {
	return a.ep.Write(src, dst)
}

// FetchAdd implements api.AtomicAdapter.
func (a RemoteAtomicAdapter) FetchAdd(result api.LocalBuffer, dst api.RemoteBuffer, delta uint64) api.Completion {
	if ae, ok := a.ep.(AtomicEndpoint); ok {
		return ae.FetchAdd(result, dst, delta)
	}
	return Failed(api.ErrNotSupported)
}

// CompareSwap implements api.AtomicAdapter.
func (a RemoteAtomicAdapter) CompareSwap(result api.LocalBuffer, dst api.RemoteBuffer, expect, swap uint64) api.Completion {
	if ae, ok := a.ep.(AtomicEndpoint); ok {
		return ae.CompareSwap(result, dst, expect, swap)
	}
	return Failed(api.ErrNotSupported)
}
