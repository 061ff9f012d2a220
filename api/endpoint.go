// File: api/endpoint.go
// Package api defines the external remote-transfer contract.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// RemoteEndpoint is the surface hioload-pipe consumes from an underlying
// one-sided transport (an RDMA queue pair, a DPU channel, or the TCP
// emulation in transport/tcpep). Connection setup, memory registration and
// completion polling belong to the transport library, not to this module.

package api

// RemoteEndpoint issues one-sided and two-sided operations against a
// connected peer. All operations are asynchronous; ordering guarantees are
// whatever the underlying transport provides.
type RemoteEndpoint interface {
	// Write copies src into the peer's region named by dst.
	Write(src LocalBuffer, dst RemoteBuffer) Completion

	// Read pulls the peer's region named by src into dst.
	Read(dst LocalBuffer, src RemoteBuffer) Completion

	// Send posts a two-sided message.
	Send(src LocalBuffer) Completion

	// Recv posts a receive for the next two-sided message.
	Recv(dst LocalBuffer) Completion

	// Close tears the endpoint down. Outstanding completions fire with an
	// error.
	Close() error
}
