// File: transport/tcpep/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

// Package tcpep implements api.RemoteEndpoint over a plain TCP
// connection: one-sided writes, reads and 8-byte atomics are framed,
// applied against the peer's region registry and acknowledged. It exists
// so tests can run a full remote path without RDMA-capable hardware; a
// production deployment plugs a
// real transport into the same interface.
package tcpep
