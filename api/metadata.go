// File: api/metadata.go
// Package api defines cursor metadata exchange between pipeline stages.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Each stage owns two metadata endpoints: a forward one facing its
// successor and a backward one facing its predecessor. Cursor words are
// 32-bit little-endian values living in pre-registered 8-byte windows;
// local reads use acquire ordering, publishes use release ordering. The
// abstraction is identical for local and remote neighbors, which is what
// lets a pipeline mix shared-memory and remote hops freely.

package api

import "context"

// ForwardMetadata is a stage's cursor interface to its successor.
type ForwardMetadata interface {
	// FetchHead reads the successor's destination-head register, i.e. the
	// credit the successor has released. Local acquire-load; never blocks.
	FetchHead() uint32

	// StoreTail publishes this stage's destination tail into the
	// successor's source-tail register. Blocks until the underlying
	// metadata transfer completes or ctx is done.
	StoreTail(ctx context.Context, tail uint32) error
}

// BackwardMetadata is a stage's cursor interface to its predecessor.
type BackwardMetadata interface {
	// FetchTail reads the source-tail register written by the predecessor,
	// i.e. how many bytes are available in this stage's source window.
	FetchTail() uint32

	// StoreHead publishes this stage's source head into the predecessor's
	// destination-head register, releasing credit upstream.
	StoreHead(ctx context.Context, head uint32) error
}
