// File: adapters/local_link.go
// Package adapters: in-process metadata link between adjacent stages.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package adapters

import (
	"context"
	"sync/atomic"

	"github.com/momentics/hioload-pipe/api"
)

// LocalLink carries the cursor pair between two stages sharing an address
// space. The upstream stage publishes tail and reads head credit; the
// downstream stage is symmetric. Stores and loads hit the same two atomic
// words, so no transfer is involved.
type LocalLink struct {
	tail atomic.Uint32 // written by the upstream stage
	head atomic.Uint32 // written by the downstream stage
}

// NewLocalLink creates the link.
func NewLocalLink() *LocalLink { return &LocalLink{} }

// Forward returns the upstream stage's forward metadata endpoint.
func (l *LocalLink) Forward() api.ForwardMetadata { return (*localForward)(l) }

// Backward returns the downstream stage's backward metadata endpoint.
func (l *LocalLink) Backward() api.BackwardMetadata { return (*localBackward)(l) }

type localForward LocalLink

func (f *localForward) FetchHead() uint32 { return f.head.Load() }

func (f *localForward) StoreTail(_ context.Context, tail uint32) error {
	f.tail.Store(tail)
	return nil
}

type localBackward LocalLink

func (b *localBackward) FetchTail() uint32 { return b.tail.Load() }

func (b *localBackward) StoreHead(_ context.Context, head uint32) error {
	b.head.Store(head)
	return nil
}

// Compile-time interface compliance.
var (
	_ api.ForwardMetadata  = (*localForward)(nil)
	_ api.BackwardMetadata = (*localBackward)(nil)
)
