// File: adapters/ring_tap.go
// Package adapters: ring taps binding pipeline edges to local SPSC rings.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// A tap speaks the stage metadata protocol on behalf of a local byte
// ring: the head stage learns the external producer's progress from the
// source ring's cursors, and the tail stage publishes into the sink ring
// the consumer pops from. Cursor words are the ring's own 64-bit cursors
// truncated to the 32-bit wire width; all arithmetic is modular, so
// truncation preserves deltas.

package adapters

import (
	"context"

	"github.com/momentics/hioload-pipe/api"
	"github.com/momentics/hioload-pipe/core/ring"
)

// Compile-time interface compliance.
var (
	_ api.BackwardMetadata = (*SourceRingTap)(nil)
	_ api.ForwardMetadata  = (*SinkRingTap)(nil)
)

// SourceRingTap is the backward metadata endpoint of the head stage. The
// external producer pushes into the ring; the stage consumes the ring
// storage directly, so publishing the stage's source head translates to
// advancing the ring's read cursor.
type SourceRingTap struct {
	ring     *ring.Ring[byte]
	consumed uint32
}

// NewSourceRingTap taps the source ring.
func NewSourceRingTap(r *ring.Ring[byte]) *SourceRingTap {
	return &SourceRingTap{ring: r}
}

// FetchTail implements api.BackwardMetadata: bytes made available by the
// producer.
func (t *SourceRingTap) FetchTail() uint32 { return uint32(t.ring.Head()) }

// StoreHead implements api.BackwardMetadata: releases consumed bytes back
// to the producer.
func (t *SourceRingTap) StoreHead(_ context.Context, head uint32) error {
	delta := head - t.consumed
	if delta == 0 {
		return nil
	}
	if err := t.ring.AdvanceRead(int(delta)); err != nil {
		return err
	}
	t.consumed = head
	return nil
}

// SinkRingTap is the forward metadata endpoint of the tail stage. The
// stage produces into the ring storage; publishing its destination tail
// advances the ring's write cursor so the consumer sees the bytes, and
// the consumer's pops come back as head credit.
type SinkRingTap struct {
	ring     *ring.Ring[byte]
	produced uint32
}

// NewSinkRingTap taps the sink ring.
func NewSinkRingTap(r *ring.Ring[byte]) *SinkRingTap {
	return &SinkRingTap{ring: r}
}

// FetchHead implements api.ForwardMetadata: bytes the consumer has popped.
func (t *SinkRingTap) FetchHead() uint32 { return uint32(t.ring.Tail()) }

// StoreTail implements api.ForwardMetadata: publishes produced bytes to
// the consumer.
func (t *SinkRingTap) StoreTail(_ context.Context, tail uint32) error {
	delta := tail - t.produced
	if delta == 0 {
		return nil
	}
	if err := t.ring.AdvanceWrite(int(delta)); err != nil {
		return err
	}
	t.produced = tail
	return nil
}
