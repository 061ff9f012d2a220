// File: adapters/cursor.go
// Package adapters: cursor-word metadata exchange.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Each direction of a stage boundary owns a pre-registered 8-byte window
// holding one 32-bit little-endian cursor word at offset 0. The local
// side reads its register with acquire ordering; publishes to the remote
// register ride the metadata adapter as ordinary 4-byte transfers.

package adapters

import (
	"context"
	"sync/atomic"
	"unsafe"

	"github.com/momentics/hioload-pipe/api"
)

// CursorWindowSize is the registered window size per cursor direction.
const CursorWindowSize = 8

// CursorWord is an atomic 32-bit cursor living inside a registered
// region. The offset must be 4-byte aligned. Stores and loads use the
// host's native atomics; the wire format is little-endian, which the
// supported targets share.
type CursorWord struct {
	p *uint32
}

// NewCursorWord binds a cursor word at the given region offset.
func NewCursorWord(region api.Region, off int) CursorWord {
	b := region.Bytes()
	return CursorWord{p: (*uint32)(unsafe.Pointer(&b[off]))}
}

// Load acquire-loads the word.
func (w CursorWord) Load() uint32 { return atomic.LoadUint32(w.p) }

// Store release-stores the word.
func (w CursorWord) Store(v uint32) { atomic.StoreUint32(w.p, v) }

// Compile-time interface compliance.
var (
	_ api.ForwardMetadata  = (*ForwardCursorMetadata)(nil)
	_ api.BackwardMetadata = (*BackwardCursorMetadata)(nil)
)

// ForwardCursorMetadata publishes this stage's destination tail to the
// successor and reads back the head credit the successor wrote into the
// local head register.
type ForwardCursorMetadata struct {
	adapter api.TransferAdapter

	staging     api.LocalBuffer // 4-byte outgoing word
	stagingWord CursorWord
	headReg     CursorWord       // written by the successor
	remoteTail  api.RemoteBuffer // successor's source-tail register
}

// NewForwardCursorMetadata assembles the forward direction. staging and
// headReg must be windows of locally registered regions; remoteTail names
// the successor's tail register.
func NewForwardCursorMetadata(adapter api.TransferAdapter, staging, headReg api.LocalBuffer, remoteTail api.RemoteBuffer) *ForwardCursorMetadata {
	return &ForwardCursorMetadata{
		adapter:     adapter,
		staging:     staging,
		stagingWord: NewCursorWord(staging.Region, staging.Offset),
		headReg:     NewCursorWord(headReg.Region, headReg.Offset),
		remoteTail:  remoteTail,
	}
}

// FetchHead implements api.ForwardMetadata.
func (m *ForwardCursorMetadata) FetchHead() uint32 { return m.headReg.Load() }

// StoreTail implements api.ForwardMetadata.
func (m *ForwardCursorMetadata) StoreTail(ctx context.Context, tail uint32) error {
	m.stagingWord.Store(tail)
	return api.Await(ctx, m.adapter.Transfer(m.staging.Slice(0, 4), m.remoteTail))
}

// BackwardCursorMetadata publishes this stage's source head to the
// predecessor and reads the source-tail register the predecessor keeps
// up to date.
type BackwardCursorMetadata struct {
	adapter api.TransferAdapter

	staging     api.LocalBuffer
	stagingWord CursorWord
	tailReg     CursorWord       // written by the predecessor
	remoteHead  api.RemoteBuffer // predecessor's destination-head register
}

// NewBackwardCursorMetadata assembles the backward direction.
func NewBackwardCursorMetadata(adapter api.TransferAdapter, staging, tailReg api.LocalBuffer, remoteHead api.RemoteBuffer) *BackwardCursorMetadata {
	return &BackwardCursorMetadata{
		adapter:     adapter,
		staging:     staging,
		stagingWord: NewCursorWord(staging.Region, staging.Offset),
		tailReg:     NewCursorWord(tailReg.Region, tailReg.Offset),
		remoteHead:  remoteHead,
	}
}

// FetchTail implements api.BackwardMetadata.
func (m *BackwardCursorMetadata) FetchTail() uint32 { return m.tailReg.Load() }

// StoreHead implements api.BackwardMetadata.
func (m *BackwardCursorMetadata) StoreHead(ctx context.Context, head uint32) error {
	m.stagingWord.Store(head)
	return api.Await(ctx, m.adapter.Transfer(m.staging.Slice(0, 4), m.remoteHead))
}
