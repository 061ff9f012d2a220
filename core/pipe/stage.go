// File: core/pipe/stage.go
// Package pipe: one ring-to-ring transfer stage.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// A stage owns the producer half of its destination window and the
// consumer half of its source window. Everything it knows about its
// neighbors arrives through the metadata adapters, so a local and a
// remote neighbor are indistinguishable here.

package pipe

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/momentics/hioload-pipe/api"
)

// maxTransfersPerStep bounds submissions per progress step so one busy
// stage cannot starve its siblings.
const maxTransfersPerStep = 16

// StageConfig assembles a stage.
type StageConfig struct {
	// Name identifies the stage in errors and metrics.
	Name string

	// Adapter moves payload bytes from Src into Dst.
	Adapter api.TransferAdapter

	// Forward exchanges cursors with the successor (or the sink ring tap).
	Forward api.ForwardMetadata

	// Backward exchanges cursors with the predecessor (or the source ring
	// tap).
	Backward api.BackwardMetadata

	// Src is the full source window: the byte storage of the source ring.
	Src api.LocalBuffer

	// Dst is the full destination window in the neighbor's address space.
	Dst api.RemoteBuffer
}

// Stage is one pipeline node. Not safe for concurrent Transfer calls; the
// owning pipeline drives it from a single goroutine.
type Stage struct {
	name string

	adapter api.TransferAdapter
	fwd     api.ForwardMetadata
	bwd     api.BackwardMetadata

	src    api.LocalBuffer
	dst    api.RemoteBuffer
	srcCap uint32
	dstCap uint32

	// Committed cursors. In-flight transfers live only in pending.
	srcHead uint32 // source bytes consumed
	srcTail uint32 // source bytes available (published by predecessor)
	dstHead uint32 // destination bytes consumed (published by successor)
	dstTail uint32 // destination bytes produced

	lastPublishedHead uint32
	lastPublishedTail uint32

	pending *pendingQueue

	state atomic.Int32
	err   error

	// Arena links maintained by the owning pipeline.
	pl      *Pipeline
	index   int
	prevIdx int
	nextIdx int
}

// NewStage builds a stage from its configuration.
func NewStage(cfg StageConfig) (*Stage, error) {
	if cfg.Adapter == nil || cfg.Forward == nil || cfg.Backward == nil {
		return nil, api.ErrInvalidArgument
	}
	if cfg.Src.Length == 0 || cfg.Dst.Length == 0 {
		return nil, api.ErrInvalidArgument
	}
	return &Stage{
		name:    cfg.Name,
		adapter: cfg.Adapter,
		fwd:     cfg.Forward,
		bwd:     cfg.Backward,
		src:     cfg.Src,
		dst:     cfg.Dst,
		srcCap:  uint32(cfg.Src.Length),
		dstCap:  uint32(cfg.Dst.Length),
		pending: newPendingQueue(),
		prevIdx: -1,
		nextIdx: -1,
	}, nil
}

// Name returns the stage name.
func (s *Stage) Name() string { return s.name }

// State returns the current stage state.
func (s *Stage) State() StageState { return StageState(s.state.Load()) }

// Err returns the fault that stopped the stage, if any.
func (s *Stage) Err() error { return s.err }

// Cursors returns the committed cursor snapshot
// (srcHead, srcTail, dstHead, dstTail).
func (s *Stage) Cursors() (uint32, uint32, uint32, uint32) {
	return s.srcHead, s.srcTail, s.dstHead, s.dstTail
}

func (s *Stage) setState(st StageState) { s.state.Store(int32(st)) }

// fault records err, refuses further submissions and clears in-flight
// descriptors. Cursors of uncommitted transfers stay where they were.
func (s *Stage) fault(err error) {
	s.err = api.WrapError(api.ErrCodeTransferFailed,
		fmt.Sprintf("stage %s: transfer failed", s.name), err).
		WithContext("stage", s.name)
	s.pending.clear()
	s.setState(StageFaulted)
}

// Transfer runs one progress step: the forward pass (submit, await,
// commit in order, publish tail) followed by the backward pass (pull
// credit, publish head). Suspends only while awaiting transfer or
// metadata completions.
func (s *Stage) Transfer(ctx context.Context) error {
	switch s.State() {
	case StageFaulted:
		return s.err
	case StageDraining, StageTerminated:
		return api.ErrPipelineDraining
	}
	if err := s.forward(ctx); err != nil {
		return err
	}
	return s.backward(ctx)
}

// forward moves up to maxTransfersPerStep contiguous chunks.
func (s *Stage) forward(ctx context.Context) error {
	if s.srcTail == s.srcHead {
		s.srcTail = s.bwd.FetchTail()
		s.dstHead = s.fwd.FetchHead()
		if s.srcTail == s.srcHead {
			return nil
		}
	} else {
		s.dstHead = s.fwd.FetchHead()
	}

	s.setState(StageIssuing)

	// Planning cursors; committed ones move only after completion.
	curSrc := s.srcHead
	curDst := s.dstTail
	submitted := 0
	completions := make([]api.Completion, 0, maxTransfersPerStep)

	for submitted < maxTransfersPerStep {
		chunk := s.srcTail - curSrc
		if c := s.srcCap - curSrc%s.srcCap; c < chunk {
			chunk = c
		}
		if c := s.dstCap - (curDst - s.dstHead); c < chunk {
			chunk = c
		}
		if c := s.dstCap - curDst%s.dstCap; c < chunk {
			chunk = c
		}
		if chunk == 0 {
			break
		}

		srcOff := int(curSrc % s.srcCap)
		dstOff := int(curDst % s.dstCap)
		src := s.src.Slice(srcOff, srcOff+int(chunk))
		dst := s.dst.Slice(dstOff, dstOff+int(chunk))

		c := s.adapter.Transfer(src, dst)
		s.pending.push(pendingTransfer{
			beforeSrc:  curSrc,
			afterSrc:   curSrc + chunk,
			beforeDst:  curDst,
			afterDst:   curDst + chunk,
			completion: c,
		})
		completions = append(completions, c)
		curSrc += chunk
		curDst += chunk
		submitted++
	}

	if submitted == 0 {
		s.setState(StageIdle)
		return nil
	}
	if s.pl != nil {
		s.pl.countSubmitted(submitted)
	}

	s.setState(StageAwaiting)
	if err := api.AwaitAll(ctx, completions...); err != nil {
		// Context gone; leave pending intact for draining.
		s.setState(StageDraining)
		return err
	}

	s.setState(StageCommitting)
	moved := 0
	for s.pending.len() > 0 {
		t := s.pending.peek()
		if terr := t.completion.Err(); terr != nil {
			s.fault(terr)
			if s.pl != nil {
				s.pl.countFault()
			}
			return s.err
		}
		s.srcHead = t.afterSrc
		s.dstTail = t.afterDst
		moved += int(t.afterSrc - t.beforeSrc)
		s.pending.pop()
	}
	if s.pl != nil {
		s.pl.countCommitted(submitted, moved)
	}

	s.setState(StagePublishing)
	if err := s.fwd.StoreTail(ctx, s.dstTail); err != nil {
		s.fault(err)
		return s.err
	}
	s.lastPublishedTail = s.dstTail
	s.setState(StageIdle)
	return nil
}

// backward pulls the successor's consumption progress and releases credit
// to the predecessor.
func (s *Stage) backward(ctx context.Context) error {
	s.dstHead = s.fwd.FetchHead()
	if s.srcHead == s.lastPublishedHead {
		return nil
	}
	if err := s.bwd.StoreHead(ctx, s.srcHead); err != nil {
		s.fault(err)
		return s.err
	}
	s.lastPublishedHead = s.srcHead
	return nil
}

// drain stops submissions and waits out anything still in flight.
// Idempotent.
func (s *Stage) drain(ctx context.Context) {
	st := s.State()
	if st == StageTerminated || st == StageFaulted {
		return
	}
	s.setState(StageDraining)
	for s.pending.len() > 0 {
		t := s.pending.pop()
		if err := api.Await(ctx, t.completion); err != nil && s.err == nil {
			s.err = err
		}
	}
	s.setState(StageTerminated)
}
