// File: core/pipe/pipeline.go
// Package pipe: pipeline orchestrator.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Stages live in an arena owned by the pipeline and reference each other
// by index, so teardown never has to break pointer cycles.

package pipe

import (
	"context"
	"sync/atomic"

	"github.com/momentics/hioload-pipe/api"
	"github.com/momentics/hioload-pipe/control"
)

// Pipeline is an ordered chain of stages. The head is the input-producing
// end; PushPipe links new stages at the head.
type Pipeline struct {
	stages []*Stage
	head   int

	state atomic.Int32
	err   error

	metrics *control.MetricsRegistry
}

// PipelineOption configures a pipeline.
type PipelineOption func(*Pipeline)

// WithMetrics attaches a metrics registry; progress counters are
// published into it.
func WithMetrics(mr *control.MetricsRegistry) PipelineOption {
	return func(p *Pipeline) { p.metrics = mr }
}

// NewPipeline creates an empty pipeline.
func NewPipeline(opts ...PipelineOption) *Pipeline {
	p := &Pipeline{head: -1}
	for _, o := range opts {
		o(p)
	}
	return p
}

// PushPipe links stage at the head; the previous head becomes its
// successor.
func (p *Pipeline) PushPipe(s *Stage) {
	s.pl = p
	s.index = len(p.stages)
	p.stages = append(p.stages, s)
	if p.head >= 0 {
		p.stages[p.head].prevIdx = s.index
		s.nextIdx = p.head
	}
	p.head = s.index
}

// Stages returns the stages in head-to-tail traversal order.
func (p *Pipeline) Stages() []*Stage {
	out := make([]*Stage, 0, len(p.stages))
	for i := p.head; i >= 0; i = p.stages[i].nextIdx {
		out = append(out, p.stages[i])
	}
	return out
}

// State returns the pipeline state.
func (p *Pipeline) State() PipelineState { return PipelineState(p.state.Load()) }

// Err returns the first fault that moved the pipeline out of Running.
func (p *Pipeline) Err() error { return p.err }

// Progress drives one non-draining pass: for each stage in order, yield
// to the scheduler, then run the stage's transfer step. The steady state
// is a caller-driven loop around Progress. The first stage fault flips
// the pipeline to Draining and is returned; partial prefix-closed
// progress up to the fault remains valid.
func (p *Pipeline) Progress(ctx context.Context, sched api.Scheduler) error {
	if p.State() != PipelineRunning {
		if p.err != nil {
			return p.err
		}
		return api.ErrPipelineDraining
	}
	for i := p.head; i >= 0; i = p.stages[i].nextIdx {
		if err := sched.Yield(ctx); err != nil {
			p.beginDrain(ctx, err)
			return err
		}
		if err := p.stages[i].Transfer(ctx); err != nil {
			p.beginDrain(ctx, err)
			return err
		}
	}
	return nil
}

// Cancel moves the pipeline to Draining: stages stop submitting, wait out
// in-flight completions and terminate. Deterministic and idempotent.
func (p *Pipeline) Cancel(ctx context.Context) {
	p.beginDrain(ctx, nil)
}

func (p *Pipeline) beginDrain(ctx context.Context, cause error) {
	if !p.state.CompareAndSwap(int32(PipelineRunning), int32(PipelineDraining)) {
		return
	}
	if p.err == nil {
		p.err = cause
	}
	for i := p.head; i >= 0; i = p.stages[i].nextIdx {
		p.stages[i].drain(ctx)
	}
	p.state.Store(int32(PipelineTerminated))
}

func (p *Pipeline) countSubmitted(n int) {
	if p.metrics != nil {
		p.metrics.Inc("pipe.transfers_submitted", int64(n))
	}
}

func (p *Pipeline) countCommitted(n, bytes int) {
	if p.metrics != nil {
		p.metrics.Inc("pipe.transfers_completed", int64(n))
		p.metrics.Inc("pipe.bytes_moved", int64(bytes))
	}
}

func (p *Pipeline) countFault() {
	if p.metrics != nil {
		p.metrics.Inc("pipe.transfer_faults", 1)
	}
}
