// File: core/pipe/state.go
// Package pipe: stage and pipeline state machines.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package pipe

// StageState tracks where a stage is inside its progress step.
//
//	Idle -> Issuing -> Awaiting -> Committing -> Publishing -> Idle
//
// Cancellation from any state moves to Draining (no new submissions,
// outstanding completions are awaited), then Terminated. A transfer
// completion error moves the stage to Faulted.
type StageState int32

const (
	StageIdle StageState = iota
	StageIssuing
	StageAwaiting
	StageCommitting
	StagePublishing
	StageDraining
	StageFaulted
	StageTerminated
)

// String returns the state name.
func (s StageState) String() string {
	switch s {
	case StageIdle:
		return "idle"
	case StageIssuing:
		return "issuing"
	case StageAwaiting:
		return "awaiting"
	case StageCommitting:
		return "committing"
	case StagePublishing:
		return "publishing"
	case StageDraining:
		return "draining"
	case StageFaulted:
		return "faulted"
	case StageTerminated:
		return "terminated"
	}
	return "unknown"
}

// PipelineState tracks the pipeline as a whole.
type PipelineState int32

const (
	PipelineRunning PipelineState = iota
	PipelineDraining
	PipelineTerminated
)

// String returns the state name.
func (s PipelineState) String() string {
	switch s {
	case PipelineRunning:
		return "running"
	case PipelineDraining:
		return "draining"
	case PipelineTerminated:
		return "terminated"
	}
	return "unknown"
}
