// Package api
// Author: momentics
//
// Cooperative scheduling hook for the pipeline orchestrator.

package api

import "context"

// Scheduler injects scheduling points between pipeline stages. The
// orchestrator calls Yield before driving each stage so one pipeline
// cannot monopolize its goroutine.
type Scheduler interface {
	// Yield gives other tasks a chance to run. Returns ctx.Err() when the
	// context is done, nil otherwise.
	Yield(ctx context.Context) error
}
