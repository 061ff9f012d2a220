// File: core/pipe/scheduler.go
// Package pipe: default cooperative scheduler.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package pipe

import (
	"context"
	"runtime"

	"github.com/momentics/hioload-pipe/api"
)

// Ensure compile-time interface compliance.
var _ api.Scheduler = GoSched{}

// GoSched yields to the Go runtime scheduler between stages. No timers,
// no dedicated scheduler thread; the embedding runtime drives progress.
type GoSched struct{}

// Yield implements api.Scheduler.
func (GoSched) Yield(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	runtime.Gosched()
	return nil
}
