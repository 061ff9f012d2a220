// File: api/completion.go
// Package api: completion await helpers.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package api

import "context"

// Await blocks until c completes or ctx is done, returning the
// completion's error or ctx.Err().
func Await(ctx context.Context, c Completion) error {
	select {
	case <-c.Done():
		return c.Err()
	case <-ctx.Done():
		return ctx.Err()
	}
}

// AwaitAll blocks until every token has completed. Individual transfer
// errors stay on their tokens for the caller to inspect in order; the
// returned error is non-nil only when ctx ends the wait early.
func AwaitAll(ctx context.Context, cs ...Completion) error {
	for _, c := range cs {
		select {
		case <-c.Done():
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}
