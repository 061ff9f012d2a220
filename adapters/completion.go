// File: adapters/completion.go
// Package adapters: completion token implementations.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package adapters

import (
	"sync"

	"github.com/momentics/hioload-pipe/api"
)

// Ensure compile-time interface compliance.
var _ api.Completion = (*Token)(nil)

// Token is a manually completed one-shot token. Adapters complete it from
// their completion path; double completion is a no-op.
type Token struct {
	done chan struct{}
	err  error
	once sync.Once
}

// NewToken creates an uncompleted token.
func NewToken() *Token {
	return &Token{done: make(chan struct{})}
}

// Complete fires the token with the final status.
func (t *Token) Complete(err error) {
	t.once.Do(func() {
		t.err = err
		close(t.done)
	})
}

// Done implements api.Completion.
func (t *Token) Done() <-chan struct{} { return t.done }

// Err implements api.Completion.
func (t *Token) Err() error { return t.err }

// immediate is a pre-fired completion.
type immediate struct{ err error }

var closedChan = func() chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}()

func (c immediate) Done() <-chan struct{} { return closedChan }
func (c immediate) Err() error            { return c.err }

// Completed returns an already-successful completion.
func Completed() api.Completion { return immediate{} }

// Failed returns an already-failed completion.
func Failed(err error) api.Completion { return immediate{err: err} }
