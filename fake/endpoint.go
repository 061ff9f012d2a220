// Package fake
// Author: momentics <momentics@gmail.com>
//
// Fake implementations for testing and development.
// Provides predictable, controllable behavior for the remote endpoint and
// completion contracts: scripted per-operation failures, optional async
// completion, and operation accounting.

package fake

import (
	"sync"

	"github.com/momentics/hioload-pipe/adapters"
	"github.com/momentics/hioload-pipe/api"
)

// Ensure compile-time interface compliance.
var _ api.RemoteEndpoint = (*Endpoint)(nil)

// Endpoint is an in-process loopback api.RemoteEndpoint. Remote buffers
// must carry their locally mapped region (RemoteBuffer.Local); transfers
// are memmoves. Failures can be scripted per operation ordinal.
type Endpoint struct {
	mu        sync.Mutex
	ops       int
	failures  map[int]error // 1-based operation ordinal -> error
	async     bool
	pending   []*adapters.Token
	closed    bool
	writes    int
	reads     int
	sends     int
	recvQueue []api.LocalBuffer
}

// NewEndpoint creates a fake endpoint completing synchronously.
func NewEndpoint() *Endpoint {
	return &Endpoint{failures: make(map[int]error)}
}

// FailNth scripts the n-th operation (1-based, counted across writes,
// reads and sends; posted receives are not counted) to complete with err.
func (e *Endpoint) FailNth(n int, err error) {
	e.mu.Lock()
	e.failures[n] = err
	e.mu.Unlock()
}

// SetAsync defers completions until Fire is called.
func (e *Endpoint) SetAsync(v bool) {
	e.mu.Lock()
	e.async = v
	e.mu.Unlock()
}

// Fire completes all deferred tokens in reverse submission order,
// exercising out-of-order completion paths downstream.
func (e *Endpoint) Fire() {
	e.mu.Lock()
	pending := e.pending
	e.pending = nil
	e.mu.Unlock()
	for i := len(pending) - 1; i >= 0; i-- {
		pending[i].Complete(nil)
	}
}

// PendingCount returns the number of deferred completions.
func (e *Endpoint) PendingCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.pending)
}

// Ops returns the total operation count.
func (e *Endpoint) Ops() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ops
}

func (e *Endpoint) complete(err error) api.Completion {
	if err != nil {
		return adapters.Failed(err)
	}
	e.mu.Lock()
	if e.async {
		t := adapters.NewToken()
		e.pending = append(e.pending, t)
		e.mu.Unlock()
		return t
	}
	e.mu.Unlock()
	return adapters.Completed()
}

func (e *Endpoint) nextOp() (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return 0, api.ErrEndpointClosed
	}
	e.ops++
	if err, ok := e.failures[e.ops]; ok {
		return e.ops, err
	}
	return e.ops, nil
}

// Write implements api.RemoteEndpoint.
func (e *Endpoint) Write(src api.LocalBuffer, dst api.RemoteBuffer) api.Completion {
	if _, err := e.nextOp(); err != nil {
		return adapters.Failed(err)
	}
	e.mu.Lock()
	e.writes++
	e.mu.Unlock()
	if dst.Local == nil {
		return adapters.Failed(api.ErrInvalidArgument)
	}
	copy(dst.Local.Bytes()[dst.Offset:dst.Offset+dst.Length], src.Bytes())
	return e.complete(nil)
}

// Read implements api.RemoteEndpoint.
func (e *Endpoint) Read(dst api.LocalBuffer, src api.RemoteBuffer) api.Completion {
	if _, err := e.nextOp(); err != nil {
		return adapters.Failed(err)
	}
	e.mu.Lock()
	e.reads++
	e.mu.Unlock()
	if src.Local == nil {
		return adapters.Failed(api.ErrInvalidArgument)
	}
	copy(dst.Bytes(), src.Local.Bytes()[src.Offset:src.Offset+src.Length])
	return e.complete(nil)
}

// Send implements api.RemoteEndpoint: delivered to the next posted Recv.
func (e *Endpoint) Send(src api.LocalBuffer) api.Completion {
	if _, err := e.nextOp(); err != nil {
		return adapters.Failed(err)
	}
	e.mu.Lock()
	e.sends++
	if len(e.recvQueue) == 0 {
		e.mu.Unlock()
		return adapters.Failed(api.ErrNotSupported)
	}
	dst := e.recvQueue[0]
	e.recvQueue = e.recvQueue[1:]
	e.mu.Unlock()
	copy(dst.Bytes(), src.Bytes())
	return e.complete(nil)
}

// Recv implements api.RemoteEndpoint: posts a receive buffer.
func (e *Endpoint) Recv(dst api.LocalBuffer) api.Completion {
	e.mu.Lock()
	e.recvQueue = append(e.recvQueue, dst)
	e.mu.Unlock()
	return adapters.Completed()
}

// Close implements api.RemoteEndpoint.
func (e *Endpoint) Close() error {
	e.mu.Lock()
	e.closed = true
	pending := e.pending
	e.pending = nil
	e.mu.Unlock()
	for _, t := range pending {
		t.Complete(api.ErrEndpointClosed)
	}
	return nil
}
