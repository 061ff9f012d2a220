// File: core/pipe/pending.go
// Package pipe: bounded in-order transfer commit queue.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package pipe

import (
	"github.com/eapache/queue"

	"github.com/momentics/hioload-pipe/api"
)

// pendingTransfer describes one submitted, not-yet-committed transfer.
// The ranges are symmetric and non-empty: afterSrc-beforeSrc ==
// afterDst-beforeDst > 0.
type pendingTransfer struct {
	beforeSrc uint32
	afterSrc  uint32
	beforeDst uint32
	afterDst  uint32

	completion api.Completion
}

// pendingQueue releases commits in enqueue order. A single stage submits
// with monotonically increasing beforeSrc, so FIFO order and
// priority-by-beforeSrc order coincide; push asserts the monotonicity so
// a violation fails loudly instead of reordering commits.
type pendingQueue struct {
	q       *queue.Queue
	lastKey uint32
	primed  bool
}

func newPendingQueue() *pendingQueue {
	return &pendingQueue{q: queue.New()}
}

func (p *pendingQueue) push(t pendingTransfer) {
	if t.afterSrc-t.beforeSrc == 0 || t.afterSrc-t.beforeSrc != t.afterDst-t.beforeDst {
		panic("pipe: asymmetric or empty transfer descriptor")
	}
	if p.primed && int32(t.beforeSrc-p.lastKey) < 0 {
		panic("pipe: pending transfer submitted out of order")
	}
	p.lastKey = t.beforeSrc
	p.primed = true
	p.q.Add(t)
}

func (p *pendingQueue) len() int { return p.q.Length() }

func (p *pendingQueue) peek() pendingTransfer {
	return p.q.Peek().(pendingTransfer)
}

func (p *pendingQueue) pop() pendingTransfer {
	return p.q.Remove().(pendingTransfer)
}

func (p *pendingQueue) clear() {
	for p.q.Length() > 0 {
		p.q.Remove()
	}
	p.primed = false
}
