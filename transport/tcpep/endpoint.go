// File: transport/tcpep/endpoint.go
// Package tcpep emulates a one-sided remote endpoint over TCP.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Each operation travels as one framed message; the peer applies it
// against its local region registry and acknowledges with a status (and,
// for reads and atomics, a payload). Completions fire on acknowledgment.
// Ordering and delivery are TCP's; no further reliability is layered on.

package tcpep

import (
	"encoding/binary"
	"fmt"
	"io"
	"net"
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/momentics/hioload-pipe/adapters"
	"github.com/momentics/hioload-pipe/api"
	"github.com/momentics/hioload-pipe/pool"
)

// Wire opcodes.
const (
	opWrite byte = iota + 1
	opRead
	opSend
	opFetchAdd
	opCompareSwap
	opAck
)

// Ack statuses.
const (
	statusOK byte = iota
	statusUnknownRegion
	statusOutOfRange
)

// header layout: op(1) status(1) id(8) region(8) offset(8) length(8).
const headerSize = 34

// Compile-time interface compliance.
var (
	_ api.RemoteEndpoint       = (*Endpoint)(nil)
	_ adapters.AtomicEndpoint  = (*Endpoint)(nil)
)

type pendingOp struct {
	token *adapters.Token
	dst   api.LocalBuffer // read/atomic result sink; zero for others
}

type postedRecv struct {
	dst   api.LocalBuffer
	token *adapters.Token
}

// Endpoint is a TCP-backed api.RemoteEndpoint. Inbound one-sided
// operations resolve against the local region registry.
type Endpoint struct {
	conn     net.Conn
	registry *pool.RegionPool

	writeMu sync.Mutex

	mu      sync.Mutex
	pending map[uint64]pendingOp
	recvs   []postedRecv
	nextID  uint64

	closed atomic.Bool
	err    error
}

// NewEndpoint wraps an established connection. registry resolves inbound
// operation targets; it may be shared with the region pool used for
// reservations. The receive loop starts immediately.
func NewEndpoint(conn net.Conn, registry *pool.RegionPool) *Endpoint {
	ep := &Endpoint{
		conn:     conn,
		registry: registry,
		pending:  make(map[uint64]pendingOp),
	}
	go ep.recvLoop()
	return ep
}

func (ep *Endpoint) nextOpID() uint64 {
	ep.mu.Lock()
	defer ep.mu.Unlock()
	ep.nextID++
	return ep.nextID
}

func (ep *Endpoint) track(id uint64, op pendingOp) {
	ep.mu.Lock()
	ep.pending[id] = op
	ep.mu.Unlock()
}

func (ep *Endpoint) sendFrame(op, status byte, id, region uint64, offset, length int, payload []byte) error {
	var hdr [headerSize]byte
	hdr[0] = op
	hdr[1] = status
	binary.LittleEndian.PutUint64(hdr[2:], id)
	binary.LittleEndian.PutUint64(hdr[10:], region)
	binary.LittleEndian.PutUint64(hdr[18:], uint64(offset))
	binary.LittleEndian.PutUint64(hdr[26:], uint64(length))

	ep.writeMu.Lock()
	defer ep.writeMu.Unlock()
	if _, err := ep.conn.Write(hdr[:]); err != nil {
		return err
	}
	if len(payload) > 0 {
		if _, err := ep.conn.Write(payload); err != nil {
			return err
		}
	}
	return nil
}

func (ep *Endpoint) submit(op byte, region uint64, offset int, payload []byte, length int, dst api.LocalBuffer) api.Completion {
	if ep.closed.Load() {
		return adapters.Failed(api.ErrEndpointClosed)
	}
	id := ep.nextOpID()
	t := adapters.NewToken()
	ep.track(id, pendingOp{token: t, dst: dst})
	if err := ep.sendFrame(op, statusOK, id, region, offset, length, payload); err != nil {
		ep.drop(id)
		t.Complete(api.WrapError(api.ErrCodeTransferFailed, "tcpep submit", err))
	}
	return t
}

func (ep *Endpoint) drop(id uint64) {
	ep.mu.Lock()
	delete(ep.pending, id)
	ep.mu.Unlock()
}

// Write implements api.RemoteEndpoint.
func (ep *Endpoint) Write(src api.LocalBuffer, dst api.RemoteBuffer) api.Completion {
	return ep.submit(opWrite, dst.RegionID, dst.Offset, src.Bytes(), src.Length, api.LocalBuffer{})
}

// Read implements api.RemoteEndpoint.
func (ep *Endpoint) Read(dst api.LocalBuffer, src api.RemoteBuffer) api.Completion {
	return ep.submit(opRead, src.RegionID, src.Offset, nil, src.Length, dst)
}

// Send implements api.RemoteEndpoint.
func (ep *Endpoint) Send(src api.LocalBuffer) api.Completion {
	return ep.submit(opSend, 0, 0, src.Bytes(), src.Length, api.LocalBuffer{})
}

// Recv implements api.RemoteEndpoint. The completion fires when the next
// inbound message lands in dst.
func (ep *Endpoint) Recv(dst api.LocalBuffer) api.Completion {
	if ep.closed.Load() {
		return adapters.Failed(api.ErrEndpointClosed)
	}
	t := adapters.NewToken()
	ep.mu.Lock()
	ep.recvs = append(ep.recvs, postedRecv{dst: dst, token: t})
	ep.mu.Unlock()
	return t
}

// FetchAdd implements adapters.AtomicEndpoint against the peer's 8-byte
// word; the previous value lands in result.
func (ep *Endpoint) FetchAdd(result api.LocalBuffer, dst api.RemoteBuffer, delta uint64) api.Completion {
	var arg [8]byte
	binary.LittleEndian.PutUint64(arg[:], delta)
	return ep.submit(opFetchAdd, dst.RegionID, dst.Offset, arg[:], 8, result)
}

// CompareSwap implements adapters.AtomicEndpoint.
func (ep *Endpoint) CompareSwap(result api.LocalBuffer, dst api.RemoteBuffer, expect, swap uint64) api.Completion {
	var arg [16]byte
	binary.LittleEndian.PutUint64(arg[:8], expect)
	binary.LittleEndian.PutUint64(arg[8:], swap)
	return ep.submit(opCompareSwap, dst.RegionID, dst.Offset, arg[:], 16, result)
}

// Close implements api.RemoteEndpoint: outstanding completions fire with
// ErrEndpointClosed.
func (ep *Endpoint) Close() error {
	if ep.closed.Swap(true) {
		return nil
	}
	ep.failAll(api.ErrEndpointClosed)
	return ep.conn.Close()
}

func (ep *Endpoint) failAll(err error) {
	ep.mu.Lock()
	pending := ep.pending
	recvs := ep.recvs
	ep.pending = make(map[uint64]pendingOp)
	ep.recvs = nil
	ep.mu.Unlock()
	for _, p := range pending {
		p.token.Complete(err)
	}
	for _, r := range recvs {
		r.token.Complete(err)
	}
}

// recvLoop applies inbound operations and resolves acknowledgments.
func (ep *Endpoint) recvLoop() {
	for {
		var hdr [headerSize]byte
		if _, err := io.ReadFull(ep.conn, hdr[:]); err != nil {
			if !ep.closed.Swap(true) {
				ep.err = err
				_ = ep.conn.Close()
			}
			ep.failAll(api.WrapError(api.ErrCodeTransferFailed, "tcpep connection lost", err))
			return
		}
		op := hdr[0]
		status := hdr[1]
		id := binary.LittleEndian.Uint64(hdr[2:])
		region := binary.LittleEndian.Uint64(hdr[10:])
		offset := int(binary.LittleEndian.Uint64(hdr[18:]))
		length := int(binary.LittleEndian.Uint64(hdr[26:]))

		var payload []byte
		if needsPayload(op, status) && length > 0 {
			payload = make([]byte, length)
			if _, err := io.ReadFull(ep.conn, payload); err != nil {
				ep.failAll(api.WrapError(api.ErrCodeTransferFailed, "tcpep connection lost", err))
				return
			}
		}

		if op == opAck {
			ep.resolveAck(id, status, payload)
			continue
		}
		ep.apply(op, id, region, offset, length, payload)
	}
}

// needsPayload reports whether a frame carries trailing bytes.
func needsPayload(op, status byte) bool {
	switch op {
	case opWrite, opSend, opFetchAdd, opCompareSwap:
		return true
	case opAck:
		return status == statusOK
	case opRead:
		return false
	}
	return false
}

func (ep *Endpoint) resolveAck(id uint64, status byte, payload []byte) {
	ep.mu.Lock()
	p, ok := ep.pending[id]
	delete(ep.pending, id)
	ep.mu.Unlock()
	if !ok {
		return
	}
	if status != statusOK {
		p.token.Complete(ackError(status))
		return
	}
	if p.dst.Region != nil && len(payload) > 0 {
		copy(p.dst.Bytes(), payload)
	}
	p.token.Complete(nil)
}

func ackError(status byte) error {
	switch status {
	case statusUnknownRegion:
		return api.NewError(api.ErrCodeTransferFailed, "tcpep: unknown remote region")
	case statusOutOfRange:
		return api.NewError(api.ErrCodeTransferFailed, "tcpep: remote window out of range")
	}
	return api.NewError(api.ErrCodeTransferFailed, fmt.Sprintf("tcpep: remote status %d", status))
}

// apply executes one inbound operation against local registrations and
// acknowledges it.
func (ep *Endpoint) apply(op byte, id, region uint64, offset, length int, payload []byte) {
	switch op {
	case opSend:
		ep.applySend(id, payload)
		return
	}

	r, ok := ep.registry.Lookup(region)
	if !ok {
		_ = ep.sendFrame(opAck, statusUnknownRegion, id, region, 0, 0, nil)
		return
	}
	// Atomics target one 8-byte word; their frame length is the argument
	// payload size, not the window size.
	span := length
	if op == opFetchAdd || op == opCompareSwap {
		span = 8
	}
	if offset < 0 || span < 0 || offset+span > r.Len() {
		_ = ep.sendFrame(opAck, statusOutOfRange, id, region, 0, 0, nil)
		return
	}

	switch op {
	case opWrite:
		copy(r.Bytes()[offset:offset+length], payload)
		_ = ep.sendFrame(opAck, statusOK, id, region, 0, 0, nil)
	case opRead:
		out := r.Bytes()[offset : offset+length]
		_ = ep.sendFrame(opAck, statusOK, id, region, 0, len(out), out)
	case opFetchAdd:
		delta := binary.LittleEndian.Uint64(payload)
		word := (*uint64)(unsafe.Pointer(&r.Bytes()[offset]))
		prev := atomic.AddUint64(word, delta) - delta
		var out [8]byte
		binary.LittleEndian.PutUint64(out[:], prev)
		_ = ep.sendFrame(opAck, statusOK, id, region, 0, 8, out[:])
	case opCompareSwap:
		expect := binary.LittleEndian.Uint64(payload[:8])
		swap := binary.LittleEndian.Uint64(payload[8:])
		word := (*uint64)(unsafe.Pointer(&r.Bytes()[offset]))
		var prev uint64
		if atomic.CompareAndSwapUint64(word, expect, swap) {
			prev = expect
		} else {
			prev = atomic.LoadUint64(word)
		}
		var out [8]byte
		binary.LittleEndian.PutUint64(out[:], prev)
		_ = ep.sendFrame(opAck, statusOK, id, region, 0, 8, out[:])
	}
}

func (ep *Endpoint) applySend(id uint64, payload []byte) {
	ep.mu.Lock()
	var pr postedRecv
	matched := false
	if len(ep.recvs) > 0 {
		pr = ep.recvs[0]
		ep.recvs = ep.recvs[1:]
		matched = true
	}
	ep.mu.Unlock()
	if matched {
		copy(pr.dst.Bytes(), payload)
		pr.token.Complete(nil)
		_ = ep.sendFrame(opAck, statusOK, id, 0, 0, 0, nil)
		return
	}
	// No posted receive: message-oriented semantics make this a peer
	// protocol error.
	_ = ep.sendFrame(opAck, statusOutOfRange, id, 0, 0, 0, nil)
}
