// File: bootstrap/bootstrap.go
// Package bootstrap implements the TCP out-of-band setup channel.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Peers use the channel to exchange opaque connection descriptors and
// region export descriptors before any one-sided traffic flows. Every
// payload is a length-prefixed blob: a 32-bit little-endian length
// followed by the bytes. Exchanges send and receive concurrently, so they
// cannot deadlock even over an unbuffered connection such as net.Pipe.

package bootstrap

import (
	"encoding/binary"
	"fmt"
	"io"
	"net"
	"time"

	"context"

	"github.com/cenkalti/backoff"
	"github.com/sugawarayuuta/sonnet"

	"github.com/momentics/hioload-pipe/api"
)

// maxBlobSize bounds a single descriptor blob.
const maxBlobSize = 1 << 20

const dialTimeout = 5 * time.Second

// Channel is an established bootstrap connection.
type Channel struct {
	conn net.Conn
}

// Listener accepts bootstrap connections.
type Listener struct {
	ln net.Listener
}

// Listen starts a bootstrap listener on addr.
func Listen(addr string) (*Listener, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, api.WrapError(api.ErrCodeBootstrapFailed,
			fmt.Sprintf("bootstrap listen %s", addr), err)
	}
	return &Listener{ln: ln}, nil
}

// Accept waits for the next peer.
func (l *Listener) Accept() (*Channel, error) {
	conn, err := l.ln.Accept()
	if err != nil {
		return nil, api.WrapError(api.ErrCodeBootstrapFailed, "bootstrap accept", err)
	}
	return &Channel{conn: conn}, nil
}

// Addr returns the bound listener address.
func (l *Listener) Addr() net.Addr { return l.ln.Addr() }

// Close stops the listener.
func (l *Listener) Close() error { return l.ln.Close() }

// Dial connects to a bootstrap listener, retrying with exponential
// backoff until ctx is done.
func Dial(ctx context.Context, addr string) (*Channel, error) {
	var conn net.Conn
	op := func() error {
		var err error
		conn, err = net.DialTimeout("tcp", addr, dialTimeout)
		return err
	}
	bo := backoff.WithContext(backoff.NewExponentialBackOff(), ctx)
	if err := backoff.Retry(op, bo); err != nil {
		return nil, api.WrapError(api.ErrCodeBootstrapFailed,
			fmt.Sprintf("bootstrap dial %s", addr), err)
	}
	return &Channel{conn: conn}, nil
}

// NewChannel wraps an already-connected conn (tests, in-process pipes).
func NewChannel(conn net.Conn) *Channel { return &Channel{conn: conn} }

// SendBlob writes one length-prefixed blob.
func (c *Channel) SendBlob(b []byte) error {
	if len(b) > maxBlobSize {
		return api.NewError(api.ErrCodeBootstrapFailed, "bootstrap blob too large").
			WithContext("len", len(b))
	}
	var hdr [4]byte
	binary.LittleEndian.PutUint32(hdr[:], uint32(len(b)))
	if _, err := c.conn.Write(hdr[:]); err != nil {
		return api.WrapError(api.ErrCodeBootstrapFailed, "bootstrap send", err)
	}
	if _, err := c.conn.Write(b); err != nil {
		return api.WrapError(api.ErrCodeBootstrapFailed, "bootstrap send", err)
	}
	return nil
}

// RecvBlob reads one length-prefixed blob.
func (c *Channel) RecvBlob() ([]byte, error) {
	var hdr [4]byte
	if _, err := io.ReadFull(c.conn, hdr[:]); err != nil {
		return nil, api.WrapError(api.ErrCodeBootstrapFailed, "bootstrap recv", err)
	}
	n := binary.LittleEndian.Uint32(hdr[:])
	if n > maxBlobSize {
		return nil, api.NewError(api.ErrCodeBootstrapFailed, "bootstrap blob too large").
			WithContext("len", n)
	}
	b := make([]byte, n)
	if _, err := io.ReadFull(c.conn, b); err != nil {
		return nil, api.WrapError(api.ErrCodeBootstrapFailed, "bootstrap recv", err)
	}
	return b, nil
}

// ExchangeDescriptor sends the local descriptor blob and returns the
// peer's. The send runs concurrently with the receive.
func (c *Channel) ExchangeDescriptor(local []byte) ([]byte, error) {
	sent := make(chan error, 1)
	go func() { sent <- c.SendBlob(local) }()
	peer, err := c.RecvBlob()
	if err != nil {
		return nil, err
	}
	if err := <-sent; err != nil {
		return nil, err
	}
	return peer, nil
}

// SendRegion exports the region and ships its descriptor blob.
func (c *Channel) SendRegion(r api.Region) error {
	exp, err := r.Export()
	if err != nil {
		return api.WrapError(api.ErrCodeBootstrapFailed, "bootstrap region export", err)
	}
	return c.SendBlob(exp)
}

// RecvRegion reads and decodes one region descriptor.
func (c *Channel) RecvRegion() (api.RegionDescriptor, error) {
	var peer api.RegionDescriptor
	blob, err := c.RecvBlob()
	if err != nil {
		return peer, err
	}
	if err := sonnet.Unmarshal(blob, &peer); err != nil {
		return peer, api.WrapError(api.ErrCodeBootstrapFailed, "bootstrap region decode", err)
	}
	return peer, nil
}

// ExchangeRegion performs one symmetric-region handshake: the local
// region's export descriptor goes out, the peer's comes back decoded. The
// send runs concurrently with the receive.
func (c *Channel) ExchangeRegion(r api.Region) (api.RegionDescriptor, error) {
	sent := make(chan error, 1)
	go func() { sent <- c.SendRegion(r) }()
	peer, err := c.RecvRegion()
	if err != nil {
		return peer, err
	}
	if err := <-sent; err != nil {
		return api.RegionDescriptor{}, err
	}
	return peer, nil
}

// Conn exposes the underlying connection for transports that continue on
// the same socket after setup.
func (c *Channel) Conn() net.Conn { return c.conn }

// Close closes the channel.
func (c *Channel) Close() error { return c.conn.Close() }
