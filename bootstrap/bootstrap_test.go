// File: bootstrap/bootstrap_test.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package bootstrap

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/momentics/hioload-pipe/api"
	"github.com/momentics/hioload-pipe/fake"
)

func pipeChannels() (*Channel, *Channel) {
	a, b := net.Pipe()
	return NewChannel(a), NewChannel(b)
}

func TestBlobRoundTrip(t *testing.T) {
	a, b := pipeChannels()
	defer a.Close()
	defer b.Close()

	payload := []byte("device descriptor blob")
	errCh := make(chan error, 1)
	go func() { errCh <- a.SendBlob(payload) }()

	got, err := b.RecvBlob()
	if err != nil {
		t.Fatalf("recv: %v", err)
	}
	if err := <-errCh; err != nil {
		t.Fatalf("send: %v", err)
	}
	if diff := cmp.Diff(payload, got); diff != "" {
		t.Fatalf("blob mismatch (-want +got):\n%s", diff)
	}
}

func TestEmptyBlob(t *testing.T) {
	a, b := pipeChannels()
	defer a.Close()
	defer b.Close()

	go a.SendBlob(nil)
	got, err := b.RecvBlob()
	if err != nil {
		t.Fatalf("recv: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("got %d bytes, want 0", len(got))
	}
}

func TestExchangeRegion(t *testing.T) {
	a, b := pipeChannels()
	defer a.Close()
	defer b.Close()

	ra := fake.NewRegion(7, 4096)
	rb := fake.NewRegion(9, 8192)

	type result struct {
		desc api.RegionDescriptor
		err  error
	}
	ch := make(chan result, 1)
	go func() {
		d, err := a.ExchangeRegion(ra)
		ch <- result{d, err}
	}()

	gotB, err := b.ExchangeRegion(rb)
	if err != nil {
		t.Fatalf("exchange b: %v", err)
	}
	resA := <-ch
	if resA.err != nil {
		t.Fatalf("exchange a: %v", resA.err)
	}

	if gotB.ID != 7 || gotB.Len != 4096 {
		t.Fatalf("b got %+v, want a's region", gotB)
	}
	if resA.desc.ID != 9 || resA.desc.Len != 8192 {
		t.Fatalf("a got %+v, want b's region", resA.desc)
	}
}

func TestListenDialAccept(t *testing.T) {
	ln, err := Listen("127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	type dialResult struct {
		ch  *Channel
		err error
	}
	dialCh := make(chan dialResult, 1)
	go func() {
		c, err := Dial(ctx, ln.Addr().String())
		dialCh <- dialResult{c, err}
	}()

	server, err := ln.Accept()
	if err != nil {
		t.Fatalf("accept: %v", err)
	}
	defer server.Close()

	res := <-dialCh
	if res.err != nil {
		t.Fatalf("dial: %v", res.err)
	}
	defer res.ch.Close()

	go server.SendBlob([]byte("hello"))
	got, err := res.ch.RecvBlob()
	if err != nil || string(got) != "hello" {
		t.Fatalf("recv = %q, %v", got, err)
	}
}

func TestDialFailsWhenContextDone(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	// Port 1 on loopback is essentially never listening.
	_, err := Dial(ctx, "127.0.0.1:1")
	if err == nil {
		t.Fatal("dial to dead port succeeded")
	}
	var ae *api.Error
	if !errors.As(err, &ae) || ae.Code != api.ErrCodeBootstrapFailed {
		t.Fatalf("err = %v, want bootstrap-failed", err)
	}
}
