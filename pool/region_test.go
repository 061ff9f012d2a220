// File: pool/region_test.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package pool

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/sugawarayuuta/sonnet"

	"github.com/momentics/hioload-pipe/api"
)

func TestReserveAndRelease(t *testing.T) {
	p := NewRegionPool(4, 0)

	r, err := p.Reserve(4096, api.AccessLocalRW|api.AccessRemoteWrite)
	if err != nil {
		t.Fatalf("reserve: %v", err)
	}
	if r.Len() != 4096 || len(r.Bytes()) != 4096 {
		t.Fatalf("region len = %d, want 4096", r.Len())
	}
	if r.Access()&api.AccessRemoteWrite == 0 {
		t.Fatal("access flags lost")
	}

	stats := p.Stats()
	if stats.InUse != 1 || stats.BytesInUse != 4096 {
		t.Fatalf("stats = %+v", stats)
	}

	r.Release()
	r.Release() // idempotent
	stats = p.Stats()
	if stats.InUse != 0 || stats.BytesInUse != 0 || stats.TotalReleased != 1 {
		t.Fatalf("stats after release = %+v", stats)
	}
}

func TestRegionCountBudget(t *testing.T) {
	p := NewRegionPool(2, 0)

	a, _ := p.Reserve(64, api.AccessLocalRW)
	b, _ := p.Reserve(64, api.AccessLocalRW)
	if _, err := p.Reserve(64, api.AccessLocalRW); !errors.Is(err, api.ErrResourceExhausted) {
		t.Fatalf("err = %v, want ErrResourceExhausted", err)
	}
	a.Release()
	if _, err := p.Reserve(64, api.AccessLocalRW); err != nil {
		t.Fatalf("reserve after release: %v", err)
	}
	b.Release()
}

func TestByteBudget(t *testing.T) {
	p := NewRegionPool(0, 1024)

	if _, err := p.Reserve(2048, api.AccessLocalRW); !errors.Is(err, api.ErrResourceExhausted) {
		t.Fatalf("err = %v, want ErrResourceExhausted", err)
	}
}

func TestLookup(t *testing.T) {
	p := NewRegionPool(0, 0)

	r, _ := p.Reserve(128, api.AccessLocalRW)
	got, ok := p.Lookup(r.ID())
	if !ok || got != r {
		t.Fatal("lookup failed")
	}
	r.Release()
	if _, ok := p.Lookup(r.ID()); ok {
		t.Fatal("released region still resolvable")
	}
}

func TestExportDescriptorRoundTrip(t *testing.T) {
	p := NewRegionPool(0, 0)

	r, _ := p.Reserve(256, api.AccessRemoteRead|api.AccessLocalRW)
	defer r.Release()

	blob, err := r.Export()
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	var desc api.RegionDescriptor
	if err := sonnet.Unmarshal(blob, &desc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	want := api.RegionDescriptor{ID: r.ID(), Len: 256, Access: api.AccessRemoteRead | api.AccessLocalRW}
	if diff := cmp.Diff(want, desc); diff != "" {
		t.Fatalf("descriptor mismatch (-want +got):\n%s", diff)
	}
}

func TestInvalidSize(t *testing.T) {
	p := NewRegionPool(0, 0)
	if _, err := p.Reserve(0, api.AccessLocalRW); !errors.Is(err, api.ErrInvalidArgument) {
		t.Fatalf("err = %v, want ErrInvalidArgument", err)
	}
}
