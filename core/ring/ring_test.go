// File: core/ring/ring_test.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package ring

import (
	"math/rand"
	"runtime"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDropPolicyFullRing(t *testing.T) {
	r := New[int](4, PolicyDrop)

	for i := 0; i < 4; i++ {
		if !r.TryPush(i) {
			t.Fatalf("push %d failed on non-full ring", i)
		}
	}
	if r.TryPush(4) {
		t.Fatal("push succeeded on full drop ring")
	}
	if r.Size() != 4 {
		t.Fatalf("size = %d, want 4", r.Size())
	}

	for i := 0; i < 4; i++ {
		v, ok := r.TryPop()
		if !ok || v != i {
			t.Fatalf("pop %d = (%d,%v), want (%d,true)", i, v, ok, i)
		}
	}
	if _, ok := r.TryPop(); ok {
		t.Fatal("pop succeeded on empty ring")
	}
}

func TestOverwritePolicyEvictsOldest(t *testing.T) {
	r := New[int](4, PolicyOverwrite)

	for i := 0; i <= 5; i++ {
		if !r.TryPush(i) {
			t.Fatalf("push %d failed on overwrite ring", i)
		}
	}
	if r.Size() != 4 {
		t.Fatalf("size = %d, want 4", r.Size())
	}

	want := []int{2, 3, 4, 5}
	for _, w := range want {
		v, ok := r.TryPop()
		if !ok || v != w {
			t.Fatalf("pop = (%d,%v), want (%d,true)", v, ok, w)
		}
	}
}

func TestBlockPolicyConcurrentDrain(t *testing.T) {
	r := New[int](16, PolicyBlock)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 1; i <= 50; i++ {
			r.TryPush(i)
		}
	}()

	got := make([]int, 0, 50)
	for len(got) < 50 {
		if v, ok := r.TryPop(); ok {
			got = append(got, v)
		} else {
			runtime.Gosched()
		}
	}
	wg.Wait()

	for i, v := range got {
		if v != i+1 {
			t.Fatalf("got[%d] = %d, want %d", i, v, i+1)
		}
	}
}

func TestBulkEquivalence(t *testing.T) {
	r := New[byte](64, PolicyDrop)

	src := make([]byte, 48)
	for i := range src {
		src[i] = byte(i * 3)
	}
	if n := r.TryPushBulk(src); n != len(src) {
		t.Fatalf("pushed %d, want %d", n, len(src))
	}
	out := make([]byte, 48)
	if n := r.TryPopBulk(out); n != len(out) {
		t.Fatalf("popped %d, want %d", n, len(out))
	}
	if diff := cmp.Diff(src, out); diff != "" {
		t.Fatalf("bulk mismatch (-want +got):\n%s", diff)
	}
}

func TestBulkWrapPreservesIdentity(t *testing.T) {
	r := New[int](8, PolicyDrop)

	// Advance cursors to 5 so the next bulk spans the wrap boundary.
	pad := []int{-1, -1, -1, -1, -1}
	r.TryPushBulk(pad)
	r.TryPopBulk(make([]int, 5))

	src := []int{10, 11, 12, 13, 14, 15}
	if n := r.TryPushBulk(src); n != len(src) {
		t.Fatalf("pushed %d, want %d", n, len(src))
	}
	out := make([]int, 6)
	if n := r.TryPopBulk(out); n != len(out) {
		t.Fatalf("popped %d, want %d", n, len(out))
	}
	if diff := cmp.Diff(src, out); diff != "" {
		t.Fatalf("wrap mismatch (-want +got):\n%s", diff)
	}
}

func TestBulkPartial(t *testing.T) {
	r := New[int](8, PolicyDrop)

	src := make([]int, 12)
	for i := range src {
		src[i] = i
	}
	if n := r.TryPushBulk(src); n != 8 {
		t.Fatalf("pushed %d, want 8", n)
	}
	out := make([]int, 12)
	if n := r.TryPopBulk(out); n != 8 {
		t.Fatalf("popped %d, want 8", n)
	}
}

func TestPeekAndClear(t *testing.T) {
	r := New[string](4, PolicyDrop)

	if _, ok := r.TryPeek(); ok {
		t.Fatal("peek succeeded on empty ring")
	}
	r.TryPush("a")
	r.TryPush("b")
	v, ok := r.TryPeek()
	if !ok || *v != "a" {
		t.Fatalf("peek = %v, want a", v)
	}
	if r.Size() != 2 {
		t.Fatalf("peek consumed an element: size %d", r.Size())
	}

	r.Clear()
	if !r.Empty() {
		t.Fatal("ring not empty after clear")
	}
}

func TestCapacityRounding(t *testing.T) {
	for _, tc := range []struct{ in, want int }{
		{1, 2}, {2, 2}, {3, 4}, {8, 8}, {100, 128},
	} {
		r := New[int](tc.in, PolicyDrop)
		if r.Capacity() != tc.want {
			t.Fatalf("capacity(%d) = %d, want %d", tc.in, r.Capacity(), tc.want)
		}
	}
}

// TestRingPropertyBased performs randomized operations and checks cursor
// monotonicity, occupancy bounds and FIFO order at every step.
func TestRingPropertyBased(t *testing.T) {
	for seed := int64(0); seed < 10; seed++ {
		rng := rand.New(rand.NewSource(seed))
		r := New[int](64, PolicyDrop)

		var model []int
		next := 0
		lastHead, lastTail := r.Head(), r.Tail()

		for i := 0; i < 5000; i++ {
			switch rng.Intn(2) {
			case 0:
				if r.TryPush(next) {
					model = append(model, next)
				}
				next++
			case 1:
				v, ok := r.TryPop()
				if ok {
					if v != model[0] {
						t.Fatalf("pop = %d, want %d (FIFO violated)", v, model[0])
					}
					model = model[1:]
				} else if len(model) != 0 {
					t.Fatalf("pop failed with %d modeled elements", len(model))
				}
			}

			head, tail := r.Head(), r.Tail()
			if head < lastHead || tail < lastTail {
				t.Fatal("cursor moved backwards")
			}
			lastHead, lastTail = head, tail
			occ := head - tail
			if occ > uint64(r.Capacity()) {
				t.Fatalf("occupancy %d exceeds capacity", occ)
			}
			if int(occ) != len(model) {
				t.Fatalf("size %d != model %d", occ, len(model))
			}
		}
	}
}

// TestRingConcurrentSPSC drives producer and consumer on separate
// goroutines and verifies element identity end to end.
func TestRingConcurrentSPSC(t *testing.T) {
	const total = 100000
	r := New[int](256, PolicyDrop)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < total; {
			if r.TryPush(i) {
				i++
			} else {
				runtime.Gosched()
			}
		}
	}()

	for want := 0; want < total; {
		if v, ok := r.TryPop(); ok {
			if v != want {
				t.Errorf("pop = %d, want %d", v, want)
				break
			}
			want++
		} else {
			runtime.Gosched()
		}
	}
	wg.Wait()
}

func TestAdvanceWriteAndRead(t *testing.T) {
	r := New[byte](8, PolicyDrop)

	segs, err := r.ReserveWrite(5)
	if err != nil {
		t.Fatalf("reserve: %v", err)
	}
	if segs.Total() != 5 {
		t.Fatalf("reserved %d, want 5", segs.Total())
	}
	b := segs.At(0)
	for i := range b {
		b[i] = byte(i + 1)
	}
	if r.Size() != 5 {
		t.Fatalf("size = %d, want 5", r.Size())
	}
	if err := r.AdvanceRead(5); err != nil {
		t.Fatalf("advance read: %v", err)
	}
	if err := r.AdvanceRead(1); err == nil {
		t.Fatal("advance read past occupancy succeeded")
	}
	if err := r.AdvanceWrite(9); err == nil {
		t.Fatal("advance write past free space succeeded")
	}
}
