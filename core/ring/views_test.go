// File: core/ring/views_test.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package ring

import (
	"errors"
	"testing"

	"github.com/momentics/hioload-pipe/api"
)

func TestContiguousReadViewNeverWraps(t *testing.T) {
	r := New[int](8, PolicyDrop)

	// Move cursors to 6, then fill 5 elements across the wrap.
	r.TryPushBulk(make([]int, 6))
	r.TryPopBulk(make([]int, 6))
	r.TryPushBulk([]int{1, 2, 3, 4, 5})

	v := r.ContiguousReadView(16)
	if v.Segments() != 1 {
		t.Fatalf("segments = %d, want 1", v.Segments())
	}
	if v.Len() != 2 {
		t.Fatalf("len = %d, want 2 (bounded by wrap)", v.Len())
	}
	if v.At(0) != 1 || v.At(1) != 2 {
		t.Fatal("view content wrong")
	}
}

func TestReadViewsSplitOnWrap(t *testing.T) {
	r := New[int](8, PolicyDrop)

	r.TryPushBulk(make([]int, 6))
	r.TryPopBulk(make([]int, 6))
	r.TryPushBulk([]int{1, 2, 3, 4, 5})

	v := r.ReadViews(16)
	if v.Segments() != 2 {
		t.Fatalf("segments = %d, want 2", v.Segments())
	}
	if len(v.Segment(0)) != 2 || len(v.Segment(1)) != 3 {
		t.Fatalf("segment lengths = %d,%d, want 2,3",
			len(v.Segment(0)), len(v.Segment(1)))
	}
	out := make([]int, 5)
	if n := v.CopyTo(out); n != 5 {
		t.Fatalf("copied %d, want 5", n)
	}
	for i, w := range []int{1, 2, 3, 4, 5} {
		if out[i] != w {
			t.Fatalf("out[%d] = %d, want %d", i, out[i], w)
		}
	}

	// The view is a borrow: releasing is explicit.
	if err := r.AdvanceRead(5); err != nil {
		t.Fatalf("advance read: %v", err)
	}
	if !r.Empty() {
		t.Fatal("ring not drained")
	}
}

func TestReadViewsBoundedByMax(t *testing.T) {
	r := New[int](8, PolicyDrop)
	r.TryPushBulk([]int{1, 2, 3, 4})

	v := r.ReadViews(2)
	if v.Len() != 2 {
		t.Fatalf("len = %d, want 2", v.Len())
	}
}

func TestWriteViewCommitAdvancesHead(t *testing.T) {
	r := New[int](8, PolicyDrop)

	w := r.GetWriteView(3)
	if w.Cap() != 3 {
		t.Fatalf("cap = %d, want 3", w.Cap())
	}
	w.Write([]int{7, 8, 9})
	if err := w.Commit(3); err != nil {
		t.Fatalf("commit: %v", err)
	}
	if r.Size() != 3 {
		t.Fatalf("size = %d, want 3", r.Size())
	}
	for _, want := range []int{7, 8, 9} {
		v, _ := r.TryPop()
		if v != want {
			t.Fatalf("pop = %d, want %d", v, want)
		}
	}
}

func TestWriteViewDroppedWithoutCommit(t *testing.T) {
	r := New[int](8, PolicyDrop)

	w := r.GetWriteView(4)
	w.Write([]int{1, 2, 3, 4})
	w.Close()
	if r.Size() != 0 {
		t.Fatalf("size = %d after abandoned view, want 0", r.Size())
	}
	if err := w.Commit(4); err != nil {
		t.Fatalf("commit after close: %v", err)
	}
	if r.Size() != 0 {
		t.Fatal("commit after close advanced head")
	}
}

func TestWriteViewOverCommit(t *testing.T) {
	r := New[int](8, PolicyDrop)

	w := r.GetWriteView(4)
	if err := w.Commit(5); !errors.Is(err, api.ErrViewOverCommit) {
		t.Fatalf("commit(5) err = %v, want ErrViewOverCommit", err)
	}
}

func TestWriteViewContiguousBound(t *testing.T) {
	r := New[int](8, PolicyDrop)

	// head at 6: contiguous run is 2 even though 8 slots are free.
	r.TryPushBulk(make([]int, 6))
	r.TryPopBulk(make([]int, 6))

	w := r.GetWriteView(8)
	if w.Cap() != 2 {
		t.Fatalf("cap = %d, want 2", w.Cap())
	}
}

// Capacity-8 ring with tail advanced to 3 wraps a 5-element reservation
// into segments of 2 and 3 when head is at 6.
func TestNonContiguousWriteViewScenario(t *testing.T) {
	r := New[int](8, PolicyDrop)

	// head 6, tail 3: occupancy 3, free 5.
	r.TryPushBulk(make([]int, 6))
	r.TryPopBulk(make([]int, 3))

	w := r.GetNonContiguousWriteView(5)
	if w.Segments() != 2 {
		t.Fatalf("segments = %d, want 2", w.Segments())
	}
	if len(w.Segment(0)) != 2 || len(w.Segment(1)) != 3 {
		t.Fatalf("segment lengths = %d,%d, want 2,3",
			len(w.Segment(0)), len(w.Segment(1)))
	}
	if n := w.Write([]int{100, 101, 102, 103, 104}); n != 5 {
		t.Fatalf("wrote %d, want 5", n)
	}
	if err := w.Commit(5); err != nil {
		t.Fatalf("commit: %v", err)
	}

	// Drain the three padding elements, then the committed five.
	r.TryPopBulk(make([]int, 3))
	for _, want := range []int{100, 101, 102, 103, 104} {
		v, ok := r.TryPop()
		if !ok || v != want {
			t.Fatalf("pop = (%d,%v), want (%d,true)", v, ok, want)
		}
	}
}

func TestNonContiguousWriteViewOverCommit(t *testing.T) {
	r := New[int](8, PolicyDrop)

	w := r.GetNonContiguousWriteView(4)
	if err := w.Commit(5); !errors.Is(err, api.ErrViewOverCommit) {
		t.Fatalf("commit(5) err = %v, want ErrViewOverCommit", err)
	}
}

func TestEmptyViews(t *testing.T) {
	r := New[int](4, PolicyDrop)

	if v := r.ContiguousReadView(4); v.Len() != 0 {
		t.Fatal("read view on empty ring not empty")
	}
	r.TryPushBulk(make([]int, 4))
	w := r.GetWriteView(4)
	if w.Cap() != 0 {
		t.Fatal("write view on full ring not empty")
	}
	if !w.Committed() {
		t.Fatal("empty write view must be pre-committed")
	}
}
