package window

import (
	"fmt"
	"testing"

	"github.com/slatview/slat/heights"
)

func newModel(t *testing.T, def int) *heights.Model {
	t.Helper()
	m, err := heights.New(heights.Config{Default: def})
	if err != nil {
		t.Fatalf("heights.New: %v", err)
	}
	return m
}

func keysN(n int) []string {
	keys := make([]string, n)
	for i := range keys {
		keys[i] = fmt.Sprintf("item-%d", i)
	}
	return keys
}

func TestCompute_EmptyCollection(t *testing.T) {
	c := New(newModel(t, 1))

	w := c.Compute(0, 50, 10)
	if !w.Empty() || w.Count() != 0 {
		t.Fatalf("Compute on empty collection = %+v, want empty window", w)
	}
	if w.TotalExtent != 0 {
		t.Fatalf("TotalExtent = %d, want 0", w.TotalExtent)
	}
}

func TestCompute_WindowBoundedByViewportAndOverscan(t *testing.T) {
	c := New(newModel(t, 1))
	c.Bind(keysN(10000))

	viewport := 50
	overscan := 10
	for _, scroll := range []int{0, 1, 37, 500, 5000, 9949, 9950, 20000} {
		w := c.Compute(scroll, viewport, overscan)
		if w.Empty() {
			t.Fatalf("scroll %d: empty window", scroll)
		}
		if got := w.Count(); got > viewport+2*overscan {
			t.Fatalf("scroll %d: window of %d items, want <= %d", scroll, got, viewport+2*overscan)
		}
		if w.First < 0 || w.Last > 9999 {
			t.Fatalf("scroll %d: window %+v out of range", scroll, w)
		}
	}
}

func TestCompute_CoversViewportExactly(t *testing.T) {
	c := New(newModel(t, 1))
	c.Bind(keysN(200))

	// All heights measured at 1; viewport rows [30, 80) with overscan 5
	// should map to items [25, 84].
	for i := 0; i < 200; i++ {
		c.Record(i, 1)
	}
	w := c.Compute(30, 50, 5)
	if w.First != 25 || w.Last != 84 {
		t.Fatalf("window = [%d, %d], want [25, 84]", w.First, w.Last)
	}
}

func TestCompute_ClampsBeyondTotalExtent(t *testing.T) {
	c := New(newModel(t, 1))
	c.Bind(keysN(100))

	w := c.Compute(10_000, 20, 0)
	if w.Last != 99 {
		t.Fatalf("Last = %d, want 99", w.Last)
	}
	if w.Count() > 20 {
		t.Fatalf("Count = %d, want <= 20", w.Count())
	}

	// Same window as scrolling exactly to the end.
	end := c.Compute(c.TotalExtent()-20, 20, 0)
	if w != end {
		t.Fatalf("clamped window %+v != end window %+v", w, end)
	}
}

func TestRecord_CorrectsCumulativeExtents(t *testing.T) {
	c := New(newModel(t, 1))
	c.Bind(keysN(100))

	if got := c.TotalExtent(); got != 100 {
		t.Fatalf("TotalExtent = %d, want 100", got)
	}

	delta, _ := c.Record(10, 5)
	if delta != 4 {
		t.Fatalf("Record delta = %d, want 4", delta)
	}
	if got := c.TotalExtent(); got != 104 {
		t.Fatalf("TotalExtent after Record = %d, want 104", got)
	}
	if got := c.OffsetOf(11); got != 15 {
		t.Fatalf("OffsetOf(11) = %d, want 15", got)
	}
	// Items before the measurement are unaffected.
	if got := c.OffsetOf(10); got != 10 {
		t.Fatalf("OffsetOf(10) = %d, want 10", got)
	}
}

func TestCompute_VariableHeights(t *testing.T) {
	c := New(newModel(t, 1))
	c.Bind(keysN(50))

	// Item 5 is tall: rows [5, 15). Scrolling into its middle must still
	// include it as the first visible item.
	c.Record(5, 10)

	w := c.Compute(9, 10, 0)
	if w.First != 5 {
		t.Fatalf("First = %d, want 5 (tall item spans the offset)", w.First)
	}

	// One row below its end, item 5 is gone.
	w = c.Compute(15, 10, 0)
	if w.First != 6 {
		t.Fatalf("First = %d, want 6", w.First)
	}
}

func TestRefresh_PicksUpExternalMeasurements(t *testing.T) {
	m := newModel(t, 1)
	c := New(m)
	c.Bind(keysN(10))

	// Recorded directly against the model, e.g. by a resource load.
	m.Record("item-3", 7)
	if got := c.TotalExtent(); got != 10 {
		t.Fatalf("TotalExtent before Refresh = %d, want stale 10", got)
	}

	c.Refresh(3)
	if got := c.TotalExtent(); got != 16 {
		t.Fatalf("TotalExtent after Refresh = %d, want 16", got)
	}
}

func TestClampScroll(t *testing.T) {
	c := New(newModel(t, 1))
	c.Bind(keysN(30))

	cases := []struct {
		name     string
		scroll   int
		viewport int
		want     int
	}{
		{"negative", -4, 10, 0},
		{"in range", 7, 10, 7},
		{"beyond end", 99, 10, 20},
		{"viewport larger than extent", 5, 100, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := c.ClampScroll(tc.scroll, tc.viewport); got != tc.want {
				t.Fatalf("ClampScroll(%d, %d) = %d, want %d", tc.scroll, tc.viewport, got, tc.want)
			}
		})
	}
}
