package window

import (
	"github.com/slatview/slat/heights"
)

// Window is the contiguous index range a list must materialize, plus the
// current estimate of the collection's total extent.
type Window struct {
	First       int
	Last        int
	TotalExtent int
}

// Empty reports whether the window contains no items.
func (w Window) Empty() bool {
	return w.Last < w.First
}

// Count returns the number of items in the window.
func (w Window) Count() int {
	if w.Empty() {
		return 0
	}
	return w.Last - w.First + 1
}

// Calculator computes visible index ranges for an ordered collection of
// keyed items. Heights come from the bound model; a Fenwick tree keeps
// cumulative extents incrementally correct, so each Compute walks
// O(log n) nodes instead of re-accumulating the whole collection.
//
// Calculator is not safe for concurrent use. It belongs to whichever
// loop renders the list, the same way a viewport model does.
type Calculator struct {
	model *heights.Model
	keys  []string
	vals  []int
	tree  *fenwick
}

// New builds a Calculator over model with an empty collection.
func New(model *heights.Model) *Calculator {
	c := &Calculator{model: model}
	c.Bind(nil)
	return c
}

// Bind replaces the collection with a new ordered key sequence and
// rebuilds cumulative extents from the model's current knowledge. Keys
// are copied; the caller may mutate its slice afterwards.
func (c *Calculator) Bind(keys []string) {
	c.keys = make([]string, len(keys))
	copy(c.keys, keys)
	c.vals = make([]int, len(keys))
	for i, key := range c.keys {
		c.vals[i] = c.model.Height(key)
	}
	c.tree = newFenwick(c.vals)
}

// Len returns the number of items in the bound collection.
func (c *Calculator) Len() int {
	return len(c.keys)
}

// Key returns the key at index i.
func (c *Calculator) Key(i int) string {
	return c.keys[i]
}

// Record stores a measured height for the item at index i and folds the
// change into the cumulative extents. It returns the extent shift and
// whether the shift is large enough that the caller should compensate
// the scroll position when the item sits above the viewport.
func (c *Calculator) Record(i, height int) (delta int, compensate bool) {
	if i < 0 || i >= len(c.keys) {
		return 0, false
	}
	compensate = c.model.Record(c.keys[i], height)
	h := c.model.Height(c.keys[i])
	delta = h - c.vals[i]
	if delta != 0 {
		c.vals[i] = h
		c.tree.add(i, delta)
	}
	return delta, compensate
}

// Refresh re-reads the model height for index i, picking up measurements
// recorded by other collaborators (for example a resource load reporting
// a thumbnail's real extent).
func (c *Calculator) Refresh(i int) {
	if i < 0 || i >= len(c.keys) {
		return
	}
	h := c.model.Height(c.keys[i])
	if delta := h - c.vals[i]; delta != 0 {
		c.vals[i] = h
		c.tree.add(i, delta)
	}
}

// TotalExtent returns the summed extent of all items, measured heights
// plus defaults for unmeasured ones.
func (c *Calculator) TotalExtent() int {
	return c.tree.prefix(len(c.keys))
}

// OffsetOf returns the cumulative extent before the item at index i.
func (c *Calculator) OffsetOf(i int) int {
	if i < 0 {
		return 0
	}
	if i > len(c.keys) {
		i = len(c.keys)
	}
	return c.tree.prefix(i)
}

// Compute returns the window of items that must be materialized for the
// given scroll offset and viewport extent. Overscan widens the range on
// both sides to mask pop-in during fast scrolling.
//
// Scroll offsets beyond the total extent clamp to the last valid window;
// an empty collection yields an empty window.
func (c *Calculator) Compute(scrollOffset, viewportExtent, overscan int) Window {
	n := len(c.keys)
	total := c.TotalExtent()
	if n == 0 {
		return Window{First: 0, Last: -1, TotalExtent: 0}
	}
	if viewportExtent < 0 {
		viewportExtent = 0
	}
	if overscan < 0 {
		overscan = 0
	}

	maxScroll := total - viewportExtent
	if maxScroll < 0 {
		maxScroll = 0
	}
	if scrollOffset > maxScroll {
		scrollOffset = maxScroll
	}
	if scrollOffset < 0 {
		scrollOffset = 0
	}

	lowTarget := scrollOffset - overscan
	if lowTarget < 0 {
		lowTarget = 0
	}
	first := c.tree.find(lowTarget)
	if first >= n {
		first = n - 1
	}

	highTarget := scrollOffset + viewportExtent + overscan
	last := c.tree.find(highTarget - 1)
	if last >= n {
		last = n - 1
	}
	if last < first {
		last = first
	}

	return Window{First: first, Last: last, TotalExtent: total}
}

// ClampScroll limits a scroll offset to the valid range for the given
// viewport extent.
func (c *Calculator) ClampScroll(scrollOffset, viewportExtent int) int {
	maxScroll := c.TotalExtent() - viewportExtent
	if maxScroll < 0 {
		maxScroll = 0
	}
	if scrollOffset > maxScroll {
		return maxScroll
	}
	if scrollOffset < 0 {
		return 0
	}
	return scrollOffset
}
