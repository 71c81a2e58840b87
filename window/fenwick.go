package window

// fenwick is a binary indexed tree over per-item extents. It supports
// point updates, prefix sums, and prefix-threshold search in O(log n),
// which keeps window computation independent of collection size.
type fenwick struct {
	tree []int // 1-based
	msb  int   // largest power of two <= len
}

func newFenwick(values []int) *fenwick {
	n := len(values)
	f := &fenwick{tree: make([]int, n+1)}
	for f.msb = 1; f.msb<<1 <= n; f.msb <<= 1 {
	}
	// O(n) build: write values, then push each node into its parent.
	for i, v := range values {
		f.tree[i+1] += v
		if parent := i + 1 + ((i + 1) & -(i + 1)); parent <= n {
			f.tree[parent] += f.tree[i+1]
		}
	}
	return f
}

func (f *fenwick) len() int {
	return len(f.tree) - 1
}

// add applies a delta to the extent of item i (0-based).
func (f *fenwick) add(i, delta int) {
	for j := i + 1; j <= f.len(); j += j & -j {
		f.tree[j] += delta
	}
}

// prefix returns the summed extent of items [0, i).
func (f *fenwick) prefix(i int) int {
	sum := 0
	for j := i; j > 0; j -= j & -j {
		sum += f.tree[j]
	}
	return sum
}

// find returns the smallest item index whose cumulative extent exceeds
// target, or len() when no prefix does.
func (f *fenwick) find(target int) int {
	pos := 0
	rem := target
	for k := f.msb; k > 0; k >>= 1 {
		next := pos + k
		if next <= f.len() && f.tree[next] <= rem {
			pos = next
			rem -= f.tree[next]
		}
	}
	return pos
}
