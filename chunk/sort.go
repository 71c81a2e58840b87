package chunk

import "sort"

// SortTask incrementally sorts a collection: first it sorts runs of
// ChunkSize items, one run per step, then it merges runs pairwise with
// at most ChunkSize element moves per step. Single-step work stays
// bounded no matter how large the collection is.
//
// The input slice is never mutated; the sorted result becomes available
// through Result once the task is done, so a cancelled sort leaves the
// caller with exactly what it started with.
type SortTask[T any] struct {
	Task
	out []T
}

// Result returns the sorted collection. The second return is false until
// the task has completed.
func (s *SortTask[T]) Result() ([]T, bool) {
	if !s.done {
		return nil, false
	}
	return s.out, true
}

// Sort builds an incremental merge sort task over items. The ordering is
// stable and identical to a one-shot stable sort with the same less
// function, regardless of chunk size.
func Sort[T any](items []T, less func(a, b T) bool, opts Options) (*SortTask[T], error) {
	opts, err := opts.normalize()
	if err != nil {
		return nil, err
	}

	n := len(items)
	cur := make([]T, n)
	copy(cur, items)
	next := make([]T, n)

	passes := 0
	for w := opts.ChunkSize; w < n; w <<= 1 {
		passes++
	}

	s := &SortTask[T]{}
	s.opts = opts
	s.total = n + passes*n

	const (
		phaseRuns = iota
		phaseMerge
	)
	phase := phaseRuns
	runStart := 0
	width := opts.ChunkSize

	// Merge cursors. A pair [pairStart, mid) + [mid, hi) may take
	// several steps to drain; the cursors persist across steps.
	pairStart := 0
	var i, j, k, mid, hi int
	pairActive := false

	s.step = func() bool {
		if n == 0 {
			s.out = cur
			return true
		}

		if phase == phaseRuns {
			lo := runStart
			end := min(lo+opts.ChunkSize, n)
			sub := cur[lo:end]
			sort.SliceStable(sub, func(a, b int) bool { return less(sub[a], sub[b]) })
			s.processed += end - lo
			runStart = end
			if runStart >= n {
				if width >= n {
					s.out = cur
					return true
				}
				phase = phaseMerge
			}
			return false
		}

		budget := opts.ChunkSize
		for budget > 0 {
			if !pairActive {
				if pairStart >= n {
					// Pass complete; swap buffers and widen.
					cur, next = next, cur
					width <<= 1
					pairStart = 0
					if width >= n {
						s.out = cur
						return true
					}
					continue
				}
				mid = min(pairStart+width, n)
				hi = min(pairStart+2*width, n)
				i, j, k = pairStart, mid, pairStart
				pairActive = true
			}

			// Take from the left run on ties to keep the sort stable.
			if i < mid && (j >= hi || !less(cur[j], cur[i])) {
				next[k] = cur[i]
				i++
			} else {
				next[k] = cur[j]
				j++
			}
			k++
			s.processed++
			budget--

			if k >= hi {
				pairStart = hi
				pairActive = false
			}
		}
		return false
	}
	return s, nil
}
