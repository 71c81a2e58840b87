package chunk

import (
	"context"
	"fmt"
)

// DefaultChunkSize bounds per-step work when Options.ChunkSize is zero.
const DefaultChunkSize = 256

// ProgressFunc receives the number of processed units after every chunk.
type ProgressFunc func(processed, total int)

// Options tune a chunked task.
type Options struct {
	// ChunkSize is the number of items handled per Step. Must be at
	// least 1; zero uses DefaultChunkSize.
	ChunkSize int

	// OnProgress, when set, fires after every chunk.
	OnProgress ProgressFunc
}

func (o Options) normalize() (Options, error) {
	if o.ChunkSize == 0 {
		o.ChunkSize = DefaultChunkSize
	}
	if o.ChunkSize < 1 {
		return o, fmt.Errorf("chunk: chunk size must be at least 1, got %d", o.ChunkSize)
	}
	return o, nil
}

// Task is a unit of work split into bounded synchronous steps. The owner
// of the run loop calls Step, yields control, and calls Step again until
// it reports done. Work never spans a step boundary, so cancelling
// between steps leaves no half-written state behind.
type Task struct {
	step      func() bool
	total     int
	processed int
	done      bool
	err       error
	opts      Options
}

// Done reports whether the task has run to completion.
func (t *Task) Done() bool {
	return t.done
}

// Processed returns the number of work units completed so far.
func (t *Task) Processed() int {
	return t.processed
}

// Total returns the number of work units the task will perform.
func (t *Task) Total() int {
	return t.total
}

// Step performs one chunk of work. It returns true when the task is
// complete. A cancelled context aborts the remaining chunks and returns
// the context's error; work already done stays consistent.
func (t *Task) Step(ctx context.Context) (bool, error) {
	if t.done {
		return true, nil
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}

	t.done = t.step()
	if t.opts.OnProgress != nil {
		t.opts.OnProgress(t.processed, t.total)
	}
	return t.done, nil
}

// Run drives the task to completion, invoking yield between steps. A nil
// yield runs the chunks back to back, which is useful in tests and
// non-interactive callers.
func (t *Task) Run(ctx context.Context, yield func()) error {
	for {
		done, err := t.Step(ctx)
		if err != nil {
			return err
		}
		if done {
			return nil
		}
		if yield != nil {
			yield()
		}
	}
}

// Process builds a task that applies fn to every item, chunkSize items
// per step. A non-nil error from fn aborts the task at the next step
// boundary.
func Process[T any](items []T, fn func(item T) error, opts Options) (*Task, error) {
	opts, err := opts.normalize()
	if err != nil {
		return nil, err
	}

	t := &Task{total: len(items), opts: opts}
	pos := 0
	t.step = func() bool {
		end := pos + opts.ChunkSize
		if end > len(items) {
			end = len(items)
		}
		for ; pos < end; pos++ {
			if err := fn(items[pos]); err != nil {
				t.err = err
				break
			}
			t.processed++
		}
		return pos >= len(items) || t.err != nil
	}
	return t, nil
}

// Err returns the first error reported by a Process fn, if any. It is
// meaningful once the task is done.
func (t *Task) Err() error {
	return t.err
}

// Filter builds a task that collects the items fn keeps, preserving
// order. The result is available once the task is done.
func Filter[T any](items []T, keep func(item T) bool, opts Options) (*Task, *[]T, error) {
	opts, err := opts.normalize()
	if err != nil {
		return nil, nil, err
	}

	out := make([]T, 0, len(items))
	t := &Task{total: len(items), opts: opts}
	pos := 0
	t.step = func() bool {
		end := pos + opts.ChunkSize
		if end > len(items) {
			end = len(items)
		}
		for ; pos < end; pos++ {
			if keep(items[pos]) {
				out = append(out, items[pos])
			}
			t.processed++
		}
		return pos >= len(items)
	}
	return t, &out, nil
}
