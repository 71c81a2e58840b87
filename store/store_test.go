package store

import (
	"testing"
)

// manualScheduler queues posted flushes until the test runs the tick.
type manualScheduler struct {
	queue []func()
}

func (m *manualScheduler) Post(fn func()) {
	m.queue = append(m.queue, fn)
}

func (m *manualScheduler) Tick() {
	queue := m.queue
	m.queue = nil
	for _, fn := range queue {
		fn()
	}
}

func TestUpdate_SynchronousWithoutScheduler(t *testing.T) {
	s := New(nil)

	var versions []uint64
	s.Subscribe([]string{"items"}, func(snap Snapshot, changed []string) {
		versions = append(versions, snap.Version())
	})

	s.Set("items", []int{1})
	s.Set("items", []int{1, 2})

	if len(versions) != 2 || versions[0] != 1 || versions[1] != 2 {
		t.Fatalf("versions = %v, want [1 2]", versions)
	}
}

func TestUpdate_CoalescesWithinTick(t *testing.T) {
	sched := &manualScheduler{}
	s := New(sched)

	var published []int
	var versions []uint64
	s.Subscribe([]string{"progress"}, func(snap Snapshot, changed []string) {
		v, _ := snap.Get("progress")
		published = append(published, v.(int))
		versions = append(versions, snap.Version())
	})

	// Ten progress updates inside a single tick.
	for i := 1; i <= 10; i++ {
		s.Set("progress", i*10)
	}
	if len(sched.queue) != 1 {
		t.Fatalf("scheduled %d flushes, want 1", len(sched.queue))
	}

	sched.Tick()

	if len(published) != 1 || published[0] != 100 {
		t.Fatalf("published = %v, want one batch with last value 100", published)
	}
	if len(versions) != 1 || versions[0] != 1 {
		t.Fatalf("versions = %v, want [1]", versions)
	}

	// A second tick with updates publishes version 2.
	s.Set("progress", 55)
	sched.Tick()
	if got := s.Snapshot().Version(); got != 2 {
		t.Fatalf("version = %d, want 2 (one per tick with updates)", got)
	}
}

func TestVersions_StrictlyIncreasing(t *testing.T) {
	sched := &manualScheduler{}
	s := New(sched)

	var last uint64
	s.Subscribe([]string{"a", "b"}, func(snap Snapshot, changed []string) {
		if snap.Version() <= last {
			t.Fatalf("version %d after %d, want strictly increasing", snap.Version(), last)
		}
		last = snap.Version()
	})

	for i := 0; i < 20; i++ {
		s.Set("a", i)
		if i%3 == 0 {
			s.Set("b", i)
		}
		sched.Tick()
	}
	if last != 20 {
		t.Fatalf("final version = %d, want 20 ticks published", last)
	}
}

func TestSubscribe_PropertyScoped(t *testing.T) {
	s := New(nil)

	var itemsCalls, scrollCalls int
	s.Subscribe([]string{"items"}, func(Snapshot, []string) { itemsCalls++ })
	s.Subscribe([]string{"scrollOffset"}, func(Snapshot, []string) { scrollCalls++ })

	s.Set("items", 1)
	s.Set("items", 2)
	s.Set("scrollOffset", 40)

	if itemsCalls != 2 {
		t.Fatalf("items subscriber called %d times, want 2", itemsCalls)
	}
	if scrollCalls != 1 {
		t.Fatalf("scroll subscriber called %d times, want 1", scrollCalls)
	}
}

func TestSubscribe_ChangedNamesFiltered(t *testing.T) {
	sched := &manualScheduler{}
	s := New(sched)

	var got []string
	s.Subscribe([]string{"items", "progress"}, func(snap Snapshot, changed []string) {
		got = append(got[:0], changed...)
	})

	s.Update(map[string]any{"items": 1, "scrollOffset": 2, "progress": 3})
	sched.Tick()

	if len(got) != 2 {
		t.Fatalf("changed = %v, want the two subscribed names", got)
	}
	for _, name := range got {
		if name != "items" && name != "progress" {
			t.Fatalf("changed includes %q, want only subscribed names", name)
		}
	}
}

func TestUnsubscribe(t *testing.T) {
	s := New(nil)

	calls := 0
	id := s.Subscribe([]string{"x"}, func(Snapshot, []string) { calls++ })

	s.Set("x", 1)
	s.Unsubscribe(id)
	s.Set("x", 2)

	if calls != 1 {
		t.Fatalf("calls = %d, want 1 after unsubscribe", calls)
	}
}

func TestSnapshot_ImmutableAcrossPublishes(t *testing.T) {
	s := New(nil)

	s.Set("count", 1)
	old := s.Snapshot()
	s.Set("count", 2)

	if v, _ := old.Get("count"); v.(int) != 1 {
		t.Fatalf("old snapshot mutated: count = %v, want 1", v)
	}
	if v, _ := s.Snapshot().Get("count"); v.(int) != 2 {
		t.Fatalf("new snapshot count = %v, want 2", v)
	}
	if old.Version() >= s.Snapshot().Version() {
		t.Fatalf("versions not increasing: old %d, new %d", old.Version(), s.Snapshot().Version())
	}
}

func TestFlush_NoPendingIsNoOp(t *testing.T) {
	s := New(nil)
	s.Flush()
	if got := s.Snapshot().Version(); got != 0 {
		t.Fatalf("version after empty Flush = %d, want 0", got)
	}
}
