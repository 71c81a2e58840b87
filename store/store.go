package store

import (
	"sync"
)

// Scheduler posts a function to run on the owner's next tick. It is the
// coalescing point: all updates applied before the posted flush runs are
// published as a single version.
type Scheduler interface {
	Post(fn func())
}

// SchedulerFunc adapts a function to the Scheduler interface.
type SchedulerFunc func(fn func())

// Post implements Scheduler.
func (f SchedulerFunc) Post(fn func()) { f(fn) }

// Snapshot is an immutable, versioned view of the container's named
// properties. The backing map is never mutated after publication, so a
// snapshot can be read without synchronization.
type Snapshot struct {
	version uint64
	props   map[string]any
}

// Version returns the snapshot's monotonically increasing version.
func (s Snapshot) Version() uint64 {
	return s.version
}

// Get returns the value of a named property.
func (s Snapshot) Get(name string) (any, bool) {
	v, ok := s.props[name]
	return v, ok
}

// Callback receives the published snapshot and the names of properties
// that changed in the batch, filtered to the subscriber's interest set.
type Callback func(snap Snapshot, changed []string)

type subscription struct {
	id    uint64
	names map[string]struct{}
	fn    Callback
}

// Store holds a versioned state snapshot with partial updates and
// property-scoped notification. Updates issued before the scheduler runs
// the pending flush are coalesced, last value wins per property, into a
// single published version, so ten progress updates in one tick cost one
// notification.
//
// A nil scheduler publishes synchronously on every Update, which makes
// each update its own tick.
type Store struct {
	mu        sync.Mutex
	sched     Scheduler
	current   Snapshot
	pending   map[string]any
	scheduled bool
	subs      []*subscription
	nextSubID uint64
}

// New builds a Store. sched may be nil for synchronous publication.
func New(sched Scheduler) *Store {
	return &Store{
		sched:   sched,
		current: Snapshot{props: map[string]any{}},
	}
}

// Update merges the given properties into the pending batch and arranges
// for a flush on the next tick. Properties written several times before
// the flush keep only their latest value.
func (s *Store) Update(props map[string]any) {
	if len(props) == 0 {
		return
	}

	s.mu.Lock()
	if s.pending == nil {
		s.pending = make(map[string]any, len(props))
	}
	for name, value := range props {
		s.pending[name] = value
	}
	if s.sched == nil {
		s.mu.Unlock()
		s.Flush()
		return
	}
	if !s.scheduled {
		s.scheduled = true
		sched := s.sched
		s.mu.Unlock()
		sched.Post(s.Flush)
		return
	}
	s.mu.Unlock()
}

// Set updates a single property.
func (s *Store) Set(name string, value any) {
	s.Update(map[string]any{name: value})
}

// Flush publishes the pending batch as a new snapshot and notifies the
// subscribers whose properties changed, in subscription order. It is a
// no-op when nothing is pending.
func (s *Store) Flush() {
	s.mu.Lock()
	if len(s.pending) == 0 {
		s.scheduled = false
		s.mu.Unlock()
		return
	}

	// Copy-on-write: the old snapshot map stays valid for anyone
	// still holding it.
	props := make(map[string]any, len(s.current.props)+len(s.pending))
	for name, value := range s.current.props {
		props[name] = value
	}
	changed := make([]string, 0, len(s.pending))
	for name, value := range s.pending {
		props[name] = value
		changed = append(changed, name)
	}
	s.pending = nil
	s.scheduled = false
	s.current = Snapshot{version: s.current.version + 1, props: props}

	snap := s.current
	subs := make([]*subscription, len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	for _, sub := range subs {
		var hits []string
		for _, name := range changed {
			if _, ok := sub.names[name]; ok {
				hits = append(hits, name)
			}
		}
		if len(hits) > 0 {
			sub.fn(snap, hits)
		}
	}
}

// Subscribe registers interest in the named properties. The callback
// runs during Flush, on the flushing goroutine, only when at least one
// of the names changed. It returns a token for Unsubscribe.
func (s *Store) Subscribe(names []string, fn Callback) uint64 {
	set := make(map[string]struct{}, len(names))
	for _, name := range names {
		set[name] = struct{}{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextSubID++
	s.subs = append(s.subs, &subscription{id: s.nextSubID, names: set, fn: fn})
	return s.nextSubID
}

// Unsubscribe removes a subscription by token.
func (s *Store) Unsubscribe(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, sub := range s.subs {
		if sub.id == id {
			s.subs = append(s.subs[:i], s.subs[i+1:]...)
			return
		}
	}
}

// Snapshot returns the latest published snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.current
}
