package heights

import (
	"container/list"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
)

// Defaults used when the corresponding Config field is zero.
const (
	DefaultRowHeight  = 1
	DefaultRetention  = 10000
	DefaultTolerance  = 0
	DefaultCompensate = 1
)

// Config tunes a height model.
type Config struct {
	// Default is the height assumed for items that have never been
	// measured. Must be at least 1.
	Default int

	// Retention caps the number of entries kept. Entries beyond the cap
	// are evicted least-recently-touched first and fall back to Default
	// until measured again.
	Retention int

	// Tolerance is the largest difference between two measurements of
	// the same key that is accepted silently. Larger differences are
	// logged before the newer value wins.
	Tolerance int

	// Compensate is the smallest extent shift that Record reports to
	// the caller, so it can adjust the scroll position instead of
	// letting content jump.
	Compensate int
}

func (c Config) withDefaults() Config {
	if c.Default == 0 {
		c.Default = DefaultRowHeight
	}
	if c.Retention == 0 {
		c.Retention = DefaultRetention
	}
	if c.Compensate == 0 {
		c.Compensate = DefaultCompensate
	}
	return c
}

func (c Config) validate() error {
	if c.Default < 1 {
		return fmt.Errorf("heights: default height must be at least 1, got %d", c.Default)
	}
	if c.Retention < 1 {
		return fmt.Errorf("heights: retention must be at least 1, got %d", c.Retention)
	}
	return nil
}

type entry struct {
	key   string
	value int
}

// Model tracks measured item heights by key. Unknown keys read as the
// configured default, so callers never need to special-case misses.
//
// Model is safe for concurrent use; it is the single authority for a
// key's height, which keeps writers from racing on the same entry.
type Model struct {
	mu      sync.Mutex
	cfg     Config
	entries map[string]*list.Element
	order   *list.List // front = most recently touched
	log     zerolog.Logger
}

// Option customizes a Model.
type Option func(*Model)

// WithLogger routes inconsistent-measurement warnings to log.
func WithLogger(log zerolog.Logger) Option {
	return func(m *Model) { m.log = log }
}

// New builds a Model. Invalid tuning values are configuration errors and
// fail here rather than surfacing later as bad windows.
func New(cfg Config, opts ...Option) (*Model, error) {
	cfg = cfg.withDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	m := &Model{
		cfg:     cfg,
		entries: make(map[string]*list.Element),
		order:   list.New(),
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Default returns the height assumed for unmeasured items.
func (m *Model) Default() int {
	return m.cfg.Default
}

// Height returns the measured height for key, or the default when the key
// has never been measured or its entry has been evicted.
func (m *Model) Height(key string) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	el, ok := m.entries[key]
	if !ok {
		return m.cfg.Default
	}
	m.order.MoveToFront(el)
	return el.Value.(*entry).value
}

// Measured reports whether key currently has a recorded measurement.
func (m *Model) Measured(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, ok := m.entries[key]
	return ok
}

// Record stores a measured height for key and reports whether the change
// shifted the item's extent by at least the compensation threshold, in
// which case the caller should correct the scroll position before the
// next frame.
func (m *Model) Record(key string, height int) bool {
	if height < 1 {
		height = 1
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	prev := m.cfg.Default
	if el, ok := m.entries[key]; ok {
		e := el.Value.(*entry)
		prev = e.value
		if diff := abs(height - e.value); diff > m.cfg.Tolerance && m.cfg.Tolerance > 0 {
			// Content can legitimately change size; the newer
			// measurement wins, but a large swing is worth a trace.
			m.log.Warn().
				Str("key", key).
				Int("previous", e.value).
				Int("measured", height).
				Msg("inconsistent height measurement")
		}
		e.value = height
		m.order.MoveToFront(el)
	} else {
		m.entries[key] = m.order.PushFront(&entry{key: key, value: height})
		m.evictOverCap()
	}

	return abs(height-prev) >= m.cfg.Compensate
}

// Forget drops the entry for key, if any. Used when an item leaves the
// underlying sequence.
func (m *Model) Forget(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if el, ok := m.entries[key]; ok {
		m.order.Remove(el)
		delete(m.entries, key)
	}
}

// Reset drops all entries, for rebinding the model to a new collection.
func (m *Model) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries = make(map[string]*list.Element)
	m.order.Init()
}

// Len returns the number of retained entries.
func (m *Model) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.entries)
}

func (m *Model) evictOverCap() {
	for len(m.entries) > m.cfg.Retention {
		back := m.order.Back()
		if back == nil {
			return
		}
		m.order.Remove(back)
		delete(m.entries, back.Value.(*entry).key)
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
