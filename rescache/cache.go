package rescache

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Status describes what the cache currently knows about a key.
type Status int

const (
	// StatusPending means a load is in flight; ask again later.
	StatusPending Status = iota
	// StatusReady means the resource is cached and available via Get.
	StatusReady
	// StatusFailed means the last load failed and the key is cooling
	// down before it becomes eligible for retry.
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusReady:
		return "ready"
	case StatusFailed:
		return "failed"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Result carries a loaded resource and its approximate in-memory size,
// which the cache charges against its byte budget.
type Result struct {
	Value any
	Size  int64
}

// Loader produces the resource for a key. It runs on its own goroutine;
// the context is cancelled when the cache closes.
type Loader func(ctx context.Context) (Result, error)

// ErrOversized marks a resource whose size alone exceeds the cache
// budget. It is recorded as a load failure for its key.
var ErrOversized = errors.New("rescache: resource exceeds cache budget")

const defaultCooldown = 3 * time.Second

// Config tunes a Cache.
type Config struct {
	// Budget is the total approximate byte size the cache may hold.
	// Must be positive.
	Budget int64

	// Cooldown is how long a failed key stays ineligible for retry.
	// Zero uses a short default.
	Cooldown time.Duration
}

type entryState int

const (
	statePending entryState = iota
	stateReady
	stateFailed
)

type entry struct {
	state      entryState
	value      any
	size       int64
	err        error
	lastAccess time.Time
	failedAt   time.Time
	gen        uint64
}

// Cache is a bounded store for asynchronously loaded auxiliary resources
// keyed by item identity. Requests return immediately with the current
// status; misses start at most one load per key. Completed entries are
// evicted least-recently-accessed first (largest first among ties) to
// stay within the byte budget. In-flight loads are never evicted, and a
// load finishing after its key was invalidated is a no-op.
//
// Cache is safe for concurrent use. Per-key writes are serialized by
// construction: one in-flight load per key, one generation counter to
// reject stale completions.
type Cache struct {
	mu      sync.Mutex
	cfg     Config
	entries map[string]*entry
	used    int64 // bytes held by ready and failed entries
	gen     uint64

	ctx    context.Context
	cancel context.CancelFunc

	clock  func() time.Time
	notify func(key string)
	log    zerolog.Logger
}

// Option customizes a Cache.
type Option func(*Cache)

// WithLogger routes eviction and failure traces to log.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Cache) { c.log = log }
}

// WithNotify registers a callback invoked (outside the cache lock) when a
// load settles, so a render loop can repaint the affected item.
func WithNotify(fn func(key string)) Option {
	return func(c *Cache) { c.notify = fn }
}

// WithClock overrides the time source, for tests.
func WithClock(clock func() time.Time) Option {
	return func(c *Cache) { c.clock = clock }
}

// New builds a Cache. A non-positive budget cannot accommodate a single
// entry and is rejected as a configuration error.
func New(cfg Config, opts ...Option) (*Cache, error) {
	if cfg.Budget <= 0 {
		return nil, fmt.Errorf("rescache: budget must be positive, got %d", cfg.Budget)
	}
	if cfg.Cooldown <= 0 {
		cfg.Cooldown = defaultCooldown
	}
	ctx, cancel := context.WithCancel(context.Background())
	c := &Cache{
		cfg:     cfg,
		entries: make(map[string]*entry),
		ctx:     ctx,
		cancel:  cancel,
		clock:   time.Now,
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Request reports the current status for key and, when the key is absent
// or its failure cooldown has expired, starts an asynchronous load.
// Concurrent requests for a pending key share the single in-flight load.
func (c *Cache) Request(key string, load Loader) Status {
	c.mu.Lock()

	if e, ok := c.entries[key]; ok {
		switch e.state {
		case statePending:
			c.mu.Unlock()
			return StatusPending
		case stateReady:
			e.lastAccess = c.clock()
			c.mu.Unlock()
			return StatusReady
		case stateFailed:
			if c.clock().Sub(e.failedAt) < c.cfg.Cooldown {
				c.mu.Unlock()
				return StatusFailed
			}
			// Cooldown over; fall through to reload.
			c.used -= e.size
		}
	}

	c.gen++
	e := &entry{state: statePending, lastAccess: c.clock(), gen: c.gen}
	c.entries[key] = e
	gen := e.gen
	c.mu.Unlock()

	go c.runLoad(key, gen, load)
	return StatusPending
}

// Get returns the cached resource for key when it is ready. Access
// refreshes the entry's eviction ordering.
func (c *Cache) Get(key string) (any, Status, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, StatusFailed, nil
	}
	switch e.state {
	case stateReady:
		e.lastAccess = c.clock()
		return e.value, StatusReady, nil
	case stateFailed:
		return nil, StatusFailed, e.err
	default:
		return nil, StatusPending, nil
	}
}

// Invalidate removes the entry for key eagerly. An in-flight load for the
// key is abandoned: its eventual completion will not repopulate the slot.
func (c *Cache) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		if e.state != statePending {
			c.used -= e.size
		}
		delete(c.entries, key)
	}
}

// InvalidateAll drops every entry and abandons all in-flight loads.
func (c *Cache) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]*entry)
	c.used = 0
}

// Close abandons all outstanding loads and cancels their contexts. The
// cache is unusable afterwards.
func (c *Cache) Close() {
	c.cancel()
	c.InvalidateAll()
}

// UsedBytes returns the approximate byte size of settled entries.
func (c *Cache) UsedBytes() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.used
}

// Len returns the number of entries, including pending ones.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.entries)
}

// EvictToBudget removes settled entries, least recently accessed first,
// until the byte budget is satisfied. Pending entries are left alone.
func (c *Cache) EvictToBudget() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.evictLocked()
}

func (c *Cache) runLoad(key string, gen uint64, load Loader) {
	res, err := load(c.ctx)

	c.mu.Lock()
	e, ok := c.entries[key]
	if !ok || e.gen != gen {
		// Invalidated or superseded while loading; drop the result.
		c.mu.Unlock()
		return
	}

	if err == nil && res.Size > c.cfg.Budget {
		err = fmt.Errorf("%w: %d bytes over %d", ErrOversized, res.Size, c.cfg.Budget)
	}

	if err != nil {
		e.state = stateFailed
		e.err = err
		e.value = nil
		e.size = 0
		e.failedAt = c.clock()
		c.log.Debug().Str("key", key).Err(err).Msg("resource load failed")
	} else {
		e.state = stateReady
		e.value = res.Value
		e.size = res.Size
		c.used += res.Size
		c.evictLocked()
	}
	notify := c.notify
	c.mu.Unlock()

	if notify != nil {
		notify(key)
	}
}

// evictLocked enforces the byte budget. Caller holds c.mu.
func (c *Cache) evictLocked() {
	if c.used <= c.cfg.Budget {
		return
	}

	type victim struct {
		key string
		e   *entry
	}
	candidates := make([]victim, 0, len(c.entries))
	for key, e := range c.entries {
		if e.state == statePending {
			continue
		}
		candidates = append(candidates, victim{key, e})
	}
	// Oldest access first; among identical access times the largest
	// entry goes first so fewer evictions are needed.
	sort.Slice(candidates, func(i, j int) bool {
		ai, aj := candidates[i].e.lastAccess, candidates[j].e.lastAccess
		if ai.Equal(aj) {
			return candidates[i].e.size > candidates[j].e.size
		}
		return ai.Before(aj)
	})

	for _, v := range candidates {
		if c.used <= c.cfg.Budget {
			return
		}
		c.used -= v.e.size
		delete(c.entries, v.key)
		c.log.Debug().Str("key", v.key).Int64("size", v.e.size).Msg("evicted cache entry")
	}
}
