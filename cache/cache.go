// Package cache implements the process-wide result cache: TTL-bounded
// storage keyed by normalized query text, with concurrent-miss coalescing
// so only one builder runs per key at a time.
package cache

import (
	"context"
	"sync"
	"time"

	"github.com/juju/clock"
	"github.com/sirupsen/logrus"
)

// MinTTL is the shortest TTL New accepts (shorter values are raised to it)
// and the TTL used when Cache.TTL is zero.
const MinTTL = 600 * time.Second

// Builder produces the value for a cache miss.
type Builder func() (interface{}, error)

type entry struct {
	value      interface{}
	err        error
	insertedAt time.Time
	done       chan struct{}
}

// Cache is a mutex-guarded map where misses publish a placeholder entry
// before the builder runs, so concurrent readers for the same key wait on
// the same placeholder rather than each running their own builder.
type Cache struct {
	// TTL is the per-entry time-to-live. Defaults to MinTTL if zero.
	TTL time.Duration
	// Clock is used for TTL bookkeeping. Defaults to clock.WallClock.
	Clock clock.Clock

	mu      sync.Mutex
	entries map[string]*entry
}

// New returns a Cache with the given TTL (clamped up to MinTTL) using the
// real wall clock.
func New(ttl time.Duration) *Cache {
	if ttl < MinTTL {
		ttl = MinTTL
	}
	return &Cache{TTL: ttl, Clock: clock.WallClock, entries: make(map[string]*entry)}
}

// FindOrBuild returns the cached value for key, building and inserting it
// via builder on a miss or expiry. Concurrent callers for the same key
// observe the single in-flight builder's result.
func (c *Cache) FindOrBuild(key string, builder Builder) (interface{}, error) {
	c.mu.Lock()
	if e, ok := c.entries[key]; ok {
		if !c.expired(e) {
			c.mu.Unlock()
			<-e.done
			return e.value, e.err
		}
		delete(c.entries, key)
	}

	e := &entry{done: make(chan struct{})}
	c.entries[key] = e
	c.mu.Unlock()

	e.value, e.err = builder()
	e.insertedAt = c.now()
	close(e.done)
	return e.value, e.err
}

func (c *Cache) expired(e *entry) bool {
	select {
	case <-e.done:
	default:
		return false // still being built; not a miss
	}
	ttl := c.TTL
	if ttl <= 0 {
		ttl = MinTTL
	}
	return c.now().Sub(e.insertedAt) >= ttl
}

func (c *Cache) now() time.Time {
	if c.Clock == nil {
		return clock.WallClock.Now()
	}
	return c.Clock.Now()
}

// evictExpired removes every entry whose TTL has elapsed, so a cache that
// sees no further requests for a key doesn't keep holding its value
// forever. It skips entries still mid-build.
func (c *Cache) evictExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	evicted := 0
	for key, e := range c.entries {
		if c.expired(e) {
			delete(c.entries, key)
			evicted++
		}
	}
	return evicted
}

// Janitor periodically sweeps a Cache for expired entries so an idle
// process doesn't retain stale result lists indefinitely. It implements
// service.Service.
type Janitor struct {
	// Cache is the cache to sweep.
	Cache *Cache
	// Interval is the time between sweeps. Defaults to MinTTL if zero.
	Interval time.Duration
	// Clock schedules sweeps. Defaults to clock.WallClock.
	Clock clock.Clock
	// Logger receives a debug line per sweep. If nil, logging is skipped.
	Logger *logrus.Entry
}

// Name implements service.Service.
func (j *Janitor) Name() string { return "cache-janitor" }

// Run implements service.Service. It sweeps the cache on every tick of
// Interval until ctx is cancelled.
func (j *Janitor) Run(ctx context.Context) error {
	interval := j.Interval
	if interval <= 0 {
		interval = MinTTL
	}
	clk := j.Clock
	if clk == nil {
		clk = clock.WallClock
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-clk.After(interval):
			evicted := j.Cache.evictExpired()
			if j.Logger != nil {
				j.Logger.WithField("evicted", evicted).Debug("cache-janitor: swept expired entries")
			}
		}
	}
}
