// Package query is a small keyed fetch cache for page data: fresh results are
// served from memory, concurrent loads of one key share a single request, and
// failures stay local to their key.
package query

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Status is the lifecycle of one key.
type Status int

const (
	Idle Status = iota
	Loading
	Success
	Error
)

func (s Status) String() string {
	switch s {
	case Loading:
		return "loading"
	case Success:
		return "success"
	case Error:
		return "error"
	}
	return "idle"
}

type entry struct {
	value     any
	hasValue  bool
	fetchedAt time.Time
	status    Status
	err       error
}

// Cache holds one entry per key.
type Cache struct {
	staleTime time.Duration
	now       func() time.Time
	log       *zap.Logger

	group singleflight.Group

	mu      sync.Mutex
	entries map[string]*entry
	gen     map[string]uint64
}

// Option configures a Cache.
type Option func(*Cache)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option { return func(c *Cache) { c.log = l } }

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option { return func(c *Cache) { c.now = now } }

// New returns a cache whose successful entries stay fresh for staleTime.
// A zero staleTime refetches on every call while still deduplicating concurrent ones.
func New(staleTime time.Duration, opts ...Option) *Cache {
	c := &Cache{
		staleTime: staleTime,
		now:       time.Now,
		log:       zap.NewNop(),
		entries:   map[string]*entry{},
		gen:       map[string]uint64{},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Fetch returns the fresh cached value for key or loads it with fn.
//
// A load that was started before Invalidate(key) still hands its result to its
// own callers but is not written back, so a late response never overwrites
// newer state.
func Fetch[T any](ctx context.Context, c *Cache, key string, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T

	c.mu.Lock()
	e := c.entry(key)
	if e.status == Success && e.hasValue && c.now().Sub(e.fetchedAt) < c.staleTime {
		v, ok := e.value.(T)
		c.mu.Unlock()
		if !ok {
			return zero, fmt.Errorf("query %q: cached %T is not %T", key, e.value, zero)
		}
		return v, nil
	}
	gen := c.gen[key]
	e.status = Loading
	c.mu.Unlock()

	flight := key + "#" + strconv.FormatUint(gen, 10)
	res, err, shared := c.group.Do(flight, func() (any, error) {
		return fn(ctx)
	})

	c.mu.Lock()
	defer c.mu.Unlock()
	current := c.gen[key] == gen
	if err != nil {
		if current {
			e := c.entry(key)
			e.status, e.err = Error, err
		}
		c.log.Debug("query failed", zap.String("key", key), zap.Bool("shared", shared), zap.Error(err))
		return zero, err
	}
	v, ok := res.(T)
	if !ok {
		return zero, fmt.Errorf("query %q: loaded %T is not %T", key, res, zero)
	}
	if !current {
		c.log.Debug("query superseded, result not cached", zap.String("key", key))
		return v, nil
	}
	e = c.entry(key)
	e.value, e.hasValue, e.fetchedAt, e.status, e.err = v, true, c.now(), Success, nil
	return v, nil
}

// Peek returns the last successful value for key regardless of freshness.
func Peek[T any](c *Cache, key string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var zero T
	e, ok := c.entries[key]
	if !ok || !e.hasValue {
		return zero, false
	}
	v, ok := e.value.(T)
	return v, ok
}

// Mutate rewrites a cached value in place, e.g. to drop a deleted post from a
// list without refetching. It is a no-op when key holds no value of type T.
func Mutate[T any](c *Cache, key string, fn func(T) T) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok || !e.hasValue {
		return false
	}
	v, ok := e.value.(T)
	if !ok {
		return false
	}
	e.value = fn(v)
	return true
}

// MutatePrefix applies fn to every cached value whose key starts with prefix
// and holds a T. It returns the number of entries changed.
func MutatePrefix[T any](c *Cache, prefix string, fn func(T) T) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for key, e := range c.entries {
		if !strings.HasPrefix(key, prefix) || !e.hasValue {
			continue
		}
		if v, ok := e.value.(T); ok {
			e.value = fn(v)
			n++
		}
	}
	return n
}

// Set stores value for key as freshly fetched.
func Set[T any](c *Cache, key string, value T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e := c.entry(key)
	e.value, e.hasValue, e.fetchedAt, e.status, e.err = value, true, c.now(), Success, nil
}

// Invalidate drops every key that starts with one of prefixes and detaches any
// load in flight for it.
func (c *Cache) Invalidate(prefixes ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.entries {
		for _, p := range prefixes {
			if strings.HasPrefix(key, p) {
				c.gen[key]++
				delete(c.entries, key)
				break
			}
		}
	}
}

// Status reports the state of key and the last error, if any.
func (c *Cache) Status(key string) (Status, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return Idle, nil
	}
	return e.status, e.err
}

// entry returns the entry for key, creating it. Caller holds c.mu.
func (c *Cache) entry(key string) *entry {
	e, ok := c.entries[key]
	if !ok {
		e = &entry{}
		c.entries[key] = e
	}
	return e
}
