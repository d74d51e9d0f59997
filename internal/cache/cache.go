package cache

import (
	"sync"
	"time"
)

// entry stores a cached value with the time it was written.
type entry[T any] struct {
	value    T
	storedAt time.Time
}

// Store caches values per key for a TTL.
// Expired entries are reported as misses and replaced by the next Set; they are
// not purged proactively unless MaxItems is exceeded.
type Store[T any] struct {
	ttl      time.Duration
	maxItems int
	now      func() time.Time

	mu    sync.RWMutex
	items map[string]entry[T]
}

// Option configures a Store.
type Option func(*options)

type options struct {
	maxItems int
	now      func() time.Time
}

// WithMaxItems caps the number of keys. Expired keys are evicted first, then
// arbitrary ones.
func WithMaxItems(n int) Option {
	return func(o *options) { o.maxItems = n }
}

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// New creates a store whose entries live for ttl.
func New[T any](ttl time.Duration, opts ...Option) *Store[T] {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return &Store[T]{
		ttl:      ttl,
		maxItems: o.maxItems,
		now:      o.now,
		items:    make(map[string]entry[T]),
	}
}

// TTL returns the configured time-to-live.
func (c *Store[T]) TTL() time.Duration { return c.ttl }

// Get returns the value for key when it was stored less than TTL ago.
func (c *Store[T]) Get(key string) (T, bool) {
	c.mu.RLock()
	e, ok := c.items[key]
	c.mu.RUnlock()

	var zero T
	if !ok || c.now().Sub(e.storedAt) >= c.ttl {
		return zero, false
	}
	return e.value, true
}

// Set overwrites the value for key and stamps it with the current time.
func (c *Store[T]) Set(key string, value T) {
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = entry[T]{value: value, storedAt: now}

	// best-effort cap
	if c.maxItems <= 0 || len(c.items) <= c.maxItems {
		return
	}
	for k, v := range c.items {
		if k != key && now.Sub(v.storedAt) >= c.ttl {
			delete(c.items, k)
		}
	}
	for k := range c.items {
		if len(c.items) <= c.maxItems {
			break
		}
		if k != key {
			delete(c.items, k)
		}
	}
}

// Len reports the number of stored keys, expired or not.
func (c *Store[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}
