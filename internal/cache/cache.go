package cache

import (
	"sync"
	"time"
)

// Cache holds a single value with a fixed time-to-live. It fronts the
// upstream sentiment fetch on the read path so repeated requests inside
// the TTL never hit the API. Safe for concurrent use.
type Cache[T any] struct {
	mu       sync.RWMutex
	value    T
	storedAt time.Time
	ttl      time.Duration
	now      func() time.Time
}

// New creates an empty cache with the given TTL.
func New[T any](ttl time.Duration) *Cache[T] {
	return &Cache[T]{
		ttl: ttl,
		now: time.Now,
	}
}

// Get returns the cached value and whether it is still fresh. A value
// exactly at the TTL boundary counts as expired.
func (c *Cache[T]) Get() (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.storedAt.IsZero() || c.now().Sub(c.storedAt) >= c.ttl {
		var zero T
		return zero, false
	}
	return c.value, true
}

// Set stores a value and restarts the TTL clock.
func (c *Cache[T]) Set(value T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.value = value
	c.storedAt = c.now()
}

// Invalidate drops the cached value.
func (c *Cache[T]) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.storedAt = time.Time{}
}
