package access

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// DefaultTTL bounds staleness for cached resolver and tree results.
const DefaultTTL = 5 * time.Minute

type cacheEntry[V any] struct {
	value   V
	expires time.Time
}

// ttlCache memoizes computed values per key with a fixed time to live. The
// clock is injectable so tests control expiry. Concurrent misses for the same
// key are coalesced through singleflight, keeping duplicate store round-trips
// bounded without full request coalescing machinery.
type ttlCache[V any] struct {
	ttl   time.Duration
	now   func() time.Time
	mu    sync.RWMutex
	items map[string]cacheEntry[V]
	group singleflight.Group

	onHit  func()
	onMiss func()
}

func newTTLCache[V any](ttl time.Duration, now func() time.Time) *ttlCache[V] {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if now == nil {
		now = time.Now
	}
	return &ttlCache[V]{
		ttl:   ttl,
		now:   now,
		items: make(map[string]cacheEntry[V]),
	}
}

func (c *ttlCache[V]) get(key string) (V, bool) {
	c.mu.RLock()
	entry, ok := c.items[key]
	c.mu.RUnlock()
	if !ok {
		return entry.value, false
	}
	if c.now().After(entry.expires) {
		c.mu.Lock()
		delete(c.items, key)
		c.mu.Unlock()
		var zero V
		return zero, false
	}
	return entry.value, true
}

func (c *ttlCache[V]) set(key string, value V) {
	c.mu.Lock()
	c.items[key] = cacheEntry[V]{value: value, expires: c.now().Add(c.ttl)}
	c.mu.Unlock()
}

// getOrCompute returns the fresh cached value or recomputes it via fn.
// Failed computations are never cached.
func (c *ttlCache[V]) getOrCompute(ctx context.Context, key string, fn func(context.Context) (V, error)) (V, error) {
	if value, ok := c.get(key); ok {
		if c.onHit != nil {
			c.onHit()
		}
		return value, nil
	}
	if c.onMiss != nil {
		c.onMiss()
	}

	resultChan := c.group.DoChan(key, func() (interface{}, error) {
		if value, ok := c.get(key); ok {
			return value, nil
		}
		value, err := fn(ctx)
		if err != nil {
			return nil, err
		}
		c.set(key, value)
		return value, nil
	})

	var zero V
	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-resultChan:
		if res.Err != nil {
			return zero, res.Err
		}
		return res.Val.(V), nil
	}
}

func (c *ttlCache[V]) invalidate(key string) {
	c.mu.Lock()
	delete(c.items, key)
	c.mu.Unlock()
}

func (c *ttlCache[V]) invalidateAll() {
	c.mu.Lock()
	c.items = make(map[string]cacheEntry[V])
	c.mu.Unlock()
}
