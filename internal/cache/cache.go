// Package cache provides a process-local bounded TTL cache.
// Eviction is insertion-order (FIFO), not access-order LRU.
package cache

import (
	"container/list"
	"context"
	"sync"
	"time"
)

// DefaultTTL is applied when Set is called with a non-positive TTL.
const DefaultTTL = 5 * time.Minute

// DefaultMaxEntries bounds the cache when no explicit size is configured.
const DefaultMaxEntries = 1000

type entry struct {
	key       string
	data      any
	timestamp time.Time
	ttl       time.Duration
}

// Cache is a bounded in-memory cache with per-entry TTL.
// Expiry is checked lazily on Get; there is no background sweep.
type Cache struct {
	mu         sync.Mutex
	entries    map[string]*list.Element
	order      *list.List // front = oldest insertion
	maxEntries int
	now        func() time.Time
}

// New creates a Cache bounded to maxEntries. A non-positive bound falls back
// to DefaultMaxEntries.
func New(maxEntries int) *Cache {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &Cache{
		entries:    make(map[string]*list.Element),
		order:      list.New(),
		maxEntries: maxEntries,
		now:        time.Now,
	}
}

// Set stores data under key. Inserting beyond capacity evicts the
// oldest-inserted entry first.
func (c *Cache) Set(key string, data any, ttl time.Duration) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.entries[key]; ok {
		e := el.Value.(*entry)
		e.data = data
		e.timestamp = c.now()
		e.ttl = ttl
		return
	}

	if c.order.Len() >= c.maxEntries {
		oldest := c.order.Front()
		if oldest != nil {
			c.removeLocked(oldest)
		}
	}

	el := c.order.PushBack(&entry{key: key, data: data, timestamp: c.now(), ttl: ttl})
	c.entries[key] = el
}

// Get returns the cached value, or nil and false if the key is absent or
// expired. Expired entries are removed at access time.
func (c *Cache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.entries[key]
	if !ok {
		return nil, false
	}

	e := el.Value.(*entry)
	if c.now().Sub(e.timestamp) > e.ttl {
		c.removeLocked(el)
		return nil, false
	}

	return e.data, true
}

// Has reports whether key holds an unexpired entry.
func (c *Cache) Has(key string) bool {
	_, ok := c.Get(key)
	return ok
}

// Delete removes key and reports whether it was present.
func (c *Cache) Delete(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.entries[key]
	if !ok {
		return false
	}
	c.removeLocked(el)
	return true
}

// Clear removes all entries.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]*list.Element)
	c.order.Init()
}

// Len returns the number of stored entries, expired ones included until they
// are lazily removed.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// Stats describes the cache contents at a point in time.
type Stats struct {
	Total   int
	Active  int
	Expired int
}

func (c *Cache) GetStats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	stats := Stats{Total: c.order.Len()}
	for el := c.order.Front(); el != nil; el = el.Next() {
		e := el.Value.(*entry)
		if now.Sub(e.timestamp) > e.ttl {
			stats.Expired++
		} else {
			stats.Active++
		}
	}
	return stats
}

func (c *Cache) removeLocked(el *list.Element) {
	e := el.Value.(*entry)
	c.order.Remove(el)
	delete(c.entries, e.key)
}

// Wrap memoizes fn through the cache. Callers cannot distinguish a hit from a
// fresh computation; errors are never cached.
func Wrap[T any](c *Cache, keyFn func() string, ttl time.Duration, fn func(ctx context.Context) (T, error)) func(ctx context.Context) (T, error) {
	return func(ctx context.Context) (T, error) {
		key := keyFn()
		if cached, ok := c.Get(key); ok {
			if value, ok := cached.(T); ok {
				return value, nil
			}
		}

		value, err := fn(ctx)
		if err != nil {
			var zero T
			return zero, err
		}

		c.Set(key, value, ttl)
		return value, nil
	}
}
