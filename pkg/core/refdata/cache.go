package refdata

import (
	"context"
	"sync"
	"time"
)

// Cache is a read-mostly TTL cache in front of a Repository. Reference
// data changes rarely (master-data edits), so entries are served until
// they expire or are explicitly invalidated after a write. Negative
// results are not cached: a missing key is a validation failure the
// caller may fix by inserting the record.
type Cache struct {
	inner Repository
	ttl   time.Duration

	mu      sync.RWMutex
	entries map[Key]cacheEntry

	// now is swappable for tests.
	now func() time.Time
}

type cacheEntry struct {
	rec     *Record
	expires time.Time
}

// NewCache fronts inner with a TTL cache. ttl <= 0 disables expiry
// (entries live until invalidated).
func NewCache(inner Repository, ttl time.Duration) *Cache {
	return &Cache{
		inner:   inner,
		ttl:     ttl,
		entries: make(map[Key]cacheEntry),
		now:     time.Now,
	}
}

func (c *Cache) Get(ctx context.Context, key Key) (*Record, error) {
	k := key.normalized()

	c.mu.RLock()
	e, ok := c.entries[k]
	c.mu.RUnlock()
	if ok && (c.ttl <= 0 || c.now().Before(e.expires)) {
		return e.rec, nil
	}

	rec, err := c.inner.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.entries[k] = cacheEntry{rec: rec, expires: c.now().Add(c.ttl)}
	c.mu.Unlock()
	return rec, nil
}

// Invalidate drops the cached entry for one key. Call after every write
// to the underlying repository.
func (c *Cache) Invalidate(key Key) {
	c.mu.Lock()
	delete(c.entries, key.normalized())
	c.mu.Unlock()
}

// InvalidateAll drops every cached entry.
func (c *Cache) InvalidateAll() {
	c.mu.Lock()
	c.entries = make(map[Key]cacheEntry)
	c.mu.Unlock()
}
