package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryCache is a TTL cache of decoded inputs, safe for concurrent use.
// Cached slices are shared between callers and must not be modified.
type MemoryCache struct {
	items *gocache.Cache
}

var _ Cache = (*MemoryCache)(nil)

// NewMemoryCache creates a cache whose entries live for defaultTTL unless
// Add is given its own ttl
func NewMemoryCache(defaultTTL time.Duration, cleanupInterval time.Duration) *MemoryCache {
	return &MemoryCache{items: gocache.New(defaultTTL, cleanupInterval)}
}

func (c *MemoryCache) Get(key string) ([]byte, bool) {
	if val, found := c.items.Get(key); found {
		return val.([]byte), true
	}
	return nil, false
}

// Add stores value under key unless an unexpired entry exists. A zero ttl
// uses the cache default.
func (c *MemoryCache) Add(key string, value []byte, ttl time.Duration) bool {
	return c.items.Add(key, value, ttl) == nil
}

// Len reports the number of entries, including expired ones not yet evicted
func (c *MemoryCache) Len() int {
	return c.items.ItemCount()
}
