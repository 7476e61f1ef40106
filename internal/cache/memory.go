package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"

	"linkshield/internal/model"
)

// MemoryCache implements in-memory verdict caching with lazy TTL expiry.
type MemoryCache struct {
	cache *gocache.Cache
}

// NewMemoryCache creates a new memory cache.
func NewMemoryCache(defaultTTL time.Duration, cleanupInterval time.Duration) *MemoryCache {
	return &MemoryCache{
		cache: gocache.New(defaultTTL, cleanupInterval),
	}
}

// Get retrieves a verdict copy from the cache.
func (c *MemoryCache) Get(key string) (*model.RiskVerdict, bool) {
	if val, found := c.cache.Get(key); found {
		verdict := val.(model.RiskVerdict)
		return copyVerdict(&verdict), true
	}
	return nil, false
}

// Set stores a copy of the verdict with the given TTL.
func (c *MemoryCache) Set(key string, verdict *model.RiskVerdict, ttl time.Duration) error {
	c.cache.Set(key, *copyVerdict(verdict), ttl)
	return nil
}

// Delete removes a verdict from the cache.
func (c *MemoryCache) Delete(key string) error {
	c.cache.Delete(key)
	return nil
}

// Clear removes all verdicts from the cache.
func (c *MemoryCache) Clear() error {
	c.cache.Flush()
	return nil
}

// copyVerdict deep-copies a verdict so cached entries never alias caller
// slices.
func copyVerdict(v *model.RiskVerdict) *model.RiskVerdict {
	out := *v
	if v.Explanations != nil {
		out.Explanations = make([]string, len(v.Explanations))
		copy(out.Explanations, v.Explanations)
	}
	return &out
}
