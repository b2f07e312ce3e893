package services

import (
	"encoding/json"
	"net/url"
	"sync"
	"time"
)

type cacheEntry struct {
	value     json.RawMessage
	expiresAt time.Time
}

// CacheService is an in-process TTL cache for upstream payloads.
// Expired entries count as misses; eviction happens lazily on read and
// opportunistically when the map grows. Safe for concurrent use.
type CacheService struct {
	mu      sync.Mutex
	entries map[string]cacheEntry
	lookups int
}

// NewCacheService initializes an empty cache.
func NewCacheService() *CacheService {
	return &CacheService{entries: make(map[string]cacheEntry)}
}

// Fingerprint builds a cache key from the logical endpoint and its
// parameters. url.Values.Encode sorts keys, so parameter order in the
// request never changes the key.
func Fingerprint(endpoint string, params map[string]string) string {
	values := url.Values{}
	for k, v := range params {
		if v != "" {
			values.Set(k, v)
		}
	}
	return endpoint + "?" + values.Encode()
}

// Get returns the cached value for key, or ok=false when the key is
// absent or its entry has expired.
func (c *CacheService) Get(key string) (json.RawMessage, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if time.Now().After(entry.expiresAt) {
		delete(c.entries, key)
		return nil, false
	}
	return entry.value, true
}

// Set stores value under key with the given TTL.
func (c *CacheService) Set(key string, value json.RawMessage, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Sweep expired entries once in a while so keys that are never
	// read again do not accumulate.
	c.lookups++
	if c.lookups >= 1000 {
		now := time.Now()
		for k, e := range c.entries {
			if now.After(e.expiresAt) {
				delete(c.entries, k)
			}
		}
		c.lookups = 0
	}

	c.entries[key] = cacheEntry{value: value, expiresAt: time.Now().Add(ttl)}
}

// Len reports the number of physically present entries, expired or not.
func (c *CacheService) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
