// Package cache holds rendered asset responses in memory for the edge
// dispatcher's key-value asset store.
package cache

import (
	"net/http"
	"strings"
	"sync"
	"time"
)

// CachedResponse is a complete response ready to be replayed.
type CachedResponse struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
}

type entry struct {
	resp      *CachedResponse
	expiry    time.Time
	insertIdx int64
}

// ResponseCache is a TTL cache bounded to maxEntries, evicting the oldest
// insertion when full. Safe for concurrent use.
type ResponseCache struct {
	mu         sync.RWMutex
	items      map[string]entry
	ttl        time.Duration
	maxEntries int
	nextIdx    int64
	now        func() time.Time
}

// New creates a ResponseCache with the given TTL and max entry count.
func New(ttl time.Duration, maxEntries int) *ResponseCache {
	if maxEntries < 1 {
		maxEntries = 1
	}
	return &ResponseCache{
		items:      make(map[string]entry),
		ttl:        ttl,
		maxEntries: maxEntries,
		now:        time.Now,
	}
}

// MakeKey builds a cache key from an HTTP method and an asset key.
func MakeKey(method, assetKey string) string {
	return method + " " + assetKey
}

// Get returns a cached response if present and not expired.
func (c *ResponseCache) Get(key string) (*CachedResponse, bool) {
	c.mu.RLock()
	e, ok := c.items[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}

	if c.now().After(e.expiry) {
		c.mu.Lock()
		if e2, ok2 := c.items[key]; ok2 && c.now().After(e2.expiry) {
			delete(c.items, key)
		}
		c.mu.Unlock()
		return nil, false
	}
	return e.resp, true
}

// Set stores resp under key, evicting the oldest entry when at capacity.
func (c *ResponseCache) Set(key string, resp *CachedResponse) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := entry{resp: resp, expiry: c.now().Add(c.ttl), insertIdx: c.nextIdx}
	c.nextIdx++

	if _, exists := c.items[key]; !exists && len(c.items) >= c.maxEntries {
		c.evictOldest()
	}
	c.items[key] = e
}

// InvalidatePrefix removes every entry whose asset key starts with prefix,
// regardless of method. An empty prefix clears the cache.
func (c *ResponseCache) InvalidatePrefix(prefix string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key := range c.items {
		_, assetKey, _ := strings.Cut(key, " ")
		if strings.HasPrefix(assetKey, prefix) {
			delete(c.items, key)
		}
	}
}

// Len returns the number of entries, including expired ones not yet removed.
func (c *ResponseCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// evictOldest must be called with mu held.
func (c *ResponseCache) evictOldest() {
	var oldestKey string
	var oldestIdx int64 = -1

	for key, e := range c.items {
		if oldestIdx == -1 || e.insertIdx < oldestIdx {
			oldestIdx = e.insertIdx
			oldestKey = key
		}
	}
	if oldestKey != "" {
		delete(c.items, oldestKey)
	}
}
