// Animerec - Anime Recommendation Service
// Copyright 2026 Hoshizora Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/hoshizora-labs/animerec

package recommend

import (
	"fmt"
	"sync"
	"time"
)

// responseCache is a small TTL cache over computed responses, keyed by the
// request parameters. Random requests bypass it. Entries are evicted lazily
// on read and swept wholesale when the map grows past maxCacheEntries.
type responseCache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
	ttl     time.Duration
	now     func() time.Time
}

type cacheEntry struct {
	response Response
	expires  time.Time
}

const maxCacheEntries = 4096

func newResponseCache(ttl time.Duration) *responseCache {
	return &responseCache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// key builds a cache key for a cacheable request, or "" for requests that
// must not be cached.
func (c *responseCache) key(req Request, count int, typeTag string) string {
	switch r := req.(type) {
	case ContentRequest:
		return fmt.Sprintf("content|%s|%d|%s", r.Title, count, typeTag)
	case CollaborativeRequest:
		return fmt.Sprintf("collab|%d|%d|%s", r.UserID, count, typeTag)
	case HybridRequest:
		return fmt.Sprintf("hybrid|%s|%d|%d|%s", r.Title, r.UserID, count, typeTag)
	default:
		return ""
	}
}

func (c *responseCache) get(key string) (Response, bool) {
	if c.ttl <= 0 || key == "" {
		return Response{}, false
	}

	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return Response{}, false
	}

	if c.now().After(entry.expires) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return Response{}, false
	}
	return entry.response, true
}

// flush drops every cached response. Called when the published model
// changes so no response computed against the old model outlives it.
func (c *responseCache) flush() {
	c.mu.Lock()
	c.entries = make(map[string]cacheEntry)
	c.mu.Unlock()
}

func (c *responseCache) put(key string, resp Response) {
	if c.ttl <= 0 || key == "" {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.entries) >= maxCacheEntries {
		now := c.now()
		for k, e := range c.entries {
			if now.After(e.expires) {
				delete(c.entries, k)
			}
		}
		// Still full of live entries: drop everything rather than grow.
		if len(c.entries) >= maxCacheEntries {
			c.entries = make(map[string]cacheEntry)
		}
	}

	c.entries[key] = cacheEntry{response: resp, expires: c.now().Add(c.ttl)}
}
