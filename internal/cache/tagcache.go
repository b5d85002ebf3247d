// Package cache provides the tag-keyed read cache fronting the public
// list endpoints. Every admin mutation invalidates the tag for its entity
// type; the cache is an instance passed by reference, not a global.
package cache

import "sync"

// TagCache maps a tag to one cached value.
type TagCache struct {
	mu      sync.RWMutex
	entries map[string]interface{}
}

// NewTagCache constructs an empty cache.
func NewTagCache() *TagCache {
	return &TagCache{entries: make(map[string]interface{})}
}

// Get returns the cached value for tag, when present.
func (c *TagCache) Get(tag string) (interface{}, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	value, ok := c.entries[tag]
	return value, ok
}

// Set stores value under tag, replacing any previous entry.
func (c *TagCache) Set(tag string, value interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[tag] = value
}

// Invalidate drops the entry for tag.
func (c *TagCache) Invalidate(tags ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, tag := range tags {
		delete(c.entries, tag)
	}
}
