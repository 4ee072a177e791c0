package database

import (
	"sync"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru"
)

// CacheStats is a snapshot of result cache activity.
type CacheStats struct {
	Hits    uint64
	Misses  uint64
	Entries int
}

// queryCache holds transformed read results keyed by cacheKey. A nil
// entries cache means caching is off. gen advances on every invalidation;
// a read may only store its result if gen has not moved since it started.
type queryCache struct {
	mu      sync.Mutex
	size    int
	allowed bool
	entries *lru.Cache
	gen     uint64

	hits   atomic.Uint64
	misses atomic.Uint64
}

func newQueryCache(size int, allowed bool) *queryCache {
	c := &queryCache{size: size, allowed: allowed}
	c.enable()
	return c
}

// cacheEntry keeps the key parts next to the value; the flat key alone
// does not identify them.
type cacheEntry struct {
	transformID string
	single      bool
	query       string
	value       any
}

// cacheKey is the transform identifier, "0" or "1" for the single-row flag,
// then the raw query.
func cacheKey(transformID string, single bool, query string) string {
	flag := "0"
	if single {
		flag = "1"
	}
	return transformID + flag + query
}

// enable creates an empty cache unless one exists or the configuration
// forbids it. It reports whether a cache was created.
func (c *queryCache) enable() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.allowed || c.entries != nil {
		return false
	}
	entries, err := lru.New(c.size)
	if err != nil {
		// size is normalized to a positive value by Config.withDefaults.
		panic(err)
	}
	c.entries = entries
	return true
}

// disable drops the cache and everything in it.
func (c *queryCache) disable() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.entries != nil {
		c.entries.Purge()
	}
	c.entries = nil
	c.gen++
}

func (c *queryCache) enabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entries != nil
}

// generation returns the current invalidation count.
func (c *queryCache) generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen
}

func (c *queryCache) get(transformID string, single bool, query string) (any, bool) {
	c.mu.Lock()
	entries := c.entries
	c.mu.Unlock()
	if entries == nil {
		return nil, false
	}
	v, ok := entries.Get(cacheKey(transformID, single, query))
	if !ok {
		return nil, false
	}
	e := v.(cacheEntry)
	if e.transformID != transformID || e.single != single || e.query != query {
		return nil, false
	}
	return e.value, true
}

// set stores value and reports whether it was cached. Nothing is stored
// when the cache was invalidated after gen was read.
func (c *queryCache) set(transformID string, single bool, query string, value any, gen uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.entries == nil || c.gen != gen {
		return false
	}
	c.entries.Add(cacheKey(transformID, single, query), cacheEntry{
		transformID: transformID,
		single:      single,
		query:       query,
		value:       value,
	})
	return true
}

// invalidate clears every entry and reports whether there was a cache to clear.
func (c *queryCache) invalidate() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	if c.entries == nil {
		return false
	}
	c.entries.Purge()
	return true
}

func (c *queryCache) hit()  { c.hits.Add(1) }
func (c *queryCache) miss() { c.misses.Add(1) }

func (c *queryCache) stats() CacheStats {
	s := CacheStats{Hits: c.hits.Load(), Misses: c.misses.Load()}
	c.mu.Lock()
	if c.entries != nil {
		s.Entries = c.entries.Len()
	}
	c.mu.Unlock()
	return s
}
