package services

import (
	"math"
	"strconv"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"

	"packtrack/internal/dataprocessing"
)

// CacheKey identifies an engine run by the bytes of its inputs, the mapping
// and the classification rules
type CacheKey uint64

// NewCacheKey hashes the run inputs. Optional inputs may be nil; a nil
// input and an empty one hash differently.
func NewCacheKey(mapping dataprocessing.Mapping, rules dataprocessing.Rules, inputs ...[]byte) CacheKey {
	d := xxhash.New()
	for _, in := range inputs {
		if in == nil {
			_, _ = d.Write([]byte{0})
			continue
		}
		_, _ = d.Write([]byte{1})
		_, _ = d.WriteString(strconv.Itoa(len(in)))
		_, _ = d.Write(in)
	}
	_, _ = d.WriteString(mapping.Key())
	_, _ = d.WriteString(strconv.FormatUint(math.Float64bits(rules.SecondsPerUnit), 16))
	_, _ = d.WriteString(strconv.FormatInt(rules.SimpleMixedMaxQuantity, 10))
	return CacheKey(d.Sum64())
}

type cacheEntry struct {
	result    *dataprocessing.Result
	cachedAt  time.Time
	expiresAt time.Time
}

// CacheStats is a snapshot of cache counters
type CacheStats struct {
	Entries    int     `json:"entries"`
	MaxEntries int     `json:"max_entries"`
	Hits       int64   `json:"hits"`
	Misses     int64   `json:"misses"`
	HitRatio   float64 `json:"hit_ratio"`
	TTLSeconds float64 `json:"ttl_seconds"`
}

// ResultCache memoizes engine results for a bounded time. Cached results are
// shared between callers and must not be modified.
type ResultCache struct {
	mu      sync.Mutex
	entries map[CacheKey]cacheEntry
	ttl     time.Duration
	maxSize int
	hits    int64
	misses  int64
	now     func() time.Time
}

// NewResultCache creates a cache holding at most maxSize results for ttl each
func NewResultCache(ttl time.Duration, maxSize int) *ResultCache {
	return &ResultCache{
		entries: make(map[CacheKey]cacheEntry),
		ttl:     ttl,
		maxSize: maxSize,
		now:     time.Now,
	}
}

// Get returns the cached result for key, if present and fresh
func (c *ResultCache) Get(key CacheKey) (*dataprocessing.Result, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok || c.now().After(entry.expiresAt) {
		if ok {
			delete(c.entries, key)
		}
		c.misses++
		return nil, false
	}
	c.hits++
	return entry.result, true
}

// Set stores a result, evicting expired entries and then the oldest one
// when the cache is full
func (c *ResultCache) Set(key CacheKey, result *dataprocessing.Result) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.maxSize <= 0 {
		return
	}

	now := c.now()
	if _, exists := c.entries[key]; !exists && len(c.entries) >= c.maxSize {
		c.removeExpired(now)
		if len(c.entries) >= c.maxSize {
			c.evictOldest()
		}
	}

	c.entries[key] = cacheEntry{
		result:    result,
		cachedAt:  now,
		expiresAt: now.Add(c.ttl),
	}
}

// Stats returns cache statistics
func (c *ResultCache) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	stats := CacheStats{
		Entries:    len(c.entries),
		MaxEntries: c.maxSize,
		Hits:       c.hits,
		Misses:     c.misses,
		TTLSeconds: c.ttl.Seconds(),
	}
	if total := c.hits + c.misses; total > 0 {
		stats.HitRatio = float64(c.hits) / float64(total)
	}
	return stats
}

func (c *ResultCache) removeExpired(now time.Time) {
	for key, entry := range c.entries {
		if now.After(entry.expiresAt) {
			delete(c.entries, key)
		}
	}
}

func (c *ResultCache) evictOldest() {
	var oldestKey CacheKey
	var oldestTime time.Time
	found := false

	for key, entry := range c.entries {
		if !found || entry.cachedAt.Before(oldestTime) {
			oldestKey = key
			oldestTime = entry.cachedAt
			found = true
		}
	}

	if found {
		delete(c.entries, oldestKey)
	}
}
