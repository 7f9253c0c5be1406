// Package cache keeps event detail records in memory so reopening an event
// does not hit the server again.
package cache

import (
	"sync"
	"time"

	"github.com/droe-core/droe-view/internal/core/model"
	"github.com/droe-core/droe-view/internal/util"
)

// DefaultMaxEntries bounds a MemoryCache created with a non-positive size.
const DefaultMaxEntries = 256

// MemoryCacheEntry is one cached detail record with access time tracking.
type MemoryCacheEntry struct {
	Detail       model.EventDetail
	StoredAt     int64
	LastAccessed int64
}

// MemoryCache is a bounded detail cache keyed by event type and id. When
// full, the least recently accessed entry is evicted.
type MemoryCache struct {
	mu         sync.Mutex
	entries    map[string]*MemoryCacheEntry
	maxEntries int
	ttl        time.Duration
	now        func() time.Time

	hits   int
	misses int
}

// Option customizes a MemoryCache.
type Option func(*MemoryCache)

// WithTTL expires entries older than ttl. Zero keeps entries until evicted.
func WithTTL(ttl time.Duration) Option {
	return func(mc *MemoryCache) { mc.ttl = ttl }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(mc *MemoryCache) { mc.now = now }
}

func NewMemoryCache(maxEntries int, opts ...Option) *MemoryCache {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	mc := &MemoryCache{
		entries:    make(map[string]*MemoryCacheEntry),
		maxEntries: maxEntries,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(mc)
	}
	return mc
}

func key(event model.TimelineEvent) string {
	return event.Type + "/" + event.ID.String()
}

// Get returns the cached detail for event.
func (mc *MemoryCache) Get(event model.TimelineEvent) (model.EventDetail, bool) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	k := key(event)
	entry, ok := mc.entries[k]
	now := mc.now()
	if ok && mc.ttl > 0 && now.Sub(time.Unix(0, entry.StoredAt)) > mc.ttl {
		delete(mc.entries, k)
		ok = false
	}
	if !ok {
		mc.misses++
		return model.EventDetail{}, false
	}

	mc.hits++
	entry.LastAccessed = now.UnixNano()
	return entry.Detail, true
}

// Set stores detail for event, evicting the least recently accessed entry
// when the cache is full.
func (mc *MemoryCache) Set(event model.TimelineEvent, detail model.EventDetail) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	k := key(event)
	if _, exists := mc.entries[k]; !exists && len(mc.entries) >= mc.maxEntries {
		mc.evictOldest()
	}
	now := mc.now().UnixNano()
	mc.entries[k] = &MemoryCacheEntry{Detail: detail, StoredAt: now, LastAccessed: now}
}

func (mc *MemoryCache) evictOldest() {
	var (
		oldestKey string
		oldest    int64
	)
	for k, entry := range mc.entries {
		if oldestKey == "" || entry.LastAccessed < oldest {
			oldestKey = k
			oldest = entry.LastAccessed
		}
	}
	if oldestKey != "" {
		delete(mc.entries, oldestKey)
		util.LogDebugf("MemoryCache: evicted %s", oldestKey)
	}
}

// Clear drops every entry and resets the counters.
func (mc *MemoryCache) Clear() {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	mc.entries = make(map[string]*MemoryCacheEntry)
	mc.hits, mc.misses = 0, 0
}

func (mc *MemoryCache) Len() int {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	return len(mc.entries)
}

// Stats returns the hit and miss counts since creation or the last Clear.
func (mc *MemoryCache) Stats() (hits, misses int) {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	return mc.hits, mc.misses
}
