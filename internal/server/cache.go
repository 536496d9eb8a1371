package server

import (
	"sync"
	"time"

	"github.com/mj1618/agentation/internal/model"
)

// cacheKey identifies the capture settings a snapshot was taken with.
type cacheKey struct {
	Source        model.SourceType
	IncludeHidden bool
	IncludeSystem bool
}

type cacheEntry struct {
	snap      *model.HierarchySnapshot
	timestamp time.Time
}

// SnapshotCache keeps recent idle captures for a short TTL so bursts of
// read-only tool calls do not walk the hierarchy each time.
type SnapshotCache struct {
	mu      sync.Mutex
	entries map[cacheKey]cacheEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewSnapshotCache creates a new cache. A ttl of 0 disables caching.
func NewSnapshotCache(ttl time.Duration) *SnapshotCache {
	return &SnapshotCache{
		entries: make(map[cacheKey]cacheEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Snapshot returns the cached snapshot for key if within TTL, otherwise it
// calls capture and stores the result.
func (c *SnapshotCache) Snapshot(key cacheKey, capture func() (*model.HierarchySnapshot, error)) (*model.HierarchySnapshot, error) {
	if c.ttl == 0 {
		return capture()
	}

	c.mu.Lock()
	if entry, ok := c.entries[key]; ok && c.now().Sub(entry.timestamp) < c.ttl {
		snap := entry.snap
		c.mu.Unlock()
		return snap, nil
	}
	c.mu.Unlock()

	snap, err := capture()
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.entries[key] = cacheEntry{snap: snap, timestamp: c.now()}
	c.mu.Unlock()

	return snap, nil
}

// InvalidateAll clears the entire cache.
func (c *SnapshotCache) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[cacheKey]cacheEntry)
}
