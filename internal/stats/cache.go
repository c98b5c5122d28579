// Package stats caches profile statistics per location. The backend's stats
// endpoint aggregates around a coordinate, so responses are keyed on the
// coarse location grid from internal/geo: moving a few streets over hits the
// same cell and reuses the cached aggregate instead of refetching.
package stats

import (
	"sync"
	"time"

	"snug/internal/geo"
)

// Defaults tuned for a session-length TUI run: statistics move slowly (only
// the user's own visits change them), so minutes of staleness is acceptable,
// and a browse session touches a handful of grid cells at most.
const (
	DefaultTTL        = 5 * time.Minute
	DefaultMaxEntries = 64
)

type entry[V any] struct {
	value    V
	storedAt time.Time
}

// Cache is a TTL + size bounded map from location grid cells to a cached
// payload. Safe for concurrent use; command goroutines fill it while the UI
// goroutine reads.
type Cache[V any] struct {
	ttl time.Duration
	max int

	mu      sync.Mutex
	entries map[string]entry[V]
}

// New returns an empty cache. Non-positive ttl or max fall back to the
// defaults.
func New[V any](ttl time.Duration, max int) *Cache[V] {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if max <= 0 {
		max = DefaultMaxEntries
	}
	return &Cache[V]{
		ttl:     ttl,
		max:     max,
		entries: make(map[string]entry[V]),
	}
}

// Get returns the cached payload for the grid cell containing at, and
// whether it is still fresh. Expired entries read as misses.
func (c *Cache[V]) Get(at geo.Point, now time.Time) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[geo.GridKey(at)]
	if !ok || now.Sub(e.storedAt) > c.ttl {
		var zero V
		return zero, false
	}
	return e.value, true
}

// Put stores the payload for the grid cell containing at, evicting the
// oldest entry when the size bound is exceeded.
func (c *Cache[V]) Put(at geo.Point, v V, now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[geo.GridKey(at)] = entry[V]{value: v, storedAt: now}
	for len(c.entries) > c.max {
		oldestKey := ""
		var oldestAt time.Time
		for k, e := range c.entries {
			if oldestKey == "" || e.storedAt.Before(oldestAt) {
				oldestKey = k
				oldestAt = e.storedAt
			}
		}
		delete(c.entries, oldestKey)
	}
}

// Invalidate drops every entry. Called after any mutation that changes the
// aggregates, like toggling a visit.
func (c *Cache[V]) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]entry[V])
}

// Len reports the number of cached cells, fresh or not.
func (c *Cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
