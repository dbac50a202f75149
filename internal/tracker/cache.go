package tracker

import (
	"sync"

	"github.com/julianstephens/habitforge/internal/logger"
)

type cacheKey struct {
	habitID int64
	view    string
	day     string // reference date, YYYY-MM-DD
}

// Cache memoizes heatmap data keyed by (habit, view, reference date).
// Every completion write for a habit must invalidate its entries; serving
// a pre-write heatmap is a correctness bug, not a staleness tradeoff.
//
// Guarded by a mutex: the TUI reads heatmaps while command goroutines log
// completions.
type Cache struct {
	mu      sync.Mutex
	entries map[cacheKey]map[string]int
}

// NewCache creates an empty heatmap cache.
func NewCache() *Cache {
	return &Cache{
		entries: make(map[cacheKey]map[string]int),
	}
}

// Get returns a copy of the cached date->count map, or nil on a miss.
// Callers may mutate the result without corrupting the cache.
func (c *Cache) Get(habitID int64, view, day string) map[string]int {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, ok := c.entries[cacheKey{habitID: habitID, view: view, day: day}]
	if !ok {
		return nil
	}
	return cloneCounts(data)
}

// Set stores a copy of the heatmap data for the key, so the caller keeps
// sole ownership of the map it passed in.
func (c *Cache) Set(habitID int64, view, day string, data map[string]int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[cacheKey{habitID: habitID, view: view, day: day}] = cloneCounts(data)
}

func cloneCounts(data map[string]int) map[string]int {
	out := make(map[string]int, len(data))
	for day, count := range data {
		out[day] = count
	}
	return out
}

// InvalidateHabit drops every entry for one habit, regardless of view or
// reference date.
func (c *Cache) InvalidateHabit(habitID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for key := range c.entries {
		if key.habitID == habitID {
			delete(c.entries, key)
			removed++
		}
	}
	if removed > 0 {
		logger.Debug("invalidated heatmap cache", "habit", habitID, "entries", removed)
	}
}

// Clear drops the whole cache.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[cacheKey]map[string]int)
}

// Len reports how many entries are cached.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
