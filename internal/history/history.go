package history

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/claude/gymtracker/internal/models"
)

// Key is the single store key holding the history mapping.
const Key = "exerciseHistory"

// Store is the key-value backend the cache persists into.
type Store interface {
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	Put(ctx context.Context, key string, value []byte) error
}

// Cache maps exercise ids to the most recently completed reps/weight.
// Entries are overwritten on every Record and never removed.
type Cache struct {
	store Store
	log   *slog.Logger

	mu      sync.Mutex
	entries map[string]models.Performance
	// unsaved holds ids recorded since the last successful persist.
	unsaved map[string]bool
}

// New returns an empty cache backed by store. Call Load to read persisted entries.
func New(store Store, log *slog.Logger) *Cache {
	return &Cache{
		store:   store,
		log:     log,
		entries: make(map[string]models.Performance),
		unsaved: make(map[string]bool),
	}
}

// Load reads the full mapping from the store. A missing key, an unreadable
// store or corrupt contents all leave the cache empty; Load never fails.
// Entries recorded in memory but not yet persisted survive the reload.
func (c *Cache) Load(ctx context.Context) map[string]models.Performance {
	entries := make(map[string]models.Performance)

	data, found, err := c.store.Get(ctx, Key)
	switch {
	case err != nil:
		c.log.Warn("history unreadable, starting empty", "error", err)
	case !found:
	default:
		if err := json.Unmarshal(data, &entries); err != nil {
			c.log.Warn("history corrupt, starting empty", "error", err)
			entries = make(map[string]models.Performance)
		}
	}

	c.mu.Lock()
	for id := range c.unsaved {
		entries[id] = c.entries[id]
	}
	c.entries = entries
	c.mu.Unlock()
	return c.All()
}

// Get returns the last performance recorded for exerciseID.
// ok is false when nothing has been recorded.
func (c *Cache) Get(exerciseID string) (p models.Performance, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok = c.entries[exerciseID]
	return p, ok
}

// All returns a copy of the full mapping.
func (c *Cache) All() map[string]models.Performance {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]models.Performance, len(c.entries))
	for k, v := range c.entries {
		out[k] = v
	}
	return out
}

// Record overwrites the entry for exerciseID and persists the full mapping.
// The in-memory entry is kept even if persisting fails.
func (c *Cache) Record(ctx context.Context, exerciseID string, reps int, weight float64) error {
	c.mu.Lock()
	c.entries[exerciseID] = models.Performance{Reps: reps, Weight: weight}
	c.unsaved[exerciseID] = true
	snapshot := make(map[string]models.Performance, len(c.entries))
	for k, v := range c.entries {
		snapshot[k] = v
	}
	c.mu.Unlock()

	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("encoding history: %w", err)
	}
	if err := c.store.Put(ctx, Key, data); err != nil {
		return fmt.Errorf("persisting history: %w", err)
	}

	c.mu.Lock()
	for id := range c.unsaved {
		if c.entries[id] == snapshot[id] {
			delete(c.unsaved, id)
		}
	}
	c.mu.Unlock()
	return nil
}
