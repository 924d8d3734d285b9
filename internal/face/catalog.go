package face

import (
	"context"
	"fmt"
	"sync"
)

// CatalogEntry is one watch-listed identity with its reference embedding.
// An identity may appear more than once with different reference images.
type CatalogEntry struct {
	Label     string
	Embedding []float64
}

// CatalogStore loads watch-list entries from the durable store.
type CatalogStore interface {
	ListWatchlist(ctx context.Context) ([]CatalogEntry, error)
}

// Catalog is the in-memory snapshot of the identity watch-list. Reload
// swaps the snapshot atomically, so a reload takes effect on the next
// Match call without restarting the process.
type Catalog struct {
	mu      sync.RWMutex
	store   CatalogStore
	entries []CatalogEntry
}

func NewCatalog(store CatalogStore) *Catalog {
	return &Catalog{store: store}
}

// Reload replaces the snapshot with the store's current content. On
// error the previous snapshot stays in place.
func (c *Catalog) Reload(ctx context.Context) error {
	entries, err := c.store.ListWatchlist(ctx)
	if err != nil {
		return fmt.Errorf("reload catalog: %w", err)
	}

	c.mu.Lock()
	c.entries = entries
	c.mu.Unlock()
	return nil
}

// Snapshot returns the current entries. The returned slice must not be
// mutated by callers.
func (c *Catalog) Snapshot() []CatalogEntry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.entries
}

func (c *Catalog) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
