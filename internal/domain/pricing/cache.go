package pricing

import (
	"sync"
	"sync/atomic"
)

// PriceCache is the low-latency quote read path. Reads are wait-free:
// they dereference an atomic pointer to an immutable snapshot map. Writers
// (the tick publish, and the miss path installing a single quote) build a
// fresh map and swap the pointer, serialized by a mutex, so readers observe
// either the old or the new snapshot with no torn state.
type PriceCache struct {
	snapshot atomic.Pointer[map[string]Quote]
	writeMu  sync.Mutex
}

// NewPriceCache creates an empty cache.
func NewPriceCache() *PriceCache {
	c := &PriceCache{}
	empty := make(map[string]Quote)
	c.snapshot.Store(&empty)
	return c
}

// Get returns the cached quote for an item. Wait-free.
func (c *PriceCache) Get(itemID string) (Quote, bool) {
	snap := *c.snapshot.Load()
	q, ok := snap[itemID]
	return q, ok
}

// Publish installs the quotes produced by a repricing tick, replacing any
// previous entries for the same items.
func (c *PriceCache) Publish(quotes []Quote) {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	old := *c.snapshot.Load()
	next := make(map[string]Quote, len(old)+len(quotes))
	for k, v := range old {
		next[k] = v
	}
	for _, q := range quotes {
		next[q.ItemID] = q
	}
	c.snapshot.Store(&next)
}

// Install adds a single quote computed on a cache miss.
func (c *PriceCache) Install(q Quote) {
	c.Publish([]Quote{q})
}

// Invalidate removes an item's quote, forcing the next read to recompute.
// Used when an item is deactivated.
func (c *PriceCache) Invalidate(itemID string) {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	old := *c.snapshot.Load()
	if _, ok := old[itemID]; !ok {
		return
	}
	next := make(map[string]Quote, len(old))
	for k, v := range old {
		if k != itemID {
			next[k] = v
		}
	}
	c.snapshot.Store(&next)
}

// Len returns the number of cached quotes.
func (c *PriceCache) Len() int {
	return len(*c.snapshot.Load())
}
