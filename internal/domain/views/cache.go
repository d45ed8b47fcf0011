package views

import (
	"sync"

	"github.com/okian/carbonview/internal/domain/model"
)

// node is one cached cross-sectional snapshot in insertion order.
type node struct {
	year  int
	table model.Table
	next  *node
}

// snapshotCache keeps cross-sectional snapshots keyed by focus year.
// For maxSize > 0 the oldest inserted entry is evicted when full; for
// maxSize <= 0 the cache is unbounded.
type snapshotCache struct {
	mu      sync.Mutex
	entries map[int]*node
	head    *node // most recently added
	maxSize int
}

func newSnapshotCache(maxSize int) *snapshotCache {
	return &snapshotCache{entries: make(map[int]*node), maxSize: maxSize}
}

func (c *snapshotCache) get(year int) (model.Table, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	n, ok := c.entries[year]
	if !ok {
		return model.Table{}, false
	}
	return n.table, true
}

// put records table for year unless another caller already did.
func (c *snapshotCache) put(year int, table model.Table) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[year]; exists {
		return
	}
	if c.maxSize > 0 && len(c.entries) >= c.maxSize {
		c.evictOldest()
	}
	n := &node{year: year, table: table, next: c.head}
	c.head = n
	c.entries[year] = n
}

// evictOldest drops the tail of the list. Must be called with c.mu held.
func (c *snapshotCache) evictOldest() {
	if c.head == nil {
		return
	}
	if c.head.next == nil {
		delete(c.entries, c.head.year)
		c.head = nil
		return
	}
	prev := c.head
	for prev.next.next != nil {
		prev = prev.next
	}
	delete(c.entries, prev.next.year)
	prev.next = nil
}

func (c *snapshotCache) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
