package trig

import (
	"context"
	"sync"
)

type cacheEntry struct {
	ready chan struct{}
	table *Table
	denom int
	err   error
}

// TableCache memoizes loaded samples by file path for one grid traversal.
// Concurrent requests for the same path share a single load.
type TableCache struct {
	src Source
	req LoadRequest

	mu      sync.Mutex
	entries map[string]*cacheEntry
}

// NewTableCache creates a cache in front of src.
func NewTableCache(src Source, req LoadRequest) *TableCache {
	return &TableCache{src: src, req: req, entries: make(map[string]*cacheEntry)}
}

// Get returns the table for path, loading it on first use. Failed loads are
// cached too; inputs are deterministic files and a retry would fail the same way.
func (c *TableCache) Get(ctx context.Context, path string) (*Table, int, error) {
	c.mu.Lock()
	e, ok := c.entries[path]
	if !ok {
		e = &cacheEntry{ready: make(chan struct{})}
		c.entries[path] = e
	}
	c.mu.Unlock()

	if !ok {
		e.table, e.denom, e.err = c.src.Load(ctx, path, c.req)
		close(e.ready)
	} else {
		select {
		case <-e.ready:
		case <-ctx.Done():
			return nil, 0, ctx.Err()
		}
	}
	return e.table, e.denom, e.err
}

// Len returns the number of cached paths.
func (c *TableCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Release drops all cached tables.
func (c *TableCache) Release() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*cacheEntry)
}
