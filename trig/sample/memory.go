// Package sample provides trig.Source implementations: ROOT files through groot,
// CSV event tables, and in-memory tables.
package sample

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/llp-triggers/trigeff/trig"
)

// Memory serves tables registered by path. Tables are returned as stored; the
// load request is ignored.
type Memory struct {
	mu     sync.Mutex
	tables map[string]*trig.Table
	loads  map[string]int
}

// NewMemory creates an empty in-memory source.
func NewMemory() *Memory {
	return &Memory{tables: make(map[string]*trig.Table), loads: make(map[string]int)}
}

// Put registers a table under path.
func (m *Memory) Put(path string, t *trig.Table) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tables[path] = t
}

// Loads returns how many times path was loaded.
func (m *Memory) Loads(path string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loads[path]
}

// Load implements trig.Source. The denominator is the table length.
func (m *Memory) Load(ctx context.Context, path string, _ trig.LoadRequest) (*trig.Table, int, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	m.mu.Lock()
	m.loads[path]++
	t, ok := m.tables[path]
	m.mu.Unlock()
	if !ok {
		return nil, 0, fmt.Errorf("sample %s: %w", path, os.ErrNotExist)
	}
	return t, t.Len(), nil
}
