package trig

import (
	"context"
	"strings"
)

// LoadRequest selects the columns a Source should read.
type LoadRequest struct {
	Columns   []string // explicitly requested columns
	Prefixes  []string // columns starting with any prefix, e.g. "L1_"
	EntryStop int64    // read at most this many events; <= 0 reads all
}

// Wants reports whether a column is selected by the request.
func (r LoadRequest) Wants(name string) bool {
	for _, c := range r.Columns {
		if c == name {
			return true
		}
	}
	for _, p := range r.Prefixes {
		if strings.HasPrefix(name, p) {
			return true
		}
	}
	return false
}

// Source loads the event table of one sample file. The returned int is the
// sample's denominator: the number of events read.
type Source interface {
	Load(ctx context.Context, path string, req LoadRequest) (*Table, int, error)
}
