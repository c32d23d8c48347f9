package trig

import "fmt"

// Table holds per-event columns for one sample. Boolean columns are trigger
// decisions, score columns are continuous anomaly-detector outputs. All columns
// share the same event count.
type Table struct {
	n      int
	order  []string
	bools  map[string][]bool
	scores map[string][]float64
}

// NewTable creates an empty table for n events.
func NewTable(n int) *Table {
	return &Table{
		n:      n,
		bools:  make(map[string][]bool),
		scores: make(map[string][]float64),
	}
}

// AddBool appends a boolean column.
func (t *Table) AddBool(name string, values []bool) error {
	if err := t.checkNew(name, len(values)); err != nil {
		return err
	}
	t.bools[name] = values
	t.order = append(t.order, name)
	return nil
}

// AddScore appends a score column.
func (t *Table) AddScore(name string, values []float64) error {
	if err := t.checkNew(name, len(values)); err != nil {
		return err
	}
	t.scores[name] = values
	t.order = append(t.order, name)
	return nil
}

func (t *Table) checkNew(name string, n int) error {
	if t.Has(name) {
		return fmt.Errorf("duplicate column %q", name)
	}
	if n != t.n {
		return fmt.Errorf("column %q has %d events, table has %d: %w", name, n, t.n, ErrColumnLength)
	}
	return nil
}

// Len returns the number of events.
func (t *Table) Len() int { return t.n }

// Columns returns column names in insertion order.
func (t *Table) Columns() []string {
	out := make([]string, len(t.order))
	copy(out, t.order)
	return out
}

// Has reports whether a column of either kind exists.
func (t *Table) Has(name string) bool {
	if _, ok := t.bools[name]; ok {
		return true
	}
	_, ok := t.scores[name]
	return ok
}

// Bool returns a boolean column and whether it is present.
func (t *Table) Bool(name string) ([]bool, bool) {
	v, ok := t.bools[name]
	return v, ok
}

// Score returns a score column and whether it is present.
func (t *Table) Score(name string) ([]float64, bool) {
	v, ok := t.scores[name]
	return v, ok
}

// Present returns the names that exist as boolean columns, in table column order.
// Selection iterates candidates in this order, so ties resolve to the column that
// appears first in the source file.
func (t *Table) Present(names []string) []string {
	want := make(map[string]bool, len(names))
	for _, n := range names {
		want[n] = true
	}
	var out []string
	for _, c := range t.order {
		if _, ok := t.bools[c]; ok && want[c] {
			out = append(out, c)
		}
	}
	return out
}

// countTrue returns the number of true entries.
func countTrue(v []bool) int {
	n := 0
	for _, b := range v {
		if b {
			n++
		}
	}
	return n
}

// anyOf returns the event-wise logical OR of the given columns.
// A nil result means no columns were given.
func anyOf(n int, cols ...[]bool) []bool {
	if len(cols) == 0 {
		return nil
	}
	out := make([]bool, n)
	for _, c := range cols {
		for i, b := range c {
			if b {
				out[i] = true
			}
		}
	}
	return out
}

// passing returns score >= cut per event. NaN never passes.
func passing(scores []float64, cut float64) []bool {
	out := make([]bool, len(scores))
	for i, s := range scores {
		out[i] = s >= cut
	}
	return out
}

// ScoreColumns returns the names of score columns in table column order.
func (t *Table) ScoreColumns() []string {
	var out []string
	for _, c := range t.order {
		if _, ok := t.scores[c]; ok {
			out = append(out, c)
		}
	}
	return out
}
