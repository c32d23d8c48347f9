package trig

import "fmt"

// Selection is the outcome of SelectBest.
type Selection struct {
	Name       string // chosen trigger path
	Count      int    // events on which Name fired
	Considered int    // candidates left after exclusion
}

// SelectBest picks the candidate boolean column with the most fired events.
// Candidates absent from the table, or present only as score columns, are skipped.
// Ties keep the first candidate in the given order; callers pass table.Present(...)
// to make that the table column order.
func SelectBest(t *Table, candidates []string, exclude []string) (Selection, error) {
	skip := make(map[string]bool, len(exclude))
	for _, e := range exclude {
		skip[e] = true
	}

	best := Selection{Count: -1}
	for _, name := range candidates {
		if skip[name] {
			continue
		}
		col, ok := t.Bool(name)
		if !ok {
			continue
		}
		best.Considered++
		if c := countTrue(col); c > best.Count {
			best.Name = name
			best.Count = c
		}
	}
	if best.Considered == 0 {
		return Selection{}, fmt.Errorf("%d candidates, %d excluded: %w", len(candidates), len(exclude), ErrEmptyCandidateSet)
	}
	return best, nil
}
