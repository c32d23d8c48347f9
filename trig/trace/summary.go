package trace

import (
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary aggregates statistics from a Trace.
type Summary struct {
	TotalDecisions int
	UniqueChosen   int
	ChosenCounts   map[string]int // trigger -> number of grid points where it was best
	MeanBestEff    float64
	MaxBestEff     float64
}

// Summarize computes aggregate statistics from a Trace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(t *Trace) *Summary {
	summary := &Summary{ChosenCounts: make(map[string]int)}
	if t == nil {
		return summary
	}
	records := t.Snapshot()
	summary.TotalDecisions = len(records)
	if len(records) == 0 {
		return summary
	}

	effs := make([]float64, len(records))
	for i, r := range records {
		summary.ChosenCounts[r.Chosen]++
		effs[i] = r.Efficiency()
	}
	summary.UniqueChosen = len(summary.ChosenCounts)
	summary.MeanBestEff = stat.Mean(effs, nil)
	summary.MaxBestEff = floats.Max(effs)
	return summary
}

// Ranked returns chosen triggers ordered by descending count, then name.
func (s *Summary) Ranked() []string {
	names := make([]string, 0, len(s.ChosenCounts))
	for n := range s.ChosenCounts {
		names = append(names, n)
	}
	sort.Slice(names, func(i, j int) bool {
		ci, cj := s.ChosenCounts[names[i]], s.ChosenCounts[names[j]]
		if ci != cj {
			return ci > cj
		}
		return names[i] < names[j]
	})
	return names
}
