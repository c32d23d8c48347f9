// Package trace provides best-trigger decision recording for grid scans.
// It does not import trig and stores plain data types only.
package trace

// BestRecord captures a single best-trigger selection.
type BestRecord struct {
	Signal     string
	Point      string // grid point label
	Chosen     string
	Count      int // events on which Chosen fired
	Denom      int
	Considered int // candidates left after exclusion
}

// Efficiency returns Count/Denom, or 0 for an empty sample.
func (r BestRecord) Efficiency() float64 {
	if r.Denom <= 0 {
		return 0
	}
	return float64(r.Count) / float64(r.Denom)
}
