package trig

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Histogram is an equal-width histogram of one score variable at one grid point.
// len(Edges) == len(Counts)+1.
type Histogram struct {
	Counts []int     `json:"counts"`
	Edges  []float64 `json:"bins"`
}

// HistogramBuilder bins score columns using per-variable ranges.
type HistogramBuilder struct {
	Ranges map[string]Range
}

// Build bins values into the configured range of name. Values below the range
// land in the first bin and values at or above the upper edge land in the last
// bin. NaN values are dropped.
func (b HistogramBuilder) Build(name string, values []float64) (Histogram, error) {
	r, ok := b.Ranges[name]
	if !ok {
		return Histogram{}, fmt.Errorf("variable %q: %w", name, ErrUnknownVariableRange)
	}
	if r.Bins < 1 || !(r.High > r.Low) {
		return Histogram{}, fmt.Errorf("variable %q: invalid binning %d over [%v, %v)", name, r.Bins, r.Low, r.High)
	}

	edges := floats.Span(make([]float64, r.Bins+1), r.Low, r.High)
	top := math.Nextafter(r.High, r.Low)

	x := make([]float64, 0, len(values))
	for _, v := range values {
		switch {
		case math.IsNaN(v):
			continue
		case v < r.Low:
			v = r.Low
		case v >= r.High:
			v = top
		}
		x = append(x, v)
	}
	sort.Float64s(x)

	weighted := stat.Histogram(make([]float64, r.Bins), edges, x, nil)
	counts := make([]int, len(weighted))
	for i, w := range weighted {
		counts[i] = int(w)
	}
	return Histogram{Counts: counts, Edges: edges}, nil
}
