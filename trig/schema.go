package trig

import (
	"encoding/json"
	"math"
	"strconv"

	"github.com/llp-triggers/trigeff/trig/signal"
)

// Cell is one value of the result table. Present is false when the metric was
// not computed for the row, which is distinct from an efficiency of zero.
type Cell struct {
	Value   float64
	Present bool
}

// MarshalJSON renders absent cells as null.
func (c Cell) MarshalJSON() ([]byte, error) {
	if !c.Present {
		return []byte("null"), nil
	}
	return json.Marshal(c.Value)
}

// UnmarshalJSON accepts a number or null.
func (c *Cell) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*c = Cell{}
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*c = Cell{Value: v, Present: true}
	return nil
}

// String renders the cell for CSV output; absent cells are empty.
func (c Cell) String() string {
	if !c.Present || math.IsNaN(c.Value) {
		return ""
	}
	return strconv.FormatFloat(c.Value, 'g', -1, 64)
}

// Schema is the fixed column layout of a result table.
type Schema struct {
	Coordinates []string `json:"coordinates"`
	Columns     []string `json:"columns"`
}

// Index returns the position of a value column, or -1.
func (s Schema) Index(column string) int {
	for i, c := range s.Columns {
		if c == column {
			return i
		}
	}
	return -1
}

// NewSchema declares the value columns for a run: best, the mode OR, the
// per-trigger columns for explicit interest triggers, then AD, best+AD and
// mode+AD for every thresholded score in configuration order and ascending rate.
func NewSchema(coords []string, mode string, interest []string, scores ScoreConfig) Schema {
	cols := []string{MetricBest, mode}
	for _, t := range interest {
		cols = append(cols, t, BestPlus(t))
	}
	bank := scores.Bank()
	for _, name := range scores.Names() {
		for _, rate := range bank.Rates(name) {
			cols = append(cols,
				ADMetric(name, rate),
				BestADMetric(name, rate),
				ModeADMetric(name, mode, rate),
			)
		}
	}
	return Schema{Coordinates: append([]string(nil), coords...), Columns: cols}
}

// Project lays a record out along the schema.
func (s Schema) Project(rec Record) []Cell {
	cells := make([]Cell, len(s.Columns))
	for i, c := range s.Columns {
		if v, ok := rec[c]; ok {
			cells[i] = Cell{Value: v, Present: true}
		}
	}
	return cells
}

// Row is one grid point of a result table.
type Row struct {
	Point    signal.Point `json:"-"`
	Coords   []float64    `json:"coords"`
	BestName string       `json:"best_name"`
	Cells    []Cell       `json:"cells"`
}

// Coords returns the point's values for the given coordinate columns.
func Coords(p signal.Point, names []string) []float64 {
	out := make([]float64, len(names))
	for i, n := range names {
		switch n {
		case "mass":
			out[i] = p.Mass
		case "ctau":
			out[i] = p.Lifetime
		case "mdark":
			out[i] = p.DarkMass
		}
	}
	return out
}
