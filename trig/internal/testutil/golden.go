// Package testutil provides shared test infrastructure for the trig packages:
// golden efficiency scenarios and float assertion helpers.
package testutil

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"testing"
)

// GoldenDataset represents the structure of testdata/goldendataset.json.
type GoldenDataset struct {
	Tests []GoldenTestCase `json:"tests"`
}

// GoldenColumn is one event column; exactly one of Bools and Scores is set.
type GoldenColumn struct {
	Name   string    `json:"name"`
	Bools  []bool    `json:"bools,omitempty"`
	Scores []float64 `json:"scores,omitempty"`
}

// GoldenTestCase is a single hand-computed efficiency scenario.
type GoldenTestCase struct {
	Name        string                        `json:"name"`
	Events      int                           `json:"events"`
	Denom       int                           `json:"denom"`
	Columns     []GoldenColumn                `json:"columns"`
	Unprescaled []string                      `json:"unprescaled"`
	Interest    []string                      `json:"interest"`
	Exclude     []string                      `json:"exclude"`
	Thresholds  map[string]map[string]float64 `json:"thresholds"`
	BestName    string                        `json:"best_name"`
	Metrics     map[string]float64            `json:"metrics"`
}

// Bank converts the JSON thresholds (string rate keys) to rate -> cut maps.
func (c GoldenTestCase) Bank(t *testing.T) map[string]map[int]float64 {
	t.Helper()
	out := make(map[string]map[int]float64, len(c.Thresholds))
	for score, cuts := range c.Thresholds {
		out[score] = make(map[int]float64, len(cuts))
		for rate, cut := range cuts {
			r, err := strconv.Atoi(rate)
			if err != nil {
				t.Fatalf("%s: bad rate %q: %v", c.Name, rate, err)
			}
			out[score][r] = cut
		}
	}
	return out
}

// LoadGoldenDataset reads testdata/goldendataset.json from the module root,
// located relative to this file.
func LoadGoldenDataset(t *testing.T) *GoldenDataset {
	t.Helper()
	_, here, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot locate golden dataset: runtime.Caller failed")
	}
	root := filepath.Join(filepath.Dir(here), "..", "..", "..")
	data, err := os.ReadFile(filepath.Join(root, "testdata", "goldendataset.json"))
	if err != nil {
		t.Fatalf("golden dataset: %v", err)
	}
	dataset := &GoldenDataset{}
	if err := json.Unmarshal(data, dataset); err != nil {
		t.Fatalf("golden dataset: %v", err)
	}
	if len(dataset.Tests) == 0 {
		t.Fatal("golden dataset has no cases")
	}
	return dataset
}

// AssertEfficiency checks an efficiency against its expected value. Efficiencies
// live in [0, 1], so the tolerance is absolute.
func AssertEfficiency(t *testing.T, metric string, want, got, tol float64) {
	t.Helper()
	if math.IsNaN(got) || math.Abs(want-got) > tol {
		t.Errorf("%s = %v, want %v (tol %g)", metric, got, want, tol)
	}
}
