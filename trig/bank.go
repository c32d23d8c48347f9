package trig

import (
	"bytes"
	"fmt"
	"math"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// DefaultBins is the histogram bin count used when a score omits bins.
const DefaultBins = 50

// ThresholdBank maps score variable -> output rate (kHz) -> cut value.
// An event passes a rate point when score >= cut.
type ThresholdBank map[string]map[int]float64

// Rates returns the configured rates for a variable in ascending order.
func (b ThresholdBank) Rates(name string) []int {
	cuts := b[name]
	rates := make([]int, 0, len(cuts))
	for r := range cuts {
		rates = append(rates, r)
	}
	sort.Ints(rates)
	return rates
}

// Range is the fixed histogram binning for one score variable.
type Range struct {
	Low  float64
	High float64
	Bins int
}

// ScoreSpec configures one anomaly-detector score variable.
type ScoreSpec struct {
	Name       string          `yaml:"name"`
	Range      []float64       `yaml:"range"`
	Bins       int             `yaml:"bins,omitempty"`
	Thresholds map[int]float64 `yaml:"thresholds,omitempty"`
}

// ScoreConfig is the ordered list of score variables. Order fixes the column
// order of the result schema.
type ScoreConfig struct {
	Scores []ScoreSpec `yaml:"scores"`
}

// DefaultScoreConfig returns the reference AXOL1TL and CICADA configuration.
func DefaultScoreConfig() ScoreConfig {
	return ScoreConfig{Scores: []ScoreSpec{
		{Name: "axol1tl_score", Range: []float64{0, 3000}, Thresholds: map[int]float64{
			1: 982.3125, 5: 734.8125, 10: 610.8125,
		}},
		{Name: "CICADA_score_v1p1p1", Range: []float64{0, 25}, Thresholds: map[int]float64{
			1: 16.575, 5: 12.082, 10: 10.910,
		}},
		{Name: "CICADA_score_v1p1p2", Range: []float64{0, 200}},
		{Name: "CICADA_score_v2p1p1", Range: []float64{0, 25}, Thresholds: map[int]float64{
			1: 11.871, 5: 9.296, 10: 8.549,
		}},
		{Name: "CICADA_score_v2p1p2", Range: []float64{0, 200}, Thresholds: map[int]float64{
			20: 131.0, 50: 127.0, 150: 121.0, 300: 116.0, 600: 113.0,
		}},
	}}
}

// LoadScoreConfig reads and validates a YAML score configuration.
// Uses strict parsing: unrecognized keys (typos) are rejected.
func LoadScoreConfig(path string) (ScoreConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ScoreConfig{}, fmt.Errorf("reading score config: %w", err)
	}
	var cfg ScoreConfig
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return ScoreConfig{}, fmt.Errorf("parsing score config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return ScoreConfig{}, err
	}
	return cfg, nil
}

// Validate checks names, ranges, bin counts and cut values.
func (c ScoreConfig) Validate() error {
	seen := make(map[string]bool, len(c.Scores))
	for i, s := range c.Scores {
		prefix := fmt.Sprintf("scores[%d]", i)
		if s.Name == "" {
			return fmt.Errorf("%s: name is required", prefix)
		}
		if seen[s.Name] {
			return fmt.Errorf("%s: duplicate score %q", prefix, s.Name)
		}
		seen[s.Name] = true
		if len(s.Range) != 2 {
			return fmt.Errorf("%s (%s): range must be [low, high], got %v", prefix, s.Name, s.Range)
		}
		low, high := s.Range[0], s.Range[1]
		if math.IsNaN(low) || math.IsNaN(high) || math.IsInf(low, 0) || math.IsInf(high, 0) || high <= low {
			return fmt.Errorf("%s (%s): invalid range [%v, %v]", prefix, s.Name, low, high)
		}
		if s.Bins < 0 {
			return fmt.Errorf("%s (%s): bins must be positive, got %d", prefix, s.Name, s.Bins)
		}
		for rate, cut := range s.Thresholds {
			if rate <= 0 {
				return fmt.Errorf("%s (%s): rate must be positive, got %d", prefix, s.Name, rate)
			}
			if math.IsNaN(cut) || math.IsInf(cut, 0) {
				return fmt.Errorf("%s (%s): cut at %dkHz must be finite", prefix, s.Name, rate)
			}
		}
	}
	return nil
}

// Names returns the score variable names in configuration order.
func (c ScoreConfig) Names() []string {
	out := make([]string, len(c.Scores))
	for i, s := range c.Scores {
		out[i] = s.Name
	}
	return out
}

// Bank returns the threshold bank. Scores without thresholds are omitted.
func (c ScoreConfig) Bank() ThresholdBank {
	bank := make(ThresholdBank)
	for _, s := range c.Scores {
		if len(s.Thresholds) == 0 {
			continue
		}
		cuts := make(map[int]float64, len(s.Thresholds))
		for r, cut := range s.Thresholds {
			cuts[r] = cut
		}
		bank[s.Name] = cuts
	}
	return bank
}

// Ranges returns the histogram ranges keyed by variable.
func (c ScoreConfig) Ranges() map[string]Range {
	out := make(map[string]Range, len(c.Scores))
	for _, s := range c.Scores {
		if len(s.Range) != 2 {
			continue
		}
		bins := s.Bins
		if bins == 0 {
			bins = DefaultBins
		}
		out[s.Name] = Range{Low: s.Range[0], High: s.Range[1], Bins: bins}
	}
	return out
}
