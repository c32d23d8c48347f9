package trig

import "fmt"

// Record maps metric name to efficiency in [0, 1] for one grid point.
type Record map[string]float64

// Metric names produced by Evaluate.
const (
	MetricBest = "best"
	// DefaultMode names the OR-of-interest metric and prefixes loaded trigger columns.
	DefaultMode = "L1"
)

// BestPlus names the OR of the best trigger with an interest trigger.
func BestPlus(trig string) string { return "best+" + trig }

// ADMetric names the AD-alone efficiency at a rate point.
func ADMetric(score string, rate int) string {
	return fmt.Sprintf("%s_AD@%dkHz", score, rate)
}

// BestADMetric names AD OR best at a rate point.
func BestADMetric(score string, rate int) string {
	return fmt.Sprintf("%s_best+AD@%dkHz", score, rate)
}

// ModeADMetric names AD OR any-interest-trigger at a rate point, e.g. "L1+AD".
func ModeADMetric(score, mode string, rate int) string {
	return fmt.Sprintf("%s_%s+AD@%dkHz", score, mode, rate)
}
