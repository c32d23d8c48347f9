package trig

import (
	"github.com/prometheus/client_golang/prometheus"
)

// RunMetrics counts grid-scan progress on a private registry. Batch runs export
// it once at the end through WriteTextfile.
type RunMetrics struct {
	Registry *prometheus.Registry

	Points        *prometheus.CounterVec
	Failures      *prometheus.CounterVec
	SkippedHists  *prometheus.CounterVec
	LoadDurationS prometheus.Histogram
}

// NewRunMetrics creates and registers the run collectors.
func NewRunMetrics() *RunMetrics {
	m := &RunMetrics{
		Registry: prometheus.NewRegistry(),
		Points: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "trigeff_grid_points_total",
			Help: "Grid points evaluated.",
		}, []string{"signal"}),
		Failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "trigeff_grid_point_failures_total",
			Help: "Grid points that aborted the traversal.",
		}, []string{"signal"}),
		SkippedHists: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "trigeff_histograms_skipped_total",
			Help: "Histograms omitted because the variable has no configured range.",
		}, []string{"variable"}),
		LoadDurationS: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "trigeff_sample_load_seconds",
			Help:    "Time to load one sample file.",
			Buckets: prometheus.ExponentialBuckets(0.01, 4, 8),
		}),
	}
	m.Registry.MustRegister(m.Points, m.Failures, m.SkippedHists, m.LoadDurationS)
	return m
}

// WriteTextfile writes the registry in the text exposition format, for the
// node-exporter textfile collector.
func (m *RunMetrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.Registry)
}
