package trig

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/llp-triggers/trigeff/trig/signal"
	"github.com/llp-triggers/trigeff/trig/trace"
)

// validModes lists the trigger stages an explicit interest list may target.
var validModes = map[string]bool{
	"L1":  true,
	"HLT": true,
}

// AggregatorConfig groups the read-only settings of a grid scan.
type AggregatorConfig struct {
	Unprescaled []string    // baseline candidates; with Interest, only the <Mode>_ paths
	Interest    []string    // triggers under study; empty means every present candidate
	Exclude     []string    // extra paths never chosen as best
	Mode        string      // "L1" (default) or "HLT"
	Scores      ScoreConfig // AD thresholds and histogram ranges
	EntryStop   int64       // events read per sample; <= 0 reads all
	Workers     int         // concurrent grid points; < 1 means 1
}

// Option configures optional Aggregator collaborators.
type Option func(*Aggregator)

// WithMetrics counts points, failures, skipped histograms and load times.
func WithMetrics(m *RunMetrics) Option {
	return func(a *Aggregator) { a.metrics = m }
}

// WithTrace records every best-trigger decision.
func WithTrace(t *trace.Trace) Option {
	return func(a *Aggregator) { a.trace = t }
}

// Aggregator runs the select → evaluate → histogram sequence over a signal grid.
type Aggregator struct {
	cfg     AggregatorConfig
	src     Source
	eval    *Evaluator
	hists   HistogramBuilder
	base    []string // unprescaled paths eligible as best
	metrics *RunMetrics
	trace   *trace.Trace
}

// NewAggregator validates cfg and builds an Aggregator reading from src.
func NewAggregator(cfg AggregatorConfig, src Source, opts ...Option) (*Aggregator, error) {
	if src == nil {
		return nil, errors.New("nil source")
	}
	if cfg.Mode == "" {
		cfg.Mode = DefaultMode
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if err := cfg.Scores.Validate(); err != nil {
		return nil, err
	}
	if len(cfg.Interest) > 0 {
		if !validModes[cfg.Mode] {
			return nil, fmt.Errorf("mode must be L1 or HLT, got %q", cfg.Mode)
		}
		for _, t := range cfg.Interest {
			if !strings.HasPrefix(t, cfg.Mode+"_") {
				return nil, fmt.Errorf("trigger %q does not match mode %s; use HLT or L1 for mode", t, cfg.Mode)
			}
		}
	}
	a := &Aggregator{
		cfg:   cfg,
		src:   src,
		eval:  NewEvaluator(cfg.Scores, cfg.Mode),
		hists: HistogramBuilder{Ranges: cfg.Scores.Ranges()},
		base:  cfg.Unprescaled,
	}
	if len(cfg.Interest) > 0 {
		// An explicit study compares against the best path of its own stage.
		a.base = withPrefix(cfg.Unprescaled, cfg.Mode+"_")
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// HistError records a histogram omitted for one point.
type HistError struct {
	Variable string `json:"variable"`
	Point    string `json:"point"`
	Err      string `json:"error"`
}

// SignalResult is the accumulated output of one signal grid.
type SignalResult struct {
	Name       string                          `json:"name"`
	Legend     string                          `json:"legend,omitempty"`
	XLabel     string                          `json:"xlabel,omitempty"`
	Schema     Schema                          `json:"schema"`
	Rows       []Row                           `json:"rows"`
	Hists      map[string]map[string]Histogram `json:"hists"`
	HistErrors []HistError                     `json:"hist_errors,omitempty"`
}

// Column returns one value column across all rows, in row order.
func (r *SignalResult) Column(name string) ([]Cell, bool) {
	idx := r.Schema.Index(name)
	if idx < 0 {
		return nil, false
	}
	out := make([]Cell, len(r.Rows))
	for i, row := range r.Rows {
		if idx < len(row.Cells) {
			out[i] = row.Cells[idx]
		}
	}
	return out, true
}

type pointOutcome struct {
	row      Row
	hists    map[string]Histogram
	histErrs []HistError
}

// Request returns the columns loaded for every sample.
func (a *Aggregator) Request() LoadRequest {
	seen := make(map[string]bool)
	var cols []string
	add := func(names []string) {
		for _, n := range names {
			if !seen[n] {
				seen[n] = true
				cols = append(cols, n)
			}
		}
	}
	add(a.base)
	add(a.cfg.Interest)
	add(a.cfg.Scores.Names())

	req := LoadRequest{Columns: cols, EntryStop: a.cfg.EntryStop}
	if len(a.cfg.Interest) > 0 {
		req.Prefixes = []string{a.cfg.Mode + "_"}
	}
	return req
}

// Accumulate evaluates every grid point of sig. Rows follow sig.Points() order
// for any worker count. The first failing point aborts the traversal.
func (a *Aggregator) Accumulate(ctx context.Context, sig *signal.Signal) (*SignalResult, error) {
	points := sig.Points()
	cache := NewTableCache(a.src, a.Request())
	defer cache.Release()

	schema := NewSchema(sig.Coordinates(), a.cfg.Mode, a.cfg.Interest, a.cfg.Scores)
	outcomes := make([]pointOutcome, len(points))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.cfg.Workers)
	for i, p := range points {
		i, p := i, p
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out, err := a.evaluatePoint(gctx, cache, sig, p, schema)
			if err != nil {
				if a.metrics != nil {
					a.metrics.Failures.WithLabelValues(sig.Name).Inc()
				}
				pointLog(sig, p).Errorf("grid point failed: %v", err)
				return fmt.Errorf("signal %q point %s: %w", sig.Name, p, err)
			}
			outcomes[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	res := &SignalResult{
		Name:   sig.Name,
		Legend: sig.Legend,
		XLabel: sig.XLabel,
		Schema: schema,
		Rows:   make([]Row, 0, len(points)),
		Hists:  make(map[string]map[string]Histogram),
	}
	for i, out := range outcomes {
		res.Rows = append(res.Rows, out.row)
		for variable, h := range out.hists {
			if res.Hists[variable] == nil {
				res.Hists[variable] = make(map[string]Histogram)
			}
			res.Hists[variable][points[i].Label()] = h
		}
		res.HistErrors = append(res.HistErrors, out.histErrs...)
	}
	logrus.WithField("signal", sig.Name).Infof("accumulated %d grid points from %d files", len(res.Rows), cache.Len())
	return res, nil
}

func (a *Aggregator) evaluatePoint(ctx context.Context, cache *TableCache, sig *signal.Signal, p signal.Point, schema Schema) (pointOutcome, error) {
	log := pointLog(sig, p)
	path := sig.Path(p)
	log.Debugf("loading %s", path)

	start := time.Now()
	t, denom, err := cache.Get(ctx, path)
	if a.metrics != nil {
		a.metrics.LoadDurationS.Observe(time.Since(start).Seconds())
	}
	if err != nil {
		return pointOutcome{}, fmt.Errorf("loading %s: %w", path, err)
	}

	candidates := t.Present(a.base)
	exclude := append(append([]string(nil), a.cfg.Interest...), a.cfg.Exclude...)
	sel, err := SelectBest(t, candidates, exclude)
	if err != nil {
		return pointOutcome{}, err
	}
	log.Infof("best trigger %s (%d/%d events, %d candidates)", sel.Name, sel.Count, denom, sel.Considered)
	if a.trace != nil {
		a.trace.Record(trace.BestRecord{
			Signal:     sig.Name,
			Point:      p.Label(),
			Chosen:     sel.Name,
			Count:      sel.Count,
			Denom:      denom,
			Considered: sel.Considered,
		})
	}

	interest := a.cfg.Interest
	if len(interest) == 0 {
		interest = without(candidates, a.cfg.Exclude)
	}
	rec, err := a.eval.Evaluate(t, interest, sel.Name, denom)
	if err != nil {
		return pointOutcome{}, err
	}

	out := pointOutcome{
		row: Row{
			Point:    p,
			Coords:   Coords(p, schema.Coordinates),
			BestName: sel.Name,
			Cells:    schema.Project(rec),
		},
		hists: make(map[string]Histogram),
	}
	for _, variable := range t.ScoreColumns() {
		values, _ := t.Score(variable)
		h, err := a.hists.Build(variable, values)
		if err != nil {
			log.WithField("variable", variable).Warnf("histogram omitted: %v", err)
			if a.metrics != nil {
				a.metrics.SkippedHists.WithLabelValues(variable).Inc()
			}
			out.histErrs = append(out.histErrs, HistError{Variable: variable, Point: p.Label(), Err: err.Error()})
			continue
		}
		out.hists[variable] = h
	}
	if a.metrics != nil {
		a.metrics.Points.WithLabelValues(sig.Name).Inc()
	}
	return out, nil
}

func pointLog(sig *signal.Signal, p signal.Point) *logrus.Entry {
	fields := logrus.Fields{"signal": sig.Name, "mass": p.Mass}
	if p.HasLifetime {
		fields["ctau"] = p.Lifetime
	}
	if p.HasDarkMass {
		fields["mdark"] = p.DarkMass
	}
	return logrus.WithFields(fields)
}

// withPrefix returns the names starting with prefix, preserving order.
func withPrefix(names []string, prefix string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if strings.HasPrefix(n, prefix) {
			out = append(out, n)
		}
	}
	return out
}

// without returns names minus drop, preserving order.
func without(names, drop []string) []string {
	if len(drop) == 0 {
		return names
	}
	skip := make(map[string]bool, len(drop))
	for _, d := range drop {
		skip[d] = true
	}
	out := make([]string, 0, len(names))
	for _, n := range names {
		if !skip[n] {
			out = append(out, n)
		}
	}
	return out
}
