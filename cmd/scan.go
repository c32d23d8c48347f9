package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/llp-triggers/trigeff/trig"
	"github.com/llp-triggers/trigeff/trig/prescale"
	"github.com/llp-triggers/trigeff/trig/report"
	"github.com/llp-triggers/trigeff/trig/sample"
	"github.com/llp-triggers/trigeff/trig/signal"
	"github.com/llp-triggers/trigeff/trig/trace"
)

// scanOptions holds the flags shared by the effs and llp commands.
type scanOptions struct {
	signalsPath     string   // signals YAML file
	suffix          string   // output file suffix
	prescalesPath   string   // prescale table CSV
	outDir          string   // directory for result files
	reference       string   // rate label defining the unprescaled set
	scoresPath      string   // score config YAML; empty uses the built-in bank
	exclude         []string // paths never chosen as best
	workers         int      // concurrent grid points
	entryStop       int64    // events read per sample
	source          string   // "root" or "csv"
	tree            string   // ROOT tree name
	metricsTextfile string   // Prometheus textfile output path
	writeCSV        bool     // also write one CSV table per signal
	triggers        []string // interest triggers (llp only)
	mode            string   // L1 or HLT (llp only)
}

func (o *scanOptions) bindFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.signalsPath, "signals", "s", "", "Signals YAML file")
	cmd.Flags().StringVarP(&o.suffix, "output", "o", "", "Suffix for output files")
	cmd.Flags().StringVarP(&o.prescalesPath, "prescales", "m", "", "Prescale table CSV")
	cmd.Flags().StringVarP(&o.outDir, "path", "p", ".", "Directory where the output files are saved")
	cmd.Flags().StringVar(&o.reference, "reference", prescale.DefaultReference, "Rate label defining the unprescaled set")
	cmd.Flags().StringVar(&o.scoresPath, "scores", "", "Score config YAML (default: built-in AXOL1TL/CICADA bank)")
	cmd.Flags().StringSliceVar(&o.exclude, "exclude", nil, "Paths never chosen as best (can be repeated)")
	cmd.Flags().IntVar(&o.workers, "workers", 1, "Grid points evaluated concurrently")
	cmd.Flags().Int64Var(&o.entryStop, "entry-stop", 0, "Events read per sample (0 reads all)")
	cmd.Flags().StringVar(&o.source, "source", "root", "Sample format (root, csv)")
	cmd.Flags().StringVar(&o.tree, "tree", sample.DefaultTree, "ROOT tree holding the events")
	cmd.Flags().StringVar(&o.metricsTextfile, "metrics-textfile", "", "Write run metrics in Prometheus text format to this file")
	cmd.Flags().BoolVar(&o.writeCSV, "csv", false, "Also write one CSV table per signal")
	_ = cmd.MarkFlagRequired("signals")
	_ = cmd.MarkFlagRequired("output")
	_ = cmd.MarkFlagRequired("prescales")
}

// newSource returns the sample reader for a --source value.
func newSource(kind, tree string) (trig.Source, error) {
	switch kind {
	case "root":
		return sample.ROOT{Tree: tree}, nil
	case "csv":
		return sample.CSV{}, nil
	default:
		return nil, fmt.Errorf("unknown source %q (valid: root, csv)", kind)
	}
}

// runScan evaluates every signal in the signals file and writes the result
// files. It returns the written document.
func runScan(ctx context.Context, o *scanOptions) (*report.Document, error) {
	table, err := prescale.Load(o.prescalesPath)
	if err != nil {
		return nil, err
	}
	unprescaled, err := table.Unprescaled(o.reference)
	if err != nil {
		return nil, err
	}
	logrus.Infof("%d unprescaled paths at %s", unprescaled.Len(), o.reference)

	signals, err := signal.LoadFile(o.signalsPath)
	if err != nil {
		return nil, err
	}
	scores := trig.DefaultScoreConfig()
	if o.scoresPath != "" {
		if scores, err = trig.LoadScoreConfig(o.scoresPath); err != nil {
			return nil, err
		}
	}
	src, err := newSource(o.source, o.tree)
	if err != nil {
		return nil, err
	}

	mode := o.mode
	if mode == "" {
		mode = trig.DefaultMode
	}
	metrics := trig.NewRunMetrics()
	decisions := trace.New()
	agg, err := trig.NewAggregator(trig.AggregatorConfig{
		Unprescaled: unprescaled.Names(),
		Interest:    o.triggers,
		Exclude:     o.exclude,
		Mode:        mode,
		Scores:      scores,
		EntryStop:   o.entryStop,
		Workers:     o.workers,
	}, src, trig.WithMetrics(metrics), trig.WithTrace(decisions))
	if err != nil {
		return nil, err
	}

	startTime := time.Now()
	doc := report.NewDocument(mode, o.reference)
	for i := range signals {
		res, err := agg.Accumulate(ctx, &signals[i])
		if err != nil {
			return nil, err
		}
		doc.Signals = append(doc.Signals, *res)
	}

	path, err := report.WriteJSON(o.outDir, o.suffix, doc)
	if err != nil {
		return nil, err
	}
	logrus.Infof("Wrote %s", path)
	if o.writeCSV {
		paths, err := report.WriteCSV(o.outDir, o.suffix, doc)
		if err != nil {
			return nil, err
		}
		for _, p := range paths {
			logrus.Infof("Wrote %s", p)
		}
	}
	if o.metricsTextfile != "" {
		if err := metrics.WriteTextfile(o.metricsTextfile); err != nil {
			return nil, fmt.Errorf("writing metrics: %w", err)
		}
	}

	summary := trace.Summarize(decisions)
	logrus.WithFields(logrus.Fields{
		"run_id":    doc.RunID,
		"points":    summary.TotalDecisions,
		"unique":    summary.UniqueChosen,
		"mean_best": summary.MeanBestEff,
		"max_best":  summary.MaxBestEff,
		"elapsed":   time.Since(startTime).Round(time.Millisecond),
	}).Info("Scan complete.")
	for _, name := range summary.Ranked() {
		logrus.Debugf("best at %d points: %s", summary.ChosenCounts[name], name)
	}
	return doc, nil
}
