package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/llp-triggers/trigeff/trig"
	"github.com/llp-triggers/trigeff/trig/report"
	"github.com/llp-triggers/trigeff/trig/signal"
)

var (
	summaryResults string
	summaryEffs    bool
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print the best triggers of a results file",
	Run: func(cmd *cobra.Command, args []string) {
		doc, err := report.ReadJSON(summaryResults)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		if err := writeSummary(os.Stdout, doc, summaryEffs); err != nil {
			logrus.Fatalf("%v", err)
		}
	},
}

// bestGroup is the mass scan of one signal at fixed lifetime and dark mass.
type bestGroup struct {
	label string
	names []string
	effs  []trig.Cell
}

// groupBest splits a signal's rows by their non-mass coordinates, keeping the
// order in which each group first appears.
func groupBest(res *trig.SignalResult) []bestGroup {
	bestIdx := res.Schema.Index(trig.MetricBest)
	var groups []bestGroup
	index := make(map[string]int)
	for _, row := range res.Rows {
		var parts []string
		for i, coord := range res.Schema.Coordinates {
			if coord == "mass" || i >= len(row.Coords) {
				continue
			}
			parts = append(parts, coord+" = "+signal.FormatCoord(row.Coords[i]))
		}
		label := strings.Join(parts, " and ")
		g, ok := index[label]
		if !ok {
			g = len(groups)
			index[label] = g
			groups = append(groups, bestGroup{label: label})
		}
		groups[g].names = append(groups[g].names, row.BestName)
		var eff trig.Cell
		if bestIdx >= 0 && bestIdx < len(row.Cells) {
			eff = row.Cells[bestIdx]
		}
		groups[g].effs = append(groups[g].effs, eff)
	}
	return groups
}

// writeSummary prints the best trigger per mass point for every group.
func writeSummary(w io.Writer, doc *report.Document, withEffs bool) error {
	if _, err := fmt.Fprintf(w, "Run %s (mode %s, reference %s)\n\n", doc.RunID, doc.Mode, doc.Reference); err != nil {
		return err
	}
	for i := range doc.Signals {
		res := &doc.Signals[i]
		for _, g := range groupBest(res) {
			header := "Best triggers for " + res.Name
			if g.label != "" {
				header += " with " + g.label
			}
			if _, err := fmt.Fprintf(w, "%s:\n%s\n", header, strings.Join(g.names, " ")); err != nil {
				return err
			}
			if withEffs {
				effs := make([]string, len(g.effs))
				for j, c := range g.effs {
					effs[j] = c.String()
				}
				if _, err := fmt.Fprintln(w, strings.Join(effs, " ")); err != nil {
					return err
				}
			}
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
	}
	return nil
}

func init() {
	summaryCmd.Flags().StringVarP(&summaryResults, "results", "r", "", "Results JSON written by effs or llp")
	summaryCmd.Flags().BoolVar(&summaryEffs, "effs", false, "Also print the best-trigger efficiencies")
	_ = summaryCmd.MarkFlagRequired("results")

	rootCmd.AddCommand(summaryCmd)
}
