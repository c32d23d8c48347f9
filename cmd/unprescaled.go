package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/llp-triggers/trigeff/trig/prescale"
)

var (
	unprescaledTable     string
	unprescaledReference string
)

var unprescaledCmd = &cobra.Command{
	Use:   "unprescaled",
	Short: "Print the paths with prescale 1 at a reference rate",
	Run: func(cmd *cobra.Command, args []string) {
		if err := writeUnprescaled(os.Stdout, unprescaledTable, unprescaledReference); err != nil {
			logrus.Fatalf("%v", err)
		}
	},
}

// writeUnprescaled prints one path per line in table order.
func writeUnprescaled(w io.Writer, path, reference string) error {
	table, err := prescale.Load(path)
	if err != nil {
		return err
	}
	set, err := table.Unprescaled(reference)
	if err != nil {
		return err
	}
	for _, name := range set.Names() {
		if _, err := fmt.Fprintln(w, name); err != nil {
			return err
		}
	}
	logrus.Infof("%d of %d paths unprescaled at %s", set.Len(), len(table.Entries()), reference)
	return nil
}

func init() {
	unprescaledCmd.Flags().StringVarP(&unprescaledTable, "prescales", "m", "", "Prescale table CSV")
	unprescaledCmd.Flags().StringVar(&unprescaledReference, "reference", prescale.DefaultReference, "Rate label")
	_ = unprescaledCmd.MarkFlagRequired("prescales")

	rootCmd.AddCommand(unprescaledCmd)
}
