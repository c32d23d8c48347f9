package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var effsOpts scanOptions

// effsCmd runs the anomaly-detection study: every unprescaled path is a
// candidate and the AD scores are compared against the best single path.
var effsCmd = &cobra.Command{
	Use:   "effs",
	Short: "Compute best-trigger and AD efficiencies over signal grids",
	Run: func(cmd *cobra.Command, args []string) {
		if _, err := runScan(cmd.Context(), &effsOpts); err != nil {
			logrus.Fatalf("Scan failed: %v", err)
		}
	},
}

func init() {
	effsOpts.bindFlags(effsCmd)
	rootCmd.AddCommand(effsCmd)
}
