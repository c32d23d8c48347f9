package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var llpOpts scanOptions

// llpCmd runs the long-lived-particle study: the given triggers are compared
// against the best unprescaled path, alone and OR-ed with it.
var llpCmd = &cobra.Command{
	Use:   "llp",
	Short: "Compute efficiencies of LLP triggers against the best unprescaled path",
	Run: func(cmd *cobra.Command, args []string) {
		if len(llpOpts.triggers) == 0 {
			logrus.Fatalf("at least one --trigger flag is required")
		}
		if _, err := runScan(cmd.Context(), &llpOpts); err != nil {
			logrus.Fatalf("Scan failed: %v", err)
		}
	},
}

func init() {
	llpOpts.bindFlags(llpCmd)
	llpCmd.Flags().StringArrayVar(&llpOpts.triggers, "trigger", nil, "Trigger path under study (can be repeated)")
	llpCmd.Flags().StringVar(&llpOpts.mode, "mode", "L1", "Trigger stage of the --trigger paths (L1, HLT)")
	_ = llpCmd.MarkFlagRequired("trigger")

	rootCmd.AddCommand(llpCmd)
}
