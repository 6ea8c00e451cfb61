package cmd

import (
	"github.com/spf13/cobra"

	"github.com/vissm/vissm/pkg/advisor"
)

var rootCmd = &cobra.Command{
	Use:   "vissm",
	Short: "Virtual ISSM - Nessus scan processing and DoD compliance reporting",
	Long: `vissm ingests Nessus vulnerability scan reports, aggregates them into
per-host and fleet-wide risk statistics, maps findings to NIST 800-53
controls and DISA STIG requirements, and exports audit-ready reports
(Excel, HTML, PDF, CSV, STIG checklist).`,
}

var DebugMode bool

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&DebugMode, "debug", false, "Enable debug logging")
	cobra.OnInitialize(func() {
		advisor.DebugEnabled = DebugMode
	})
}
