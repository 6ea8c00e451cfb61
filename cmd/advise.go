package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vissm/vissm/pkg/advisor"
	"github.com/vissm/vissm/pkg/catalog"
	"github.com/vissm/vissm/pkg/config"
	"github.com/vissm/vissm/pkg/nessus"
	"github.com/vissm/vissm/pkg/nist"
	"github.com/vissm/vissm/pkg/processor"
)

var adviseCmd = &cobra.Command{
	Use:   "advise <scan.nessus>",
	Short: "Generate an AI remediation narrative for a scan",
	Long: `advise processes a Nessus scan and asks the configured AI provider for
a prioritized remediation narrative. Requires a provider and API key; run
'vissm config setup' first.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return err
		}
		provider := cfg.SelectedProvider
		if provider == "" {
			return fmt.Errorf("no AI provider configured; run 'vissm config setup'")
		}
		apiKey := cfg.GetAPIKey(provider)
		if apiKey == "" {
			return fmt.Errorf("no API key configured for %s; run 'vissm config setup'", provider)
		}

		report, err := nessus.ParseFile(args[0])
		if err != nil {
			return err
		}
		res := processor.Process(report)
		mapper := nist.NewMapper(catalog.Default())

		ctx := context.Background()
		p, err := advisor.NewProvider(ctx, provider, apiKey, cfg.SelectedModel)
		if err != nil {
			return err
		}

		fmt.Printf("Generating remediation narrative with %s/%s...\n\n", provider, cfg.SelectedModel)
		narrative, err := advisor.Advise(ctx, p, res, mapper)
		if err != nil {
			return err
		}
		fmt.Println(narrative)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(adviseCmd)
}
