package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vissm/vissm/pkg/catalog"
	"github.com/vissm/vissm/pkg/cvedb"
	"github.com/vissm/vissm/pkg/nist"
)

var controlsCmd = &cobra.Command{
	Use:   "controls",
	Short: "Browse the NIST 800-53 control catalog",
}

var controlsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List catalog controls, optionally filtered by baseline",
	RunE: func(cmd *cobra.Command, args []string) error {
		baseline, _ := cmd.Flags().GetString("baseline")
		cat := catalog.Default()

		controls := cat.Controls()
		if baseline != "" {
			controls = cat.BaselineControls(baseline)
		}
		for _, ctrl := range controls {
			fmt.Printf("%-8s %-50s [%s] %s\n", ctrl.ID, ctrl.Name, ctrl.Priority,
				strings.Join(ctrl.Baselines, "/"))
		}
		return nil
	},
}

var controlsFamiliesCmd = &cobra.Command{
	Use:   "families",
	Short: "List control families",
	Run: func(cmd *cobra.Command, args []string) {
		for _, fam := range catalog.Default().Families() {
			fmt.Printf("%-4s %s\n     %s\n", fam.ID, fam.Name, fam.Description)
		}
	},
}

var controlsShowCmd = &cobra.Command{
	Use:   "show <control-id>",
	Short: "Show the full definition of a control",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctrl, ok := catalog.Default().Control(args[0])
		if !ok {
			return fmt.Errorf("control %q not found in catalog", args[0])
		}
		fmt.Printf("%s - %s\n", ctrl.ID, ctrl.Name)
		fmt.Printf("Family:    %s\n", ctrl.Family)
		fmt.Printf("Priority:  %s\n", ctrl.Priority)
		fmt.Printf("Baselines: %s\n", strings.Join(ctrl.Baselines, ", "))
		fmt.Printf("           %s\n", ctrl.Description)
		if len(ctrl.Related) > 0 {
			fmt.Printf("Related:   %s\n", strings.Join(ctrl.Related, ", "))
		}
		return nil
	},
}

var controlsCVECmd = &cobra.Command{
	Use:   "cve <cve-id>",
	Short: "Resolve a CVE to its mapped controls and reference data",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cve := args[0]
		mapper := nist.NewMapper(catalog.Default())

		controls := mapper.ControlsForCVE(cve)
		if len(controls) == 0 {
			fmt.Printf("No NIST control mapping for %s\n", strings.ToUpper(cve))
		} else {
			fmt.Printf("NIST controls: %s\n", strings.Join(controls, ", "))
		}

		if info, ok := cvedb.Default().Lookup(cve); ok {
			fmt.Printf("\n%s: %s\n", info.ID, info.Description)
			fmt.Printf("CVSS v3: %.1f (%s)\n", info.CVSSv3Score, info.CVSSv3Vector)
			fmt.Printf("CWE: %s\n", strings.Join(info.CWEIDs, ", "))
			for _, ref := range info.References {
				fmt.Printf("  %s\n", ref)
			}
		}
	},
}

func init() {
	controlsListCmd.Flags().StringP("baseline", "b", "", "Filter by RMF baseline (LOW, MODERATE, HIGH)")
	controlsCmd.AddCommand(controlsListCmd)
	controlsCmd.AddCommand(controlsFamiliesCmd)
	controlsCmd.AddCommand(controlsShowCmd)
	controlsCmd.AddCommand(controlsCVECmd)
	rootCmd.AddCommand(controlsCmd)
}
