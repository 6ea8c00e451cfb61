package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/vissm/vissm/pkg/catalog"
	"github.com/vissm/vissm/pkg/config"
	"github.com/vissm/vissm/pkg/export"
	"github.com/vissm/vissm/pkg/nessus"
	"github.com/vissm/vissm/pkg/nist"
	"github.com/vissm/vissm/pkg/processor"
	"github.com/vissm/vissm/pkg/stig"
)

var (
	reportOutput  string
	reportFormat  string
	reportType    string
	reportSummary bool
	reportVerbose bool
)

var severityStyles = map[string]lipgloss.Style{
	"Critical": lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
	"High":     lipgloss.NewStyle().Foreground(lipgloss.Color("208")).Bold(true),
	"Medium":   lipgloss.NewStyle().Foreground(lipgloss.Color("220")),
	"Low":      lipgloss.NewStyle().Foreground(lipgloss.Color("34")),
	"Info":     lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
}

var headingStyle = lipgloss.NewStyle().Bold(true).Underline(true)

var reportCmd = &cobra.Command{
	Use:   "report <scan.nessus>",
	Short: "Process a Nessus scan and export a report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		input := args[0]
		if _, err := os.Stat(input); err != nil {
			return fmt.Errorf("input file %q not found", input)
		}
		if !strings.EqualFold(filepath.Ext(input), ".nessus") {
			fmt.Println("Warning: input file doesn't have .nessus extension")
		}

		cfg, err := config.LoadConfig()
		if err != nil {
			return err
		}
		format := reportFormat
		if format == "" {
			format = cfg.DefaultFormat
		}

		output := reportOutput
		if output == "" {
			base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
			if reportSummary {
				output = base + "_summary.csv"
			} else {
				output = base + "_report." + format
			}
		}

		if reportVerbose {
			fmt.Printf("Processing Nessus file: %s\n", input)
			fmt.Printf("Output format: %s\n", format)
			fmt.Printf("Output file: %s\n", output)
		}

		report, err := nessus.ParseFile(input)
		if err != nil {
			return err
		}
		if reportVerbose {
			fmt.Printf("Found %d hosts with %d findings\n", report.TotalHosts, report.TotalFindings)
		}

		res := processor.Process(report)

		if err := exportResults(res, format, output); err != nil {
			return err
		}
		fmt.Printf("Report exported successfully to: %s\n", output)

		printSummary(res)
		return nil
	},
}

func exportResults(res *processor.Results, format, output string) error {
	f, err := os.Create(output)
	if err != nil {
		return err
	}
	defer f.Close()

	if reportSummary {
		return export.WriteCSVSummary(f, res)
	}

	switch format {
	case "xlsx":
		return exportWorkbook(f, res)
	case "html":
		return export.WriteHTML(f, res)
	case "pdf":
		return export.WritePDF(f, res)
	case "csv":
		return export.WriteCSV(f, res)
	case "ckl":
		return export.WriteChecklist(f, res, stig.Default())
	default:
		return fmt.Errorf("unsupported format %q (expected xlsx, html, pdf, csv, or ckl)", format)
	}
}

// exportWorkbook routes the xlsx format to the selected report type.
func exportWorkbook(f *os.File, res *processor.Results) error {
	switch reportType {
	case "vulnerability":
		return export.WriteExcel(f, res, catalog.Default())
	case "poam":
		return export.WritePOAM(f, res, nist.NewMapper(catalog.Default()))
	case "ivv-test-plan":
		return export.WriteTestPlan(f, res)
	case "cnet":
		return export.WriteCNET(f, res)
	case "hw-sw-inventory":
		return export.WriteInventory(f, res)
	case "emass-inventory":
		return export.WriteEMASSInventory(f, res)
	case "stig-checklist":
		return export.WriteChecklist(f, res, stig.Default())
	default:
		return fmt.Errorf("unsupported report type %q (expected vulnerability, poam, ivv-test-plan, cnet, hw-sw-inventory, emass-inventory, or stig-checklist)", reportType)
	}
}

func printSummary(res *processor.Results) {
	fmt.Println()
	fmt.Println(headingStyle.Render("Summary"))
	fmt.Printf("  Total hosts: %d\n", len(res.HostSummaries))
	fmt.Printf("  Total findings: %d\n", res.Summary.Total)

	counts := []struct {
		name  string
		count int
	}{
		{"Critical", res.Summary.Critical},
		{"High", res.Summary.High},
		{"Medium", res.Summary.Medium},
		{"Low", res.Summary.Low},
		{"Info", res.Summary.Info},
	}
	for _, c := range counts {
		fmt.Printf("  %s: %d\n", severityStyles[c.name].Render(c.name), c.count)
	}

	if len(res.Recommendations) > 0 {
		fmt.Println()
		fmt.Println(headingStyle.Render("Key Recommendations"))
		for i, rec := range res.Recommendations {
			if i >= 3 {
				break
			}
			fmt.Printf("  %d. %s\n", i+1, rec)
		}
	}
}

func init() {
	reportCmd.Flags().StringVarP(&reportOutput, "output", "o", "", "Output file path")
	reportCmd.Flags().StringVarP(&reportFormat, "format", "f", "", "Output format: xlsx, html, pdf, csv, ckl (default from config)")
	reportCmd.Flags().StringVarP(&reportType, "report-type", "r", "vulnerability", "Report type for xlsx output: vulnerability, poam, ivv-test-plan, cnet, hw-sw-inventory, emass-inventory, stig-checklist")
	reportCmd.Flags().BoolVar(&reportSummary, "summary", false, "Export host summary only (CSV format)")
	reportCmd.Flags().BoolVarP(&reportVerbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.AddCommand(reportCmd)
}
