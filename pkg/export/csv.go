// Package export renders processed scan results to the supported report
// formats. All writers consume the processed Results read-only and write
// to an io.Writer.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/vissm/vissm/pkg/processor"
)

var csvColumns = []string{
	"Host", "IP", "OS", "Plugin ID", "Plugin Name", "Severity",
	"Family", "Port", "Service", "Description", "Solution", "CVE",
}

var csvSummaryColumns = []string{
	"Host", "IP", "OS", "Total Vulns", "Critical", "High",
	"Medium", "Low", "Info", "Risk Score",
}

// WriteCSV writes one row per finding, hosts and findings in document
// order. Long description and solution text is truncated to keep rows
// usable in spreadsheet tools.
func WriteCSV(w io.Writer, res *processor.Results) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvColumns); err != nil {
		return err
	}

	for _, host := range res.Report.Hosts {
		for _, f := range host.Findings {
			row := []string{
				host.Properties.Hostname,
				host.Properties.IP,
				host.Properties.OS,
				f.PluginID,
				f.PluginName,
				fmt.Sprintf("%d", f.Severity),
				f.PluginFamily,
				f.Port,
				f.ServiceName,
				truncate(f.Description, 500),
				truncate(f.Solution, 200),
				strings.Join(f.CVEs, "; "),
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteCSVSummary writes one row per host with severity counters and the
// risk score.
func WriteCSVSummary(w io.Writer, res *processor.Results) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvSummaryColumns); err != nil {
		return err
	}

	for _, hs := range res.HostSummaries {
		row := []string{
			hs.Hostname,
			hs.IP,
			hs.OS,
			fmt.Sprintf("%d", hs.Total),
			fmt.Sprintf("%d", hs.Critical),
			fmt.Sprintf("%d", hs.High),
			fmt.Sprintf("%d", hs.Medium),
			fmt.Sprintf("%d", hs.Low),
			fmt.Sprintf("%d", hs.Info),
			fmt.Sprintf("%.1f", hs.RiskScore),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// truncate cuts s at max bytes without splitting a UTF-8 rune.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}
	return s[:max] + "..."
}
