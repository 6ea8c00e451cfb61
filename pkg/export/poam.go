package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/vissm/vissm/pkg/nessus"
	"github.com/vissm/vissm/pkg/nist"
	"github.com/vissm/vissm/pkg/processor"
	"github.com/vissm/vissm/pkg/stig"
)

var poamColumns = []string{
	"POA&M Item ID", "Vulnerability Description", "Security Control Number",
	"Office/Org", "Security Checks", "Raw Severity", "Mitigations",
	"Severity", "Resources Required", "Scheduled Completion Date",
	"Milestone with Completion Dates", "Source Identifying Vulnerability",
	"Status", "Comments",
}

// Remediation windows by severity, per DoD patching timelines.
var poamDueDays = map[int]int{
	nessus.SeverityCritical: 30,
	nessus.SeverityHigh:     90,
	nessus.SeverityMedium:   180,
	nessus.SeverityLow:      365,
}

type poamItem struct {
	finding nessus.Finding
	hosts   []string
}

// WritePOAM renders the eMASS-style Plan of Action and Milestones
// workbook: one item per distinct weakness (plugin), aggregated across
// the hosts it affects, with the resolved NIST controls as the security
// control number. Informational findings are not weaknesses and are
// excluded.
func WritePOAM(w io.Writer, res *processor.Results, mapper *nist.Mapper) error {
	f, headerStyle, err := newWorkbook()
	if err != nil {
		return err
	}
	defer f.Close()

	const sheet = "POA&M"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}

	now := time.Now()
	if err := f.SetCellValue(sheet, "A1", classificationBanner); err != nil {
		return err
	}
	if err := f.SetCellValue(sheet, "A2", "Date Exported: "+now.Format("2006-01-02")); err != nil {
		return err
	}
	if err := f.SetCellValue(sheet, "A3", "Source Scan: "+res.Report.ScanName); err != nil {
		return err
	}

	const headerRow = 5
	if err := writeExcelHeaderAt(f, sheet, headerRow, poamColumns, headerStyle); err != nil {
		return err
	}

	row := headerRow + 1
	for i, item := range poamItems(res.Report) {
		finding := item.finding
		due := now.AddDate(0, 0, poamDueDays[finding.Severity]).Format("2006-01-02")

		comments := "Affected hosts: " + strings.Join(item.hosts, ", ")
		if len(finding.CVEs) > 0 {
			comments += "; CVE: " + strings.Join(finding.CVEs, ", ")
		}

		values := []interface{}{
			fmt.Sprintf("POAM-%04d", i+1),
			finding.PluginName,
			strings.Join(mapper.Resolve(finding), ", "),
			"",
			"Nessus Plugin " + finding.PluginID,
			stig.SeverityCategory(finding.Severity),
			finding.Solution,
			nessus.SeverityName(finding.Severity),
			"TBD",
			due,
			fmt.Sprintf("Remediate %s by %s", finding.PluginName, due),
			"Nessus Scan: " + res.Report.ScanName,
			"Ongoing",
			comments,
		}
		if err := writeExcelRow(f, sheet, row, values); err != nil {
			return err
		}
		row++
	}

	if err := f.SetColWidth(sheet, "B", "B", 50); err != nil {
		return err
	}
	if err := f.SetColWidth(sheet, "G", "G", 50); err != nil {
		return err
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write poam workbook: %w", err)
	}
	return nil
}

// poamItems collects one item per distinct plugin above Info severity, in
// document order, with the hosts it was observed on.
func poamItems(report *nessus.ScanReport) []poamItem {
	index := make(map[string]int)
	var items []poamItem
	for _, host := range report.Hosts {
		for _, finding := range host.Findings {
			if finding.Severity == nessus.SeverityInfo {
				continue
			}
			hostLabel := host.Name
			if host.Properties.Hostname != "" {
				hostLabel = fmt.Sprintf("%s (%s)", host.Name, host.Properties.Hostname)
			}
			if i, ok := index[finding.PluginID]; ok {
				items[i].hosts = append(items[i].hosts, hostLabel)
				continue
			}
			index[finding.PluginID] = len(items)
			items = append(items, poamItem{finding: finding, hosts: []string{hostLabel}})
		}
	}
	return items
}
