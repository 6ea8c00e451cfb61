package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/vissm/vissm/pkg/catalog"
	"github.com/vissm/vissm/pkg/processor"
)

// newWorkbook builds an empty workbook and the shared bold/grey header
// style used by every sheet.
func newWorkbook() (*excelize.File, int, error) {
	f := excelize.NewFile()
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"CCCCCC"}, Pattern: 1},
	})
	if err != nil {
		f.Close()
		return nil, 0, err
	}
	return f, headerStyle, nil
}

// WriteExcel renders the vulnerability workbook: a detail sheet with one
// row per finding, a host summary sheet, and a NIST control reference
// sheet (the full catalog dump for static report tables).
func WriteExcel(w io.Writer, res *processor.Results, cat *catalog.Catalog) error {
	f, headerStyle, err := newWorkbook()
	if err != nil {
		return err
	}
	defer f.Close()

	if err := writeExcelFindings(f, "Vulnerability Report", res, headerStyle); err != nil {
		return err
	}
	if err := writeExcelHostSummary(f, res, headerStyle); err != nil {
		return err
	}
	if err := writeExcelControls(f, cat, headerStyle); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write excel workbook: %w", err)
	}
	return nil
}

// WriteCNET renders the CNET report, a standalone workbook carrying the
// same per-finding detail columns as the vulnerability report.
func WriteCNET(w io.Writer, res *processor.Results) error {
	f, headerStyle, err := newWorkbook()
	if err != nil {
		return err
	}
	defer f.Close()

	if err := writeExcelFindings(f, "CNET Report", res, headerStyle); err != nil {
		return err
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write cnet workbook: %w", err)
	}
	return nil
}

func writeExcelFindings(f *excelize.File, sheet string, res *processor.Results, headerStyle int) error {
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}

	headers := []string{
		"IP", "Hostname", "Plugin ID", "Plugin Name", "Severity",
		"Family", "Port", "Service", "Description", "Solution", "CVE",
	}
	if err := writeExcelHeader(f, sheet, headers, headerStyle); err != nil {
		return err
	}

	row := 2
	for _, host := range res.Report.Hosts {
		for _, finding := range host.Findings {
			values := []interface{}{
				host.Name,
				host.Properties.Hostname,
				finding.PluginID,
				finding.PluginName,
				finding.Severity,
				finding.PluginFamily,
				finding.Port,
				finding.ServiceName,
				finding.Description,
				finding.Solution,
				strings.Join(finding.CVEs, "; "),
			}
			if err := writeExcelRow(f, sheet, row, values); err != nil {
				return err
			}
			row++
		}
	}

	return f.SetColWidth(sheet, "I", "J", 50)
}

func writeExcelHostSummary(f *excelize.File, res *processor.Results, headerStyle int) error {
	const sheet = "Host Summary"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	headers := []string{
		"Hostname", "IP", "OS", "Total", "Critical", "High",
		"Medium", "Low", "Info", "Risk Score", "Risk Level",
	}
	if err := writeExcelHeader(f, sheet, headers, headerStyle); err != nil {
		return err
	}

	for i, hs := range res.HostSummaries {
		values := []interface{}{
			hs.Hostname, hs.IP, hs.OS, hs.Total, hs.Critical, hs.High,
			hs.Medium, hs.Low, hs.Info, hs.RiskScore, processor.RiskLevel(hs.RiskScore),
		}
		if err := writeExcelRow(f, sheet, i+2, values); err != nil {
			return err
		}
	}
	return nil
}

func writeExcelControls(f *excelize.File, cat *catalog.Catalog, headerStyle int) error {
	const sheet = "NIST Controls"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	headers := []string{"Control", "Name", "Family", "Priority", "Baselines", "Description"}
	if err := writeExcelHeader(f, sheet, headers, headerStyle); err != nil {
		return err
	}

	families := make(map[string]string)
	for _, fam := range cat.Families() {
		families[fam.ID] = fam.Name
	}

	for i, ctrl := range cat.Controls() {
		values := []interface{}{
			ctrl.ID,
			ctrl.Name,
			families[ctrl.Family],
			ctrl.Priority,
			strings.Join(ctrl.Baselines, ", "),
			ctrl.Description,
		}
		if err := writeExcelRow(f, sheet, i+2, values); err != nil {
			return err
		}
	}
	return f.SetColWidth(sheet, "F", "F", 60)
}

func writeExcelHeader(f *excelize.File, sheet string, headers []string, style int) error {
	return writeExcelHeaderAt(f, sheet, 1, headers, style)
}

func writeExcelHeaderAt(f *excelize.File, sheet string, row int, headers []string, style int) error {
	for col, header := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, cell, cell, style); err != nil {
			return err
		}
	}
	return nil
}

func writeExcelRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	for col, value := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, value); err != nil {
			return err
		}
	}
	return nil
}
