package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/vissm/vissm/pkg/nessus"
	"github.com/vissm/vissm/pkg/processor"
)

// Nessus software enumeration plugin feeding the inventory sheets.
const softwareEnumerationPlugin = "22869"

// Software enumeration output is chunked into spreadsheet cells of this
// many lines each.
const softwareChunkLines = 20

// WriteInventory renders the detailed HW/SW inventory workbook: one
// software enumeration sheet per platform, one row per host, with the
// enumeration output split across line-range columns.
func WriteInventory(w io.Writer, res *processor.Results) error {
	f, headerStyle, err := newWorkbook()
	if err != nil {
		return err
	}
	defer f.Close()

	windowsSheet := fmt.Sprintf("Windows Software (plugin %s)", softwareEnumerationPlugin)
	linuxSheet := fmt.Sprintf("Linux Software (plugin %s)", softwareEnumerationPlugin)
	if err := f.SetSheetName("Sheet1", windowsSheet); err != nil {
		return err
	}
	if _, err := f.NewSheet(linuxSheet); err != nil {
		return err
	}

	rows := map[string]int{windowsSheet: 2, linuxSheet: 2}
	maxChunks := map[string]int{}

	for _, host := range res.Report.Hosts {
		sheet := linuxSheet
		if strings.Contains(strings.ToLower(host.Properties.OS), "windows") {
			sheet = windowsSheet
		}

		chunks := softwareChunks(host)
		if len(chunks) > maxChunks[sheet] {
			maxChunks[sheet] = len(chunks)
		}

		label := host.Name
		if host.Properties.Hostname != "" {
			label = fmt.Sprintf("%s (%s)", host.Name, host.Properties.Hostname)
		}
		values := []interface{}{label}
		for _, chunk := range chunks {
			values = append(values, chunk)
		}
		if err := writeExcelRow(f, sheet, rows[sheet], values); err != nil {
			return err
		}
		rows[sheet]++
	}

	for _, sheet := range []string{windowsSheet, linuxSheet} {
		headers := []string{"IP and Hostname"}
		for i := 0; i < maxChunks[sheet]; i++ {
			headers = append(headers, fmt.Sprintf("Software Enumeration Output (Lines %d-%d)",
				i*softwareChunkLines+1, (i+1)*softwareChunkLines))
		}
		if err := writeExcelHeader(f, sheet, headers, headerStyle); err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, "A", "A", 40); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write inventory workbook: %w", err)
	}
	return nil
}

// softwareChunks splits a host's software enumeration output into
// cell-sized line chunks. Hosts without the enumeration plugin yield
// nothing.
func softwareChunks(host nessus.ReportHost) []string {
	lines := softwareLines(host)

	var chunks []string
	for start := 0; start < len(lines); start += softwareChunkLines {
		end := start + softwareChunkLines
		if end > len(lines) {
			end = len(lines)
		}
		chunks = append(chunks, strings.Join(lines[start:end], "\n"))
	}
	return chunks
}

var emassHardwareColumns = []string{
	"Asset ID", "Hostname", "IP Address", "MAC Address", "Operating System",
	"Hardware Type", "Manufacturer", "Model", "Serial Number", "Location",
	"Owner", "Status", "Last Updated", "Notes",
}

var emassSoftwareColumns = []string{
	"Asset ID", "Hostname", "Software Name", "Version", "Publisher",
	"Installation Date", "License Key", "License Type", "Status",
	"Last Updated", "Notes",
}

var emassInstructions = []string{
	"Hardware/Software Import Template Instructions",
	"1. Enter valid information into the fields on the Hardware/Software Import Template.",
	"2. Do not delete columns/sheets, delete the classification label, or add additional columns. Doing so may have a negative impact on the ability for eMASS to ingest the template.",
	"3. The following fields/columns contain drop-down lists: Hardware Type, Software Type, Approval, Yes Or No.",
	"4. If importing hardware information, the \"Machine Name\" field must be populated.",
	"5. If importing software information, the \"Software Name\" field must be populated.",
	"6. All required fields must be populated before importing into eMASS.",
	"7. Review all data for accuracy before importing.",
	"8. Contact your eMASS administrator if you have questions about the import process.",
	"9. Save the file as an Excel workbook (.xlsx) before importing.",
	"10. Do not modify the template structure or add additional columns.",
}

// WriteEMASSInventory renders the eMASS hardware/software import
// template: Hardware and Software sheets with the classification banner
// and POC header block, plus the Instructions and (U) Lists sheets the
// template requires.
func WriteEMASSInventory(w io.Writer, res *processor.Results) error {
	f, headerStyle, err := newWorkbook()
	if err != nil {
		return err
	}
	defer f.Close()

	today := time.Now().Format("2006-01-02")

	const hwSheet = "Hardware"
	if err := f.SetSheetName("Sheet1", hwSheet); err != nil {
		return err
	}
	if err := writeEMASSSheetHeader(f, hwSheet, today); err != nil {
		return err
	}
	if err := writeExcelHeaderAt(f, hwSheet, 7, emassHardwareColumns, headerStyle); err != nil {
		return err
	}

	row := 8
	for i, host := range res.Report.Hosts {
		values := []interface{}{
			fmt.Sprintf("HW-%04d", i+1),
			orNA(host.Properties.Hostname),
			host.Properties.IP,
			orNA(host.Properties.MACAddress),
			orNA(host.Properties.OS),
			"Workstation",
			"N/A", "N/A", "N/A", "N/A", "N/A",
			"Active",
			today,
			"N/A",
		}
		if err := writeExcelRow(f, hwSheet, row, values); err != nil {
			return err
		}
		row++
	}

	const swSheet = "Software"
	if _, err := f.NewSheet(swSheet); err != nil {
		return err
	}
	if err := writeEMASSSheetHeader(f, swSheet, today); err != nil {
		return err
	}
	if err := writeExcelHeaderAt(f, swSheet, 7, emassSoftwareColumns, headerStyle); err != nil {
		return err
	}

	row = 8
	assetID := 1
	for _, host := range res.Report.Hosts {
		for _, software := range softwareLines(host) {
			values := []interface{}{
				fmt.Sprintf("SW-%04d", assetID),
				orNA(host.Properties.Hostname),
				software,
				"N/A", "N/A", "N/A", "N/A", "N/A",
				"Active",
				today,
				"N/A",
			}
			if err := writeExcelRow(f, swSheet, row, values); err != nil {
				return err
			}
			row++
			assetID++
		}
	}

	const instructionsSheet = "Instructions"
	if _, err := f.NewSheet(instructionsSheet); err != nil {
		return err
	}
	for i, line := range emassInstructions {
		if err := writeExcelRow(f, instructionsSheet, i+1, []interface{}{line}); err != nil {
			return err
		}
	}

	if err := writeEMASSLists(f); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write emass inventory workbook: %w", err)
	}
	return nil
}

func writeEMASSSheetHeader(f *excelize.File, sheet, today string) error {
	cells := map[string]string{
		"A1": classificationBanner,
		"A2": "Date Exported: " + today,
		"A3": "Exported By: " + GeneratorName,
		"A4": "Information System Owner:",
		"G4": "POC Name:",
		"J4": "Date Reviewed / Updated:",
		"A5": "System Name:",
		"G5": "POC Phone:",
		"J5": "Reviewed / Updated By:",
	}
	for cell, value := range cells {
		if err := f.SetCellValue(sheet, cell, value); err != nil {
			return err
		}
	}
	return nil
}

// (U) Lists holds the drop-down vocabularies the eMASS template binds to.
func writeEMASSLists(f *excelize.File) error {
	const sheet = "(U) Lists"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	lists := []struct {
		column string
		values []string
	}{
		{"A", []string{"Hardware Type", "Workstation", "Server", "Switch", "Router", "Firewall", "Printer", "Scanner"}},
		{"C", []string{"Software Type", "GOTS Application", "COTS Application", "Server Application", "Web Application", "Database", "Operating System", "Utility"}},
		{"E", []string{"Approval", "In Progress", "Unapproved", "Approved - FIPS 140-2", "Approved - NSA Crypto", "Approved - Common Criteria", "Approved - Other", "Not Applicable"}},
		{"G", []string{"Yes Or No", "Yes", "No"}},
	}
	for _, list := range lists {
		for i, value := range list.values {
			cell := fmt.Sprintf("%s%d", list.column, i+1)
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return err
			}
		}
	}
	return nil
}

// softwareLines flattens a host's software enumeration output into one
// entry per installed package.
func softwareLines(host nessus.ReportHost) []string {
	var lines []string
	for _, finding := range host.Findings {
		if finding.PluginID != softwareEnumerationPlugin {
			continue
		}
		for _, line := range strings.Split(finding.PluginOutput, "\n") {
			if line = strings.TrimSpace(line); line != "" {
				lines = append(lines, line)
			}
		}
	}
	return lines
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
