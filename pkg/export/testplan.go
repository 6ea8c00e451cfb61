package export

import (
	"fmt"
	"io"

	"github.com/vissm/vissm/pkg/nessus"
	"github.com/vissm/vissm/pkg/processor"
)

var testPlanColumns = []string{
	"Test ID", "Test Name", "Test Description", "Expected Results",
	"Test Steps", "Pass/Fail Criteria", "Test Environment", "Test Data",
}

// WriteTestPlan renders the IV&V test plan workbook: one verification
// test per Critical or High finding, confirming its remediation.
func WriteTestPlan(w io.Writer, res *processor.Results) error {
	f, headerStyle, err := newWorkbook()
	if err != nil {
		return err
	}
	defer f.Close()

	const sheet = "IV&V Test Plan"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}
	if err := writeExcelHeader(f, sheet, testPlanColumns, headerStyle); err != nil {
		return err
	}

	row := 2
	testID := 1
	for _, host := range res.Report.Hosts {
		for _, finding := range host.Findings {
			if finding.Severity < nessus.SeverityHigh {
				continue
			}
			values := []interface{}{
				fmt.Sprintf("TEST-%04d", testID),
				"Test " + finding.PluginName,
				fmt.Sprintf("Verify remediation of %s on %s", finding.PluginName, host.Properties.Hostname),
				"Vulnerability is remediated and no longer present",
				fmt.Sprintf("1. Scan %s\n2. Verify %s is not detected\n3. Document results", host.Name, finding.PluginName),
				"Pass: Vulnerability not detected\nFail: Vulnerability still present",
				fmt.Sprintf("Target: %s (%s)", host.Name, host.Properties.Hostname),
				"Plugin ID: " + finding.PluginID,
			}
			if err := writeExcelRow(f, sheet, row, values); err != nil {
				return err
			}
			row++
			testID++
		}
	}

	if err := f.SetColWidth(sheet, "C", "F", 45); err != nil {
		return err
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write test plan workbook: %w", err)
	}
	return nil
}
