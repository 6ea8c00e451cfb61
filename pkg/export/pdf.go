package export

import (
	"fmt"
	"io"
	"time"

	gofpdf "github.com/go-pdf/fpdf"

	"github.com/vissm/vissm/pkg/processor"
)

// Severity display colors, darkest (Critical) to lightest (Info).
var pdfSeverityColors = map[string][]int{
	"Critical": {211, 47, 47},
	"High":     {245, 124, 0},
	"Medium":   {251, 192, 45},
	"Low":      {56, 142, 60},
	"Info":     {25, 118, 210},
}

// WritePDF renders the vulnerability report as a PDF document: a header,
// the fleet summary, the per-host table, and recommendations.
func WritePDF(w io.Writer, res *processor.Results) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	// Header.
	pdf.SetFont("Helvetica", "B", 18)
	pdf.SetTextColor(30, 41, 59)
	pdf.CellFormat(0, 10, "Vulnerability Assessment Report", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(100, 100, 100)
	pdf.CellFormat(0, 6, fmt.Sprintf("Scan: %s    Policy: %s", res.Report.ScanName, res.Report.PolicyName), "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Generated %s by %s", time.Now().Format("2006-01-02 15:04"), GeneratorName), "", 1, "C", false, 0, "")
	pdf.Ln(6)

	writePDFSummary(pdf, res)
	writePDFHostTable(pdf, res)
	writePDFRecommendations(pdf, res)

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to render pdf report: %w", err)
	}
	return nil
}

func writePDFSummary(pdf *gofpdf.Fpdf, res *processor.Results) {
	pdf.SetFont("Helvetica", "B", 13)
	pdf.SetTextColor(30, 41, 59)
	pdf.CellFormat(0, 8, "Summary", "", 1, "L", false, 0, "")
	pdf.Ln(1)

	cells := []struct {
		label string
		value int
	}{
		{"Hosts", len(res.HostSummaries)},
		{"Findings", res.Summary.Total},
		{"Critical", res.Summary.Critical},
		{"High", res.Summary.High},
		{"Medium", res.Summary.Medium},
		{"Low", res.Summary.Low},
		{"Info", res.Summary.Info},
	}

	cellW := 180.0 / float64(len(cells))
	pdf.SetFont("Helvetica", "B", 9)
	for _, c := range cells {
		color := pdfSeverityColors[c.label]
		if color == nil {
			color = []int{60, 60, 60}
		}
		pdf.SetTextColor(color[0], color[1], color[2])
		pdf.CellFormat(cellW, 7, c.label, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(60, 60, 60)
	for _, c := range cells {
		pdf.CellFormat(cellW, 7, fmt.Sprintf("%d", c.value), "1", 0, "C", false, 0, "")
	}
	pdf.Ln(10)
}

func writePDFHostTable(pdf *gofpdf.Fpdf, res *processor.Results) {
	if len(res.HostSummaries) == 0 {
		return
	}

	pdf.SetFont("Helvetica", "B", 13)
	pdf.SetTextColor(30, 41, 59)
	pdf.CellFormat(0, 8, "Host Summaries", "", 1, "L", false, 0, "")
	pdf.Ln(1)

	headers := []string{"Host", "IP", "Total", "Crit", "High", "Med", "Low", "Info", "Risk"}
	widths := []float64{45, 33, 14, 14, 14, 14, 14, 14, 18}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(30, 41, 59)
	pdf.SetTextColor(255, 255, 255)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 8, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(60, 60, 60)
	for _, hs := range res.HostSummaries {
		name := hs.Hostname
		if name == "" {
			name = "N/A"
		}
		cols := []string{
			name,
			hs.IP,
			fmt.Sprintf("%d", hs.Total),
			fmt.Sprintf("%d", hs.Critical),
			fmt.Sprintf("%d", hs.High),
			fmt.Sprintf("%d", hs.Medium),
			fmt.Sprintf("%d", hs.Low),
			fmt.Sprintf("%d", hs.Info),
			fmt.Sprintf("%.1f", hs.RiskScore),
		}
		for i, col := range cols {
			align := "L"
			if i >= 2 {
				align = "C"
			}
			pdf.CellFormat(widths[i], 7, col, "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}
	pdf.Ln(8)
}

func writePDFRecommendations(pdf *gofpdf.Fpdf, res *processor.Results) {
	if len(res.Recommendations) == 0 {
		return
	}

	pdf.SetFont("Helvetica", "B", 13)
	pdf.SetTextColor(30, 41, 59)
	pdf.CellFormat(0, 8, "Recommendations", "", 1, "L", false, 0, "")
	pdf.Ln(1)

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(60, 60, 60)
	for i, rec := range res.Recommendations {
		pdf.MultiCell(0, 6, fmt.Sprintf("%d. %s", i+1, rec), "", "L", false)
		pdf.Ln(1)
	}
}
