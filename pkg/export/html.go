package export

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/vissm/vissm/pkg/processor"
)

const htmlReport = `<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<title>Vulnerability Assessment Report</title>
<style>
body { font-family: Arial, sans-serif; margin: 20px; }
.header { background: #f4f4f4; padding: 20px; border-radius: 5px; }
.summary { display: flex; justify-content: space-around; margin: 20px 0; }
.summary-item { text-align: center; padding: 10px; }
.critical { color: #d32f2f; font-weight: bold; }
.high { color: #f57c00; font-weight: bold; }
.medium { color: #fbc02d; font-weight: bold; }
.low { color: #388e3c; font-weight: bold; }
.info { color: #1976d2; font-weight: bold; }
table { width: 100%; border-collapse: collapse; margin: 20px 0; }
th, td { border: 1px solid #ddd; padding: 8px; text-align: left; }
th { background-color: #f2f2f2; }
.host-row { background-color: #f9f9f9; }
</style>
</head>
<body>
<div class="header">
  <h1>Vulnerability Assessment Report</h1>
  <p>Scan: {{.ScanName}} &mdash; Policy: {{.PolicyName}}</p>
  <p>Generated: {{.GeneratedAt}} by {{.GeneratedBy}}</p>
</div>

<div class="summary">
  <div class="summary-item"><h3>Total Hosts</h3><p>{{.TotalHosts}}</p></div>
  <div class="summary-item"><h3>Total Vulnerabilities</h3><p>{{.Summary.Total}}</p></div>
  <div class="summary-item critical"><h3>Critical</h3><p>{{.Summary.Critical}}</p></div>
  <div class="summary-item high"><h3>High</h3><p>{{.Summary.High}}</p></div>
  <div class="summary-item medium"><h3>Medium</h3><p>{{.Summary.Medium}}</p></div>
  <div class="summary-item low"><h3>Low</h3><p>{{.Summary.Low}}</p></div>
  <div class="summary-item info"><h3>Info</h3><p>{{.Summary.Info}}</p></div>
</div>

<h2>Host Summaries</h2>
<table>
<tr>
  <th>Hostname</th><th>IP</th><th>OS</th><th>Total</th>
  <th>Critical</th><th>High</th><th>Medium</th><th>Low</th><th>Info</th>
  <th>Risk Score</th><th>Risk Level</th>
</tr>
{{range .Hosts}}
<tr class="host-row">
  <td>{{or .Hostname "N/A"}}</td>
  <td>{{.IP}}</td>
  <td>{{or .OS "Unknown"}}</td>
  <td>{{.Total}}</td>
  <td class="critical">{{.Critical}}</td>
  <td class="high">{{.High}}</td>
  <td class="medium">{{.Medium}}</td>
  <td class="low">{{.Low}}</td>
  <td class="info">{{.Info}}</td>
  <td>{{printf "%.1f" .RiskScore}}</td>
  <td>{{riskLevel .RiskScore}}</td>
</tr>
{{end}}
</table>

<h2>Recommendations</h2>
<ul>
{{range .Recommendations}}<li>{{.}}</li>
{{end}}</ul>
</body>
</html>
`

var htmlTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"riskLevel": processor.RiskLevel,
}).Parse(htmlReport))

type htmlData struct {
	ScanName        string
	PolicyName      string
	GeneratedAt     string
	GeneratedBy     string
	TotalHosts      int
	Summary         processor.Summary
	Hosts           []processor.HostSummary
	Recommendations []string
}

// WriteHTML renders the full vulnerability report as a standalone HTML
// document.
func WriteHTML(w io.Writer, res *processor.Results) error {
	data := htmlData{
		ScanName:        res.Report.ScanName,
		PolicyName:      res.Report.PolicyName,
		GeneratedAt:     time.Now().Format("2006-01-02 15:04:05"),
		GeneratedBy:     GeneratorName,
		TotalHosts:      len(res.HostSummaries),
		Summary:         res.Summary,
		Hosts:           res.HostSummaries,
		Recommendations: res.Recommendations,
	}
	if err := htmlTemplate.Execute(w, data); err != nil {
		return fmt.Errorf("failed to render html report: %w", err)
	}
	return nil
}
