package advisor

import (
	"context"
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"github.com/vissm/vissm/pkg/nessus"
	"github.com/vissm/vissm/pkg/nist"
	"github.com/vissm/vissm/pkg/processor"
)

//go:embed prompts/system_prompt.md
var systemPrompt string

// How much of the scan is surfaced to the model.
const (
	maxPromptHosts    = 10
	maxPromptFindings = 25
)

// GetSystemPrompt returns the advisor's system prompt.
func GetSystemPrompt() string {
	return systemPrompt
}

// Advise generates a remediation narrative for the processed results.
func Advise(ctx context.Context, p Provider, res *processor.Results, mapper *nist.Mapper) (string, error) {
	prompt := BuildPrompt(res, mapper)
	Debugf("advisor prompt:\n%s", prompt)

	narrative, err := p.Generate(ctx, systemPrompt, prompt)
	if err != nil {
		return "", fmt.Errorf("failed to generate remediation narrative: %w", err)
	}
	return narrative, nil
}

// BuildPrompt condenses the processed results into the scan summary the
// providers receive: fleet counts, the riskiest hosts, and the most severe
// findings with their resolved NIST controls.
func BuildPrompt(res *processor.Results, mapper *nist.Mapper) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Scan: %s (policy: %s)\n", res.Report.ScanName, res.Report.PolicyName)
	fmt.Fprintf(&sb, "Hosts: %d, findings: %d (critical %d, high %d, medium %d, low %d, info %d)\n\n",
		len(res.HostSummaries), res.Summary.Total,
		res.Summary.Critical, res.Summary.High, res.Summary.Medium,
		res.Summary.Low, res.Summary.Info)

	sb.WriteString("Highest-risk hosts:\n")
	hosts := make([]processor.HostSummary, len(res.HostSummaries))
	copy(hosts, res.HostSummaries)
	sort.Slice(hosts, func(i, j int) bool { return hosts[i].RiskScore > hosts[j].RiskScore })
	for i, hs := range hosts {
		if i >= maxPromptHosts {
			break
		}
		name := hs.Hostname
		if name == "" {
			name = hs.IP
		}
		fmt.Fprintf(&sb, "- %s (%s): risk %.1f, %d critical, %d high\n",
			name, hs.IP, hs.RiskScore, hs.Critical, hs.High)
	}

	sb.WriteString("\nMost severe findings:\n")
	count := 0
	for severity := nessus.SeverityCritical; severity >= nessus.SeverityHigh && count < maxPromptFindings; severity-- {
		for _, host := range res.Report.Hosts {
			for _, f := range host.Findings {
				if f.Severity != severity || count >= maxPromptFindings {
					continue
				}
				count++
				fmt.Fprintf(&sb, "- [%s] %s on %s", nessus.SeverityName(f.Severity), f.PluginName, host.Name)
				if len(f.CVEs) > 0 {
					fmt.Fprintf(&sb, " (%s)", strings.Join(f.CVEs, ", "))
				}
				fmt.Fprintf(&sb, " -> NIST %s\n", strings.Join(mapper.Resolve(f), ", "))
			}
		}
	}
	if count == 0 {
		sb.WriteString("- none above Medium severity\n")
	}

	return sb.String()
}
