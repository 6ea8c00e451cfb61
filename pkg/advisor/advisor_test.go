package advisor

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vissm/vissm/pkg/catalog"
	"github.com/vissm/vissm/pkg/nessus"
	"github.com/vissm/vissm/pkg/nist"
	"github.com/vissm/vissm/pkg/processor"
)

func promptFixture(t *testing.T) (*processor.Results, *nist.Mapper) {
	t.Helper()

	web := nessus.ReportHost{Name: "192.168.1.10"}
	web.Properties.IP = "192.168.1.10"
	web.Properties.Hostname = "web-01"
	web.Findings = []nessus.Finding{
		{PluginName: "OpenSSL Heartbleed", Severity: nessus.SeverityCritical, CVEs: []string{"CVE-2014-0160"}},
		{PluginName: "Outdated Apache Patch Level", Severity: nessus.SeverityHigh},
		{PluginName: "ICMP Timestamp", Severity: nessus.SeverityInfo},
	}

	quiet := nessus.ReportHost{Name: "192.168.1.20"}
	quiet.Properties.IP = "192.168.1.20"
	quiet.Findings = []nessus.Finding{
		{PluginName: "Service Detection", Severity: nessus.SeverityInfo},
	}

	res := processor.Process(&nessus.ScanReport{
		ScanName:   "Quarterly Scan",
		PolicyName: "Advanced Scan",
		Hosts:      []nessus.ReportHost{quiet, web},
	})

	c, err := catalog.Load()
	require.NoError(t, err)
	return res, nist.NewMapper(c)
}

func TestBuildPrompt(t *testing.T) {
	res, mapper := promptFixture(t)
	prompt := BuildPrompt(res, mapper)

	assert.Contains(t, prompt, "Scan: Quarterly Scan (policy: Advanced Scan)")
	assert.Contains(t, prompt, "critical 1, high 1")
	assert.Contains(t, prompt, "[Critical] OpenSSL Heartbleed on 192.168.1.10 (CVE-2014-0160)")
	assert.Contains(t, prompt, "NIST SC-13, SC-8, SC-8(1)")
	assert.NotContains(t, prompt, "ICMP Timestamp", "informational findings stay out of the prompt")
}

func TestBuildPromptOrdersHostsByRisk(t *testing.T) {
	res, mapper := promptFixture(t)
	prompt := BuildPrompt(res, mapper)

	riskier := strings.Index(prompt, "web-01")
	quieter := strings.Index(prompt, "192.168.1.20")
	require.GreaterOrEqual(t, riskier, 0)
	require.GreaterOrEqual(t, quieter, 0)
	assert.Less(t, riskier, quieter)
}

func TestBuildPromptCriticalBeforeHigh(t *testing.T) {
	res, mapper := promptFixture(t)
	prompt := BuildPrompt(res, mapper)

	critical := strings.Index(prompt, "[Critical]")
	high := strings.Index(prompt, "[High]")
	require.GreaterOrEqual(t, critical, 0)
	require.GreaterOrEqual(t, high, 0)
	assert.Less(t, critical, high)
}

func TestBuildPromptCleanScan(t *testing.T) {
	res := processor.Process(&nessus.ScanReport{ScanName: "Clean", PolicyName: "Basic"})
	c, err := catalog.Load()
	require.NoError(t, err)

	prompt := BuildPrompt(res, nist.NewMapper(c))
	assert.Contains(t, prompt, "none above Medium severity")
}

func TestGetSystemPrompt(t *testing.T) {
	prompt := GetSystemPrompt()
	assert.NotEmpty(t, prompt)
}

type stubProvider struct {
	system string
	prompt string
	reply  string
	err    error
}

func (s *stubProvider) Generate(_ context.Context, system, prompt string) (string, error) {
	s.system = system
	s.prompt = prompt
	return s.reply, s.err
}

func (s *stubProvider) ListModels(context.Context) ([]string, error) { return nil, nil }

func TestAdvise(t *testing.T) {
	res, mapper := promptFixture(t)
	stub := &stubProvider{reply: "patch web-01 first"}

	narrative, err := Advise(context.Background(), stub, res, mapper)
	require.NoError(t, err)
	assert.Equal(t, "patch web-01 first", narrative)
	assert.Equal(t, GetSystemPrompt(), stub.system)
	assert.Contains(t, stub.prompt, "Quarterly Scan")
}

func TestAdviseProviderError(t *testing.T) {
	res, mapper := promptFixture(t)
	stub := &stubProvider{err: assert.AnError}

	_, err := Advise(context.Background(), stub, res, mapper)
	assert.ErrorIs(t, err, assert.AnError)
}

func TestNewProviderUnknown(t *testing.T) {
	_, err := NewProvider(context.Background(), "nonexistent", "key", "model")
	assert.Error(t, err)
}
