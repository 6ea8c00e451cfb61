package processor

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vissm/vissm/pkg/nessus"
)

func hostWithSeverities(name string, severities ...int) nessus.ReportHost {
	host := nessus.ReportHost{Name: name}
	host.Properties.IP = name
	for _, s := range severities {
		host.Findings = append(host.Findings, nessus.Finding{Severity: s})
	}
	return host
}

func reportOf(hosts ...nessus.ReportHost) *nessus.ScanReport {
	report := &nessus.ScanReport{Hosts: hosts, TotalHosts: len(hosts)}
	for _, h := range hosts {
		report.TotalFindings += len(h.Findings)
	}
	return report
}

func TestProcessTallies(t *testing.T) {
	res := Process(reportOf(
		hostWithSeverities("10.0.0.1", 4, 4, 3, 0),
		hostWithSeverities("10.0.0.2", 2, 1),
	))

	assert.Equal(t, 2, res.Summary.Critical)
	assert.Equal(t, 1, res.Summary.High)
	assert.Equal(t, 1, res.Summary.Medium)
	assert.Equal(t, 1, res.Summary.Low)
	assert.Equal(t, 1, res.Summary.Info)
	assert.Equal(t, 6, res.Summary.Total)

	require.Len(t, res.HostSummaries, 2)
	first := res.HostSummaries[0]
	assert.Equal(t, 2, first.Critical)
	assert.Equal(t, 1, first.High)
	assert.Equal(t, 4, first.Total)
}

func TestProcessTotalsInvariant(t *testing.T) {
	report := reportOf(
		hostWithSeverities("a", 4, 3, 2, 1, 0),
		hostWithSeverities("b", 3, 3),
		hostWithSeverities("c"),
	)
	res := Process(report)

	hostTotal := 0
	for _, hs := range res.HostSummaries {
		hostTotal += hs.Total
	}
	assert.Equal(t, report.TotalFindings, res.Summary.Total)
	assert.Equal(t, res.Summary.Total, hostTotal)
}

func TestProcessZeroHosts(t *testing.T) {
	res := Process(reportOf())

	assert.Zero(t, res.Summary)
	assert.Empty(t, res.HostSummaries)
	assert.NotEmpty(t, res.Recommendations)
}

func TestRiskScoreRespectsSeverityOrdering(t *testing.T) {
	// Swapping a Medium finding for a Critical one must raise the score.
	lesser := Process(reportOf(hostWithSeverities("h", 3, 3, 3, 0)))
	greater := Process(reportOf(hostWithSeverities("h", 4, 4, 3, 0)))

	assert.Greater(t, greater.HostSummaries[0].RiskScore, lesser.HostSummaries[0].RiskScore)
}

func TestRiskScoreOrderIndependent(t *testing.T) {
	severities := []int{4, 4, 3, 3, 2, 2, 1, 1, 0, 0, 3, 4}
	want := Process(reportOf(hostWithSeverities("h", severities...))).HostSummaries[0]

	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 20; i++ {
		shuffled := append([]int(nil), severities...)
		rng.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})
		got := Process(reportOf(hostWithSeverities("h", shuffled...))).HostSummaries[0]
		assert.InDelta(t, want.RiskScore, got.RiskScore, 1e-9)
		assert.Equal(t, want.Total, got.Total)
		assert.Equal(t, want.Critical, got.Critical)
	}
}

func TestProcessHostOrderIndependent(t *testing.T) {
	hosts := []nessus.ReportHost{
		hostWithSeverities("10.0.0.1", 4, 3, 2),
		hostWithSeverities("10.0.0.2", 1, 0),
		hostWithSeverities("10.0.0.3"),
		hostWithSeverities("10.0.0.4", 4, 4, 0),
	}
	want := Process(reportOf(hosts...))

	wantByIP := make(map[string]HostSummary)
	for _, hs := range want.HostSummaries {
		wantByIP[hs.IP] = hs
	}

	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 20; i++ {
		shuffled := append([]nessus.ReportHost(nil), hosts...)
		rng.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})
		got := Process(reportOf(shuffled...))

		assert.Equal(t, want.Summary, got.Summary)
		require.Len(t, got.HostSummaries, len(want.HostSummaries))
		for _, hs := range got.HostSummaries {
			assert.Equal(t, wantByIP[hs.IP], hs)
		}
	}
}

func TestHostLookupByAnyIdentity(t *testing.T) {
	host := nessus.ReportHost{Name: "192.168.1.10"}
	host.Properties.IP = "10.0.0.10"
	host.Properties.Hostname = "Web-01"
	host.Properties.FQDN = "web-01.example.mil"

	res := Process(reportOf(host))

	for _, key := range []string{"192.168.1.10", "10.0.0.10", "web-01", "WEB-01", "web-01.example.mil", "  web-01  "} {
		got, ok := res.Host(key)
		require.True(t, ok, "lookup by %q", key)
		assert.Equal(t, "192.168.1.10", got.Name)
	}

	_, ok := res.Host("nonexistent")
	assert.False(t, ok)
}

func TestHostIndexFirstHostWinsOnCollision(t *testing.T) {
	a := hostWithSeverities("10.0.0.1", 4)
	b := hostWithSeverities("10.0.0.2", 1)
	b.Properties.Hostname = "10.0.0.1" // same identity as host a

	res := Process(reportOf(a, b))

	got, ok := res.Host("10.0.0.1")
	require.True(t, ok)
	assert.Equal(t, "10.0.0.1", got.Name)
}

func TestRiskLevelThresholds(t *testing.T) {
	tests := []struct {
		score float64
		want  string
	}{
		{100, "Critical"},
		{80, "Critical"},
		{79.9, "High"},
		{60, "High"},
		{59.9, "Medium"},
		{40, "Medium"},
		{39.9, "Low"},
		{20, "Low"},
		{19.9, "Minimal"},
		{0, "Minimal"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, RiskLevel(tt.score), "score %v", tt.score)
	}
}

func TestRecommendationsMostSevereFirst(t *testing.T) {
	res := Process(reportOf(hostWithSeverities("h", 4, 3, 1)))

	require.NotEmpty(t, res.Recommendations)
	assert.Contains(t, res.Recommendations[0], "URGENT")
	assert.Contains(t, res.Recommendations[0], "1 Critical")
}

func TestRecommendationsCleanFleet(t *testing.T) {
	res := Process(reportOf(hostWithSeverities("h", 0, 0)))

	require.Len(t, res.Recommendations, 1)
	assert.Contains(t, res.Recommendations[0], "No Critical or High")
}
