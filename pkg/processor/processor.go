// Package processor aggregates parsed scan reports into per-host and
// fleet-wide risk statistics.
package processor

import (
	"fmt"
	"strings"

	"github.com/vissm/vissm/pkg/nessus"
)

// Severity weights for the risk score, indexed by severity level. The
// exact constants are a policy choice; they must stay strictly increasing
// with severity and keep Critical above 1.5x High so that trading a lesser
// finding for a Critical one can never lower a host's score.
var severityWeights = [5]float64{
	nessus.SeverityInfo:     0.1,
	nessus.SeverityLow:      1,
	nessus.SeverityMedium:   3,
	nessus.SeverityHigh:     6,
	nessus.SeverityCritical: 10,
}

// HostSummary is the per-host aggregate: severity counters plus a weighted
// risk score. Computed once per processing pass and never mutated after.
type HostSummary struct {
	Hostname  string
	IP        string
	OS        string
	Critical  int
	High      int
	Medium    int
	Low       int
	Info      int
	Total     int
	RiskScore float64
}

// Summary is the fleet-wide severity tally.
type Summary struct {
	Critical int
	High     int
	Medium   int
	Low      int
	Info     int
	Total    int
}

// Results bundles everything a renderer needs: the parsed report, the
// fleet summary, per-host summaries in document order, and advisory
// recommendations. Renderers treat it as read-only.
type Results struct {
	Report          *nessus.ScanReport
	Summary         Summary
	HostSummaries   []HostSummary
	Recommendations []string

	hostIndex map[string]*nessus.ReportHost
}

// Process aggregates a parsed report. It never fails: a report with zero
// hosts yields a zero-valued summary and no host summaries.
func Process(report *nessus.ScanReport) *Results {
	res := &Results{
		Report:    report,
		hostIndex: make(map[string]*nessus.ReportHost),
	}

	for i := range report.Hosts {
		host := &report.Hosts[i]
		hs := summarizeHost(host)
		res.HostSummaries = append(res.HostSummaries, hs)

		res.Summary.Critical += hs.Critical
		res.Summary.High += hs.High
		res.Summary.Medium += hs.Medium
		res.Summary.Low += hs.Low
		res.Summary.Info += hs.Info
		res.Summary.Total += hs.Total

		res.index(host)
	}

	res.Recommendations = recommendations(res.Summary)
	return res
}

func summarizeHost(host *nessus.ReportHost) HostSummary {
	hs := HostSummary{
		Hostname: host.Properties.Hostname,
		IP:       host.Properties.IP,
		OS:       host.Properties.OS,
	}
	for _, f := range host.Findings {
		switch f.Severity {
		case nessus.SeverityCritical:
			hs.Critical++
		case nessus.SeverityHigh:
			hs.High++
		case nessus.SeverityMedium:
			hs.Medium++
		case nessus.SeverityLow:
			hs.Low++
		default:
			hs.Info++
		}
		hs.Total++
		hs.RiskScore += severityWeights[f.Severity]
	}
	return hs
}

// index registers every identity a host is known by, so renderers can
// cross-reference a summary row back to its host without rescanning the
// host list on every lookup.
func (r *Results) index(host *nessus.ReportHost) {
	for _, key := range []string{host.Name, host.Properties.IP, host.Properties.Hostname, host.Properties.FQDN} {
		if key = normalizeHostKey(key); key != "" {
			if _, taken := r.hostIndex[key]; !taken {
				r.hostIndex[key] = host
			}
		}
	}
}

// Host resolves a host by any of its identities: report key, IP, hostname,
// or FQDN.
func (r *Results) Host(key string) (*nessus.ReportHost, bool) {
	host, ok := r.hostIndex[normalizeHostKey(key)]
	return host, ok
}

func normalizeHostKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}

// RiskLevel maps a risk score onto a qualitative level for display.
func RiskLevel(score float64) string {
	switch {
	case score >= 80:
		return "Critical"
	case score >= 60:
		return "High"
	case score >= 40:
		return "Medium"
	case score >= 20:
		return "Low"
	default:
		return "Minimal"
	}
}

// recommendations derives advisory text from the fleet summary,
// most severe first.
func recommendations(s Summary) []string {
	var recs []string
	if s.Critical > 0 {
		recs = append(recs, fmt.Sprintf(
			"URGENT: Remediate %d Critical finding(s) immediately; exploitation can lead to full system compromise.", s.Critical))
	}
	if s.High > 0 {
		recs = append(recs, fmt.Sprintf(
			"Remediate %d High severity finding(s) within the current patch cycle.", s.High))
	}
	if s.Medium > 0 {
		recs = append(recs, fmt.Sprintf(
			"Schedule remediation of %d Medium severity finding(s) during planned maintenance.", s.Medium))
	}
	if s.Low > 0 {
		recs = append(recs, fmt.Sprintf(
			"Track %d Low severity finding(s) for remediation as resources permit.", s.Low))
	}
	if s.Critical == 0 && s.High == 0 {
		recs = append(recs, "No Critical or High severity findings detected; maintain the current scanning and patching cadence.")
	}
	return recs
}
