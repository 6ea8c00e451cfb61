// Package stig maps scan findings to DISA STIG identifiers and exports
// STIG Viewer compatible checklists.
package stig

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/vissm/vissm/pkg/nessus"
)

//go:embed data/stig_mappings.yaml
var rawMappings []byte

// Finding is a STIG requirement matched to a scan result.
type Finding struct {
	STIGID       string   `yaml:"stig_id"`
	RuleID       string   `yaml:"rule_id"`
	Severity     string   `yaml:"severity"` // CAT I, CAT II, CAT III
	GroupTitle   string   `yaml:"group_title"`
	RuleTitle    string   `yaml:"rule_title"`
	CCIRefs      []string `yaml:"cci_refs"`
	NISTControls []string `yaml:"nist_controls"`
}

// CVEMapping ties a CVE to a STIG requirement.
type CVEMapping struct {
	STIGID       string   `yaml:"stig_id"`
	Severity     string   `yaml:"severity"`
	NISTControls []string `yaml:"nist_controls"`
}

type mappingFile struct {
	Plugins map[string]Finding    `yaml:"plugins"`
	CVEs    map[string]CVEMapping `yaml:"cves"`
}

// Mapper resolves plugin IDs and CVEs to STIG requirements.
type Mapper struct {
	plugins map[string]Finding
	cves    map[string]CVEMapping
}

// Load decodes the embedded STIG mapping tables.
func Load() (*Mapper, error) {
	var file mappingFile
	if err := yaml.Unmarshal(rawMappings, &file); err != nil {
		return nil, fmt.Errorf("failed to parse stig mappings: %w", err)
	}
	m := &Mapper{
		plugins: file.Plugins,
		cves:    make(map[string]CVEMapping, len(file.CVEs)),
	}
	for cve, mapping := range file.CVEs {
		m.cves[strings.ToUpper(cve)] = mapping
	}
	return m, nil
}

var (
	defaultMapper *Mapper
	defaultOnce   sync.Once
)

// Default returns the process-wide mapper, loading it on first use.
func Default() *Mapper {
	defaultOnce.Do(func() {
		m, err := Load()
		if err != nil {
			panic(err)
		}
		defaultMapper = m
	})
	return defaultMapper
}

// ForPlugin returns the STIG requirement mapped to a Nessus plugin ID.
func (m *Mapper) ForPlugin(pluginID string) (Finding, bool) {
	f, ok := m.plugins[strings.TrimSpace(pluginID)]
	return f, ok
}

// ForCVE returns the STIG mapping for a CVE identifier, case-insensitive.
func (m *Mapper) ForCVE(cve string) (CVEMapping, bool) {
	mapping, ok := m.cves[strings.ToUpper(strings.TrimSpace(cve))]
	return mapping, ok
}

// SeverityCategory converts a Nessus severity to a STIG CAT level.
func SeverityCategory(severity int) string {
	switch severity {
	case nessus.SeverityCritical, nessus.SeverityHigh:
		return "CAT I"
	case nessus.SeverityMedium:
		return "CAT II"
	default:
		return "CAT III"
	}
}

// Findings collects the STIG requirements applicable to a parsed report,
// keyed by plugin ID, in document order.
func (m *Mapper) Findings(report *nessus.ScanReport) []Finding {
	seen := make(map[string]struct{})
	var out []Finding
	for _, host := range report.Hosts {
		for _, f := range host.Findings {
			if _, dup := seen[f.PluginID]; dup {
				continue
			}
			if stig, ok := m.ForPlugin(f.PluginID); ok {
				seen[f.PluginID] = struct{}{}
				out = append(out, stig)
			}
		}
	}
	return out
}
