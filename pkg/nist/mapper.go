// Package nist resolves scan findings to NIST 800-53 control identifiers.
package nist

import (
	"sort"
	"strings"

	"github.com/vissm/vissm/pkg/catalog"
	"github.com/vissm/vissm/pkg/classify"
	"github.com/vissm/vissm/pkg/nessus"
)

// DefaultControl is the catch-all assigned when neither a CVE nor the
// finding's category maps to anything: SI-2, Flaw Remediation.
const DefaultControl = "SI-2"

// Mapper resolves findings against a control catalog.
type Mapper struct {
	catalog *catalog.Catalog
}

// NewMapper builds a Mapper over the given catalog.
func NewMapper(c *catalog.Catalog) *Mapper {
	return &Mapper{catalog: c}
}

// Resolve returns the NIST controls applicable to a finding: the union of
// all CVE mappings and the mapping for the finding's classified category.
// The result is never empty and is sorted so identical findings always
// produce identical output.
func (m *Mapper) Resolve(f nessus.Finding) []string {
	controls := make(map[string]struct{})

	for _, cve := range f.CVEs {
		for _, id := range m.catalog.ControlsForCVE(cve) {
			controls[id] = struct{}{}
		}
	}

	category := classify.Classify(f.PluginName, f.Description)
	for _, id := range m.catalog.ControlsForCategory(category) {
		controls[id] = struct{}{}
	}

	if len(controls) == 0 {
		controls[DefaultControl] = struct{}{}
	}

	out := make([]string, 0, len(controls))
	for id := range controls {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// ControlsForCVE returns the controls mapped to a single CVE identifier.
func (m *Mapper) ControlsForCVE(cve string) []string {
	return m.catalog.ControlsForCVE(strings.TrimSpace(cve))
}

// ControlDetails looks up the full definition behind a control identifier,
// tolerating enhancement suffixes.
func (m *Mapper) ControlDetails(id string) (catalog.Control, bool) {
	return m.catalog.Control(id)
}
