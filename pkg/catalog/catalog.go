// Package catalog holds the static NIST 800-53 reference data: control
// definitions grouped into families, CVE-to-control mappings, and
// category-to-control mappings. The data is embedded at build time and
// loaded once; a Catalog is read-only after Load and safe to share across
// goroutines.
package catalog

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed data/nist_800_53.yaml
var rawCatalog []byte

// Family is a descriptive grouping for controls.
type Family struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

// Control is a single NIST 800-53 control definition.
type Control struct {
	ID          string   `yaml:"id"`
	Name        string   `yaml:"name"`
	Family      string   `yaml:"family"`
	Priority    string   `yaml:"priority"` // P1, P2, P3
	Baselines   []string `yaml:"baselines"` // subset of LOW, MODERATE, HIGH
	Description string   `yaml:"description"`
	Related     []string `yaml:"related"`
}

type catalogFile struct {
	Families   []Family            `yaml:"families"`
	Controls   []Control           `yaml:"controls"`
	CVEs       map[string][]string `yaml:"cves"`
	Categories map[string][]string `yaml:"categories"`
}

// Catalog is the loaded reference data.
type Catalog struct {
	families   []Family
	controls   []Control
	byID       map[string]Control
	cves       map[string][]string
	categories map[string][]string
}

// Load decodes the embedded reference data into a Catalog.
func Load() (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(rawCatalog, &file); err != nil {
		return nil, fmt.Errorf("failed to parse control catalog: %w", err)
	}

	c := &Catalog{
		families:   file.Families,
		controls:   file.Controls,
		byID:       make(map[string]Control, len(file.Controls)),
		cves:       make(map[string][]string, len(file.CVEs)),
		categories: file.Categories,
	}
	for _, ctrl := range file.Controls {
		c.byID[ctrl.ID] = ctrl
	}
	for cve, controls := range file.CVEs {
		c.cves[strings.ToUpper(cve)] = controls
	}
	return c, nil
}

var (
	defaultCatalog *Catalog
	defaultOnce    sync.Once
)

// Default returns the process-wide catalog, loading it on first use.
// The embedded data is validated by tests, so a decode failure here is a
// build defect and panics.
func Default() *Catalog {
	defaultOnce.Do(func() {
		c, err := Load()
		if err != nil {
			panic(err)
		}
		defaultCatalog = c
	})
	return defaultCatalog
}

// Families returns all control families in catalog order.
func (c *Catalog) Families() []Family {
	return c.families
}

// Controls returns all control definitions in catalog order.
func (c *Catalog) Controls() []Control {
	return c.controls
}

// Control looks up a control definition by identifier. Identifiers carrying
// an enhancement suffix, such as "AC-17(2)", resolve to their base control.
func (c *Catalog) Control(id string) (Control, bool) {
	ctrl, ok := c.byID[BaseID(id)]
	return ctrl, ok
}

// ControlsForCVE returns the controls mapped to a CVE identifier.
// The lookup is case-insensitive; unknown CVEs yield nil.
func (c *Catalog) ControlsForCVE(cve string) []string {
	return c.cves[strings.ToUpper(strings.TrimSpace(cve))]
}

// ControlsForCategory returns the controls mapped to a vulnerability
// category. Unknown categories yield nil.
func (c *Catalog) ControlsForCategory(category string) []string {
	return c.categories[category]
}

// BaselineControls returns the controls applicable to an RMF baseline
// (LOW, MODERATE, or HIGH), in catalog order.
func (c *Catalog) BaselineControls(baseline string) []Control {
	baseline = strings.ToUpper(strings.TrimSpace(baseline))
	var out []Control
	for _, ctrl := range c.controls {
		for _, b := range ctrl.Baselines {
			if b == baseline {
				out = append(out, ctrl)
				break
			}
		}
	}
	return out
}

// BaseID strips an enhancement suffix from a control identifier:
// "SC-8(1)" becomes "SC-8".
func BaseID(id string) string {
	id = strings.TrimSpace(id)
	if i := strings.IndexByte(id, '('); i >= 0 {
		id = id[:i]
	}
	return strings.TrimSpace(id)
}
