// Package cvedb provides an embedded reference database for well-known
// critical CVEs.
package cvedb

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed data/cves.yaml
var rawCVEs []byte

// Info is the reference record for one CVE.
type Info struct {
	ID                  string   `yaml:"-"`
	Description         string   `yaml:"description"`
	CVSSv3Score         float64  `yaml:"cvss_v3_score"`
	CVSSv3Vector        string   `yaml:"cvss_v3_vector"`
	CVSSv2Score         float64  `yaml:"cvss_v2_score"`
	CVSSv2Vector        string   `yaml:"cvss_v2_vector"`
	Published           string   `yaml:"published"`
	Modified            string   `yaml:"modified"`
	CWEIDs              []string `yaml:"cwe_ids"`
	References          []string `yaml:"references"`
	ExploitabilityScore float64  `yaml:"exploitability_score"`
	ImpactScore         float64  `yaml:"impact_score"`
}

// Database is the loaded CVE reference data, read-only after Load.
type Database struct {
	entries map[string]Info
}

// Load decodes the embedded CVE records.
func Load() (*Database, error) {
	var file map[string]Info
	if err := yaml.Unmarshal(rawCVEs, &file); err != nil {
		return nil, fmt.Errorf("failed to parse cve database: %w", err)
	}
	db := &Database{entries: make(map[string]Info, len(file))}
	for id, info := range file {
		id = strings.ToUpper(id)
		info.ID = id
		db.entries[id] = info
	}
	return db, nil
}

var (
	defaultDB   *Database
	defaultOnce sync.Once
)

// Default returns the process-wide database, loading it on first use.
func Default() *Database {
	defaultOnce.Do(func() {
		db, err := Load()
		if err != nil {
			panic(err)
		}
		defaultDB = db
	})
	return defaultDB
}

// Lookup returns the record for a CVE identifier, case-insensitive.
func (db *Database) Lookup(id string) (Info, bool) {
	info, ok := db.entries[strings.ToUpper(strings.TrimSpace(id))]
	return info, ok
}

// LookupAll returns the known records among the given identifiers.
func (db *Database) LookupAll(ids []string) map[string]Info {
	out := make(map[string]Info)
	for _, id := range ids {
		if info, ok := db.Lookup(id); ok {
			out[info.ID] = info
		}
	}
	return out
}

// HighSeverity returns all records with a CVSS v3 score at or above the
// threshold, sorted by descending score.
func (db *Database) HighSeverity(minScore float64) []Info {
	var out []Info
	for _, info := range db.entries {
		if info.CVSSv3Score >= minScore {
			out = append(out, info)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CVSSv3Score != out[j].CVSSv3Score {
			return out[i].CVSSv3Score > out[j].CVSSv3Score
		}
		return out[i].ID < out[j].ID
	})
	return out
}
