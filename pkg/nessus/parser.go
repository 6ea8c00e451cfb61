package nessus

import (
	"encoding/xml"
	"os"
	"strconv"
	"strings"
)

// MalformedDocumentError indicates the input could not be parsed as a
// Nessus XML document at all. Field-level problems inside an otherwise
// well-formed document never produce this error; they are normalized to
// defaults instead.
type MalformedDocumentError struct {
	Err error
}

func (e *MalformedDocumentError) Error() string {
	return "malformed nessus document: " + e.Err.Error()
}

func (e *MalformedDocumentError) Unwrap() error { return e.Err }

// XML shapes for NessusClientData_v2 documents.
type clientData struct {
	XMLName xml.Name    `xml:"NessusClientData_v2"`
	Policy  xmlPolicy   `xml:"Policy"`
	Reports []xmlReport `xml:"Report"`
}

type xmlPolicy struct {
	Name        string          `xml:"policyName"`
	Preferences []xmlPreference `xml:"Preferences>ServerPreferences>preference"`
}

type xmlPreference struct {
	Name  string `xml:"name"`
	Value string `xml:"value"`
}

type xmlReport struct {
	Name  string    `xml:"name,attr"`
	Hosts []xmlHost `xml:"ReportHost"`
}

type xmlHost struct {
	Name       string    `xml:"name,attr"`
	Properties []xmlTag  `xml:"HostProperties>tag"`
	Items      []xmlItem `xml:"ReportItem"`
}

type xmlTag struct {
	Name  string `xml:"name,attr"`
	Value string `xml:",chardata"`
}

type xmlItem struct {
	PluginID      string   `xml:"pluginID,attr"`
	PluginName    string   `xml:"pluginName,attr"`
	PluginFamily  string   `xml:"pluginFamily,attr"`
	Severity      string   `xml:"severity,attr"`
	Port          string   `xml:"port,attr"`
	Protocol      string   `xml:"protocol,attr"`
	ServiceName   string   `xml:"svc_name,attr"`
	Description   string   `xml:"description"`
	Solution      string   `xml:"solution"`
	SeeAlso       string   `xml:"see_also"`
	CVEs          []string `xml:"cve"`
	CVSSBaseScore string   `xml:"cvss_base_score"`
	CVSSVector    string   `xml:"cvss_vector"`
	PluginOutput  string   `xml:"plugin_output"`
}

// ParseFile reads and parses a .nessus file.
func ParseFile(path string) (*ScanReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse parses raw .nessus document bytes into a ScanReport.
// Structural failures return a *MalformedDocumentError; anything below the
// document structure (a bad severity, a missing text element) is resolved
// to a default value so a single damaged record cannot abort the scan.
func Parse(data []byte) (*ScanReport, error) {
	var doc clientData
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, &MalformedDocumentError{Err: err}
	}

	report := &ScanReport{
		PolicyName: "Unknown Policy",
		ScanName:   "Unknown Scan",
	}
	if name := strings.TrimSpace(doc.Policy.Name); name != "" {
		report.PolicyName = name
	}
	if name := scanName(&doc); name != "" {
		report.ScanName = name
	}

	for _, r := range doc.Reports {
		for _, h := range r.Hosts {
			report.Hosts = append(report.Hosts, parseHost(h))
		}
	}

	report.TotalHosts = len(report.Hosts)
	for _, h := range report.Hosts {
		report.TotalFindings += len(h.Findings)
	}
	if len(report.Hosts) > 0 {
		report.ScanStart = report.Hosts[0].Properties.ScanStart
		report.ScanEnd = report.Hosts[len(report.Hosts)-1].Properties.ScanEnd
	}
	return report, nil
}

// scanName prefers the Report element's name attribute; older exports only
// carry the scan target in the TARGET server preference.
func scanName(doc *clientData) string {
	for _, r := range doc.Reports {
		if name := strings.TrimSpace(r.Name); name != "" {
			return name
		}
	}
	for _, p := range doc.Policy.Preferences {
		if p.Name == "TARGET" {
			return strings.TrimSpace(p.Value)
		}
	}
	return ""
}

func parseHost(h xmlHost) ReportHost {
	host := ReportHost{Name: h.Name}

	// The ReportHost name attribute is only the fallback IP; an explicit
	// host-ip property wins when both are present.
	host.Properties.IP = h.Name
	for _, tag := range h.Properties {
		value := strings.TrimSpace(tag.Value)
		switch tag.Name {
		case "host-ip":
			host.Properties.IP = value
		case "hostname":
			host.Properties.Hostname = value
		case "operating-system":
			host.Properties.OS = value
		case "mac-address":
			host.Properties.MACAddress = value
		case "netbios-name":
			host.Properties.NetBIOSName = value
		case "fqdn":
			host.Properties.FQDN = value
		case "HOST_START":
			host.Properties.ScanStart = value
		case "HOST_END":
			host.Properties.ScanEnd = value
		}
	}

	for _, item := range h.Items {
		host.Findings = append(host.Findings, parseItem(item))
	}
	return host
}

func parseItem(item xmlItem) Finding {
	return Finding{
		PluginID:      item.PluginID,
		PluginName:    item.PluginName,
		PluginFamily:  item.PluginFamily,
		Severity:      parseSeverity(item.Severity),
		Description:   item.Description,
		Solution:      item.Solution,
		SeeAlso:       item.SeeAlso,
		CVEs:          parseCVEs(item.CVEs),
		CVSSBaseScore: item.CVSSBaseScore,
		CVSSVector:    item.CVSSVector,
		Port:          item.Port,
		Protocol:      item.Protocol,
		ServiceName:   item.ServiceName,
		PluginOutput:  item.PluginOutput,
	}
}

// parseSeverity coerces the severity attribute to one of the five levels.
// Missing, non-numeric, or out-of-range values resolve to Info.
func parseSeverity(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < SeverityInfo || n > SeverityCritical {
		return SeverityInfo
	}
	return n
}

// parseCVEs flattens repeated <cve> elements. Some exporters stuff several
// identifiers into one element separated by newlines or commas.
func parseCVEs(raw []string) []string {
	var cves []string
	for _, entry := range raw {
		for _, part := range strings.FieldsFunc(entry, func(r rune) bool {
			return r == '\n' || r == ',' || r == ';'
		}) {
			if cve := strings.TrimSpace(part); cve != "" {
				cves = append(cves, cve)
			}
		}
	}
	return cves
}
