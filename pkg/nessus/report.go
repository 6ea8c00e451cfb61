package nessus

// Severity levels used by Nessus, from informational to critical.
const (
	SeverityInfo = iota
	SeverityLow
	SeverityMedium
	SeverityHigh
	SeverityCritical
)

var severityNames = map[int]string{
	SeverityInfo:     "Info",
	SeverityLow:      "Low",
	SeverityMedium:   "Medium",
	SeverityHigh:     "High",
	SeverityCritical: "Critical",
}

// SeverityName converts a numeric severity to its display name.
func SeverityName(severity int) string {
	if name, ok := severityNames[severity]; ok {
		return name
	}
	return "Unknown"
}

// HostProperties holds the metadata Nessus records for a scanned host.
// Every field is optional; missing properties stay empty.
type HostProperties struct {
	Hostname    string
	IP          string
	OS          string
	MACAddress  string
	NetBIOSName string
	FQDN        string
	ScanStart   string
	ScanEnd     string
}

// Finding is a single vulnerability reported against a host.
type Finding struct {
	PluginID     string
	PluginName   string
	PluginFamily string
	Severity     int // 0=Info .. 4=Critical
	Description  string
	Solution     string
	SeeAlso      string
	CVEs         []string
	// CVSS scores are kept as raw strings; the source format is not
	// consistent enough to parse as floats.
	CVSSBaseScore string
	CVSSVector    string
	Port          string
	Protocol      string
	ServiceName   string
	PluginOutput  string
}

// ReportHost is a scanned host together with its findings, in document order.
type ReportHost struct {
	Name       string // the ReportHost name attribute, typically an IP
	Properties HostProperties
	Findings   []Finding
}

// ScanReport is a fully parsed .nessus document.
type ScanReport struct {
	PolicyName    string
	ScanName      string
	ScanStart     string
	ScanEnd       string
	Hosts         []ReportHost
	TotalHosts    int
	TotalFindings int
}
