package nessus

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDocument = `<?xml version="1.0" ?>
<NessusClientData_v2>
  <Policy>
    <policyName>Advanced Scan</policyName>
    <Preferences>
      <ServerPreferences>
        <preference><name>TARGET</name><value>192.168.1.0/24</value></preference>
      </ServerPreferences>
    </Preferences>
  </Policy>
  <Report name="Quarterly Scan">
    <ReportHost name="192.168.1.10">
      <HostProperties>
        <tag name="host-ip">10.0.0.10</tag>
        <tag name="hostname">web-01</tag>
        <tag name="operating-system">Ubuntu 20.04</tag>
        <tag name="mac-address">00:11:22:33:44:55</tag>
        <tag name="fqdn">web-01.example.mil</tag>
        <tag name="HOST_START">Mon Jan  6 10:00:00 2025</tag>
        <tag name="HOST_END">Mon Jan  6 10:45:00 2025</tag>
        <tag name="unknown-future-property">ignored</tag>
      </HostProperties>
      <ReportItem pluginID="12345" pluginName="OpenSSL Heartbeat Information Disclosure" pluginFamily="Web Servers" severity="4" port="443" protocol="tcp" svc_name="https">
        <description>The remote service is affected by Heartbleed.</description>
        <solution>Upgrade OpenSSL.</solution>
        <see_also>http://heartbleed.com/</see_also>
        <cve>CVE-2014-0160</cve>
        <cvss_base_score>7.5</cvss_base_score>
        <cvss_vector>CVSS:3.0/AV:N/AC:L</cvss_vector>
        <plugin_output>heartbeat response leaked 16384 bytes</plugin_output>
      </ReportItem>
      <ReportItem pluginID="22222" pluginName="Multiple CVE Check" pluginFamily="Misc." severity="3" port="445" protocol="tcp" svc_name="cifs">
        <cve>CVE-2017-0143
CVE-2017-0144, CVE-2017-0145</cve>
      </ReportItem>
    </ReportHost>
    <ReportHost name="192.168.1.20">
      <HostProperties>
        <tag name="hostname">db-01</tag>
      </HostProperties>
      <ReportItem pluginID="33333" pluginName="Service Detection" pluginFamily="Service detection" port="3306" protocol="tcp" svc_name="mysql"/>
      <ReportItem pluginID="44444" pluginName="Bad Severity" pluginFamily="Misc." severity="banana" port="0" protocol="tcp" svc_name="general"/>
      <ReportItem pluginID="55555" pluginName="Out Of Range" pluginFamily="Misc." severity="9" port="0" protocol="tcp" svc_name="general"/>
    </ReportHost>
  </Report>
</NessusClientData_v2>`

func TestParseSampleDocument(t *testing.T) {
	report, err := Parse([]byte(sampleDocument))
	require.NoError(t, err)

	assert.Equal(t, "Advanced Scan", report.PolicyName)
	assert.Equal(t, "Quarterly Scan", report.ScanName)
	assert.Equal(t, 2, report.TotalHosts)
	assert.Equal(t, 5, report.TotalFindings)

	require.Len(t, report.Hosts, 2)
	web := report.Hosts[0]
	assert.Equal(t, "192.168.1.10", web.Name)
	assert.Equal(t, "web-01", web.Properties.Hostname)
	assert.Equal(t, "Ubuntu 20.04", web.Properties.OS)
	assert.Equal(t, "web-01.example.mil", web.Properties.FQDN)
	assert.Equal(t, "Mon Jan  6 10:00:00 2025", web.Properties.ScanStart)

	require.Len(t, web.Findings, 2)
	heartbleed := web.Findings[0]
	assert.Equal(t, "12345", heartbleed.PluginID)
	assert.Equal(t, SeverityCritical, heartbleed.Severity)
	assert.Equal(t, []string{"CVE-2014-0160"}, heartbleed.CVEs)
	assert.Equal(t, "7.5", heartbleed.CVSSBaseScore)
	assert.Equal(t, "443", heartbleed.Port)
	assert.Equal(t, "https", heartbleed.ServiceName)
	assert.Equal(t, "heartbeat response leaked 16384 bytes", heartbleed.PluginOutput)
}

func TestParseHostIPPrecedence(t *testing.T) {
	report, err := Parse([]byte(sampleDocument))
	require.NoError(t, err)

	// The explicit host-ip tag wins over the ReportHost name attribute.
	assert.Equal(t, "10.0.0.10", report.Hosts[0].Properties.IP)
	// Without a host-ip tag the name attribute is the fallback.
	assert.Equal(t, "192.168.1.20", report.Hosts[1].Properties.IP)
}

func TestParseSeverityDefaults(t *testing.T) {
	report, err := Parse([]byte(sampleDocument))
	require.NoError(t, err)

	db := report.Hosts[1]
	require.Len(t, db.Findings, 3)
	assert.Equal(t, SeverityInfo, db.Findings[0].Severity, "missing severity attribute defaults to Info")
	assert.Equal(t, SeverityInfo, db.Findings[1].Severity, "non-numeric severity defaults to Info")
	assert.Equal(t, SeverityInfo, db.Findings[2].Severity, "out-of-range severity defaults to Info")
}

func TestParseMultipleCVEs(t *testing.T) {
	report, err := Parse([]byte(sampleDocument))
	require.NoError(t, err)

	smb := report.Hosts[0].Findings[1]
	assert.Equal(t, []string{"CVE-2017-0143", "CVE-2017-0144", "CVE-2017-0145"}, smb.CVEs)
}

func TestParseMissingTextFieldsDefaultEmpty(t *testing.T) {
	report, err := Parse([]byte(sampleDocument))
	require.NoError(t, err)

	f := report.Hosts[1].Findings[0]
	assert.Empty(t, f.Description)
	assert.Empty(t, f.Solution)
	assert.Empty(t, f.CVEs)
	assert.Empty(t, f.PluginOutput)
}

func TestParseTotalsMatchSum(t *testing.T) {
	report, err := Parse([]byte(sampleDocument))
	require.NoError(t, err)

	sum := 0
	for _, h := range report.Hosts {
		sum += len(h.Findings)
	}
	assert.Equal(t, sum, report.TotalFindings)
}

func TestParseMalformedDocument(t *testing.T) {
	_, err := Parse([]byte("this is not xml at all <<<"))
	require.Error(t, err)

	var malformed *MalformedDocumentError
	assert.True(t, errors.As(err, &malformed))
}

func TestParseWrongRootElement(t *testing.T) {
	_, err := Parse([]byte(`<?xml version="1.0"?><SomethingElse></SomethingElse>`))
	require.Error(t, err)

	var malformed *MalformedDocumentError
	assert.True(t, errors.As(err, &malformed))
}

func TestParseEmptyReport(t *testing.T) {
	doc := `<?xml version="1.0"?><NessusClientData_v2><Policy><policyName>Empty</policyName></Policy><Report name="Empty"></Report></NessusClientData_v2>`
	report, err := Parse([]byte(doc))
	require.NoError(t, err)

	assert.Zero(t, report.TotalHosts)
	assert.Zero(t, report.TotalFindings)
	assert.Empty(t, report.Hosts)
}

func TestSeverityName(t *testing.T) {
	assert.Equal(t, "Info", SeverityName(SeverityInfo))
	assert.Equal(t, "Critical", SeverityName(SeverityCritical))
	assert.Equal(t, "Unknown", SeverityName(42))
}
