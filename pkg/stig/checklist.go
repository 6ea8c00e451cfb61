package stig

import (
	"encoding/xml"
	"fmt"
	"io"
)

// Checklist XML shapes matching the DISA STIG Viewer .ckl layout.
type checklist struct {
	XMLName xml.Name `xml:"CHECKLIST"`
	Asset   cklAsset `xml:"ASSET"`
	STIGs   cklSTIGs `xml:"STIGS"`
}

type cklAsset struct {
	Role      string `xml:"ROLE"`
	AssetType string `xml:"ASSET_TYPE"`
	HostName  string `xml:"HOST_NAME,omitempty"`
	HostIP    string `xml:"HOST_IP,omitempty"`
}

type cklSTIGs struct {
	ISTIG cklISTIG `xml:"iSTIG"`
}

type cklISTIG struct {
	Info  cklInfo   `xml:"STIG_INFO"`
	Vulns []cklVuln `xml:"VULN"`
}

type cklInfo struct {
	Data []cklSIData `xml:"SI_DATA"`
}

type cklSIData struct {
	Name string `xml:"SID_NAME"`
	Data string `xml:"SID_DATA"`
}

type cklVuln struct {
	Data    []cklStigData `xml:"STIG_DATA"`
	Status  string        `xml:"STATUS"`
	Details string        `xml:"FINDING_DETAILS"`
}

type cklStigData struct {
	Attribute string `xml:"VULN_ATTRIBUTE"`
	Data      string `xml:"ATTRIBUTE_DATA"`
}

// WriteChecklist writes the findings as a STIG Viewer checklist document.
// Host name and IP may be empty when the checklist spans multiple hosts.
func WriteChecklist(w io.Writer, findings []Finding, hostName, hostIP string) error {
	ckl := checklist{
		Asset: cklAsset{
			Role:      "None",
			AssetType: "Computing",
			HostName:  hostName,
			HostIP:    hostIP,
		},
		STIGs: cklSTIGs{
			ISTIG: cklISTIG{
				Info: cklInfo{Data: []cklSIData{{Name: "version", Data: "1"}}},
			},
		},
	}

	for _, f := range findings {
		ckl.STIGs.ISTIG.Vulns = append(ckl.STIGs.ISTIG.Vulns, cklVuln{
			Data: []cklStigData{
				{Attribute: "Vuln_Num", Data: f.STIGID},
				{Attribute: "Severity", Data: f.Severity},
				{Attribute: "Rule_ID", Data: f.RuleID},
				{Attribute: "Rule_Title", Data: f.RuleTitle},
				{Attribute: "Group_Title", Data: f.GroupTitle},
			},
			Status:  "Open",
			Details: "Identified via automated Nessus scan",
		})
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(ckl); err != nil {
		return fmt.Errorf("failed to encode checklist: %w", err)
	}
	return enc.Close()
}
