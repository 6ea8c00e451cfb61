package export

import (
	"io"

	"github.com/vissm/vissm/pkg/processor"
	"github.com/vissm/vissm/pkg/stig"
)

// WriteChecklist renders the STIG requirements matched by the scan as a
// STIG Viewer checklist. Asset fields are filled in only for single-host
// scans, where the checklist has an unambiguous subject.
func WriteChecklist(w io.Writer, res *processor.Results, mapper *stig.Mapper) error {
	findings := mapper.Findings(res.Report)

	var hostName, hostIP string
	if len(res.Report.Hosts) == 1 {
		hostName = res.Report.Hosts[0].Properties.Hostname
		hostIP = res.Report.Hosts[0].Properties.IP
	}
	return stig.WriteChecklist(w, findings, hostName, hostIP)
}
