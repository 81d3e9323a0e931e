package output

import "encoding/xml"

// CheckResult is the structured form of a check report used for XML output.
//
// Fields:
//   - XMLName: XML root element name (used only for XML marshaling)
//   - RunID: Identifier of the run that produced the report
//   - Summary: Bucket counts
//   - Packages: One entry per inspected package, sorted by name
type CheckResult struct {
	XMLName  xml.Name       `json:"-" xml:"checkResult"`
	RunID    string         `json:"run_id" xml:"runId,attr"`
	Summary  CheckSummary   `json:"summary" xml:"summary"`
	Packages []CheckPackage `json:"packages" xml:"packages>package"`
}

// CheckSummary holds the bucket counts of a report.
type CheckSummary struct {
	Total       int `json:"total" xml:"total"`
	Supported   int `json:"supported" xml:"supported"`
	Unsupported int `json:"unsupported" xml:"unsupported"`
	Errored     int `json:"errored" xml:"errored"`
}

// CheckPackage is one package row of a report.
//
// Fields:
//   - Name: Package identifier as read from the manifest
//   - Status: "supported", "unsupported" or "errored"
//   - Error: Failure message when Status is "errored" (omitted if empty)
type CheckPackage struct {
	Name   string `json:"name" xml:"name"`
	Status string `json:"status" xml:"status"`
	Error  string `json:"error,omitempty" xml:"error,omitempty"`
}
