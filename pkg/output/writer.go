package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/iancoleman/orderedmap"

	"github.com/panliu5000/mypy-dependency-recommender/pkg/runner"
)

// Report section headings.
const (
	HeadingSupported   = "The following direct dependencies support type checking:"
	HeadingUnsupported = "The following direct dependencies do not ship type information:"
	HeadingErrored     = "The following direct dependencies check failed due to errors:"
)

// banner separates report sections in text output.
var banner = strings.Repeat("#", 62)

// NewCheckResult converts a report into its structured form.
func NewCheckResult(report *runner.Report) *CheckResult {
	result := &CheckResult{
		RunID: report.RunID,
		Summary: CheckSummary{
			Total:       report.Total(),
			Supported:   len(report.Supported),
			Unsupported: len(report.Unsupported),
			Errored:     len(report.Errored),
		},
		Packages: make([]CheckPackage, 0, len(report.Outcomes)),
	}
	for _, o := range report.Outcomes {
		pkg := CheckPackage{Name: o.Package, Status: o.Status()}
		if o.Err != nil {
			pkg.Error = o.Err.Error()
		}
		result.Packages = append(result.Packages, pkg)
	}
	return result
}

// WriteReport writes report to w in the given format.
//
// Parameters:
//   - w: Destination writer for the output
//   - format: Any of the Format constants
//   - report: Report produced by the runner
//
// Returns:
//   - error: When format is unsupported, returns an error; when write fails, returns the underlying error; otherwise returns nil
func WriteReport(w io.Writer, format Format, report *runner.Report) error {
	formatter := NewFormatter(format, w)

	switch format {
	case FormatText:
		return writeText(w, report)
	case FormatTable:
		return writeTable(w, report)
	case FormatJSON:
		return formatter.WriteJSON(reportJSON(report))
	case FormatXML:
		return formatter.WriteXML(NewCheckResult(report))
	case FormatCSV:
		return writeCSV(formatter, report)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

// writeText writes the banner report. Every heading is printed even when its
// section is empty.
func writeText(w io.Writer, report *runner.Report) error {
	var sb strings.Builder
	sb.WriteString(banner + "\n")
	sb.WriteString(banner + "\n")
	writeSection(&sb, HeadingSupported, report.Supported)
	sb.WriteString("\n" + banner + "\n\n")
	writeSection(&sb, HeadingUnsupported, report.Unsupported)
	sb.WriteString("\n" + banner + "\n\n")
	writeSection(&sb, HeadingErrored, report.Errored)
	sb.WriteString(banner + "\n")
	sb.WriteString(banner + "\n")

	_, err := io.WriteString(w, sb.String())
	return err
}

func writeSection(sb *strings.Builder, heading string, lines []string) {
	sb.WriteString(heading + "\n")
	for _, line := range lines {
		sb.WriteString(line + "\n")
	}
}

// writeTable writes one aligned row per package followed by a summary line.
func writeTable(w io.Writer, report *runner.Report) error {
	table := NewTable().AddColumn("PACKAGE").AddColumn("STATUS").AddColumn("ERROR")
	rows := make([][]string, 0, len(report.Outcomes))
	for _, o := range report.Outcomes {
		errText := ""
		if o.Err != nil {
			errText = firstLine(o.Err.Error())
		}
		row := []string{o.Package, o.Status(), errText}
		table.UpdateWidths(row...)
		rows = append(rows, row)
	}

	table.Fprint(w)
	for _, row := range rows {
		if _, err := fmt.Fprintln(w, table.FormatRow(row...)); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "\n%d packages: %d supported, %d unsupported, %d errored\n",
		report.Total(), len(report.Supported), len(report.Unsupported), len(report.Errored))
	return err
}

// firstLine keeps table rows single-line when pip prints multi-line errors.
func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i] + " ..."
	}
	return s
}

// reportJSON builds the JSON document with a stable key order.
func reportJSON(report *runner.Report) *orderedmap.OrderedMap {
	summary := newOrderedMap()
	summary.Set("total", report.Total())
	summary.Set("supported", len(report.Supported))
	summary.Set("unsupported", len(report.Unsupported))
	summary.Set("errored", len(report.Errored))

	errored := make([]*orderedmap.OrderedMap, 0, len(report.Errored))
	for _, o := range report.Outcomes {
		if o.Err == nil {
			continue
		}
		entry := newOrderedMap()
		entry.Set("package", o.Package)
		entry.Set("error", o.Err.Error())
		errored = append(errored, entry)
	}

	data := newOrderedMap()
	data.Set("run_id", report.RunID)
	data.Set("summary", summary)
	data.Set("supported", nonNil(report.Supported))
	data.Set("unsupported", nonNil(report.Unsupported))
	data.Set("errored", errored)
	return data
}

func newOrderedMap() *orderedmap.OrderedMap {
	m := orderedmap.New()
	m.SetEscapeHTML(false)
	return m
}

// nonNil makes empty buckets encode as [] rather than null.
func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// writeCSV writes one row per package.
func writeCSV(f *Formatter, report *runner.Report) error {
	headers := []string{"PACKAGE", "STATUS", "ERROR"}
	rows := make([][]string, 0, len(report.Outcomes))
	for _, o := range report.Outcomes {
		errText := ""
		if o.Err != nil {
			errText = o.Err.Error()
		}
		rows = append(rows, []string{o.Package, o.Status(), errText})
	}
	return f.WriteCSV(headers, rows)
}
