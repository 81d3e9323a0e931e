// Package output renders a check report for people and for tools.
//
// The default text format reproduces the banner-delimited report of the
// original command-line tool. The table format aligns one row per package,
// and the CSV, JSON and XML formats are meant for machine consumption.
package output

import (
	"encoding/csv"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// Format represents the output format type.
type Format string

const (
	// FormatText is the default banner report.
	FormatText Format = "text"
	// FormatTable is an aligned terminal table.
	FormatTable Format = "table"
	// FormatCSV outputs data as comma-separated values.
	FormatCSV Format = "csv"
	// FormatJSON outputs data as JSON.
	FormatJSON Format = "json"
	// FormatXML outputs data as XML.
	FormatXML Format = "xml"
)

// Formats lists every accepted format name.
var Formats = []Format{FormatText, FormatTable, FormatCSV, FormatJSON, FormatXML}

// ParseFormat parses a format string, case-insensitively.
//
// An empty string selects FormatText.
//
// Parameters:
//   - s: Format string to parse (e.g., "csv", "JSON")
//
// Returns:
//   - Format: The parsed format
//   - error: When s names no known format
func ParseFormat(s string) (Format, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return FormatText, nil
	}
	for _, f := range Formats {
		if string(f) == s {
			return f, nil
		}
	}
	names := make([]string, len(Formats))
	for i, f := range Formats {
		names[i] = string(f)
	}
	return "", fmt.Errorf("unknown output format %q (valid: %s)", s, strings.Join(names, ", "))
}

// IsStructuredFormat returns true for formats meant for machine consumption
// (CSV, JSON, XML). Progress and warnings are suppressed for these.
func IsStructuredFormat(f Format) bool {
	return f == FormatCSV || f == FormatJSON || f == FormatXML
}

// Formatter handles writing data in a specific format.
//
// Fields:
//   - format: The output format
//   - writer: Destination for formatted output
type Formatter struct {
	format Format
	writer io.Writer
}

// NewFormatter creates a new formatter for the given format and writer.
func NewFormatter(format Format, writer io.Writer) *Formatter {
	return &Formatter{
		format: format,
		writer: writer,
	}
}

// Format returns the current format.
func (f *Formatter) Format() Format {
	return f.format
}

// WriteCSV writes a header row followed by rows.
//
// Note: csv.Writer buffers all writes and only reports errors via Error() after Flush().
//
// Parameters:
//   - headers: Column headers for the CSV
//   - rows: Data rows, each with as many cells as headers
//
// Returns:
//   - error: When write or flush fails, returns the underlying error; otherwise returns nil
func (f *Formatter) WriteCSV(headers []string, rows [][]string) error {
	w := csv.NewWriter(f.writer)

	_ = w.Write(headers)
	for _, row := range rows {
		_ = w.Write(row)
	}

	w.Flush()
	return w.Error()
}

// WriteJSON writes data as compact JSON followed by a newline.
//
// HTML escaping is disabled so version specifiers such as ">=" are written
// as is.
func (f *Formatter) WriteJSON(data any) error {
	encoder := json.NewEncoder(f.writer)
	encoder.SetEscapeHTML(false)
	return encoder.Encode(data)
}

// WriteXML writes the XML header and data indented by two spaces.
//
// Parameters:
//   - data: Data structure to encode as XML (must have xml tags)
//
// Returns:
//   - error: When encoding fails, returns the underlying error; otherwise returns nil
func (f *Formatter) WriteXML(data any) error {
	_, _ = fmt.Fprint(f.writer, xml.Header)
	encoder := xml.NewEncoder(f.writer)
	encoder.Indent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return err
	}
	_, _ = fmt.Fprintln(f.writer)
	return nil
}
