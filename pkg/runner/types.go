package runner

import (
	"context"
	"fmt"
)

// Outcome status values.
const (
	StatusSupported   = "supported"
	StatusUnsupported = "unsupported"
	StatusErrored     = "errored"
)

// Inspector decides whether a single package ships type information.
//
// Implementations must be safe for concurrent use.
type Inspector interface {
	Inspect(ctx context.Context, pkg string) (bool, error)
}

// InspectorFunc adapts a plain function to Inspector.
type InspectorFunc func(ctx context.Context, pkg string) (bool, error)

// Inspect calls f(ctx, pkg).
func (f InspectorFunc) Inspect(ctx context.Context, pkg string) (bool, error) {
	return f(ctx, pkg)
}

// Outcome is the result of inspecting one package.
//
// Fields:
//   - Package: Identifier as read from the manifest
//   - Supported: Marker test result, meaningful only when Err is nil
//   - Err: Inspection failure, nil on success
type Outcome struct {
	Package   string
	Supported bool
	Err       error
}

// Status returns StatusErrored, StatusSupported or StatusUnsupported.
func (o Outcome) Status() string {
	switch {
	case o.Err != nil:
		return StatusErrored
	case o.Supported:
		return StatusSupported
	default:
		return StatusUnsupported
	}
}

// ErrorLine formats a failed outcome for the errored section of the report.
// It returns "" for outcomes without an error.
func (o Outcome) ErrorLine() string {
	if o.Err == nil {
		return ""
	}
	return fmt.Sprintf("pkg %s exception %v", o.Package, o.Err)
}

// Report is the partitioned result of one run.
//
// Every inspected identifier appears in exactly one of Supported,
// Unsupported and Errored. Each list is sorted lexicographically.
//
// Fields:
//   - RunID: Unique identifier of the run, for correlating logs and output
//   - Supported: Packages whose artifact contains the marker
//   - Unsupported: Packages inspected successfully without the marker
//   - Errored: "pkg <name> exception <error>" lines for failed packages
//   - Outcomes: All outcomes sorted by package
type Report struct {
	RunID       string
	Supported   []string
	Unsupported []string
	Errored     []string
	Outcomes    []Outcome
}

// Total returns the number of inspected packages.
func (r *Report) Total() int {
	return len(r.Outcomes)
}

// Errors returns the errors of failed outcomes in package order.
func (r *Report) Errors() []error {
	var errs []error
	for _, o := range r.Outcomes {
		if o.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", o.Package, o.Err))
		}
	}
	return errs
}
