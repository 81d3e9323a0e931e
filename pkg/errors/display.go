package errors

import (
	"fmt"
	"io"
)

// PrintErrorWithHints prints errors with actionable hints to the writer.
//
// Output format:
//
//	Error: <error message>
//	  💡 <actionable hint if available>
//
// Parameters:
//   - w: Writer to output to (typically os.Stderr)
//   - errs: Slice of errors to display
//   - verbose: If true, partial-success errors list every failed package
func PrintErrorWithHints(w io.Writer, errs []error, verbose bool) {
	for _, err := range errs {
		printSingleError(w, err, verbose)
	}
}

// printSingleError prints a single error with appropriate formatting.
func printSingleError(w io.Writer, err error, verbose bool) {
	if err == nil {
		return
	}

	if pse, ok := IsPartialSuccess(err); ok {
		_, _ = fmt.Fprintf(w, "Partial Success: %s\n", pse.Error())
		if verbose {
			for _, e := range pse.Errors {
				_, _ = fmt.Fprintf(w, "    - %s\n", EnhanceErrorWithHint(e))
			}
		}
		return
	}

	_, _ = fmt.Fprintf(w, "Error: %s\n", EnhanceErrorWithHint(err))
}
