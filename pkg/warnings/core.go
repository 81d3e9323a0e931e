// Package warnings provides a swappable sink for user-facing warnings.
//
// Warnings go to stderr by default so they never mix with report output on
// stdout. Tests swap the writer with SetWarningWriter; the --quiet flag
// silences warnings entirely.
package warnings

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

var (
	mu         sync.RWMutex
	warnWriter io.Writer = os.Stderr
	quiet      bool
)

// Warnf writes a formatted warning message to the configured warning writer.
//
// Messages are prefixed with "Warning: " and terminated with a newline when
// the caller did not supply one. Nothing is written while quiet mode is on.
//
// Parameters:
//   - format: Printf-style format string for the warning message
//   - args: Variadic arguments to format into the string
func Warnf(format string, args ...any) {
	mu.RLock()
	w, q := warnWriter, quiet
	mu.RUnlock()
	if q {
		return
	}

	msg := fmt.Sprintf(format, args...)
	if !strings.HasPrefix(msg, "Warning: ") {
		msg = "Warning: " + msg
	}
	if !strings.HasSuffix(msg, "\n") {
		msg += "\n"
	}
	_, _ = io.WriteString(w, msg)
}

// WarningWriter returns the currently configured warning writer.
func WarningWriter() io.Writer {
	mu.RLock()
	defer mu.RUnlock()
	return warnWriter
}

// SetWarningWriter swaps the warning writer and returns a restore function.
//
// Parameters:
//   - w: The new io.Writer to use; if nil, defaults to os.Stderr
//
// Returns:
//   - func(): A restore function that sets the writer back to the previous value
func SetWarningWriter(w io.Writer) func() {
	mu.Lock()
	defer mu.Unlock()

	previous := warnWriter
	if w == nil {
		warnWriter = os.Stderr
	} else {
		warnWriter = w
	}

	return func() {
		mu.Lock()
		defer mu.Unlock()
		warnWriter = previous
	}
}

// SetQuiet enables or disables quiet mode.
func SetQuiet(q bool) {
	mu.Lock()
	defer mu.Unlock()
	quiet = q
}
