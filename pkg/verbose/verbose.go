// Package verbose provides debug logging for pytyped.
//
// Messages are only emitted after Enable is called (the --verbose flag).
// Output is produced by a charmbracelet/log logger so every line carries a
// timestamp and level, and structured key/value pairs can be attached.
package verbose

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
)

var (
	mu      sync.RWMutex
	enabled bool
	writer  io.Writer = os.Stderr
	logger            = newLogger(os.Stderr)
)

// newLogger creates a debug-level logger writing to w.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           log.DebugLevel,
		Prefix:          "[DEBUG]",
	})
}

// Enable turns on verbose logging and allows debug messages to be printed.
func Enable() {
	mu.Lock()
	defer mu.Unlock()
	enabled = true
}

// Disable turns off verbose logging and prevents debug messages from being printed.
func Disable() {
	mu.Lock()
	defer mu.Unlock()
	enabled = false
}

// IsEnabled returns whether verbose logging is currently enabled.
//
// Returns:
//   - bool: true if verbose logging is enabled, false otherwise
func IsEnabled() bool {
	mu.RLock()
	defer mu.RUnlock()
	return enabled
}

// SetWriter sets the output writer for verbose messages.
//
// The underlying logger is rebuilt so that subsequent messages go to w.
//
// Parameters:
//   - w: The io.Writer to use for output; if nil, the writer remains unchanged
//
// Returns:
//   - func(): A restore function that sets the writer back to the previous value
func SetWriter(w io.Writer) func() {
	mu.Lock()
	defer mu.Unlock()
	previous := writer
	if w != nil {
		writer = w
		logger = newLogger(w)
	}
	return func() {
		mu.Lock()
		defer mu.Unlock()
		writer = previous
		logger = newLogger(previous)
	}
}

// active returns the logger when verbose is enabled, nil otherwise.
func active() *log.Logger {
	mu.RLock()
	defer mu.RUnlock()
	if !enabled {
		return nil
	}
	return logger
}

// Printf prints a formatted verbose message if enabled.
//
// Parameters:
//   - format: Printf-style format string
//   - args: Variadic arguments to format into the string
func Printf(format string, args ...any) {
	if l := active(); l != nil {
		l.Debugf(format, args...)
	}
}

// Info prints an informational verbose message if enabled.
func Info(msg string) {
	if l := active(); l != nil {
		l.Debug(msg)
	}
}

// Infof prints a formatted informational verbose message if enabled.
func Infof(format string, args ...any) {
	if l := active(); l != nil {
		l.Debugf(format, args...)
	}
}

// Debug prints a message with structured key/value pairs if enabled.
//
// Parameters:
//   - msg: The message string to print
//   - keyvals: Alternating keys and values (e.g., "package", "requests")
func Debug(msg string, keyvals ...any) {
	if l := active(); l != nil {
		l.Debug(msg, keyvals...)
	}
}

// CommandExec logs command execution details if enabled.
//
// Parameters:
//   - cmd: The command string being executed
//   - workDir: The working directory path for command execution
func CommandExec(cmd, workDir string) {
	if l := active(); l != nil {
		l.Debug("Executing: "+cmd, "dir", workDir)
	}
}

// CommandResult logs command execution results if enabled.
//
// Long command strings are truncated to 60 characters. At most five output
// lines are shown; longer output is reduced to its first three lines.
//
// Parameters:
//   - cmd: The command string that was executed
//   - exitCode: The exit code returned by the command (0 for success)
//   - output: The command output (stdout/stderr)
func CommandResult(cmd string, exitCode int, output string) {
	l := active()
	if l == nil {
		return
	}
	if exitCode == 0 {
		l.Debugf("Command succeeded: %s", truncate(cmd, 60))
	} else {
		l.Debugf("Command failed (exit %d): %s", exitCode, truncate(cmd, 60))
	}
	output = strings.TrimSpace(output)
	if output == "" {
		return
	}
	lines := strings.Split(output, "\n")
	if len(lines) > 5 {
		for _, line := range lines[:3] {
			l.Debugf("| %s", truncate(line, 100))
		}
		l.Debugf("| ... (%d more lines)", len(lines)-3)
		return
	}
	for _, line := range lines {
		l.Debugf("| %s", truncate(line, 100))
	}
}

// ConfigLoaded logs which config file was loaded if enabled.
//
// Parameters:
//   - path: The file path to the configuration file that was loaded
func ConfigLoaded(path string) {
	if l := active(); l != nil {
		l.Debug(fmt.Sprintf("Config loaded: %s", path))
	}
}

// truncate shortens a string to the specified maximum length.
//
// Parameters:
//   - s: The string to truncate
//   - maxLen: The maximum length for the returned string (must be at least 3)
//
// Returns:
//   - string: The original or truncated string with "..." suffix if truncated
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
