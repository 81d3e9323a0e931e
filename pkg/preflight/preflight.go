// Package preflight checks that the external commands a configuration relies
// on are installed before any package is inspected.
//
// Without this check a missing pip3 would surface once per package as a
// download error instead of a single actionable message.
package preflight

import (
	"fmt"
	"os/exec"
	"regexp"
	"strings"

	"github.com/panliu5000/mypy-dependency-recommender/pkg/cmdexec"
	"github.com/panliu5000/mypy-dependency-recommender/pkg/config"
	"github.com/panliu5000/mypy-dependency-recommender/pkg/errors"
	"github.com/panliu5000/mypy-dependency-recommender/pkg/verbose"
)

// shellBuiltins are command words that never resolve through PATH.
var shellBuiltins = map[string]bool{
	"cd":     true,
	"export": true,
	"set":    true,
	"unset":  true,
	"exec":   true,
	"source": true,
	".":      true,
}

// commandSeparator splits a line into pipeline and list segments.
var commandSeparator = regexp.MustCompile(`\|\||&&|;|\|`)

// lookPath and commandExists are swapped in tests.
var (
	lookPath      = exec.LookPath
	commandExists = commandExistsInShell
)

// ValidationError represents a missing command with resolution hints.
//
// Fields:
//   - Command: The name of the missing command
//   - Source: Configuration key the command was found in, e.g. "download.commands"
//   - Hint: Installation instructions (empty if no hint available)
type ValidationError struct {
	Command string
	Source  string
	Hint    string
}

// Error returns a formatted error message with resolution instructions.
func (e *ValidationError) Error() string {
	if e.Hint != "" {
		return fmt.Sprintf("command not found: %s (%s)\n    Resolution: %s", e.Command, e.Source, e.Hint)
	}
	return fmt.Sprintf("command not found: %s (%s)\n    Resolution: Ensure '%s' is installed and available in your PATH, or change %s in your config.", e.Command, e.Source, e.Command, e.Source)
}

// ValidateResult holds the result of pre-flight validation.
//
// Fields:
//   - Checked: Unique command names that were looked up, in order
//   - Errors: Validation errors for missing commands
type ValidateResult struct {
	Checked []string
	Errors  []ValidationError
}

// HasErrors returns true if there are validation errors.
func (r *ValidateResult) HasErrors() bool {
	return len(r.Errors) > 0
}

// ErrorMessage returns a formatted message for all validation errors, or ""
// when there are none.
func (r *ValidateResult) ErrorMessage() string {
	if len(r.Errors) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("Pre-flight validation failed:\n")
	for _, err := range r.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

// Err returns the result as an ExitError with ExitConfigError, or nil when
// validation passed.
func (r *ValidateResult) Err() error {
	if !r.HasErrors() {
		return nil
	}
	return errors.NewExitError(errors.ExitConfigError, fmt.Errorf("%s", strings.TrimRight(r.ErrorMessage(), "\n")))
}

// ValidateConfig checks every command referenced by the download and list
// templates of cfg.
//
// Parameters:
//   - cfg: Loaded configuration
//
// Returns:
//   - *ValidateResult: Result containing any validation errors; never nil
func ValidateConfig(cfg *config.Config) *ValidateResult {
	result := &ValidateResult{}
	seen := make(map[string]bool)

	sections := []struct {
		source   string
		commands string
	}{
		{"download.commands", cfg.Download.Commands},
		{"list.commands", cfg.List.Commands},
	}
	for _, section := range sections {
		for _, name := range extractCommands(section.commands) {
			if seen[name] {
				continue
			}
			seen[name] = true
			result.Checked = append(result.Checked, name)
			if err := validateCommand(name, section.source); err != nil {
				result.Errors = append(result.Errors, *err)
			}
		}
	}

	verbose.Debug("preflight complete", "checked", len(result.Checked), "missing", len(result.Errors))
	return result
}

// extractCommands returns the unique command names invoked by a template.
//
// Every line and every pipeline segment contributes its executable.
// Environment assignments, shell builtins and words that are themselves
// template placeholders are not commands and are skipped.
func extractCommands(commands string) []string {
	var result []string
	seen := make(map[string]bool)

	normalized := strings.ReplaceAll(strings.TrimSpace(commands), "\r\n", "\n")
	normalized = strings.ReplaceAll(normalized, "\\\n", " ")
	for _, line := range strings.Split(normalized, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		for _, part := range commandSeparator.Split(line, -1) {
			name := cmdexec.CommandName(part)
			if name == "" || shellBuiltins[name] || strings.Contains(name, "{{") {
				continue
			}
			if !seen[name] {
				seen[name] = true
				result = append(result, name)
			}
		}
	}
	return result
}

// validateCommand checks that cmd exists in PATH or in the user's shell.
func validateCommand(cmd, source string) *ValidationError {
	if _, err := lookPath(cmd); err == nil {
		verbose.Debug("preflight command found", "command", cmd)
		return nil
	}
	if commandExists(cmd) {
		verbose.Debug("preflight command found in shell", "command", cmd)
		return nil
	}

	hint := errors.GetHintForCommand(cmd)
	verbose.Printf("Preflight ERROR: command %q not found\n", cmd)
	return &ValidationError{Command: cmd, Source: source, Hint: hint}
}

// commandExistsInShell asks the user's shell whether cmd resolves to an
// alias, function or builtin that exec.LookPath cannot see.
func commandExistsInShell(cmd string) bool {
	shell, args := getShellCommandCheck(cmd)
	return exec.Command(shell, args...).Run() == nil
}
