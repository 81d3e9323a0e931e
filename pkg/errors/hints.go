package errors

import (
	"strings"
)

// ErrorHint provides actionable resolution hints for common errors.
//
// Fields:
//   - Pattern: Substring to match in error message (case-insensitive)
//   - Hint: Brief description of the issue
//   - Resolution: Command or action to resolve the issue
type ErrorHint struct {
	Pattern    string
	Hint       string
	Resolution string
}

// CommandResolutionHints maps command names to installation instructions.
// Used for preflight errors when a required command is not found.
var CommandResolutionHints = map[string]string{
	"pip":     "Install Python: https://python.org/downloads/",
	"pip3":    "Install Python: https://python.org/downloads/",
	"python":  "Install Python: https://python.org/downloads/",
	"python3": "Install Python: https://python.org/downloads/",
	"uv":      "Install uv: https://docs.astral.sh/uv/getting-started/installation/",
	"find":    "Unix tool - typically pre-installed on Linux/macOS",
	"ls":      "Unix tool - typically pre-installed on Linux/macOS",
}

// CommonErrorHints maps error patterns to actionable hints.
// These are used by EnhanceErrorWithHint to add context to errors.
var CommonErrorHints = []ErrorHint{
	{
		Pattern:    "no matching distribution",
		Hint:       "Package or version not found on the index",
		Resolution: "Check the requirement spelling, or set index_url in .pytyped.yml",
	},
	{
		Pattern:    "could not find a version",
		Hint:       "No release satisfies the requirement",
		Resolution: "Relax the version specifier or check python_version in .pytyped.yml",
	},
	{
		Pattern:    "command timed out",
		Hint:       "Download took too long",
		Resolution: "Increase timeout_seconds in config or use --timeout 0",
	},
	{
		Pattern:    "failed to read manifest",
		Hint:       "Requirements file not found or unreadable",
		Resolution: "Pass the manifest path as the first argument (e.g. pytyped check requirements.txt)",
	},
	{
		Pattern:    "failed to load config",
		Hint:       "Configuration file is invalid or not found",
		Resolution: "Run 'pytyped config --show-effective' to validate config",
	},
	{
		Pattern:    "unexpected file type",
		Hint:       "The index served an artifact that is not a wheel, zip or tar.gz",
		Resolution: "Inspect the package manually; legacy .egg or .tar.bz2 sdists are not supported",
	},
	{
		Pattern:    "permission denied",
		Hint:       "Insufficient permissions",
		Resolution: "Check file permissions or run with appropriate privileges",
	},
	{
		Pattern:    "403",
		Hint:       "Access forbidden",
		Resolution: "Check credentials configured for the package index",
	},
	{
		Pattern:    "404",
		Hint:       "Package or version not found",
		Resolution: "Verify the package name and version exist on the index",
	},
}

// GetHint returns an actionable hint for the given error.
//
// It searches the error message for known patterns in CommonErrorHints
// and returns a formatted hint if one matches.
//
// Parameters:
//   - err: The error to get a hint for
//
// Returns:
//   - string: The hint with resolution, or empty string if no hint found
func GetHint(err error) string {
	if err == nil {
		return ""
	}

	errStr := strings.ToLower(err.Error())
	for _, hint := range CommonErrorHints {
		if strings.Contains(errStr, strings.ToLower(hint.Pattern)) {
			return hint.Hint + ": " + hint.Resolution
		}
	}

	return ""
}

// GetHintForCommand returns the installation hint for a command.
func GetHintForCommand(cmd string) string {
	return CommandResolutionHints[cmd]
}

// EnhanceErrorWithHint adds actionable hints to an error message if a matching pattern is found.
//
// Parameters:
//   - err: The error to enhance
//
// Returns:
//   - string: Error message with hint appended if found, otherwise just the error message
func EnhanceErrorWithHint(err error) string {
	if err == nil {
		return ""
	}

	errStr := err.Error()
	if hint := GetHint(err); hint != "" {
		return errStr + "\n  \U0001F4A1 " + hint
	}

	return errStr
}
