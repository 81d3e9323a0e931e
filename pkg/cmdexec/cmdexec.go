// Package cmdexec runs the templated shell commands pytyped delegates to,
// such as "pip3 download" and the artifact listing command.
//
// Command templates use {{key}} placeholders that are shell-escaped before
// substitution. Multiline templates run sequentially and stop at the first
// failure; lines ending in "|" or "\" continue onto the next line.
package cmdexec

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/panliu5000/mypy-dependency-recommender/pkg/verbose"
	"github.com/panliu5000/mypy-dependency-recommender/pkg/warnings"
)

// CommandError describes a command that could not be run or exited non-zero.
//
// Fields:
//   - Command: The fully substituted command line
//   - ExitCode: Process exit code, or -1 when the process never produced one
//   - Output: Combined stdout and stderr captured before the failure
//   - Err: The underlying exec, timeout or cancellation error
type CommandError struct {
	Command  string
	ExitCode int
	Output   string
	Err      error
}

// Error implements the error interface.
func (e *CommandError) Error() string {
	if out := strings.TrimSpace(e.Output); out != "" {
		return fmt.Sprintf("%v: %s", e.Err, out)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *CommandError) Unwrap() error {
	return e.Err
}

// ExecuteWithContextFunc is the function signature for context-aware command execution.
//
// Parameters:
//   - ctx: Context for cancellation
//   - commands: Multiline command template to execute
//   - env: Environment variables to set for the commands
//   - dir: Working directory for command execution
//   - timeoutSeconds: Maximum execution time in seconds (0 for no timeout)
//   - replacements: Template variable replacements (e.g., {{package}} -> requests)
//
// Returns:
//   - []byte: Output of the last command line
//   - error: *CommandError on failure, nil on success
type ExecuteWithContextFunc func(ctx context.Context, commands string, env map[string]string, dir string, timeoutSeconds int, replacements map[string]string) ([]byte, error)

// ExecuteWithContext is the context-aware command execution function.
//
// It can be replaced with a mock implementation for testing.
var ExecuteWithContext ExecuteWithContextFunc = executeCommandsWithContext

// getShell returns the user's shell and args to run a command.
//
// The SHELL environment variable is used when set so that PATH tweaks from
// the user's environment apply; otherwise the platform default is used.
func getShell() (shell string, args []string) {
	if sh := os.Getenv("SHELL"); sh != "" {
		return sh, []string{"-c"}
	}
	return getDefaultShell()
}

// executeCommandsWithContext executes a multiline command template.
//
// Each logical line runs as its own shell invocation; execution stops at the
// first failing line. The context is checked before every line.
func executeCommandsWithContext(ctx context.Context, commands string, env map[string]string, dir string, timeoutSeconds int, replacements map[string]string) ([]byte, error) {
	if strings.TrimSpace(commands) == "" {
		return nil, fmt.Errorf("no commands provided")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	lines := splitCommandLines(applyReplacements(commands, replacements))
	environ := buildEnviron(env)

	var lastOutput []byte
	for _, line := range lines {
		if err := ctx.Err(); err != nil {
			return lastOutput, err
		}
		output, err := executeCommand(ctx, line, environ, dir, timeoutSeconds)
		if err != nil {
			return output, err
		}
		lastOutput = output
	}

	return lastOutput, nil
}

// applyReplacements substitutes {{key}} placeholders with shell-escaped values.
//
// Empty values remove the placeholder entirely instead of producing ''.
// All placeholders are substituted in a single pass, so a value that itself
// contains "{{key}}" is never expanded again.
func applyReplacements(commands string, replacements map[string]string) string {
	if len(replacements) == 0 {
		return commands
	}
	pairs := make([]string, 0, 2*len(replacements))
	for key, value := range replacements {
		escaped := ""
		if value != "" {
			escaped = shellEscape(value)
		}
		pairs = append(pairs, "{{"+key+"}}", escaped)
	}
	return strings.NewReplacer(pairs...).Replace(commands)
}

// shellEscape escapes a string for safe use in shell commands.
//
// Strings made only of shell-safe characters are returned unquoted; anything
// else is single-quoted with embedded single quotes escaped.
func shellEscape(s string) string {
	if s == "" {
		return "''"
	}
	if strings.IndexFunc(s, func(r rune) bool { return !isShellSafe(r) }) < 0 {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// isShellSafe returns true if the character is safe to use unquoted in shell.
func isShellSafe(r rune) bool {
	return (r >= 'a' && r <= 'z') ||
		(r >= 'A' && r <= 'Z') ||
		(r >= '0' && r <= '9') ||
		strings.ContainsRune("-_./@:+=,", r)
}

// splitCommandLines splits a multiline template into logical command lines.
//
// Blank lines are dropped. A line ending in "\" is joined with the next one,
// and a line ending in "|" is piped into the next one.
func splitCommandLines(commands string) []string {
	normalized := strings.ReplaceAll(commands, "\r\n", "\n")

	var lines []string
	var current strings.Builder
	for _, raw := range strings.Split(normalized, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		switch {
		case strings.HasSuffix(line, "\\"):
			current.WriteString(strings.TrimSpace(strings.TrimSuffix(line, "\\")))
			current.WriteString(" ")
		case strings.HasSuffix(line, "|"):
			current.WriteString(line)
			current.WriteString(" ")
		default:
			current.WriteString(line)
			lines = append(lines, current.String())
			current.Reset()
		}
	}

	if rest := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(current.String()), "|")); rest != "" {
		lines = append(lines, rest)
	}
	return lines
}

// buildEnviron returns the process environment extended with env.
// Values may reference existing variables (e.g., "$HOME/.cache/pip").
func buildEnviron(env map[string]string) []string {
	environ := os.Environ()
	for key, value := range env {
		environ = append(environ, fmt.Sprintf("%s=%s", key, os.ExpandEnv(value)))
	}
	return environ
}

// executeCommand executes a single command line through the user's shell.
//
// The command runs in its own process group; on timeout or cancellation the
// whole group is killed so that child processes spawned by pip do not linger.
// Stdout and stderr are both captured; on failure the combined output is
// attached to the returned *CommandError.
func executeCommand(ctx context.Context, cmdStr string, environ []string, dir string, timeoutSeconds int) ([]byte, error) {
	if strings.TrimSpace(cmdStr) == "" {
		return nil, fmt.Errorf("empty command")
	}

	if timeoutSeconds > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(timeoutSeconds)*time.Second)
		defer cancel()
	}

	shell, shellArgs := getShell()
	args := append(append([]string{}, shellArgs...), cmdStr)

	cmd := exec.CommandContext(ctx, shell, args...)
	cmd.Env = environ
	if dir != "" {
		cmd.Dir = dir
	}
	setProcGroup(cmd)
	cmd.Cancel = func() error { return killProcGroup(cmd) }
	cmd.WaitDelay = 5 * time.Second

	capture := &outputCapture{}
	cmd.Stdout = capture.stream(true)
	cmd.Stderr = capture.stream(false)

	verbose.CommandExec(cmdStr, dir)
	err := cmd.Run()
	stdout, combined := capture.snapshot()
	if err == nil {
		verbose.CommandResult(cmdStr, 0, string(stdout))
		return stdout, nil
	}

	exitCode := -1
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		exitCode = exitErr.ExitCode()
	}
	verbose.CommandResult(cmdStr, exitCode, combined)

	if errors.Is(ctx.Err(), context.DeadlineExceeded) && timeoutSeconds > 0 {
		warnings.Warnf("command timed out after %d seconds: %s", timeoutSeconds, cmdStr)
		err = fmt.Errorf("command timed out after %d seconds: %w", timeoutSeconds, ctx.Err())
	} else if ctxErr := ctx.Err(); ctxErr != nil {
		err = fmt.Errorf("command cancelled: %w", ctxErr)
	}

	return stdout, &CommandError{
		Command:  cmdStr,
		ExitCode: exitCode,
		Output:   combined,
		Err:      err,
	}
}

// outputCapture collects a command's stdout on its own and, interleaved
// with stderr, in combined. os/exec copies each stream in its own
// goroutine, so every write goes through mu.
type outputCapture struct {
	mu       sync.Mutex
	stdout   bytes.Buffer
	combined bytes.Buffer
}

// stream returns the writer for one of the two process streams.
func (c *outputCapture) stream(isStdout bool) *captureStream {
	return &captureStream{capture: c, isStdout: isStdout}
}

// snapshot copies both buffers. A copier may still be running when Run
// gave up after WaitDelay.
func (c *outputCapture) snapshot() (stdout []byte, combined string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return bytes.Clone(c.stdout.Bytes()), c.combined.String()
}

type captureStream struct {
	capture  *outputCapture
	isStdout bool
}

// Write implements io.Writer. Writes to bytes.Buffer never fail.
func (s *captureStream) Write(p []byte) (int, error) {
	s.capture.mu.Lock()
	defer s.capture.mu.Unlock()
	if s.isStdout {
		s.capture.stdout.Write(p)
	}
	return s.capture.combined.Write(p)
}

// ExitCode extracts the process exit code carried by err.
//
// Returns:
//   - int: The exit code, 0 for a nil error, or -1 when err carries none
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var cmdErr *CommandError
	if errors.As(err, &cmdErr) {
		return cmdErr.ExitCode
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}

// CommandName returns the executable named by the first line of a template.
//
// Leading environment assignments are skipped, e.g. "PIP_NO_INPUT=1 pip3 download {{package}}" yields "pip3".
func CommandName(commands string) string {
	lines := splitCommandLines(commands)
	if len(lines) == 0 {
		return ""
	}
	for _, field := range strings.Fields(lines[0]) {
		if strings.Contains(field, "=") && !strings.HasPrefix(field, "=") {
			continue
		}
		return field
	}
	return ""
}
