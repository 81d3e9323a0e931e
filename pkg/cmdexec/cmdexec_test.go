package cmdexec

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func skipOnWindows(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("skipping Unix-specific test on Windows")
	}
}

// TestApplyReplacements tests the behavior of applyReplacements.
//
// It verifies:
//   - Template placeholders are correctly replaced with values
//   - Values with shell metacharacters are single-quoted
//   - Empty values remove the placeholder entirely (not quoted as '')
func TestApplyReplacements(t *testing.T) {
	t.Run("basic replacement", func(t *testing.T) {
		cmd := `pip3 download {{package}} -d {{dir}} --no-deps`
		result := applyReplacements(cmd, map[string]string{
			"package": "requests==2.31.0",
			"dir":     "/tmp/pytyped-123",
		})
		assert.Equal(t, `pip3 download requests==2.31.0 -d /tmp/pytyped-123 --no-deps`, result)
	})

	t.Run("specifier with shell metacharacters", func(t *testing.T) {
		result := applyReplacements(`pip3 download {{package}}`, map[string]string{
			"package": "django>=4,<5",
		})
		assert.Equal(t, `pip3 download 'django>=4,<5'`, result)
	})

	t.Run("empty value removes placeholder", func(t *testing.T) {
		result := applyReplacements(`pip3 download {{package}} {{extra}} --no-deps`, map[string]string{
			"package": "attrs",
			"extra":   "",
		})
		assert.Equal(t, `pip3 download attrs  --no-deps`, result)
		assert.NotContains(t, result, "''")
	})

	t.Run("values are not expanded again", func(t *testing.T) {
		for i := 0; i < 20; i++ {
			result := applyReplacements(`pip3 download {{package}} -d {{dir}}`, map[string]string{
				"package": "{{dir}}",
				"dir":     "/tmp/x",
				"marker":  "py.typed",
			})
			assert.Equal(t, `pip3 download '{{dir}}' -d /tmp/x`, result)
		}
	})

	t.Run("no replacements", func(t *testing.T) {
		assert.Equal(t, `echo {{package}}`, applyReplacements(`echo {{package}}`, nil))
	})
}

// TestShellEscape tests the behavior of shellEscape.
func TestShellEscape(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "''"},
		{"requests", "requests"},
		{"git+https://example.com/repo.git", "git+https://example.com/repo.git"},
		{"pkg[extra]", "'pkg[extra]'"},
		{"it's", `'it'\''s'`},
		{"a b", "'a b'"},
		{"x; rm -rf /", "'x; rm -rf /'"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, shellEscape(tt.in))
		})
	}
}

// TestGetShell tests the behavior of getShell.
func TestGetShell(t *testing.T) {
	skipOnWindows(t)

	t.Run("uses SHELL env var when set", func(t *testing.T) {
		t.Setenv("SHELL", "/bin/bash")
		shell, args := getShell()
		assert.Equal(t, "/bin/bash", shell)
		assert.Equal(t, []string{"-c"}, args)
	})

	t.Run("falls back to sh when SHELL is empty", func(t *testing.T) {
		t.Setenv("SHELL", "")
		shell, args := getShell()
		assert.Equal(t, "sh", shell)
		assert.Equal(t, []string{"-c"}, args)
	})
}

// TestSplitCommandLines tests the behavior of splitCommandLines.
//
// It verifies:
//   - Single and sequential commands
//   - Backslash continuation and trailing pipes join lines
//   - Blank lines and CRLF endings are ignored
func TestSplitCommandLines(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"single", "echo hello", []string{"echo hello"}},
		{"sequential", "echo one\n\necho two\r\necho three", []string{"echo one", "echo two", "echo three"}},
		{"continuation", "pip3 download x \\\n  -d /tmp \\\n  --no-deps", []string{"pip3 download x -d /tmp --no-deps"}},
		{"pipe", "find /tmp -type f |\nsort", []string{"find /tmp -type f | sort"}},
		{"dangling pipe", "echo x |", []string{"echo x"}},
		{"blank", "   \n  ", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, splitCommandLines(tt.in))
		})
	}
}

// TestCommandName tests the behavior of CommandName.
func TestCommandName(t *testing.T) {
	assert.Equal(t, "pip3", CommandName("pip3 download {{package}}"))
	assert.Equal(t, "pip3", CommandName("PIP_NO_INPUT=1 pip3 download {{package}}"))
	assert.Equal(t, "find", CommandName("\n  find {{dir}} -type f\nsort"))
	assert.Equal(t, "", CommandName("   "))
}

// TestExecuteWithContext_Success tests successful command execution.
//
// It verifies:
//   - Output of a simple command is returned
//   - Replacements, environment and working directory are honoured
//   - Sequential commands return the last command's output
func TestExecuteWithContext_Success(t *testing.T) {
	skipOnWindows(t)
	ctx := context.Background()

	t.Run("simple", func(t *testing.T) {
		out, err := executeCommandsWithContext(ctx, "echo hello", nil, "", 0, nil)
		require.NoError(t, err)
		assert.Equal(t, "hello\n", string(out))
	})

	t.Run("replacements", func(t *testing.T) {
		out, err := executeCommandsWithContext(ctx, "echo {{package}}", nil, "", 0, map[string]string{"package": "attrs==23.1.0"})
		require.NoError(t, err)
		assert.Equal(t, "attrs==23.1.0\n", string(out))
	})

	t.Run("env", func(t *testing.T) {
		out, err := executeCommandsWithContext(ctx, "echo $PYTYPED_TEST_VAR", map[string]string{"PYTYPED_TEST_VAR": "value"}, "", 0, nil)
		require.NoError(t, err)
		assert.Equal(t, "value\n", string(out))
	})

	t.Run("working dir", func(t *testing.T) {
		dir := t.TempDir()
		out, err := executeCommandsWithContext(ctx, "pwd", nil, dir, 0, nil)
		require.NoError(t, err)
		resolved, _ := os.Stat(strings.TrimSpace(string(out)))
		expected, _ := os.Stat(dir)
		assert.True(t, os.SameFile(resolved, expected))
	})

	t.Run("sequential", func(t *testing.T) {
		out, err := executeCommandsWithContext(ctx, "echo first\necho second", nil, "", 0, nil)
		require.NoError(t, err)
		assert.Equal(t, "second\n", string(out))
	})

	t.Run("pipe", func(t *testing.T) {
		out, err := executeCommandsWithContext(ctx, "printf 'b\\na\\n' |\nsort", nil, "", 0, nil)
		require.NoError(t, err)
		assert.Equal(t, "a\nb\n", string(out))
	})
}

// TestExecuteWithContext_Failure tests failing command execution.
//
// It verifies:
//   - Non-zero exit yields *CommandError with exit code and combined output
//   - Sequential execution stops at the first failure
//   - Empty templates are rejected
func TestExecuteWithContext_Failure(t *testing.T) {
	skipOnWindows(t)
	ctx := context.Background()

	t.Run("non-zero exit", func(t *testing.T) {
		_, err := executeCommandsWithContext(ctx, "echo out; echo 'ERROR: No matching distribution' >&2; exit 3", nil, "", 0, nil)
		require.Error(t, err)

		var cmdErr *CommandError
		require.True(t, errors.As(err, &cmdErr))
		assert.Equal(t, 3, cmdErr.ExitCode)
		assert.Contains(t, cmdErr.Output, "out")
		assert.Contains(t, cmdErr.Output, "No matching distribution")
		assert.Contains(t, err.Error(), "No matching distribution")
		assert.Equal(t, 3, ExitCode(err))
	})

	t.Run("both streams written together", func(t *testing.T) {
		script := "for i in 1 2 3 4 5 6 7 8; do echo out$i; echo err$i >&2; done; exit 1"
		out, err := executeCommandsWithContext(ctx, script, nil, "", 0, nil)
		require.Error(t, err)

		var cmdErr *CommandError
		require.True(t, errors.As(err, &cmdErr))
		for i := 1; i <= 8; i++ {
			assert.Contains(t, cmdErr.Output, fmt.Sprintf("out%d\n", i))
			assert.Contains(t, cmdErr.Output, fmt.Sprintf("err%d\n", i))
			assert.Contains(t, string(out), fmt.Sprintf("out%d\n", i))
		}
		assert.NotContains(t, string(out), "err1")
	})

	t.Run("stops at first failure", func(t *testing.T) {
		dir := t.TempDir()
		_, err := executeCommandsWithContext(ctx, "false\ntouch marker", nil, dir, 0, nil)
		require.Error(t, err)
		_, statErr := os.Stat(dir + "/marker")
		assert.True(t, os.IsNotExist(statErr))
	})

	t.Run("empty", func(t *testing.T) {
		_, err := executeCommandsWithContext(ctx, "  \n ", nil, "", 0, nil)
		assert.EqualError(t, err, "no commands provided")
	})

	t.Run("timeout", func(t *testing.T) {
		start := time.Now()
		_, err := executeCommandsWithContext(ctx, "sleep 30", nil, "", 1, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "timed out after 1 seconds")
		assert.Less(t, time.Since(start), 20*time.Second)
	})
}

// TestOutputCapture tests that concurrent stdout and stderr writes are all
// kept, with stderr only in the combined stream.
func TestOutputCapture(t *testing.T) {
	capture := &outputCapture{}
	stdout, stderr := capture.stream(true), capture.stream(false)

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = stdout.Write([]byte("o"))
		}()
		go func() {
			defer wg.Done()
			_, _ = stderr.Write([]byte("e"))
		}()
	}
	wg.Wait()

	assert.Equal(t, strings.Repeat("o", 100), capture.stdout.String())
	assert.Equal(t, 200, capture.combined.Len())
	assert.Equal(t, 100, strings.Count(capture.combined.String(), "e"))
}

// TestExecuteWithContext_Cancellation tests context cancellation.
func TestExecuteWithContext_Cancellation(t *testing.T) {
	skipOnWindows(t)

	t.Run("already cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := executeCommandsWithContext(ctx, "echo never", nil, "", 0, nil)
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("cancelled during execution", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		go func() {
			time.Sleep(100 * time.Millisecond)
			cancel()
		}()
		_, err := executeCommandsWithContext(ctx, "sleep 30", nil, "", 0, nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

// TestExitCode tests the behavior of ExitCode.
func TestExitCode(t *testing.T) {
	assert.Equal(t, 0, ExitCode(nil))
	assert.Equal(t, -1, ExitCode(errors.New("plain")))
	assert.Equal(t, 2, ExitCode(&CommandError{ExitCode: 2, Err: errors.New("exit status 2")}))
}
