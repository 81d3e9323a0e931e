package preflight

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/panliu5000/mypy-dependency-recommender/pkg/errors"
	"github.com/panliu5000/mypy-dependency-recommender/pkg/testutil"
)

// stubLookup makes only the named commands resolvable.
func stubLookup(t *testing.T, available ...string) {
	t.Helper()
	set := make(map[string]bool)
	for _, a := range available {
		set[a] = true
	}
	origLook, origExists := lookPath, commandExists
	lookPath = func(file string) (string, error) {
		if set[file] {
			return "/usr/bin/" + file, nil
		}
		return "", fmt.Errorf("exec: %q: executable file not found in $PATH", file)
	}
	commandExists = func(string) bool { return false }
	t.Cleanup(func() { lookPath, commandExists = origLook, origExists })
}

// TestExtractCommands tests command discovery in templates.
func TestExtractCommands(t *testing.T) {
	tests := []struct {
		name     string
		commands string
		want     []string
	}{
		{"empty", "   ", nil},
		{"default download", testutil.DefaultDownloadCommand, []string{"pip3"}},
		{"env assignment", "PIP_NO_INPUT=1 pip download {{package}}", []string{"pip"}},
		{"pipeline", "find {{dir}} -type f | sort", []string{"find", "sort"}},
		{"and list with redirect", "cd {{dir}} && uv pip download {{package}} 2>&1", []string{"uv"}},
		{"multiline with comment", "# fetch\npython3 -m pip download {{package}} \\\n  -d {{dir}}\nls {{dir}}", []string{"python3", "ls"}},
		{"placeholder command", "{{python}} -m pip download {{package}}", nil},
		{"duplicates", "pip3 download a; pip3 download b", []string{"pip3"}},
		{"crlf", "pip3 download {{package}}\r\nls {{dir}}\r\n", []string{"pip3", "ls"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractCommands(tt.commands))
		})
	}
}

// TestValidateConfig tests validation of the configured templates.
func TestValidateConfig(t *testing.T) {
	t.Run("all present", func(t *testing.T) {
		stubLookup(t, "pip3", "find")
		cfg := testutil.NewConfig().WithList("find {{dir}} -type f").Build()

		result := ValidateConfig(cfg)
		assert.False(t, result.HasErrors())
		assert.Equal(t, []string{"pip3", "find"}, result.Checked)
		assert.Empty(t, result.ErrorMessage())
		assert.NoError(t, result.Err())
	})

	t.Run("missing download command", func(t *testing.T) {
		stubLookup(t, "find")
		cfg := testutil.NewConfig().WithList("find {{dir}} -type f").Build()

		result := ValidateConfig(cfg)
		require.True(t, result.HasErrors())
		require.Len(t, result.Errors, 1)
		assert.Equal(t, "pip3", result.Errors[0].Command)
		assert.Equal(t, "download.commands", result.Errors[0].Source)
		assert.Contains(t, result.Errors[0].Hint, "python.org")

		msg := result.ErrorMessage()
		assert.True(t, strings.HasPrefix(msg, "Pre-flight validation failed:\n"))
		assert.Contains(t, msg, "command not found: pip3 (download.commands)")

		err := result.Err()
		require.Error(t, err)
		assert.Equal(t, errors.ExitConfigError, errors.GetExitCode(err))
	})

	t.Run("unknown command without hint", func(t *testing.T) {
		stubLookup(t, "pip3")
		cfg := testutil.NewConfig().WithList("artifact-finder {{dir}}").Build()

		result := ValidateConfig(cfg)
		require.Len(t, result.Errors, 1)
		assert.Equal(t, "list.commands", result.Errors[0].Source)
		assert.Empty(t, result.Errors[0].Hint)
		assert.Contains(t, result.Errors[0].Error(), "Ensure 'artifact-finder' is installed")
	})

	t.Run("shell alias accepted", func(t *testing.T) {
		stubLookup(t)
		commandExists = func(cmd string) bool { return cmd == "pip3" }

		result := ValidateConfig(testutil.NewConfig().Build())
		assert.False(t, result.HasErrors())
	})

	t.Run("native listing checks download only", func(t *testing.T) {
		stubLookup(t, "pip3")
		result := ValidateConfig(testutil.NewConfig().Build())
		assert.Equal(t, []string{"pip3"}, result.Checked)
	})
}

// TestGetShellCommandCheck tests the shell invocation used for aliases.
func TestGetShellCommandCheck(t *testing.T) {
	t.Setenv("SHELL", "/bin/zsh")
	shell, args := getShellCommandCheck("pip3")
	assert.Equal(t, "/bin/zsh", shell)
	assert.Equal(t, []string{"-l", "-c", "command -v 'pip3'"}, args)

	t.Setenv("SHELL", "")
	shell, args = getShellCommandCheck("it's")
	assert.Equal(t, "sh", shell)
	assert.Equal(t, `command -v 'it'\''s'`, args[2])
}
