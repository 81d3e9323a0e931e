package preflight

import (
	"os"
	"strings"
)

// getShellCommandCheck returns the shell invocation that reports whether cmd
// exists, using the user's login shell so aliases and functions are loaded.
//
// Parameters:
//   - cmd: The command name to check for existence
//
// Returns:
//   - shell: $SHELL, or "sh" when unset
//   - args: Arguments running 'command -v' on the shell-escaped name
func getShellCommandCheck(cmd string) (shell string, args []string) {
	shell = os.Getenv("SHELL")
	if shell == "" {
		shell = "sh"
	}
	quoted := "'" + strings.ReplaceAll(cmd, "'", `'\''`) + "'"
	return shell, []string{"-l", "-c", "command -v " + quoted}
}
