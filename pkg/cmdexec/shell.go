package cmdexec

// getDefaultShell returns the fallback shell used when SHELL is unset.
func getDefaultShell() (shell string, args []string) {
	return "sh", []string{"-c"}
}
