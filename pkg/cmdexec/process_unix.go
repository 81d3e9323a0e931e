//go:build unix

package cmdexec

import (
	"os/exec"
	"syscall"
)

// setProcGroup starts the command in a new process group so that
// killProcGroup can reach every child it spawns.
func setProcGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Setpgid: true,
	}
}

// killProcGroup sends SIGKILL to the command's whole process group.
//
// Returns:
//   - error: Error if the kill operation fails, nil if successful or the process never started
func killProcGroup(cmd *exec.Cmd) error {
	if cmd.Process == nil {
		return nil
	}
	// Negative PID targets the process group.
	return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
}
