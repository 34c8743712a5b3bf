//go:build unix

package runner

import (
	"os/exec"
	"syscall"
)

// setProcessGroup places the child in a fresh process group so its own
// descendants can be signaled together.
func setProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

// killProcessGroup sends SIGKILL to the child's process group. Signaling the
// negative pid reaches every member of the group, including grandchildren
// the external executable may have forked.
func killProcessGroup(cmd *exec.Cmd) {
	if cmd.Process == nil {
		return
	}

	pgid, err := syscall.Getpgid(cmd.Process.Pid)
	if err != nil {
		// Fall back to the direct child if the group is already gone.
		_ = cmd.Process.Kill()
		return
	}

	_ = syscall.Kill(-pgid, syscall.SIGKILL)
}
