//go:build !windows

package hooks

import (
	"context"
	"os/exec"
	"syscall"
)

// shellCommand wraps a command line in the POSIX shell
func shellCommand(ctx context.Context, command string) *exec.Cmd {
	return exec.CommandContext(ctx, "sh", "-c", command)
}

// configureProcessGroup puts the hook in its own process group so
// signals reach spawned children too
func configureProcessGroup(cmd *exec.Cmd) {
	if cmd.SysProcAttr == nil {
		cmd.SysProcAttr = &syscall.SysProcAttr{}
	}
	cmd.SysProcAttr.Setpgid = true
}

// signalStop sends SIGTERM to the hook's process group, falling back
// to the process itself. The exec layer hard kills after the grace
// period via WaitDelay.
func signalStop(cmd *exec.Cmd) error {
	if cmd.Process == nil {
		return nil
	}
	if cmd.SysProcAttr != nil && cmd.SysProcAttr.Setpgid {
		// Negative PID addresses the whole group
		if err := syscall.Kill(-cmd.Process.Pid, syscall.SIGTERM); err == nil {
			return nil
		}
	}
	return cmd.Process.Signal(syscall.SIGTERM)
}
