//go:build windows

package hooks

import (
	"context"
	"os/exec"
	"syscall"
)

// shellCommand wraps a command line in cmd.exe
func shellCommand(ctx context.Context, command string) *exec.Cmd {
	return exec.CommandContext(ctx, "cmd", "/c", command)
}

// configureProcessGroup creates a new process group for the hook
func configureProcessGroup(cmd *exec.Cmd) {
	if cmd.SysProcAttr == nil {
		cmd.SysProcAttr = &syscall.SysProcAttr{}
	}
	cmd.SysProcAttr.CreationFlags = syscall.CREATE_NEW_PROCESS_GROUP
}

// signalStop stops the hook process. Windows has no SIGTERM, so this
// kills directly.
func signalStop(cmd *exec.Cmd) error {
	if cmd.Process == nil {
		return nil
	}
	return cmd.Process.Kill()
}
