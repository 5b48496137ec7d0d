//go:build !windows

package builder

import (
	"os/exec"
	"syscall"
)

// exitCode reports a signal death as the negated signal number, e.g. -9
// for SIGKILL.
func exitCode(exitErr *exec.ExitError) int {
	if code := exitErr.ExitCode(); code >= 0 {
		return code
	}
	if ws, ok := exitErr.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		return -int(ws.Signal())
	}
	return -1
}
