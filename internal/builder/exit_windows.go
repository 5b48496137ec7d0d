//go:build windows

package builder

import "os/exec"

func exitCode(exitErr *exec.ExitError) int {
	if code := exitErr.ExitCode(); code != 0 {
		return code
	}
	return -1
}
