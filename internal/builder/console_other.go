//go:build !windows

package builder

import "os/exec"

func hideConsole(*exec.Cmd) {}
