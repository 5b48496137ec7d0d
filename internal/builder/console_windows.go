//go:build windows

package builder

import (
	"os/exec"
	"syscall"
)

// hideConsole keeps the packager from flashing a console window when the
// builder itself runs without one.
func hideConsole(c *exec.Cmd) {
	c.SysProcAttr = &syscall.SysProcAttr{HideWindow: true}
}
