package builder

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
)

// maxLineSize bounds a single output line. PyInstaller tracebacks can be
// long but never approach this.
const maxLineSize = 1024 * 1024

// LineSink receives each output line, without its trailing newline, in the
// order the child wrote it.
type LineSink func(line string)

// CommandRunner runs a packager command to completion.
type CommandRunner interface {
	Run(ctx context.Context, cmd Command, sink LineSink) (int, error)
}

// LaunchError reports that the child never ran or its output could not be
// read. It is distinct from a non-zero exit.
type LaunchError struct {
	Command string
	Err     error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("launching %s: %v", e.Command, e.Err)
}

func (e *LaunchError) Unwrap() error {
	return e.Err
}

// ExecRunner implements CommandRunner with os/exec.
type ExecRunner struct {
	// Dir is the working directory of the child. Empty means inherit.
	Dir string
	// Env replaces the child environment when non-nil.
	Env []string
}

var _ CommandRunner = (*ExecRunner)(nil)

func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

// Run starts cmd with stdout and stderr sharing one pipe, feeds every line
// to sink, and waits. The exit code is returned with a nil error for any
// process that ran, including one killed by a signal; a *LaunchError is
// returned when the child could not start or the context was cancelled.
func (r *ExecRunner) Run(ctx context.Context, cmd Command, sink LineSink) (int, error) {
	c := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	c.Dir = r.Dir
	if r.Env != nil {
		c.Env = r.Env
	}
	hideConsole(c)

	stdout, err := c.StdoutPipe()
	if err != nil {
		return -1, &LaunchError{Command: cmd.Name, Err: err}
	}
	// Same writer for both streams keeps the interleaving the child produced.
	c.Stderr = c.Stdout

	if err := c.Start(); err != nil {
		return -1, &LaunchError{Command: cmd.Name, Err: err}
	}

	scanner := bufio.NewScanner(stdout)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for scanner.Scan() {
		if sink != nil {
			sink(scanner.Text())
		}
	}
	scanErr := scanner.Err()
	if scanErr != nil {
		// Keep the child from blocking on a full pipe.
		_, _ = io.Copy(io.Discard, stdout)
	}

	waitErr := c.Wait()
	if waitErr != nil {
		if ctx.Err() != nil {
			return -1, &LaunchError{Command: cmd.Name, Err: ctx.Err()}
		}
		var exitErr *exec.ExitError
		if errors.As(waitErr, &exitErr) {
			return exitCode(exitErr), nil
		}
		return -1, &LaunchError{Command: cmd.Name, Err: waitErr}
	}

	if scanErr != nil {
		return 0, &LaunchError{Command: cmd.Name, Err: fmt.Errorf("reading output: %w", scanErr)}
	}
	return 0, nil
}
