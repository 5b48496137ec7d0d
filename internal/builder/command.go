// Package builder turns a build request into a packager command line and
// runs it, streaming the merged output line by line.
package builder

import (
	"strings"

	"pyexe-builder/internal/models"
)

// Packager identifies the external tool: an interpreter, the module it runs
// with -m, and the fixed flags placed ahead of the per-build options.
type Packager struct {
	Python string
	Module string
	Flags  []string
}

// Command is a ready-to-run program invocation.
type Command struct {
	Name string
	Args []string
}

// NewCommand lays out
//
//	<python> -m <module> <flags...> --distpath=<dist> [--icon=<icon>] <source>
//
// The icon flag is present only when the request carries an icon.
func NewCommand(p Packager, req models.BuildRequest) Command {
	args := make([]string, 0, len(p.Flags)+6)
	args = append(args, "-m", p.Module)
	args = append(args, p.Flags...)
	args = append(args, "--distpath="+req.DistPath)

	if req.HasIcon() {
		args = append(args, "--icon="+req.IconPath)
	}

	args = append(args, req.SourcePath)

	return Command{Name: p.Python, Args: args}
}

// Argv returns the program followed by its arguments.
func (c Command) Argv() []string {
	return append([]string{c.Name}, c.Args...)
}

// String joins the argv with spaces for display. It is not shell-quoted.
func (c Command) String() string {
	return strings.Join(c.Argv(), " ")
}
