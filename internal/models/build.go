package models

import (
	"errors"
	"path/filepath"
	"strings"
	"time"
)

// ErrNoSourceFile is returned when a build is requested without a script.
var ErrNoSourceFile = errors.New("please select a Python file")

// BuildRequest is the form state captured when Build is pressed.
type BuildRequest struct {
	SourcePath string
	IconPath   string
	DistPath   string
}

// NewBuildRequest trims the user-entered paths. DistPath is taken as is.
func NewBuildRequest(source, icon, dist string) BuildRequest {
	return BuildRequest{
		SourcePath: strings.TrimSpace(source),
		IconPath:   strings.TrimSpace(icon),
		DistPath:   dist,
	}
}

// Validate enforces the only precondition of a build: a source file.
func (r BuildRequest) Validate() error {
	if strings.TrimSpace(r.SourcePath) == "" {
		return ErrNoSourceFile
	}
	return nil
}

// HasIcon reports whether an icon should be passed to the packager.
func (r BuildRequest) HasIcon() bool {
	return strings.TrimSpace(r.IconPath) != ""
}

// ScriptName returns the base name of the source file, used in status text.
func (r BuildRequest) ScriptName() string {
	if r.SourcePath == "" {
		return ""
	}
	return filepath.Base(r.SourcePath)
}

// BuildResult describes a finished build attempt.
type BuildResult struct {
	ID        string
	Request   BuildRequest
	Command   string
	ExitCode  int
	Lines     int
	StartedAt time.Time
	Duration  time.Duration
}

// Succeeded reports a zero exit code.
func (r BuildResult) Succeeded() bool {
	return r.ExitCode == 0
}
