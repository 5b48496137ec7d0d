package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"pyexe-builder/internal/builder"
	"pyexe-builder/internal/icon"
	"pyexe-builder/internal/logger"
	"pyexe-builder/internal/models"

	"github.com/google/uuid"
)

const component = "BuildService"

var (
	// ErrBuildFailed wraps a packager run that exited non-zero.
	ErrBuildFailed = errors.New("build failed")
	// ErrBuildInProgress is returned when Build is called while another
	// build holds the slot.
	ErrBuildInProgress = errors.New("build already in progress")
)

// Output is the display surface a build streams text into.
type Output interface {
	Reset()
	Append(text string)
}

// IconPreparer turns the user's icon into something the packager accepts,
// writing any generated file into workDir.
type IconPreparer func(path, workDir string) (string, error)

// BuildService runs one packager invocation at a time.
type BuildService struct {
	runner    builder.CommandRunner
	packager  builder.Packager
	distPath  string
	stateRepo *models.BuildStateRepository
	prepare   IconPreparer
	logger    logger.Logger

	ctx    context.Context
	cancel context.CancelFunc
}

// NewBuildService wires the runner and fixed settings. The service owns a
// context that Shutdown cancels, killing any running child.
func NewBuildService(
	runner builder.CommandRunner,
	packager builder.Packager,
	distPath string,
	stateRepo *models.BuildStateRepository,
	log logger.Logger,
) *BuildService {
	if log == nil {
		log = logger.Nop{}
	}
	ctx, cancel := context.WithCancel(context.Background())

	return &BuildService{
		runner:    runner,
		packager:  packager,
		distPath:  distPath,
		stateRepo: stateRepo,
		prepare:   icon.Prepare,
		logger:    log,
		ctx:       ctx,
		cancel:    cancel,
	}
}

// SetIconPreparer replaces the default gocv-backed converter.
func (s *BuildService) SetIconPreparer(fn IconPreparer) {
	s.prepare = fn
}

// DistPath returns the fixed output directory.
func (s *BuildService) DistPath() string {
	return s.distPath
}

func (s *BuildService) IsBuilding() bool {
	return s.stateRepo.IsBuilding()
}

// Build validates req, runs the packager and streams everything to out.
// The returned result is non-nil whenever the slot was acquired. A
// non-zero exit yields ErrBuildFailed; launch problems yield a
// *builder.LaunchError.
func (s *BuildService) Build(req models.BuildRequest, out Output) (*models.BuildResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if req.DistPath == "" {
		req.DistPath = s.distPath
	}

	buildID := uuid.NewString()
	if !s.stateRepo.TryStart(buildID, req.ScriptName()) {
		return nil, ErrBuildInProgress
	}

	result := &models.BuildResult{
		ID:        buildID,
		Request:   req,
		ExitCode:  -1,
		StartedAt: time.Now(),
	}
	defer func() {
		result.Duration = time.Since(result.StartedAt)
		s.stateRepo.Complete(result)
	}()

	fields := map[string]interface{}{
		"build_id": buildID,
		"source":   req.SourcePath,
		"icon":     req.IconPath,
		"dist":     req.DistPath,
	}
	s.logger.Info(component, "build started", fields)

	out.Reset()

	if req.HasIcon() {
		iconPath, cleanup, err := s.prepareIcon(req.IconPath)
		if err != nil {
			launchErr := &builder.LaunchError{Command: s.packager.Python, Err: err}
			out.Append(fmt.Sprintf("\nError: %v\n", launchErr))
			s.logger.Error(component, launchErr, fields)
			return result, launchErr
		}
		defer cleanup()
		if iconPath != req.IconPath {
			out.Append(fmt.Sprintf("Converted icon:\n%s -> %s\n\n", req.IconPath, iconPath))
			req.IconPath = iconPath
		}
	}

	cmd := builder.NewCommand(s.packager, req)
	result.Command = cmd.String()
	out.Append(fmt.Sprintf("Running command:\n%s\n\n", result.Command))

	code, err := s.runner.Run(s.ctx, cmd, func(line string) {
		result.Lines++
		out.Append(line + "\n")
	})
	result.ExitCode = code
	fields["exit_code"] = code
	fields["lines"] = result.Lines
	fields["duration_ms"] = time.Since(result.StartedAt).Milliseconds()

	if err != nil {
		out.Append(fmt.Sprintf("\nError: %v\n", err))
		s.logger.Error(component, err, fields)
		return result, err
	}

	if code != 0 {
		out.Append(fmt.Sprintf("\nBuild failed with exit code %d\n", code))
		s.logger.Warning(component, "build failed", fields)
		return result, fmt.Errorf("%w: exit code %d", ErrBuildFailed, code)
	}

	out.Append("\nBuild completed successfully!\n")
	s.logger.Info(component, "build completed", fields)
	return result, nil
}

// prepareIcon converts the icon when needed. cleanup removes any temporary
// files and is always safe to call.
func (s *BuildService) prepareIcon(path string) (string, func(), error) {
	noop := func() {}
	if !icon.NeedsConversion(path) {
		return path, noop, nil
	}

	workDir, err := os.MkdirTemp("", "pyexe-icon-")
	if err != nil {
		return "", noop, fmt.Errorf("creating icon work dir: %w", err)
	}
	cleanup := func() {
		if err := os.RemoveAll(workDir); err != nil {
			s.logger.Warning(component, "icon cleanup failed", map[string]interface{}{
				"dir":   workDir,
				"error": err.Error(),
			})
		}
	}

	converted, err := s.prepare(path, workDir)
	if err != nil {
		cleanup()
		return "", noop, fmt.Errorf("preparing icon: %w", err)
	}
	return converted, cleanup, nil
}

// Shutdown cancels the service context. A running packager is killed.
func (s *BuildService) Shutdown() {
	s.logger.Info(component, "shutting down", map[string]interface{}{
		"building": s.stateRepo.IsBuilding(),
	})
	s.cancel()
}
