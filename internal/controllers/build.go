package controllers

import (
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"pyexe-builder/internal/icon"
	"pyexe-builder/internal/logger"
	"pyexe-builder/internal/models"
	"pyexe-builder/internal/services"
)

const (
	component       = "MainController"
	iconPreviewSize = 32

	// ValidationMessage is shown when Build is pressed without a script.
	ValidationMessage = "Please select a Python file"
)

// View is what the controller needs from the window. Every method must be
// safe to call from a background goroutine.
type View interface {
	services.Output

	SourcePath() string
	IconPath() string
	SetSourcePath(path string)
	SetIconPath(path string)
	SetIconPreview(img image.Image)

	SetBuilding(active bool)
	UpdateStatus(status string)

	ShowError(title string, err error)
	ShowInfo(title, message string)
	ShowOpenDialog(startDir string, extensions []string, callback func(path string))

	SetBuildHandler(handler func())
	SetBrowseSourceHandler(handler func())
	SetBrowseIconHandler(handler func())
	SetIconChangedHandler(handler func(path string))
}

// Builder is the build service surface used by the controller.
type Builder interface {
	Build(req models.BuildRequest, out services.Output) (*models.BuildResult, error)
	IsBuilding() bool
	DistPath() string
}

// PreviewFunc renders an icon thumbnail.
type PreviewFunc func(path string, size int) (image.Image, error)

// MainController wires the builder window to the build service.
type MainController struct {
	builder Builder
	view    View
	logger  logger.Logger
	preview PreviewFunc

	wg         sync.WaitGroup
	active     atomic.Bool
	previewGen atomic.Uint64
}

// NewMainController creates a controller. Call SetMainView before use.
func NewMainController(b Builder, log logger.Logger) *MainController {
	if log == nil {
		log = logger.Nop{}
	}
	return &MainController{
		builder: b,
		logger:  log,
		preview: icon.Preview,
	}
}

// SetPreviewFunc replaces the gocv thumbnail renderer.
func (mc *MainController) SetPreviewFunc(fn PreviewFunc) {
	mc.preview = fn
}

// SetMainView associates the view and registers its handlers.
func (mc *MainController) SetMainView(view View) {
	mc.view = view
	view.SetBuildHandler(mc.StartBuild)
	view.SetBrowseSourceHandler(mc.BrowseSource)
	view.SetBrowseIconHandler(mc.BrowseIcon)
	view.SetIconChangedHandler(mc.refreshIconPreview)
}

// BrowseSource opens a picker restricted to Python files.
func (mc *MainController) BrowseSource() {
	mc.view.ShowOpenDialog(dirOf(mc.view.SourcePath()), []string{".py", ".pyw"}, func(path string) {
		mc.view.SetSourcePath(path)
		mc.logger.Debug(component, "source selected", map[string]interface{}{"path": path})
	})
}

// BrowseIcon opens a picker for icon and raster image files.
func (mc *MainController) BrowseIcon() {
	mc.view.ShowOpenDialog(dirOf(mc.view.IconPath()), icon.Extensions(), func(path string) {
		mc.view.SetIconPath(path)
		mc.logger.Debug(component, "icon selected", map[string]interface{}{"path": path})
	})
}

// StartBuild validates the form on the calling (UI) goroutine and runs
// the build in the background. The build slot is claimed here, before the
// goroutine starts, so a second activation is rejected immediately.
func (mc *MainController) StartBuild() {
	req := models.NewBuildRequest(mc.view.SourcePath(), mc.view.IconPath(), mc.builder.DistPath())

	if err := req.Validate(); err != nil {
		mc.logger.Debug(component, "build rejected", map[string]interface{}{"reason": err.Error()})
		mc.view.ShowError("Error", errors.New(ValidationMessage))
		return
	}

	if mc.builder.IsBuilding() || !mc.active.CompareAndSwap(false, true) {
		mc.view.UpdateStatus("A build is already running")
		return
	}

	mc.view.SetBuilding(true)
	mc.view.UpdateStatus(fmt.Sprintf("Building %s...", req.ScriptName()))

	mc.wg.Add(1)
	go mc.performBuild(req)
}

func (mc *MainController) performBuild(req models.BuildRequest) {
	defer mc.wg.Done()
	defer mc.active.Store(false)

	result, err := mc.builder.Build(req, mc.view)
	if errors.Is(err, services.ErrBuildInProgress) {
		// Another caller owns the form state; leave it alone.
		mc.view.UpdateStatus("A build is already running")
		return
	}
	mc.view.SetBuilding(false)

	switch {
	case err == nil:
		mc.view.UpdateStatus(fmt.Sprintf("Build completed in %s", result.Duration.Round(time.Millisecond)))
		mc.view.ShowInfo("Success", SuccessMessage(req.DistPath))

	case errors.Is(err, services.ErrBuildFailed):
		mc.view.UpdateStatus(fmt.Sprintf("Build failed (exit code %d)", result.ExitCode))
		mc.view.ShowError("Build Failed", errors.New(FailureMessage(result.ExitCode)))

	default:
		mc.view.UpdateStatus("Build error")
		mc.view.ShowError("Error", err)
	}
}

// Wait blocks until the in-flight build, if any, has finished reporting.
func (mc *MainController) Wait() {
	mc.wg.Wait()
}

// Shutdown waits for the background build to return. The service is
// expected to have been cancelled first so a running child is killed.
func (mc *MainController) Shutdown() {
	mc.Wait()
	mc.logger.Info(component, "controller stopped", nil)
}

// refreshIconPreview renders the thumbnail off the UI goroutine. Results
// for a path that has since changed are dropped.
func (mc *MainController) refreshIconPreview(path string) {
	gen := mc.previewGen.Add(1)
	if path == "" || mc.preview == nil {
		mc.view.SetIconPreview(nil)
		return
	}
	if _, err := os.Stat(path); err != nil {
		mc.view.SetIconPreview(nil)
		return
	}

	go func() {
		img, err := mc.preview(path, iconPreviewSize)
		if err != nil {
			mc.logger.Debug(component, "icon preview unavailable", map[string]interface{}{
				"path":  path,
				"error": err.Error(),
			})
			img = nil
		}
		if mc.previewGen.Load() == gen {
			mc.view.SetIconPreview(img)
		}
	}()
}

// SuccessMessage is the body of the dialog shown after a zero exit.
func SuccessMessage(distPath string) string {
	return fmt.Sprintf("EXE build completed successfully!\nOutput folder:\n%s", distPath)
}

// FailureMessage is the body of the dialog shown after a non-zero exit.
func FailureMessage(exitCode int) string {
	return fmt.Sprintf("Check output window for details.\nExit code: %d", exitCode)
}

func dirOf(path string) string {
	if path == "" {
		return ""
	}
	return filepath.Dir(path)
}
