package main

import (
	"path/filepath"
	"runtime"

	"pyexe-builder/internal/builder"
	"pyexe-builder/internal/config"
	"pyexe-builder/internal/controllers"
	"pyexe-builder/internal/logger"
	"pyexe-builder/internal/models"
	"pyexe-builder/internal/services"
	"pyexe-builder/internal/shutdown"
	"pyexe-builder/internal/views"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
)

const (
	AppName    = "Python → EXE Builder"
	AppID      = "com.pyexe-builder.app"
	AppVersion = "1.0.0"
)

var _ controllers.View = (*views.MainView)(nil)

// Options carries command line values into the application.
type Options struct {
	ConfigPath string
	LogLevel   string
	SourcePath string
	IconPath   string
}

// Application owns the window and the components behind it
type Application struct {
	fyneApp fyne.App
	window  fyne.Window
	logger  logger.Logger
	config  *config.Config

	controller   *controllers.MainController
	view         *views.MainView
	buildService *services.BuildService
	stateRepo    *models.BuildStateRepository

	shutdown *shutdown.Manager
}

// NewApplication loads configuration and wires models, services,
// controller and view together.
func NewApplication(opts Options) (*Application, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}

	level := opts.LogLevel
	if level == "" {
		level = logger.LevelFromEnv(cfg.Log.Level)
	}
	appLogger := logger.NewConsoleLogger(logger.ParseLevel(level))

	app.SetMetadata(fyne.AppMetadata{
		ID:      AppID,
		Name:    AppName,
		Version: AppVersion,
	})
	fyneApp := app.NewWithID(AppID)

	window := fyneApp.NewWindow(AppName)
	window.Resize(views.WindowSize)
	window.SetFixedSize(true)
	window.CenterOnScreen()

	appLogger.Info("Application", "starting", map[string]interface{}{
		"version":    AppVersion,
		"go_version": runtime.Version(),
		"python":     cfg.Packager.Python,
		"module":     cfg.Packager.Module,
		"dist_path":  cfg.Output.DistPath,
		"log_level":  level,
	})

	stateRepo := models.NewBuildStateRepository()
	packager := builder.Packager{
		Python: cfg.Packager.Python,
		Module: cfg.Packager.Module,
		Flags:  cfg.Packager.Flags,
	}
	buildService := services.NewBuildService(builder.NewExecRunner(), packager, cfg.Output.DistPath, stateRepo, appLogger)

	mainController := controllers.NewMainController(buildService, appLogger)
	mainView := views.NewMainView(window, cfg.Output.DistPath)
	mainController.SetMainView(mainView)

	mainView.Prefill(absOrSame(opts.SourcePath), absOrSame(opts.IconPath))

	shutdownManager := shutdown.NewManager(appLogger)
	// Registered first so it stops last: the service kill must precede the
	// controller wait.
	shutdownManager.Register("controller", mainController)
	shutdownManager.Register("build service", buildService)

	application := &Application{
		fyneApp:      fyneApp,
		window:       window,
		logger:       appLogger,
		config:       cfg,
		controller:   mainController,
		view:         mainView,
		buildService: buildService,
		stateRepo:    stateRepo,
		shutdown:     shutdownManager,
	}
	application.setupWindowEvents()
	application.setupMenus()

	return application, nil
}

// Run shows the window and blocks in the Fyne event loop.
func (a *Application) Run() error {
	a.shutdown.Listen(func() {
		fyne.Do(a.fyneApp.Quit)
	})

	a.window.ShowAndRun()

	a.shutdown.Shutdown()
	a.logger.Info("Application", "terminated", nil)
	return nil
}

// setupWindowEvents asks before closing while a build is running.
func (a *Application) setupWindowEvents() {
	a.window.SetCloseIntercept(func() {
		if !a.stateRepo.IsBuilding() {
			a.window.Close()
			return
		}

		a.logger.Info("Application", "close requested during build", nil)
		a.view.ShowConfirm(
			"Build in progress",
			"A build is still running. Quit and stop it?",
			func(confirmed bool) {
				if confirmed {
					a.window.Close()
				}
			},
		)
	})
}

func absOrSame(path string) string {
	if path == "" {
		return ""
	}
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}
