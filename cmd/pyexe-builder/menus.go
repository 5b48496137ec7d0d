package main

import (
	"fmt"

	"pyexe-builder/internal/config"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
)

func (a *Application) setupMenus() {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Open Script...", a.controller.BrowseSource),
		fyne.NewMenuItem("Choose Icon...", a.controller.BrowseIcon),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Build EXE", a.controller.StartBuild),
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("Configuration", func() {
			dialog.ShowInformation("Configuration", a.configSummary(), a.window)
		}),
		fyne.NewMenuItem("About", func() {
			dialog.ShowInformation("About",
				fmt.Sprintf("%s\nVersion: %s\n\nPackages Python scripts with PyInstaller.", AppName, AppVersion),
				a.window)
		}),
	)

	a.window.SetMainMenu(fyne.NewMainMenu(fileMenu, helpMenu))
}

func (a *Application) configSummary() string {
	return fmt.Sprintf("Python: %s\nPackager: -m %s %v\nOutput folder: %s\n\nUser config: %s",
		a.config.Packager.Python,
		a.config.Packager.Module,
		a.config.Packager.Flags,
		a.config.Output.DistPath,
		config.UserConfigPath(),
	)
}
