package views

import (
	"image"

	"pyexe-builder/internal/views/components"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

const Title = "Python → EXE Builder"

// WindowSize matches the fixed layout of the builder form.
var WindowSize = fyne.NewSize(760, 500)

// MainView is the single builder window.
type MainView struct {
	window        fyne.Window
	mainContainer *fyne.Container

	heading     *widget.RichText
	sourceRow   *components.FileRow
	iconRow     *components.FileRow
	distLabel   *widget.Label
	buildButton *widget.Button
	progressBar *components.ProgressBar
	outputLog   *components.OutputLog
	statusBar   *components.StatusBar

	buildHandler        func()
	browseSourceHandler func()
	browseIconHandler   func()
	iconChangedHandler  func(string)
}

// NewMainView builds the window content. distPath is shown read-only.
func NewMainView(window fyne.Window, distPath string) *MainView {
	view := &MainView{window: window}

	view.initializeComponents(distPath)
	view.buildLayout()
	view.setupEventHandlers()

	return view
}

func (mv *MainView) initializeComponents(distPath string) {
	mv.heading = widget.NewRichTextFromMarkdown("# " + Title)

	mv.sourceRow = components.NewFileRow("Python file", "script.py", false)
	mv.iconRow = components.NewFileRow("Icon", ".ico, .png, .jpg or .bmp (optional)", true)

	mv.distLabel = widget.NewLabel(distPath)
	mv.distLabel.Truncation = fyne.TextTruncateEllipsis

	mv.buildButton = widget.NewButtonWithIcon("Build EXE", theme.MediaPlayIcon(), nil)
	mv.buildButton.Importance = widget.SuccessImportance

	mv.progressBar = components.NewProgressBar()
	mv.outputLog = components.NewOutputLog()
	mv.statusBar = components.NewStatusBar(distPath)
}

func (mv *MainView) buildLayout() {
	distRow := container.NewBorder(nil, nil, widget.NewLabel("Output folder"), nil, mv.distLabel)

	form := container.NewVBox(
		mv.heading,
		mv.sourceRow.GetContainer(),
		mv.iconRow.GetContainer(),
		distRow,
		widget.NewSeparator(),
		container.NewCenter(mv.buildButton),
		mv.progressBar.GetContainer(),
	)

	mv.mainContainer = container.NewBorder(
		form,
		mv.statusBar.GetContainer(),
		nil,
		nil,
		mv.outputLog.GetContainer(),
	)

	mv.window.SetContent(container.NewPadded(mv.mainContainer))
}

func (mv *MainView) setupEventHandlers() {
	mv.buildButton.OnTapped = func() {
		if mv.buildHandler != nil {
			mv.buildHandler()
		}
	}
	mv.sourceRow.SetBrowseHandler(func() {
		if mv.browseSourceHandler != nil {
			mv.browseSourceHandler()
		}
	})
	mv.iconRow.SetBrowseHandler(func() {
		if mv.browseIconHandler != nil {
			mv.browseIconHandler()
		}
	})
	mv.iconRow.SetOnChanged(func(text string) {
		if mv.iconChangedHandler != nil {
			mv.iconChangedHandler(text)
		}
	})
}

// Event handler setters - called by controller

func (mv *MainView) SetBuildHandler(handler func()) {
	mv.buildHandler = handler
}

func (mv *MainView) SetBrowseSourceHandler(handler func()) {
	mv.browseSourceHandler = handler
}

func (mv *MainView) SetBrowseIconHandler(handler func()) {
	mv.browseIconHandler = handler
}

// SetIconChangedHandler is called with the icon entry text on every edit.
func (mv *MainView) SetIconChangedHandler(handler func(string)) {
	mv.iconChangedHandler = handler
}

// Form accessors. Reads happen on the UI goroutine from button callbacks.

func (mv *MainView) SourcePath() string {
	return mv.sourceRow.Text()
}

func (mv *MainView) IconPath() string {
	return mv.iconRow.Text()
}

// Prefill sets the form before the event loop starts. Empty values are
// skipped.
func (mv *MainView) Prefill(source, icon string) {
	if source != "" {
		mv.sourceRow.SetText(source)
	}
	if icon != "" {
		mv.iconRow.SetText(icon)
	}
}

func (mv *MainView) SetSourcePath(path string) {
	fyne.Do(func() {
		mv.sourceRow.SetText(path)
	})
}

// SetIconPath fills the icon entry, which also fires the changed handler.
func (mv *MainView) SetIconPath(path string) {
	fyne.Do(func() {
		mv.iconRow.SetText(path)
	})
}

func (mv *MainView) SetIconPreview(img image.Image) {
	fyne.Do(func() {
		mv.iconRow.SetPreview(img)
	})
}

// Output surface

// Reset clears the output log
func (mv *MainView) Reset() {
	fyne.Do(func() {
		mv.outputLog.Clear()
	})
}

// Append writes text to the output log
func (mv *MainView) Append(text string) {
	fyne.Do(func() {
		mv.outputLog.Append(text)
	})
}

// OutputText returns the log contents
func (mv *MainView) OutputText() string {
	return mv.outputLog.Text()
}

// SetBuilding locks the form and shows the activity bar while a build runs
func (mv *MainView) SetBuilding(active bool) {
	fyne.Do(func() {
		mv.progressBar.SetVisible(active)
		mv.sourceRow.SetEnabled(!active)
		mv.iconRow.SetEnabled(!active)
		if active {
			mv.buildButton.Disable()
		} else {
			mv.buildButton.Enable()
		}
	})
}

// IsBuilding reports whether the form is in its building state
func (mv *MainView) IsBuilding() bool {
	return mv.progressBar.IsVisible()
}

// UpdateStatus updates the status bar message
func (mv *MainView) UpdateStatus(status string) {
	fyne.Do(func() {
		mv.statusBar.SetStatus(status)
	})
}

// StatusText returns the current status message
func (mv *MainView) StatusText() string {
	return mv.statusBar.GetStatus()
}

// Dialogs

// ShowError displays a titled error dialog
func (mv *MainView) ShowError(title string, err error) {
	fyne.Do(func() {
		message := widget.NewLabel(err.Error())
		message.Wrapping = fyne.TextWrapWord
		content := container.NewBorder(nil, nil, widget.NewIcon(theme.ErrorIcon()), nil, message)

		d := dialog.NewCustom(title, "OK", content, mv.window)
		d.Resize(fyne.NewSize(420, 0))
		d.Show()
	})
}

// ShowInfo displays an information dialog
func (mv *MainView) ShowInfo(title, message string) {
	fyne.Do(func() {
		dialog.ShowInformation(title, message, mv.window)
	})
}

// ShowOpenDialog shows a file picker filtered to extensions, starting in
// startDir when it is a listable directory.
func (mv *MainView) ShowOpenDialog(startDir string, extensions []string, callback func(path string)) {
	fyne.Do(func() {
		d := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
			if err != nil {
				dialog.ShowError(err, mv.window)
				return
			}
			if reader == nil {
				return
			}
			path := reader.URI().Path()
			reader.Close()
			callback(path)
		}, mv.window)

		d.SetFilter(storage.NewExtensionFileFilter(extensions))
		if startDir != "" {
			if lister, err := storage.ListerForURI(storage.NewFileURI(startDir)); err == nil {
				d.SetLocation(lister)
			}
		}
		d.Resize(fyne.NewSize(WindowSize.Width-40, WindowSize.Height-40))
		d.Show()
	})
}

// Window lifecycle

// Show displays the view
func (mv *MainView) Show() {
	fyne.Do(func() {
		mv.window.Show()
	})
}

// ShowConfirm displays a confirmation dialog
func (mv *MainView) ShowConfirm(title, message string, callback func(bool)) {
	fyne.Do(func() {
		dialog.ShowConfirm(title, message, callback, mv.window)
	})
}

// GetWindow returns the main window
func (mv *MainView) GetWindow() fyne.Window {
	return mv.window
}

// GetIconRow exposes the icon row for tests.
func (mv *MainView) GetIconRow() *components.FileRow {
	return mv.iconRow
}

// GetBuildButton exposes the Build button for tests.
func (mv *MainView) GetBuildButton() *widget.Button {
	return mv.buildButton
}
