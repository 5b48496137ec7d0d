package components

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// StatusBar displays build status and the fixed output folder
type StatusBar struct {
	container   *fyne.Container
	statusLabel *widget.Label
	outputLabel *widget.Label
}

// NewStatusBar creates a new status bar component
func NewStatusBar(distPath string) *StatusBar {
	sb := &StatusBar{}
	sb.createComponents(distPath)
	sb.buildLayout()
	return sb
}

func (sb *StatusBar) createComponents(distPath string) {
	sb.statusLabel = widget.NewLabel("Ready")
	sb.outputLabel = widget.NewLabel(fmt.Sprintf("Output: %s", distPath))
	sb.outputLabel.Truncation = fyne.TextTruncateEllipsis
}

func (sb *StatusBar) buildLayout() {
	sb.container = container.NewBorder(nil, nil, sb.statusLabel, nil,
		container.NewHBox(widget.NewSeparator(), sb.outputLabel))
}

// SetStatus updates the main status message
func (sb *StatusBar) SetStatus(status string) {
	sb.statusLabel.SetText(status)
}

// GetStatus returns the current status message
func (sb *StatusBar) GetStatus() string {
	return sb.statusLabel.Text
}

// Reset resets the status bar to initial state
func (sb *StatusBar) Reset() {
	sb.statusLabel.SetText("Ready")
}

// GetContainer returns the status bar container
func (sb *StatusBar) GetContainer() *fyne.Container {
	return sb.container
}

// ProgressBar is an indeterminate activity indicator shown while a build
// runs; the packager reports no measurable progress.
type ProgressBar struct {
	container   *fyne.Container
	progressBar *widget.ProgressBarInfinite
	visible     bool
}

// NewProgressBar creates a new progress bar component
func NewProgressBar() *ProgressBar {
	pb := &ProgressBar{}
	pb.progressBar = widget.NewProgressBarInfinite()
	pb.progressBar.Stop()
	pb.container = container.NewStack(pb.progressBar)
	pb.container.Hide()
	return pb
}

// SetVisible shows and animates, or stops and hides, the indicator
func (pb *ProgressBar) SetVisible(visible bool) {
	pb.visible = visible
	if visible {
		pb.container.Show()
		pb.progressBar.Start()
	} else {
		pb.progressBar.Stop()
		pb.container.Hide()
	}
}

// IsVisible returns true if the progress bar is visible
func (pb *ProgressBar) IsVisible() bool {
	return pb.visible
}

// GetContainer returns the progress bar container
func (pb *ProgressBar) GetContainer() *fyne.Container {
	return pb.container
}
