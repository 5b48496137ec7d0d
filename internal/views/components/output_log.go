package components

import (
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

const outputMinHeight = 240

// OutputLog is the read-only, auto-scrolling build output area.
type OutputLog struct {
	container *fyne.Container
	entry     *widget.Entry
	lines     int
}

func NewOutputLog() *OutputLog {
	ol := &OutputLog{}
	ol.createComponents()
	ol.buildLayout()
	return ol
}

func (ol *OutputLog) createComponents() {
	ol.entry = widget.NewMultiLineEntry()
	ol.entry.TextStyle = fyne.TextStyle{Monospace: true}
	ol.entry.Wrapping = fyne.TextWrapOff
	ol.entry.SetMinRowsVisible(12)
	ol.entry.Disable()
}

func (ol *OutputLog) buildLayout() {
	ol.container = container.NewStack(ol.entry)
}

// Clear empties the log
func (ol *OutputLog) Clear() {
	ol.lines = 0
	ol.entry.SetText("")
}

// Append adds text verbatim and moves the cursor to the last line so the
// newest output stays in view.
func (ol *OutputLog) Append(text string) {
	if text == "" {
		return
	}
	ol.entry.Append(text)
	ol.lines += strings.Count(text, "\n")
	ol.entry.CursorRow = ol.lines
	ol.entry.CursorColumn = 0
	ol.entry.Refresh()
}

// Text returns the full log contents
func (ol *OutputLog) Text() string {
	return ol.entry.Text
}

func (ol *OutputLog) LineCount() int {
	return ol.lines
}

func (ol *OutputLog) GetContainer() *fyne.Container {
	return ol.container
}
