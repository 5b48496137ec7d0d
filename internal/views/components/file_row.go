package components

import (
	"image"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
)

const (
	labelWidth  = 130
	previewSize = 32
)

// FileRow is a labelled path entry with a Browse button and an optional
// thumbnail slot.
type FileRow struct {
	container    *fyne.Container
	label        *widget.Label
	entry        *widget.Entry
	browseButton *widget.Button
	preview      *canvas.Image
	withPreview  bool

	browseHandler func()
}

// NewFileRow creates a row labelled label. withPreview reserves a
// thumbnail next to the Browse button.
func NewFileRow(label, placeholder string, withPreview bool) *FileRow {
	row := &FileRow{withPreview: withPreview}
	row.createComponents(label, placeholder)
	row.buildLayout()
	return row
}

func (r *FileRow) createComponents(label, placeholder string) {
	r.label = widget.NewLabel(label)
	r.entry = widget.NewEntry()
	r.entry.SetPlaceHolder(placeholder)

	r.browseButton = widget.NewButton("Browse", func() {
		if r.browseHandler != nil {
			r.browseHandler()
		}
	})

	if r.withPreview {
		r.preview = canvas.NewImageFromImage(nil)
		r.preview.FillMode = canvas.ImageFillContain
		r.preview.SetMinSize(fyne.NewSize(previewSize, previewSize))
		r.preview.Hide()
	}
}

func (r *FileRow) buildLayout() {
	labelBox := container.New(layout.NewGridWrapLayout(fyne.NewSize(labelWidth, r.label.MinSize().Height)), r.label)

	right := container.NewHBox(r.browseButton)
	if r.withPreview {
		right = container.NewHBox(r.preview, r.browseButton)
	}

	r.container = container.NewBorder(nil, nil, labelBox, right, r.entry)
}

// SetBrowseHandler sets the callback of the Browse button
func (r *FileRow) SetBrowseHandler(handler func()) {
	r.browseHandler = handler
}

// SetOnChanged is called whenever the entry text changes.
func (r *FileRow) SetOnChanged(handler func(string)) {
	r.entry.OnChanged = handler
}

// LabelText returns the row caption
func (r *FileRow) LabelText() string {
	return r.label.Text
}

func (r *FileRow) Text() string {
	return r.entry.Text
}

func (r *FileRow) SetText(text string) {
	r.entry.SetText(text)
}

// SetPreview shows img as the thumbnail, or hides the slot for nil.
func (r *FileRow) SetPreview(img image.Image) {
	if !r.withPreview {
		return
	}
	if img == nil {
		r.preview.Image = nil
		r.preview.Hide()
		return
	}
	r.preview.Image = img
	r.preview.Show()
	r.preview.Refresh()
}

// HasPreview reports whether a thumbnail is currently shown.
func (r *FileRow) HasPreview() bool {
	return r.withPreview && r.preview.Visible() && r.preview.Image != nil
}

// SetEnabled toggles both the entry and the Browse button.
func (r *FileRow) SetEnabled(enabled bool) {
	if enabled {
		r.entry.Enable()
		r.browseButton.Enable()
	} else {
		r.entry.Disable()
		r.browseButton.Disable()
	}
}

// GetBrowseButton exposes the button for tests.
func (r *FileRow) GetBrowseButton() *widget.Button {
	return r.browseButton
}

func (r *FileRow) GetContainer() *fyne.Container {
	return r.container
}
