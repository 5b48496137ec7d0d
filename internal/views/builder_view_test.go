package views

import (
	"errors"
	"strings"
	"testing"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestView(t *testing.T) *MainView {
	t.Helper()
	app := test.NewApp()
	t.Cleanup(app.Quit)

	window := app.NewWindow(Title)
	t.Cleanup(window.Close)
	return NewMainView(window, "/fixed/dist")
}

func TestMainView_BuildButtonInvokesHandler(t *testing.T) {
	view := newTestView(t)
	tapped := 0
	view.SetBuildHandler(func() { tapped++ })

	test.Tap(view.GetBuildButton())

	assert.Equal(t, 1, tapped)
}

func TestMainView_OutputAppendsInOrder(t *testing.T) {
	view := newTestView(t)

	view.Append("stale\n")
	view.Reset()
	for _, line := range []string{"one\n", "two\n", "three\n"} {
		view.Append(line)
	}

	assert.Eventually(t, func() bool {
		return view.OutputText() == "one\ntwo\nthree\n"
	}, waitFor, tick)
}

func TestMainView_SetBuildingLocksForm(t *testing.T) {
	view := newTestView(t)

	view.SetBuilding(true)
	assert.Eventually(t, func() bool {
		return view.GetBuildButton().Disabled() && view.IsBuilding()
	}, waitFor, tick)

	view.SetBuilding(false)
	assert.Eventually(t, func() bool {
		return !view.GetBuildButton().Disabled() && !view.IsBuilding()
	}, waitFor, tick)
}

func TestMainView_PathsRoundTrip(t *testing.T) {
	view := newTestView(t)
	var changed []string
	view.SetIconChangedHandler(func(p string) { changed = append(changed, p) })

	view.SetSourcePath("/src/app.py")
	view.SetIconPath("/img/app.ico")

	assert.Eventually(t, func() bool {
		return view.SourcePath() == "/src/app.py" && view.IconPath() == "/img/app.ico"
	}, waitFor, tick)
	require.NotEmpty(t, changed)
	assert.Equal(t, "/img/app.ico", changed[len(changed)-1])
}

func TestMainView_StatusAndDialogs(t *testing.T) {
	view := newTestView(t)

	view.UpdateStatus("Building app.py...")
	assert.Eventually(t, func() bool {
		return view.StatusText() == "Building app.py..."
	}, waitFor, tick)

	view.ShowInfo("Success", "done")
	view.ShowError("Build Failed", errors.New("Exit code: 1"))

	assert.Eventually(t, func() bool {
		overlays := view.GetWindow().Canvas().Overlays().List()
		return len(overlays) > 0
	}, waitFor, tick)
}

func TestMainView_IconRowNamesAcceptedFormats(t *testing.T) {
	view := newTestView(t)

	assert.Equal(t, "Icon", view.GetIconRow().LabelText())
	assert.NotContains(t, view.GetIconRow().LabelText(), ".ico")
}

func TestTitle(t *testing.T) {
	assert.True(t, strings.HasSuffix(Title, "EXE Builder"))
	assert.Equal(t, float32(760), WindowSize.Width)
}
