package controllers

import (
	"context"
	"errors"
	"image"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pyexe-builder/internal/builder"
	"pyexe-builder/internal/models"
	"pyexe-builder/internal/services"
)

type dialogCall struct {
	title   string
	message string
}

type fakeView struct {
	mu sync.Mutex

	source, iconPath string
	output           strings.Builder
	building         []bool
	statuses         []string
	errs             []dialogCall
	infos            []dialogCall
	preview          image.Image
	dialogExts       []string
	dialogStart      string
	pick             string

	build, browseSource, browseIcon func()
	iconChanged                     func(string)
}

func (v *fakeView) Reset() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.output.Reset()
}

func (v *fakeView) Append(text string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.output.WriteString(text)
}

func (v *fakeView) SourcePath() string { return v.source }
func (v *fakeView) IconPath() string   { return v.iconPath }

func (v *fakeView) SetSourcePath(p string) { v.source = p }

func (v *fakeView) SetIconPath(p string) {
	v.iconPath = p
	if v.iconChanged != nil {
		v.iconChanged(p)
	}
}

func (v *fakeView) SetIconPreview(img image.Image) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.preview = img
}

func (v *fakeView) SetBuilding(active bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.building = append(v.building, active)
}

func (v *fakeView) UpdateStatus(status string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.statuses = append(v.statuses, status)
}

func (v *fakeView) ShowError(title string, err error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.errs = append(v.errs, dialogCall{title, err.Error()})
}

func (v *fakeView) ShowInfo(title, message string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.infos = append(v.infos, dialogCall{title, message})
}

func (v *fakeView) ShowOpenDialog(startDir string, exts []string, cb func(string)) {
	v.dialogStart = startDir
	v.dialogExts = exts
	if v.pick != "" {
		cb(v.pick)
	}
}

func (v *fakeView) SetBuildHandler(h func())             { v.build = h }
func (v *fakeView) SetBrowseSourceHandler(h func())      { v.browseSource = h }
func (v *fakeView) SetBrowseIconHandler(h func())        { v.browseIcon = h }
func (v *fakeView) SetIconChangedHandler(h func(string)) { v.iconChanged = h }

type scriptedRunner struct {
	mu    sync.Mutex
	calls int
	lines []string
	code  int
	err   error
}

func (r *scriptedRunner) Run(_ context.Context, _ builder.Command, sink builder.LineSink) (int, error) {
	r.mu.Lock()
	r.calls++
	r.mu.Unlock()
	if r.err != nil {
		return -1, r.err
	}
	for _, l := range r.lines {
		sink(l)
	}
	return r.code, nil
}

func setup(t *testing.T, runner builder.CommandRunner) (*MainController, *fakeView) {
	t.Helper()
	svc := services.NewBuildService(runner,
		builder.Packager{Python: "python", Module: "PyInstaller", Flags: []string{"--onefile", "--noconsole"}},
		"/fixed/dist", models.NewBuildStateRepository(), nil)
	mc := NewMainController(svc, nil)
	view := &fakeView{}
	mc.SetMainView(view)
	return mc, view
}

func TestSetMainView_RegistersHandlers(t *testing.T) {
	_, view := setup(t, &scriptedRunner{})
	assert.NotNil(t, view.build)
	assert.NotNil(t, view.browseSource)
	assert.NotNil(t, view.browseIcon)
	assert.NotNil(t, view.iconChanged)
}

func TestStartBuild_EmptySourceShowsValidationError(t *testing.T) {
	runner := &scriptedRunner{}
	mc, view := setup(t, runner)

	view.build()
	mc.Wait()

	assert.Zero(t, runner.calls, "no subprocess launched")
	require.Len(t, view.errs, 1)
	assert.Equal(t, "Error", view.errs[0].title)
	assert.Equal(t, "Please select a Python file", view.errs[0].message)
	assert.Empty(t, view.building)
	assert.Empty(t, view.infos)
}

func TestStartBuild_SuccessReferencesOutputFolder(t *testing.T) {
	runner := &scriptedRunner{lines: []string{"building..."}}
	mc, view := setup(t, runner)
	view.source = "/src/app.py"

	mc.StartBuild()
	mc.Wait()

	assert.Equal(t, 1, runner.calls)
	require.Len(t, view.infos, 1)
	assert.Equal(t, "Success", view.infos[0].title)
	assert.Contains(t, view.infos[0].message, "/fixed/dist")
	assert.Equal(t, SuccessMessage("/fixed/dist"), view.infos[0].message)
	assert.Empty(t, view.errs)
	assert.Equal(t, []bool{true, false}, view.building)
	assert.Contains(t, view.output.String(), "Build completed successfully!")
}

func TestStartBuild_FailureContainsExitCode(t *testing.T) {
	mc, view := setup(t, &scriptedRunner{code: 2})
	view.source = "app.py"

	mc.StartBuild()
	mc.Wait()

	require.Len(t, view.errs, 1)
	assert.Equal(t, "Build Failed", view.errs[0].title)
	assert.Contains(t, view.errs[0].message, "Exit code: 2")
	assert.Empty(t, view.infos)
	assert.Contains(t, view.output.String(), "Build failed with exit code 2")
}

func TestStartBuild_LaunchErrorShownInLogAndDialog(t *testing.T) {
	launch := &builder.LaunchError{Command: "python", Err: errors.New("executable file not found")}
	mc, view := setup(t, &scriptedRunner{err: launch})
	view.source = "app.py"

	mc.StartBuild()
	mc.Wait()

	require.Len(t, view.errs, 1)
	assert.Equal(t, "Error", view.errs[0].title)
	assert.Contains(t, view.errs[0].message, "executable file not found")
	assert.Contains(t, view.output.String(), "\nError: launching python: executable file not found\n")
}

func TestStartBuild_OutputLinesInOrder(t *testing.T) {
	lines := make([]string, 200)
	for i := range lines {
		lines[i] = "line " + string(rune('a'+i%26))
	}
	mc, view := setup(t, &scriptedRunner{lines: lines})
	view.source = "app.py"

	mc.StartBuild()
	mc.Wait()

	got := view.output.String()
	start := strings.Index(got, "\n\n") + 2
	body := strings.SplitN(got[start:], "\n\nBuild completed", 2)[0]
	assert.Equal(t, lines, strings.Split(body, "\n"))
}

func TestStartBuild_IconFlag(t *testing.T) {
	mc, view := setup(t, &scriptedRunner{})
	view.source = "app.py"
	view.iconPath = "app.ico"

	mc.StartBuild()
	mc.Wait()
	assert.Contains(t, view.output.String(), "--icon=app.ico")

	view.iconPath = ""
	mc.StartBuild()
	mc.Wait()
	assert.NotContains(t, view.output.String(), "--icon")
}

func TestBrowseSource_FiltersPythonFiles(t *testing.T) {
	mc, view := setup(t, &scriptedRunner{})
	view.source = "/work/old.py"
	view.pick = "/work/new.py"

	mc.BrowseSource()

	assert.Equal(t, "/work", view.dialogStart)
	assert.Contains(t, view.dialogExts, ".py")
	assert.Equal(t, "/work/new.py", view.source)
}

func TestBrowseIcon_UpdatesPreview(t *testing.T) {
	mc, view := setup(t, &scriptedRunner{})
	thumb := image.NewRGBA(image.Rect(0, 0, 4, 4))
	mc.SetPreviewFunc(func(string, int) (image.Image, error) { return thumb, nil })

	path := filepath.Join(t.TempDir(), "logo.png")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	view.pick = path

	mc.BrowseIcon()

	assert.Contains(t, view.dialogExts, ".ico")
	assert.Equal(t, path, view.iconPath)
	assert.Eventually(t, func() bool {
		view.mu.Lock()
		defer view.mu.Unlock()
		return view.preview == thumb
	}, time.Second, 5*time.Millisecond)
}

func TestIconPreview_ClearedForMissingFile(t *testing.T) {
	_, view := setup(t, &scriptedRunner{})
	view.preview = image.NewRGBA(image.Rect(0, 0, 1, 1))

	view.SetIconPath(filepath.Join(t.TempDir(), "missing.png"))

	view.mu.Lock()
	defer view.mu.Unlock()
	assert.Nil(t, view.preview)
}

type blockingRunner struct {
	started chan struct{}
	release chan struct{}
	calls   atomic.Int32
}

func (r *blockingRunner) Run(_ context.Context, _ builder.Command, sink builder.LineSink) (int, error) {
	if r.calls.Add(1) == 1 {
		close(r.started)
	}
	<-r.release
	sink("done")
	return 0, nil
}

func TestStartBuild_SecondActivationLeavesFormLocked(t *testing.T) {
	runner := &blockingRunner{started: make(chan struct{}), release: make(chan struct{})}
	mc, view := setup(t, runner)
	view.source = "app.py"

	mc.StartBuild()
	mc.StartBuild()
	<-runner.started

	view.mu.Lock()
	assert.Equal(t, []bool{true}, view.building, "form stays locked while the first build streams")
	assert.Contains(t, view.statuses, "A build is already running")
	view.mu.Unlock()

	close(runner.release)
	mc.Wait()

	assert.Equal(t, int32(1), runner.calls.Load())
	assert.Equal(t, []bool{true, false}, view.building)
	assert.Len(t, view.infos, 1)
	assert.Empty(t, view.errs)
}

func TestStartBuild_AllowsNextBuildAfterCompletion(t *testing.T) {
	runner := &scriptedRunner{}
	mc, view := setup(t, runner)
	view.source = "app.py"

	mc.StartBuild()
	mc.Wait()
	mc.StartBuild()
	mc.Wait()

	assert.Equal(t, 2, runner.calls)
	assert.Equal(t, []bool{true, false, true, false}, view.building)
}

func TestMessages(t *testing.T) {
	assert.Equal(t, "EXE build completed successfully!\nOutput folder:\nC:\\out", SuccessMessage(`C:\out`))
	assert.Equal(t, "Check output window for details.\nExit code: 7", FailureMessage(7))
}
