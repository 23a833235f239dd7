//go:build !nogui

package gui

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"notepad/internal/config"
	"notepad/internal/filetype"
	"notepad/internal/highlight"
	"notepad/internal/tabs"
	"notepad/pkg/testutils"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/test"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T, cfg *config.Config, opts Options) *App {
	t.Helper()
	reg, err := filetype.NewRegistry(cfg)
	require.NoError(t, err)
	return newApp(test.NewApp(), cfg, reg, opts)
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	return testutils.WriteFile(t, t.TempDir(), name, content)
}

// keywordTexts returns the text of every keyword-colored preview segment.
func keywordTexts(ed *editor) []string {
	var out []string
	for _, seg := range ed.preview.Segments {
		if ts, ok := seg.(*widget.TextSegment); ok && ts.Style.ColorName == colorKeyword {
			out = append(out, ts.Text)
		}
	}
	return out
}

func TestNewApp(t *testing.T) {
	a := newTestApp(t, config.NewTestConfig(), Options{})
	require.NotNil(t, a.GetMainWindow())
	assert.Equal(t, "Notepad", a.GetMainWindow().Title())
	assert.Equal(t, 0, a.Manager().Len())
	assert.Empty(t, a.docTabs.Items)
	assert.Equal(t, ".txt", a.selector.Selected)
	assert.Contains(t, a.status.Text, "No open tabs")

	cfg := config.NewTestConfig()
	cfg.Editor.OpenUntitled = true
	a = newTestApp(t, cfg, Options{})
	require.Len(t, a.docTabs.Items, 1)
	assert.Equal(t, "Untitled *", a.docTabs.Items[0].Text)
	assert.Equal(t, a.docTabs.Items[0], a.docTabs.Selected())
}

func TestOpenFiles(t *testing.T) {
	path := writeFile(t, "main.py", "def f(): pass\n# note\n")
	missing := filepath.Join(t.TempDir(), "missing.txt")

	a := newTestApp(t, config.NewTestConfig(), Options{Files: []string{path, missing}})
	require.Equal(t, 1, a.Manager().Len())
	require.Len(t, a.docTabs.Items, 1)
	assert.Equal(t, "main.py", a.docTabs.Items[0].Text)
	assert.Equal(t, ".py", a.selector.Selected)
	assert.Contains(t, a.status.Text, path)

	ed := a.editors[a.Manager().Active()]
	require.NotNil(t, ed)
	assert.Equal(t, "def f(): pass\n# note\n", ed.entry.Text)
	assert.Equal(t, []string{"def", "pass"}, keywordTexts(ed))
}

func TestTypingUpdatesDocument(t *testing.T) {
	a := newTestApp(t, config.NewTestConfig(), Options{})
	a.newTab()
	a.selector.SetSelected(".py")

	tab := a.Manager().Active()
	require.NotNil(t, tab)
	assert.Equal(t, ".py", tab.Document().FileType().Tag)

	ed := a.editors[tab]
	test.Type(ed.entry, "def f(): pass")
	assert.Equal(t, "def f(): pass", tab.Document().Text())
	assert.True(t, tab.Document().Modified())
	assert.Equal(t, []string{"def", "pass"}, keywordTexts(ed))
	assert.Equal(t, "Untitled *", ed.item.Text)
}

func TestSelectorPersists(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	a := newTestApp(t, config.NewTestConfig(), Options{ConfigPath: cfgPath})

	a.selector.SetSelected(".py")
	assert.Equal(t, ".py", a.Manager().SelectedType().Tag)

	saved, err := config.LoadConfigFile(cfgPath)
	require.NoError(t, err)
	assert.Equal(t, ".py", saved.Editor.DefaultType)
}

func TestCloseTabs(t *testing.T) {
	path := writeFile(t, "notes.txt", "hello")
	a := newTestApp(t, config.NewTestConfig(), Options{Files: []string{path}})
	require.Len(t, a.docTabs.Items, 1)

	// Unmodified tabs close without asking
	a.docTabs.CloseIntercept(a.docTabs.Items[0])
	assert.Equal(t, 0, a.Manager().Len())
	assert.Empty(t, a.docTabs.Items)
	assert.Empty(t, a.editors)

	// A modified tab asks first and stays open meanwhile
	a.newTab()
	a.closeActive()
	assert.Equal(t, 1, a.Manager().Len())
	assert.NotNil(t, a.GetMainWindow().Canvas().Overlays().Top())
}

func TestConfirmButtons(t *testing.T) {
	var hidden int
	var got []tabs.Choice
	buttons := confirmButtons(func() { hidden++ }, func(c tabs.Choice) { got = append(got, c) })
	require.Len(t, buttons, 3)

	labels := make([]string, len(buttons))
	for i, b := range buttons {
		labels[i] = b.(*widget.Button).Text
	}
	assert.Equal(t, []string{"Cancel", "Discard", "Save"}, labels)

	test.Tap(buttons[1].(*widget.Button))
	test.Tap(buttons[2].(*widget.Button))
	assert.Equal(t, 1, hidden)
	assert.Equal(t, []tabs.Choice{tabs.Discard}, got)
}

func TestMoveAndCycle(t *testing.T) {
	a := newTestApp(t, config.NewTestConfig(), Options{})
	a.newTab()
	a.newTab()
	require.Equal(t, 1, a.Manager().ActiveIndex())

	a.move(-1)
	assert.Equal(t, 0, a.Manager().ActiveIndex())
	for i, tab := range a.Manager().Tabs() {
		assert.Equal(t, a.editors[tab].item, a.docTabs.Items[i])
	}
	assert.Equal(t, "Untitled 2 *", a.docTabs.Items[0].Text)
	assert.Equal(t, a.docTabs.Items[0], a.docTabs.Selected())

	a.cycle(1)
	assert.Equal(t, 1, a.Manager().ActiveIndex())
	a.cycle(1)
	assert.Equal(t, 0, a.Manager().ActiveIndex())

	// Selecting in the strip activates in the manager
	a.docTabs.Select(a.docTabs.Items[1])
	assert.Equal(t, 1, a.Manager().ActiveIndex())
}

func TestShortcuts(t *testing.T) {
	a := newTestApp(t, config.NewTestConfig(), Options{})
	newTab := &desktop.CustomShortcut{KeyName: fyne.KeyN, Modifier: fyne.KeyModifierShortcutDefault}

	assert.True(t, a.handleShortcut(newTab))
	require.Equal(t, 1, a.Manager().Len())

	// Editors hand app shortcuts over before handling their own
	ed := a.editors[a.Manager().Active()]
	ed.entry.TypedShortcut(newTab)
	assert.Equal(t, 2, a.Manager().Len())

	assert.False(t, a.handleShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyF12}))
}

func TestChooseFilter(t *testing.T) {
	reg, err := filetype.NewRegistry(config.NewTestConfig())
	require.NoError(t, err)
	filters := reg.Filters()
	require.Len(t, filters, 3)

	tests := []struct {
		name      string
		path      string
		preferred int
		want      string
	}{
		{"bare name keeps preferred", "/tmp/notes", 0, "Text Files"},
		{"matching extension", "/tmp/notes.txt", 0, "Text Files"},
		{"other known extension", "/tmp/main.py", 0, "Python Files"},
		{"unknown extension", "/tmp/data.csv", 0, "All Files"},
		{"dot file", "/tmp/.bashrc", 1, "Python Files"},
		{"upper case extension", "/tmp/MAIN.PY", 0, "Python Files"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := chooseFilter(tt.path, filters, tt.preferred)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got.Name)
		})
	}

	assert.Nil(t, chooseFilter("/tmp/notes", filters, -1))
}

func TestFileFilter(t *testing.T) {
	f, err := filetype.NewFilter("Python Files", "*.py")
	require.NoError(t, err)
	ff := fileFilter{filter: f}

	assert.True(t, ff.Matches(storage.NewFileURI("/tmp/main.py")))
	assert.False(t, ff.Matches(storage.NewFileURI("/tmp/notes.txt")))
}

func TestRemoveStray(t *testing.T) {
	path := writeFile(t, "kept.txt", "")
	a := newTestApp(t, config.NewTestConfig(), Options{Files: []string{path}})

	a.removeStray(path)
	assert.FileExists(t, path, "open documents are never removed")

	stray := filepath.Join(filepath.Dir(path), "stray")
	require.NoError(t, os.WriteFile(stray, nil, 0644))
	a.removeStray(stray)
	assert.NoFileExists(t, stray)

	full := filepath.Join(filepath.Dir(path), "full")
	require.NoError(t, os.WriteFile(full, []byte("data"), 0644))
	a.removeStray(full)
	assert.FileExists(t, full)
}

func TestFinishSave(t *testing.T) {
	a := newTestApp(t, config.NewTestConfig(), Options{})
	filters := a.Manager().Registry().Filters()

	// saveTab stands in for the manager answering the dialog: it writes the
	// tab where the extension rule puts it, then closes the tab.
	saveTab := func(tab *tabs.Tab) func(string, *filetype.Filter, error) {
		return func(path string, filter *filetype.Filter, err error) {
			require.NoError(t, err)
			require.NoError(t, tab.Document().Save(a.Manager().Registry().FinalPath(path, filter)))
			a.Manager().CloseTab(a.Manager().Index(tab), nil)
		}
	}

	t.Run("empty document closed with save survives", func(t *testing.T) {
		dir := t.TempDir()
		before := snapshotDir(dir)
		path := testutils.WriteFile(t, dir, "notes.txt", "")

		a.finishSave(path, filters, 0, before, saveTab(a.Manager().NewTab()))
		assert.FileExists(t, path)
	})

	t.Run("existing file renamed by extension is kept", func(t *testing.T) {
		dir := t.TempDir()
		readme := testutils.WriteFile(t, dir, "README", "docs")
		before := snapshotDir(dir)
		require.NoError(t, os.WriteFile(readme, nil, 0644))

		a.finishSave(readme, filters, 0, before, saveTab(a.Manager().NewTab()))
		assert.FileExists(t, readme)
		assert.FileExists(t, readme+".txt")
	})

	t.Run("file created for another name is removed", func(t *testing.T) {
		dir := t.TempDir()
		before := snapshotDir(dir)
		path := testutils.WriteFile(t, dir, "notes", "")

		a.finishSave(path, filters, 0, before, saveTab(a.Manager().NewTab()))
		assert.NoFileExists(t, path)
		assert.FileExists(t, path+".txt")
	})

	t.Run("unknown directory is left alone", func(t *testing.T) {
		path := writeFile(t, "notes", "")
		a.finishSave(path, filters, 0, snapshotDir(t.TempDir()), saveTab(a.Manager().NewTab()))
		assert.FileExists(t, path)
	})
}

func TestTypeFilter(t *testing.T) {
	reg, err := filetype.NewRegistry(config.NewTestConfig())
	require.NoError(t, err)
	filters := reg.Filters()

	f := typeFilter(filters, "Python Files")
	require.NotNil(t, f)
	assert.True(t, f.Matches(storage.NewFileURI("/tmp/main.py")))
	assert.False(t, f.Matches(storage.NewFileURI("/tmp/notes.txt")))

	assert.Nil(t, typeFilter(filters, "All Files"))
	assert.Nil(t, typeFilter(filters, "Rust Files"))
}

func TestExternalChange(t *testing.T) {
	path := writeFile(t, "a.txt", "one")
	a := newTestApp(t, config.NewTestConfig(), Options{Files: []string{path}})

	require.NoError(t, os.WriteFile(path, []byte("two"), 0644))
	a.externalChange(path)

	ed := a.editors[a.Manager().Active()]
	assert.Equal(t, "two", ed.entry.Text)
	assert.Equal(t, "a.txt", ed.item.Text)
}

func TestEditorTheme(t *testing.T) {
	cfg := config.NewTestConfig()
	cfg.Theme.Keyword.Color = "#112233"
	cfg.Theme.Comment.Color = ""
	th := newEditorTheme(cfg)

	assert.Equal(t, color.NRGBA{R: 0x11, G: 0x22, B: 0x33, A: 0xff}, th.Color(colorKeyword, theme.VariantDark))
	assert.Equal(t,
		theme.DefaultTheme().Color(theme.ColorNamePlaceHolder, theme.VariantDark),
		th.Color(colorComment, theme.VariantDark))
	assert.Equal(t,
		theme.DefaultTheme().Color(theme.ColorNameBackground, theme.VariantLight),
		th.Color(theme.ColorNameBackground, theme.VariantLight))

	assert.Equal(t, fyne.TextStyle{Monospace: true, Bold: true}, textStyle(cfg, highlight.Keyword))
	assert.Equal(t, fyne.TextStyle{Monospace: true}, textStyle(cfg, highlight.None))
	assert.Equal(t, colorString, styleColor(highlight.String))
}
