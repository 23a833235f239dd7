//go:build !nogui

package gui

import (
	"os"
	"path/filepath"

	"notepad/internal/errors"
	"notepad/internal/filetype"
	"notepad/internal/log"
	"notepad/internal/tabs"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// fileFilter adapts a registry filter to the fyne file dialog.
type fileFilter struct {
	filter filetype.Filter
}

func (f fileFilter) Matches(uri fyne.URI) bool {
	return f.filter.Match(uri.Path())
}

// chooseFilter decides which filter a save dialog answer was made under.
// The fyne dialog shows a single filter, so a typed extension selects the
// filter that accepts it and a bare name stays with the preferred one.
func chooseFilter(path string, filters []filetype.Filter, preferred int) *filetype.Filter {
	var pref *filetype.Filter
	if preferred >= 0 && preferred < len(filters) {
		pref = &filters[preferred]
	}
	ext := filepath.Ext(path)
	if ext == "" || filepath.Base(path) == ext {
		return pref
	}
	if pref != nil && pref.Match(path) {
		return pref
	}
	for i := range filters {
		if !filters[i].IsAll() && filters[i].Match(path) {
			return &filters[i]
		}
	}
	for i := range filters {
		if filters[i].IsAll() {
			return &filters[i]
		}
	}
	return pref
}

// setLocation starts a file dialog in dir when it exists.
func setLocation(d *dialog.FileDialog, dir string) {
	if dir == "" {
		return
	}
	lister, err := storage.ListerForURI(storage.NewFileURI(dir))
	if err != nil {
		log.LogWithFields(log.F("directory", dir), log.F("error", err)).Debug("Dialog location unavailable")
		return
	}
	d.SetLocation(lister)
}

func (a *App) activeDir() string {
	if t := a.mgr.Active(); t != nil && t.Document().Path() != "" {
		return filepath.Dir(t.Document().Path())
	}
	return ""
}

// Prompter implementation

func (a *App) PromptOpen(filters []filetype.Filter, done func(path string, err error)) {
	d := dialog.NewFileOpen(func(r fyne.URIReadCloser, err error) {
		if err != nil {
			done("", err)
			return
		}
		if r == nil {
			done("", errors.ErrCancelled)
			return
		}
		path := r.URI().Path()
		_ = r.Close()
		done(path, nil)
	}, a.window)
	setLocation(d, a.activeDir())
	if f := typeFilter(filters, a.mgr.SelectedType().Label); f != nil {
		d.SetFilter(*f)
	}
	d.Show()
}

// typeFilter returns the dialog filter named label, or nil when there is
// none or it is the all-files filter.
func typeFilter(filters []filetype.Filter, label string) *fileFilter {
	for _, f := range filters {
		if f.Name == label && !f.IsAll() {
			return &fileFilter{filter: f}
		}
	}
	return nil
}

func (a *App) PromptSave(suggested string, filters []filetype.Filter, preferred int, done func(path string, filter *filetype.Filter, err error)) {
	dir := a.activeDir()
	if filepath.IsAbs(suggested) {
		dir = filepath.Dir(suggested)
	}
	before := snapshotDir(dir)

	d := dialog.NewFileSave(func(w fyne.URIWriteCloser, err error) {
		if err != nil {
			done("", nil, err)
			return
		}
		if w == nil {
			done("", nil, errors.ErrCancelled)
			return
		}
		path := w.URI().Path()
		_ = w.Close()
		a.finishSave(path, filters, preferred, before, done)
	}, a.window)

	d.SetFileName(filepath.Base(suggested))
	setLocation(d, dir)
	if preferred >= 0 && preferred < len(filters) && !filters[preferred].IsAll() {
		d.SetFilter(fileFilter{filter: filters[preferred]})
	}
	d.Show()
}

// finishSave answers a save prompt with the path the dialog chose. The
// dialog has already created that file; it is removed afterwards only if
// it did not exist before and the document was written under another name.
func (a *App) finishSave(path string, filters []filetype.Filter, preferred int, before dirSnapshot, done func(string, *filetype.Filter, error)) {
	filter := chooseFilter(path, filters, preferred)
	stray := before.created(path) && a.mgr.Registry().FinalPath(path, filter) != path
	done(path, filter, nil)
	if stray {
		a.removeStray(path)
	}
}

// dirSnapshot records the entries of a directory when a dialog opens.
type dirSnapshot struct {
	dir   string
	names map[string]bool
}

func snapshotDir(dir string) dirSnapshot {
	s := dirSnapshot{dir: dir, names: make(map[string]bool)}
	if dir == "" {
		return s
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		s.dir = ""
		return s
	}
	for _, e := range entries {
		s.names[e.Name()] = true
	}
	return s
}

// created reports whether path is new since the snapshot. Paths outside
// the snapshot directory are unknown and never count as created.
func (s dirSnapshot) created(path string) bool {
	if s.dir == "" || filepath.Dir(path) != filepath.Clean(s.dir) {
		return false
	}
	return !s.names[filepath.Base(path)]
}

// removeStray deletes the empty file the fyne save dialog created when the
// document ended up somewhere else, e.g. after extension enforcement.
func (a *App) removeStray(path string) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return
	}
	for _, p := range a.mgr.Paths() {
		if p == abs {
			return
		}
	}
	info, err := os.Stat(abs)
	if err != nil || info.Size() != 0 {
		return
	}
	if err := os.Remove(abs); err != nil {
		log.LogWithFields(log.F("path", abs), log.F("error", err)).Warn("Failed to remove empty file")
	}
}

func (a *App) Confirm(title, message string, done func(tabs.Choice)) {
	d := dialog.NewCustomWithoutButtons(title, widget.NewLabel(message), a.window)
	d.SetButtons(confirmButtons(func() { d.Hide() }, done))
	d.Show()
}

// confirmButtons builds Cancel, Discard and Save buttons. The first tap
// hides the dialog and answers; later taps are ignored.
func confirmButtons(hide func(), done func(tabs.Choice)) []fyne.CanvasObject {
	answered := false
	answer := func(c tabs.Choice) func() {
		return func() {
			if answered {
				return
			}
			answered = true
			hide()
			done(c)
		}
	}

	save := widget.NewButtonWithIcon("Save", theme.DocumentSaveIcon(), answer(tabs.Save))
	save.Importance = widget.HighImportance
	discard := widget.NewButtonWithIcon("Discard", theme.DeleteIcon(), answer(tabs.Discard))
	cancel := widget.NewButtonWithIcon("Cancel", theme.CancelIcon(), answer(tabs.Cancel))
	return []fyne.CanvasObject{cancel, discard, save}
}

// ShowError shows an error dialog
func (a *App) ShowError(err error) {
	dialog.ShowError(err, a.window)
}

// ShowInfo shows an information dialog
func (a *App) ShowInfo(title, message string) {
	dialog.ShowInformation(title, message, a.window)
}
