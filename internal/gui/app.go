//go:build !nogui

// Package gui is the fyne desktop shell around the tab manager.
package gui

import (
	"fmt"
	"slices"

	"notepad/internal/config"
	"notepad/internal/filetype"
	"notepad/internal/log"
	"notepad/internal/tabs"
	"notepad/internal/watch"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// App is the GUI application
type App struct {
	fyneApp fyne.App
	window  fyne.Window
	cfg     *config.Config
	cfgPath string
	mgr     *tabs.Manager
	watcher *watch.Watcher
	watched []string

	docTabs  *container.DocTabs
	editors  map[*tabs.Tab]*editor
	selector *widget.Select
	status   *widget.Label

	// Shortcut handlers by shortcut name
	shortcuts map[string]func()

	// Set while the app itself updates widgets, so their change
	// callbacks do not loop back into the manager
	syncing bool
}

func create(f *Factory) (Interface, error) {
	return NewApp(f.config, f.registry, f.options), nil
}

// Available returns whether the GUI is available in this build
func Available() bool {
	return true
}

// NewApp creates a new GUI application
func NewApp(cfg *config.Config, registry *filetype.Registry, opts Options) *App {
	// Create app with a unique ID for preferences storage
	return newApp(app.NewWithID("io.github.notepad"), cfg, registry, opts)
}

func newApp(fyneApp fyne.App, cfg *config.Config, registry *filetype.Registry, opts Options) *App {
	a := &App{
		fyneApp:   fyneApp,
		cfg:       cfg,
		cfgPath:   opts.ConfigPath,
		watcher:   opts.Watcher,
		editors:   make(map[*tabs.Tab]*editor),
		shortcuts: make(map[string]func()),
	}
	fyneApp.Settings().SetTheme(newEditorTheme(cfg))

	a.window = fyneApp.NewWindow(cfg.Window.Title)
	a.window.Resize(fyne.NewSize(cfg.Window.Width, cfg.Window.Height))
	a.window.SetCloseIntercept(a.quit)

	a.mgr = tabs.New(registry, a, tabs.WithConfig(cfg), tabs.WithView(a))
	a.setupMainWindow()

	for _, path := range opts.Files {
		// Failures are already reported by the manager
		_, _ = a.mgr.OpenTab(path)
	}
	if a.mgr.Len() == 0 && cfg.Editor.OpenUntitled {
		a.mgr.NewTab()
	}
	return a
}

// Manager returns the tab manager driving the window.
func (a *App) Manager() *tabs.Manager {
	return a.mgr
}

// GetMainWindow returns the main window instance
func (a *App) GetMainWindow() fyne.Window {
	return a.window
}

// Run starts the GUI application
func (a *App) Run() {
	a.startWatching()
	a.window.ShowAndRun()
}

// setupMainWindow sets up the main window content
func (a *App) setupMainWindow() {
	a.docTabs = container.NewDocTabs()
	a.docTabs.OnSelected = func(item *container.TabItem) {
		if a.syncing {
			return
		}
		if t := a.tabFor(item); t != nil {
			a.mgr.ActivateTab(t)
		}
	}
	a.docTabs.CloseIntercept = func(item *container.TabItem) {
		if t := a.tabFor(item); t != nil {
			a.mgr.CloseTab(a.mgr.Index(t), nil)
		}
	}

	a.selector = widget.NewSelect(a.mgr.Registry().Tags(), a.selectorChanged)
	a.quietly(func() { a.selector.SetSelected(a.mgr.SelectedType().Tag) })

	toolbar := widget.NewToolbar(
		widget.NewToolbarAction(theme.DocumentCreateIcon(), a.newTab),
		widget.NewToolbarAction(theme.FolderOpenIcon(), a.mgr.Open),
		widget.NewToolbarAction(theme.DocumentSaveIcon(), a.save),
		widget.NewToolbarAction(theme.StorageIcon(), a.saveAs),
		widget.NewToolbarAction(theme.CancelIcon(), a.closeActive),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.NavigateBackIcon(), func() { a.move(-1) }),
		widget.NewToolbarAction(theme.NavigateNextIcon(), func() { a.move(1) }),
		widget.NewToolbarSpacer(),
		widget.NewToolbarAction(theme.HelpIcon(), func() {
			dialog.ShowInformation("About "+a.cfg.Window.Title,
				"A multi-tab text editor with syntax highlighting.", a.window)
		}),
	)

	a.status = widget.NewLabel("")
	a.window.SetMainMenu(a.mainMenu())

	top := container.NewBorder(nil, nil, nil,
		container.NewHBox(widget.NewLabel("Type:"), a.selector),
		toolbar,
	)
	a.window.SetContent(container.NewBorder(top, a.status, nil, nil, a.docTabs))
	a.updateStatus()
}

func (a *App) mainMenu() *fyne.MainMenu {
	cmd := fyne.KeyModifierShortcutDefault
	quit := fyne.NewMenuItem("Quit", a.quit)
	quit.IsQuit = true

	file := fyne.NewMenu("File",
		a.menuItem("New", a.newTab, fyne.KeyN, cmd),
		a.menuItem("Open...", a.mgr.Open, fyne.KeyO, cmd),
		fyne.NewMenuItemSeparator(),
		a.menuItem("Save", a.save, fyne.KeyS, cmd),
		a.menuItem("Save As...", a.saveAs, fyne.KeyS, cmd|fyne.KeyModifierShift),
		fyne.NewMenuItemSeparator(),
		a.menuItem("Close Tab", a.closeActive, fyne.KeyW, cmd),
		quit,
	)
	tabMenu := fyne.NewMenu("Tabs",
		a.menuItem("Next Tab", func() { a.cycle(1) }, fyne.KeyPageDown, cmd),
		a.menuItem("Previous Tab", func() { a.cycle(-1) }, fyne.KeyPageUp, cmd),
		fyne.NewMenuItemSeparator(),
		a.menuItem("Move Tab Right", func() { a.move(1) }, fyne.KeyPageDown, cmd|fyne.KeyModifierShift),
		a.menuItem("Move Tab Left", func() { a.move(-1) }, fyne.KeyPageUp, cmd|fyne.KeyModifierShift),
	)
	return fyne.NewMainMenu(file, tabMenu)
}

// menuItem builds a menu entry and binds its shortcut on the window canvas.
func (a *App) menuItem(label string, action func(), key fyne.KeyName, mod fyne.KeyModifier) *fyne.MenuItem {
	item := fyne.NewMenuItem(label, action)
	s := &desktop.CustomShortcut{KeyName: key, Modifier: mod}
	item.Shortcut = s
	a.shortcuts[s.ShortcutName()] = action
	a.window.Canvas().AddShortcut(s, func(fyne.Shortcut) { action() })
	return item
}

// handleShortcut runs the app action bound to s. Editors call it first so
// app shortcuts work while they have focus.
func (a *App) handleShortcut(s fyne.Shortcut) bool {
	action, ok := a.shortcuts[s.ShortcutName()]
	if ok {
		action()
	}
	return ok
}

func (a *App) newTab() {
	a.mgr.NewTab()
}

func (a *App) save() {
	a.mgr.SaveActive(nil)
}

func (a *App) saveAs() {
	a.mgr.SaveAsActive(nil)
}

func (a *App) closeActive() {
	if a.mgr.Active() != nil {
		a.mgr.CloseTab(a.mgr.ActiveIndex(), nil)
	}
}

func (a *App) cycle(delta int) {
	n := a.mgr.Len()
	if n == 0 {
		return
	}
	a.mgr.Activate((a.mgr.ActiveIndex() + delta + n) % n)
}

func (a *App) move(delta int) {
	from := a.mgr.ActiveIndex()
	if from < 0 {
		return
	}
	a.mgr.Move(from, from+delta)
}

func (a *App) selectorChanged(tag string) {
	if a.syncing {
		return
	}
	if err := a.mgr.SyntaxSelectorChanged(tag); err != nil {
		a.ShowError(err)
		return
	}
	a.updateStatus()

	if a.cfgPath == "" {
		return
	}
	a.cfg.Editor.DefaultType = tag
	if err := config.SaveConfig(a.cfg, a.cfgPath); err != nil {
		log.LogWithFields(log.F("path", a.cfgPath), log.F("error", err)).Warn("Failed to persist file type")
	}
}

// quit closes every tab, asking about unsaved ones, and exits when all
// of them closed.
func (a *App) quit() {
	a.mgr.CloseAll(func(all bool) {
		if !all {
			return
		}
		if a.watcher != nil {
			a.watcher.Stop()
		}
		a.fyneApp.Quit()
	})
}

// startWatching forwards watcher changes onto the fyne event loop.
func (a *App) startWatching() {
	if a.watcher == nil {
		return
	}
	a.syncWatcher()
	go func(changes <-chan watch.Change) {
		for c := range changes {
			path := c.Path
			fyne.Do(func() { a.externalChange(path) })
		}
	}(a.watcher.Changes())
}

func (a *App) externalChange(path string) {
	outcome := a.mgr.ExternalChange(path)
	log.LogWithFields(log.F("path", path), log.F("outcome", outcome.String())).Debug("External change handled")
	a.syncWatcher()
}

// syncWatcher lets the watcher track the current set of open paths.
func (a *App) syncWatcher() {
	if a.watcher == nil {
		return
	}
	paths := a.mgr.Paths()
	if slices.Equal(paths, a.watched) {
		return
	}
	a.watched = paths
	if err := a.watcher.Sync(paths); err != nil {
		log.LogWithError(err).Warn("Watcher sync failed")
	}
}

func (a *App) updateStatus() {
	t := a.mgr.Active()
	if t == nil {
		a.status.SetText(fmt.Sprintf("No open tabs | %s", a.mgr.SelectedType().Label))
		return
	}
	where := t.Document().Path()
	if where == "" {
		where = t.BaseTitle()
	}
	state := "saved"
	if t.Document().Modified() {
		state = "modified"
	}
	if t.Stale() {
		state += ", changed on disk"
	}
	a.status.SetText(fmt.Sprintf("%s | %s | %s", where, t.Document().FileType().Label, state))
}

// quietly runs fn with widget callbacks suppressed.
func (a *App) quietly(fn func()) {
	prev := a.syncing
	a.syncing = true
	defer func() { a.syncing = prev }()
	fn()
}

func (a *App) tabFor(item *container.TabItem) *tabs.Tab {
	for t, ed := range a.editors {
		if ed.item == item {
			return t
		}
	}
	return nil
}
