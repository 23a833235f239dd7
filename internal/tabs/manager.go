// Package tabs owns the ordered collection of open documents and routes
// the editor's commands (new, open, save, save as, close) to them.
//
// A Manager is driven from a single event loop and is not safe for
// concurrent use. Dialogs and the tab strip are reached through the
// Prompter and View collaborators.
package tabs

import (
	"fmt"
	"path/filepath"

	"notepad/internal/config"
	"notepad/internal/document"
	"notepad/internal/errors"
	"notepad/internal/filetype"
	"notepad/internal/log"

	"github.com/sahilm/fuzzy"
)

// Tab is one open document in the collection.
type Tab struct {
	id     int
	doc    *document.Document
	title  string
	marker string
	stale  bool // changed on disk while holding unsaved edits
}

// ID is a handle that stays stable while the tab is reordered.
func (t *Tab) ID() int { return t.id }

// Document returns the tab's document.
func (t *Tab) Document() *document.Document { return t.doc }

// BaseTitle is the title without the modified marker.
func (t *Tab) BaseTitle() string { return t.title }

// Title is the displayed title, carrying the marker when modified.
func (t *Tab) Title() string {
	if t.doc.Modified() {
		return t.title + t.marker
	}
	return t.title
}

// Stale reports whether the file changed on disk under unsaved edits.
func (t *Tab) Stale() bool { return t.stale }

// Option configures a Manager.
type Option func(*Manager)

// WithView sets the tab-strip collaborator.
func WithView(v View) Option {
	return func(m *Manager) { m.view = v }
}

// WithStore sets the storage used by new documents.
func WithStore(s document.Store) Option {
	return func(m *Manager) { m.store = s }
}

// WithConfig applies the editor section of cfg.
func WithConfig(cfg *config.Config) Option {
	return func(m *Manager) {
		m.untitled = cfg.Editor.UntitledName
		m.marker = cfg.Editor.ModifiedMarker
		m.markNew = cfg.Editor.MarkNewModified
		if ft, ok := m.registry.Lookup(cfg.Editor.DefaultType); ok {
			m.selected = ft
		}
	}
}

// WithUntitledName sets the base title of unsaved tabs.
func WithUntitledName(name string) Option {
	return func(m *Manager) { m.untitled = name }
}

// WithModifiedMarker sets the suffix shown on modified tabs.
func WithModifiedMarker(marker string) Option {
	return func(m *Manager) { m.marker = marker }
}

// WithMarkNewModified controls whether new tabs start modified.
func WithMarkNewModified(mark bool) Option {
	return func(m *Manager) { m.markNew = mark }
}

// Outcome is what ExternalChange did with a notification.
type Outcome int

const (
	Ignored Outcome = iota
	Reloaded
	Conflict
	Missing
)

func (o Outcome) String() string {
	switch o {
	case Reloaded:
		return "reloaded"
	case Conflict:
		return "conflict"
	case Missing:
		return "missing"
	default:
		return "ignored"
	}
}

// Manager is the application shell's tab collection.
type Manager struct {
	registry *filetype.Registry
	store    document.Store
	prompter Prompter
	view     View

	tabs     []*Tab
	active   int
	selected *filetype.FileType
	nextID   int

	untitled string
	marker   string
	markNew  bool
}

// New creates an empty manager.
func New(registry *filetype.Registry, prompter Prompter, opts ...Option) *Manager {
	m := &Manager{
		registry: registry,
		store:    document.OSStore{},
		prompter: prompter,
		view:     NopView{},
		active:   -1,
		selected: registry.Default(),
		nextID:   1,
		untitled: "Untitled",
		marker:   " *",
		markNew:  true,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// SetView replaces the tab-strip collaborator.
func (m *Manager) SetView(v View) {
	if v == nil {
		v = NopView{}
	}
	m.view = v
}

// Registry returns the file-type registry.
func (m *Manager) Registry() *filetype.Registry { return m.registry }

// Len returns the number of open tabs.
func (m *Manager) Len() int { return len(m.tabs) }

// Tabs returns the tabs in display order.
func (m *Manager) Tabs() []*Tab {
	out := make([]*Tab, len(m.tabs))
	copy(out, m.tabs)
	return out
}

// Tab returns the tab at index, or nil.
func (m *Manager) Tab(index int) *Tab {
	if index < 0 || index >= len(m.tabs) {
		return nil
	}
	return m.tabs[index]
}

// ByID finds a tab by its handle.
func (m *Manager) ByID(id int) *Tab {
	for _, t := range m.tabs {
		if t.id == id {
			return t
		}
	}
	return nil
}

// Index returns the position of t, or -1.
func (m *Manager) Index(t *Tab) int {
	for i, x := range m.tabs {
		if x == t {
			return i
		}
	}
	return -1
}

// Active returns the active tab, or nil when none is open.
func (m *Manager) Active() *Tab {
	return m.Tab(m.active)
}

// ActiveIndex returns the active position, or -1.
func (m *Manager) ActiveIndex() int { return m.active }

// SelectedType is the selector value that seeds new tabs.
func (m *Manager) SelectedType() *filetype.FileType { return m.selected }

// Paths returns the paths of every tab backed by a file.
func (m *Manager) Paths() []string {
	var paths []string
	for _, t := range m.tabs {
		if p := t.doc.Path(); p != "" {
			paths = append(paths, p)
		}
	}
	return paths
}

// NewTab opens an unsaved tab of the selected type under the first free
// "Untitled" title and activates it.
func (m *Manager) NewTab() *Tab {
	doc := document.New(m.registry, m.store, m.selected)
	if m.markNew {
		doc.MarkModified()
	}
	t := m.newTab(doc, m.untitledTitle())
	m.append(t)

	log.LogWithFields(log.F("tab", t.id), log.F("title", t.title), log.F("type", doc.FileType().Tag)).Debug("new tab")
	return t
}

func (m *Manager) untitledTitle() string {
	for n := 1; ; n++ {
		candidate := m.untitled
		if n > 1 {
			candidate = fmt.Sprintf("%s %d", m.untitled, n)
		}
		if !m.titleInUse(candidate) {
			return candidate
		}
	}
}

func (m *Manager) titleInUse(title string) bool {
	for _, t := range m.tabs {
		shown := t.Title()
		if t.title == title || shown == title || shown == title+m.marker {
			return true
		}
	}
	return false
}

// Open asks for a file and opens it. Dismissing the dialog does nothing.
func (m *Manager) Open() {
	m.prompter.PromptOpen(m.registry.Filters(), func(path string, err error) {
		if err != nil {
			if !errors.IsCancelled(err) {
				m.report(err)
			}
			return
		}
		if path == "" {
			return
		}
		m.OpenTab(path)
	})
}

// OpenTab activates the tab already showing path, or loads path into a new
// tab. A load failure is reported and leaves the collection unchanged.
func (m *Manager) OpenTab(path string) (*Tab, error) {
	if path == "" {
		err := errors.NewFileError("no file name given", "", errors.InvalidPath, nil)
		m.report(err)
		return nil, err
	}
	path = normalize(path)

	if t := m.byPath(path); t != nil {
		m.setActive(m.Index(t))
		return t, nil
	}

	doc, err := document.Open(m.registry, m.store, path)
	if err != nil {
		m.report(err)
		return nil, err
	}

	t := m.newTab(doc, filepath.Base(path))
	m.append(t)
	m.selected = doc.FileType()
	m.view.SelectorChanged(m.selected)

	log.LogWithFields(log.F("tab", t.id), log.F("path", path), log.F("type", doc.FileType().Tag)).Info("opened file")
	return t, nil
}

// SaveActive writes the active tab to its path, or falls back to
// SaveAsActive when it has none. done (may be nil) reports success.
func (m *Manager) SaveActive(done func(saved bool)) {
	t := m.Active()
	if t == nil {
		finish(done, false)
		return
	}
	path := t.doc.Path()
	if path == "" {
		m.SaveAsActive(done)
		return
	}

	if err := t.doc.Save(path); err != nil {
		m.report(err)
		finish(done, false)
		return
	}
	m.saved(t)
	finish(done, true)
}

// SaveAsActive asks for a destination, enforces the chosen filter's
// extension and writes the active tab there.
func (m *Manager) SaveAsActive(done func(saved bool)) {
	t := m.Active()
	if t == nil {
		finish(done, false)
		return
	}

	filters := m.registry.Filters()
	preferred := len(filters) - 1
	for i, f := range filters {
		if f.Name == t.doc.FileType().Label {
			preferred = i
			break
		}
	}
	suggested := t.doc.Path()
	if suggested == "" {
		suggested = t.title + t.doc.FileType().Tag
	}

	m.prompter.PromptSave(suggested, filters, preferred, func(path string, filter *filetype.Filter, err error) {
		if err != nil || path == "" {
			if err != nil && !errors.IsCancelled(err) {
				m.report(err)
			}
			finish(done, false)
			return
		}

		final := m.registry.FinalPath(normalize(path), filter)
		if other := m.byPath(final); other != nil && other != t {
			m.report(errors.NewFileError("file is open in another tab", final, errors.InvalidPath, nil))
			finish(done, false)
			return
		}
		before := t.doc.FileType()
		if err := t.doc.Save(final); err != nil {
			m.report(err)
			finish(done, false)
			return
		}
		m.saved(t)
		if ft := t.doc.FileType(); ft != before && t == m.Active() {
			m.selected = ft
			m.view.SelectorChanged(ft)
		}
		finish(done, true)
	})
}

func (m *Manager) saved(t *Tab) {
	t.title = filepath.Base(t.doc.Path())
	t.stale = false
	m.view.TabChanged(t)
	log.LogWithFields(log.F("tab", t.id), log.F("path", t.doc.Path())).Info("saved file")
}

// CloseTab closes the tab at index. Unmodified tabs close at once; for a
// modified tab the user picks Save, Discard or Cancel. With Save the tab
// only closes if it is no longer modified afterwards. done (may be nil)
// reports whether the tab closed.
func (m *Manager) CloseTab(index int, done func(closed bool)) {
	t := m.Tab(index)
	if t == nil {
		finish(done, false)
		return
	}
	if !t.doc.Modified() {
		m.remove(t)
		finish(done, true)
		return
	}

	msg := fmt.Sprintf("Do you want to save changes to %s?", t.title)
	m.prompter.Confirm("Unsaved Changes", msg, func(c Choice) {
		log.LogWithFields(log.F("tab", t.id), log.F("choice", c.String())).Debug("close confirmation")
		switch c {
		case Discard:
			m.remove(t)
			finish(done, true)
		case Save:
			prev := m.Active()
			if i := m.Index(t); i >= 0 && i != m.active {
				m.setActive(i)
			}
			m.SaveActive(func(bool) {
				if t.doc.Modified() {
					if i := m.Index(prev); i >= 0 && i != m.active {
						m.setActive(i)
					}
					finish(done, false)
					return
				}
				m.remove(t)
				finish(done, true)
			})
		default:
			finish(done, false)
		}
	})
}

// CloseAll closes tabs front to back until none remain or one refuses.
func (m *Manager) CloseAll(done func(allClosed bool)) {
	var next func()
	next = func() {
		if len(m.tabs) == 0 {
			finish(done, true)
			return
		}
		m.CloseTab(0, func(closed bool) {
			if !closed {
				finish(done, false)
				return
			}
			next()
		})
	}
	next()
}

// Activate makes the tab at index active.
func (m *Manager) Activate(index int) bool {
	if m.Tab(index) == nil {
		return false
	}
	if index != m.active {
		m.setActive(index)
	}
	return true
}

// ActivateTab makes t active.
func (m *Manager) ActivateTab(t *Tab) bool {
	return m.Activate(m.Index(t))
}

// Move reorders the tab at from to position to. The active tab stays
// active wherever it ends up.
func (m *Manager) Move(from, to int) bool {
	if m.Tab(from) == nil || m.Tab(to) == nil || from == to {
		return false
	}
	active := m.Active()
	t := m.tabs[from]

	m.tabs = append(m.tabs[:from], m.tabs[from+1:]...)
	m.tabs = append(m.tabs[:to], append([]*Tab{t}, m.tabs[to:]...)...)
	m.active = m.Index(active)

	m.view.TabMoved(t, from, to)
	return true
}

// Edit records a text change made in the editor widget.
func (m *Manager) Edit(t *Tab, text string) {
	if m.Index(t) < 0 {
		return
	}
	t.doc.SetText(text)
	m.view.TabChanged(t)
}

// SyntaxSelectorChanged makes tag the default for new tabs and retypes
// the active tab only. Text and modified state are untouched.
func (m *Manager) SyntaxSelectorChanged(tag string) error {
	ft, ok := m.registry.Lookup(tag)
	if !ok {
		return errors.NewConfigError("unknown file type", tag, errors.InvalidConfig, nil)
	}
	m.selected = ft
	if t := m.Active(); t != nil && t.doc.FileType() != ft {
		t.doc.SetFileType(ft)
		m.view.TabChanged(t)
	}
	return nil
}

// Find ranks tabs by fuzzy match of query against their titles. An empty
// query returns every tab in order.
func (m *Manager) Find(query string) []*Tab {
	if query == "" {
		return m.Tabs()
	}
	titles := make([]string, len(m.tabs))
	for i, t := range m.tabs {
		titles[i] = t.title
	}
	var out []*Tab
	for _, match := range fuzzy.Find(query, titles) {
		out = append(out, m.tabs[match.Index])
	}
	return out
}

// ExternalChange handles a change another program made to path. An
// unmodified tab reloads silently; a modified one keeps its edits and the
// user is told once.
func (m *Manager) ExternalChange(path string) Outcome {
	t := m.byPath(normalize(path))
	if t == nil {
		return Ignored
	}
	fields := log.LogWithFields(log.F("tab", t.id), log.F("path", t.doc.Path()))

	changed, err := t.doc.ChangedOnDisk()
	if err != nil {
		if errors.IsFileNotFound(err) {
			if !t.stale {
				t.stale = true
				m.view.TabChanged(t)
				m.prompter.ShowInfo("File Removed", fmt.Sprintf("%s no longer exists on disk. Save to recreate it.", t.title))
			}
			return Missing
		}
		fields.With(log.F("error", err.Error())).Warn("cannot check file on disk")
		return Ignored
	}
	if !changed {
		return Ignored
	}

	if !t.doc.Modified() {
		if err := t.doc.Load(t.doc.Path()); err != nil {
			m.report(err)
			return Ignored
		}
		t.stale = false
		m.view.TabChanged(t)
		fields.Info("reloaded file changed on disk")
		return Reloaded
	}

	if t.stale {
		return Conflict
	}
	t.stale = true
	m.view.TabChanged(t)
	m.prompter.ShowInfo("File Changed", fmt.Sprintf("%s was changed by another program. Your unsaved edits are kept; saving will overwrite the file.", t.title))
	fields.Warn("file changed on disk under unsaved edits")
	return Conflict
}

func (m *Manager) newTab(doc *document.Document, title string) *Tab {
	t := &Tab{id: m.nextID, doc: doc, title: title, marker: m.marker}
	m.nextID++
	return t
}

func (m *Manager) append(t *Tab) {
	m.tabs = append(m.tabs, t)
	index := len(m.tabs) - 1
	m.view.TabAdded(t, index)
	m.setActive(index)
}

func (m *Manager) setActive(index int) {
	m.active = index
	m.view.TabActivated(m.tabs[index], index)
}

func (m *Manager) remove(t *Tab) {
	i := m.Index(t)
	if i < 0 {
		return
	}
	m.tabs = append(m.tabs[:i], m.tabs[i+1:]...)
	m.view.TabRemoved(t, i)
	log.LogWithFields(log.F("tab", t.id), log.F("title", t.title)).Debug("closed tab")

	switch {
	case len(m.tabs) == 0:
		m.active = -1
	case i < m.active:
		m.active--
	case i == m.active:
		if i >= len(m.tabs) {
			i = len(m.tabs) - 1
		}
		m.setActive(i)
	}
}

func (m *Manager) byPath(path string) *Tab {
	for _, t := range m.tabs {
		if t.doc.Path() == path {
			return t
		}
	}
	return nil
}

func (m *Manager) report(err error) {
	log.LogError(err, "file operation failed")
	m.prompter.ShowError(err)
}

func finish(done func(bool), ok bool) {
	if done != nil {
		done(ok)
	}
}

func normalize(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}
