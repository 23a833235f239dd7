// Package tui is the terminal front end. The Model drives a tabs.Manager
// from bubbletea's Update loop and serves as its Prompter and View.
package tui

import (
	"notepad/internal/config"
	"notepad/internal/document"
	"notepad/internal/filetype"
	"notepad/internal/log"
	"notepad/internal/tabs"
	"notepad/internal/tui/messages"
	"notepad/internal/tui/styles"
	"notepad/internal/tui/views"
	"notepad/internal/watch"
	"notepad/pkg/types"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type promptKind int

const (
	promptOpen promptKind = iota
	promptSave
)

type Model struct {
	cfg     *config.Config
	cfgPath string
	theme   styles.Theme
	keys    types.KeyMap
	help    help.Model
	mgr     *tabs.Manager
	store   document.Store
	watcher *watch.Watcher

	// Core state
	mode     types.Mode
	editor   textarea.Model
	scroll   int
	width    int
	height   int
	showHelp bool
	quitting bool

	status    string
	statusErr bool

	// Prompt mode state
	input       textinput.Model
	prompt      promptKind
	filters     []filetype.Filter
	filter      int
	openDone    func(string, error)
	saveDone    func(string, *filetype.Filter, error)
	confirmMsg  string
	confirmDone func(tabs.Choice)

	// Switch mode state
	query   string
	matches []*tabs.Tab
	cursor  int
}

// Option configures a Model.
type Option func(*Model)

// WithConfigPath makes selector changes persist to path.
func WithConfigPath(path string) Option {
	return func(m *Model) { m.cfgPath = path }
}

// WithWatcher reloads tabs when their files change on disk.
func WithWatcher(w *watch.Watcher) Option {
	return func(m *Model) { m.watcher = w }
}

// WithStore sets the storage used by documents.
func WithStore(s document.Store) Option {
	return func(m *Model) { m.store = s }
}

// New creates the terminal editor for cfg with the file types in reg.
func New(cfg *config.Config, reg *filetype.Registry, opts ...Option) *Model {
	m := &Model{
		cfg:   cfg,
		theme: styles.New(cfg),
		keys:  types.DefaultKeyMap(),
		help:  help.New(),
		mode:  types.View,
	}
	m.help.ShowAll = true

	m.editor = textarea.New()
	m.editor.ShowLineNumbers = true
	m.editor.CharLimit = 0
	m.editor.MaxHeight = 0
	m.editor.Placeholder = ""

	m.input = textinput.New()
	m.input.Prompt = ""
	m.input.CharLimit = 4096

	for _, opt := range opts {
		opt(m)
	}

	mgrOpts := []tabs.Option{tabs.WithConfig(cfg), tabs.WithView(m)}
	if m.store != nil {
		mgrOpts = append(mgrOpts, tabs.WithStore(m.store))
	}
	m.mgr = tabs.New(reg, m, mgrOpts...)
	return m
}

// Manager returns the tab manager, e.g. to open files before Run.
func (m *Model) Manager() *tabs.Manager { return m.mgr }

// Init implements tea.Model
func (m *Model) Init() tea.Cmd {
	m.syncWatcher()
	return m.waitForChange()
}

// Update implements tea.Model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.editor.SetWidth(msg.Width - 2)
		m.editor.SetHeight(m.bodyHeight())

	case tea.KeyMsg:
		cmd = m.handleKeyMsg(msg)

	case messages.FileChangedMsg:
		outcome := m.mgr.ExternalChange(msg.Change.Path)
		log.LogWithFields(log.F("path", msg.Change.Path), log.F("op", msg.Change.Op.String()), log.F("outcome", outcome.String())).Debug("external change")
		if outcome == tabs.Reloaded {
			m.setStatus("Reloaded "+msg.Change.Path, false)
		}
		cmd = m.waitForChange()

	case messages.WatchStoppedMsg:
		m.watcher = nil

	case messages.ErrorMsg:
		m.setStatus(msg.Err.Error(), true)

	default:
		if m.mode == types.Insert {
			m.editor, cmd = m.editor.Update(msg)
		}
	}

	m.syncWatcher()
	if m.quitting {
		if m.watcher != nil {
			m.watcher.Stop()
		}
		return m, tea.Quit
	}
	return m, cmd
}

// View implements tea.Model
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	return views.RenderMainView(m, m.theme)
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) tea.Cmd {
	switch m.mode {
	case types.Insert:
		return m.handleInsertKeys(msg)
	case types.Prompt:
		return m.handlePromptKeys(msg)
	case types.Confirm:
		m.handleConfirmKeys(msg)
		return nil
	case types.Switch:
		return m.handleSwitchKeys(msg)
	default:
		return m.handleViewKeys(msg)
	}
}

// handleCommand runs the file and tab commands shared by view and insert
// mode. It reports whether msg was one of them.
func (m *Model) handleCommand(msg tea.KeyMsg) (bool, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.mgr.CloseAll(func(all bool) {
			if all {
				m.quitting = true
			}
		})
	case key.Matches(msg, m.keys.New):
		m.mgr.NewTab()
	case key.Matches(msg, m.keys.Open):
		m.mgr.Open()
	case key.Matches(msg, m.keys.Save):
		m.mgr.SaveActive(m.savedStatus)
	case key.Matches(msg, m.keys.SaveAs):
		m.mgr.SaveAsActive(m.savedStatus)
	case key.Matches(msg, m.keys.Close):
		if i := m.mgr.ActiveIndex(); i >= 0 {
			m.mgr.CloseTab(i, nil)
		}
	case key.Matches(msg, m.keys.NextTab):
		m.cycleTab(1)
	case key.Matches(msg, m.keys.PrevTab):
		m.cycleTab(-1)
	case key.Matches(msg, m.keys.MoveRight):
		i := m.mgr.ActiveIndex()
		m.mgr.Move(i, i+1)
	case key.Matches(msg, m.keys.MoveLeft):
		i := m.mgr.ActiveIndex()
		m.mgr.Move(i, i-1)
	case key.Matches(msg, m.keys.FileType):
		m.cycleFileType()
	case key.Matches(msg, m.keys.Switch):
		m.openSwitcher()
	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
	default:
		return false, nil
	}
	return true, nil
}

func (m *Model) handleViewKeys(msg tea.KeyMsg) tea.Cmd {
	if ok, cmd := m.handleCommand(msg); ok {
		return cmd
	}

	switch {
	case key.Matches(msg, m.keys.Insert):
		if m.mgr.Active() == nil {
			m.mgr.NewTab()
		}
		m.mode = types.Insert
		return m.editor.Focus()
	case key.Matches(msg, m.keys.Escape):
		m.status = ""
	case msg.String() == "j" || msg.String() == "down":
		m.scrollBy(1)
	case msg.String() == "k" || msg.String() == "up":
		m.scrollBy(-1)
	case msg.String() == "pgdown":
		m.scrollBy(m.bodyHeight())
	case msg.String() == "pgup":
		m.scrollBy(-m.bodyHeight())
	}
	return nil
}

func (m *Model) handleInsertKeys(msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, m.keys.Escape) {
		m.mode = types.View
		m.editor.Blur()
		return nil
	}
	if ok, cmd := m.handleCommand(msg); ok {
		return cmd
	}

	t := m.mgr.Active()
	if t == nil {
		m.mode = types.View
		return nil
	}

	before := m.editor.Value()
	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	if after := m.editor.Value(); after != before {
		m.mgr.Edit(t, after)
	}
	return cmd
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) {
	var choice tabs.Choice
	switch {
	case key.Matches(msg, m.keys.ConfirmSave):
		choice = tabs.Save
	case key.Matches(msg, m.keys.Discard):
		choice = tabs.Discard
	case key.Matches(msg, m.keys.Cancel):
		choice = tabs.Cancel
	default:
		return
	}

	done := m.confirmDone
	m.confirmDone = nil
	m.mode = types.View
	if done != nil {
		done(choice)
	}
}

func (m *Model) handleSwitchKeys(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		m.mode = types.View
	case "enter":
		m.mode = types.View
		if m.cursor < len(m.matches) {
			m.mgr.ActivateTab(m.matches[m.cursor])
		}
	case "up", "ctrl+k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "ctrl+j":
		if m.cursor < len(m.matches)-1 {
			m.cursor++
		}
	case "backspace":
		if r := []rune(m.query); len(r) > 0 {
			m.query = string(r[:len(r)-1])
			m.refreshMatches()
		}
	default:
		if msg.Type == tea.KeyRunes || msg.Type == tea.KeySpace {
			m.query += string(msg.Runes)
			m.refreshMatches()
		}
	}
	return nil
}

func (m *Model) openSwitcher() {
	m.mode = types.Switch
	m.query = ""
	m.refreshMatches()
}

func (m *Model) refreshMatches() {
	m.matches = m.mgr.Find(m.query)
	m.cursor = 0
}

func (m *Model) cycleTab(step int) {
	n := m.mgr.Len()
	if n == 0 {
		return
	}
	m.mgr.Activate(((m.mgr.ActiveIndex()+step)%n + n) % n)
}

// cycleFileType moves the selector to the next registered type and
// remembers it as the configured default.
func (m *Model) cycleFileType() {
	reg := m.mgr.Registry()
	tags := reg.Tags()
	next := tags[0]
	for i, tag := range tags {
		if tag == m.mgr.SelectedType().Tag {
			next = tags[(i+1)%len(tags)]
			break
		}
	}
	if err := m.mgr.SyntaxSelectorChanged(next); err != nil {
		m.setStatus(err.Error(), true)
		return
	}
	m.setStatus("File type "+next, false)
	m.persistDefaultType(next)
}

func (m *Model) persistDefaultType(tag string) {
	m.cfg.Editor.DefaultType = tag
	if m.cfgPath == "" {
		return
	}
	if err := config.SaveConfig(m.cfg, m.cfgPath); err != nil {
		log.LogWithFields(log.F("path", m.cfgPath), log.F("error", err.Error())).Warn("cannot save config")
	}
}

func (m *Model) savedStatus(saved bool) {
	if t := m.mgr.Active(); saved && t != nil {
		m.setStatus("Saved "+t.Document().Path(), false)
	}
}

func (m *Model) setStatus(text string, isErr bool) {
	m.status = text
	m.statusErr = isErr
}

func (m *Model) scrollBy(n int) {
	t := m.mgr.Active()
	if t == nil {
		return
	}
	lines := len(t.Document().Highlight())
	m.scroll += n
	if m.scroll > lines-1 {
		m.scroll = lines - 1
	}
	if m.scroll < 0 {
		m.scroll = 0
	}
}

// bodyHeight leaves room for the tab bar, a prompt line and the status bar.
func (m *Model) bodyHeight() int {
	if m.height <= 0 {
		return 0
	}
	h := m.height - 4
	if m.showHelp {
		h -= 4
	}
	if h < 1 {
		h = 1
	}
	return h
}

func (m *Model) syncWatcher() {
	if m.watcher == nil {
		return
	}
	if err := m.watcher.Sync(m.mgr.Paths()); err != nil {
		log.LogWithFields(log.F("error", err.Error())).Debug("watch sync incomplete")
	}
}

func (m *Model) waitForChange() tea.Cmd {
	if m.watcher == nil {
		return nil
	}
	ch := m.watcher.Changes()
	return func() tea.Msg {
		change, ok := <-ch
		if !ok {
			return messages.WatchStoppedMsg{}
		}
		return messages.FileChangedMsg{Change: change}
	}
}

// Getters used by the views

func (m *Model) Tabs() []*tabs.Tab { return m.mgr.Tabs() }
func (m *Model) ActiveIndex() int  { return m.mgr.ActiveIndex() }
func (m *Model) Mode() types.Mode  { return m.mode }
func (m *Model) Scroll() int       { return m.scroll }
func (m *Model) Height() int       { return m.bodyHeight() }
func (m *Model) Status() string    { return m.status }
func (m *Model) ShowHelp() bool    { return m.showHelp }

func (m *Model) SelectedType() string   { return m.mgr.SelectedType().Tag }
func (m *Model) EditorView() string     { return m.editor.View() }
func (m *Model) StatusIsError() bool    { return m.statusErr }
func (m *Model) PromptView() string     { return m.input.View() }
func (m *Model) ConfirmMessage() string { return m.confirmMsg }
func (m *Model) Matches() []*tabs.Tab   { return m.matches }
func (m *Model) SwitchCursor() int      { return m.cursor }
func (m *Model) SwitchQuery() string    { return m.query }
func (m *Model) HelpView() string       { return m.help.View(m.keys) }

func (m *Model) PromptLabel() string {
	if m.prompt == promptSave {
		return "Save as:"
	}
	return "Open:"
}

func (m *Model) PromptFilter() string {
	if m.prompt != promptSave || m.filter < 0 || m.filter >= len(m.filters) {
		return ""
	}
	return m.filters[m.filter].String()
}
