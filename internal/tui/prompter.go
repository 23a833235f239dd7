package tui

import (
	"os"
	"path/filepath"
	"strings"

	"notepad/internal/errors"
	"notepad/internal/filetype"
	"notepad/internal/tabs"
	"notepad/pkg/types"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// The Model answers the manager's prompts through modal modes: the
// callback is held until the user accepts or dismisses the prompt.

func (m *Model) PromptOpen(filters []filetype.Filter, done func(string, error)) {
	m.beginPrompt(promptOpen, "", filters, -1)
	m.openDone = done
}

func (m *Model) PromptSave(suggested string, filters []filetype.Filter, preferred int, done func(string, *filetype.Filter, error)) {
	m.beginPrompt(promptSave, suggested, filters, preferred)
	m.saveDone = done
}

func (m *Model) Confirm(title, message string, done func(tabs.Choice)) {
	m.editor.Blur()
	m.mode = types.Confirm
	m.confirmMsg = message
	m.confirmDone = done
}

func (m *Model) ShowError(err error) {
	m.setStatus(err.Error(), true)
}

func (m *Model) ShowInfo(title, message string) {
	m.setStatus(title+": "+message, false)
}

func (m *Model) beginPrompt(kind promptKind, value string, filters []filetype.Filter, preferred int) {
	m.editor.Blur()
	m.mode = types.Prompt
	m.prompt = kind
	m.filters = filters
	m.filter = preferred
	m.input.Reset()
	m.input.SetValue(value)
	m.input.CursorEnd()
	m.input.Focus()
}

func (m *Model) handlePromptKeys(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Accept):
		m.finishPrompt(expandHome(m.input.Value()), nil)
		return nil
	case key.Matches(msg, m.keys.Escape):
		m.finishPrompt("", errors.ErrCancelled)
		return nil
	case key.Matches(msg, m.keys.NextFilter):
		if m.prompt == promptSave && len(m.filters) > 0 {
			m.filter = (m.filter + 1) % len(m.filters)
		}
		return nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return cmd
}

// finishPrompt leaves prompt mode before answering, so the callback may
// open the next prompt.
func (m *Model) finishPrompt(path string, err error) {
	m.input.Blur()
	m.mode = types.View
	if path == "" && err == nil {
		err = errors.ErrCancelled
	}

	switch m.prompt {
	case promptOpen:
		done := m.openDone
		m.openDone = nil
		if done != nil {
			done(path, err)
		}
	case promptSave:
		done := m.saveDone
		m.saveDone = nil
		var f *filetype.Filter
		if m.filter >= 0 && m.filter < len(m.filters) {
			f = &m.filters[m.filter]
		}
		if done != nil {
			done(path, f, err)
		}
	}
}

// View notifications from the manager.

func (m *Model) TabAdded(t *tabs.Tab, index int) {}

func (m *Model) TabRemoved(t *tabs.Tab, index int) {
	if m.mgr.Len() == 0 {
		m.editor.Reset()
		m.editor.Blur()
		if m.mode == types.Insert {
			m.mode = types.View
		}
	}
}

func (m *Model) TabActivated(t *tabs.Tab, index int) {
	m.scroll = 0
	m.editor.SetValue(t.Document().Text())
}

func (m *Model) TabChanged(t *tabs.Tab) {
	if t != m.mgr.Active() {
		return
	}
	if text := t.Document().Text(); m.editor.Value() != text {
		m.editor.SetValue(text)
	}
}

func (m *Model) TabMoved(t *tabs.Tab, from, to int) {}

func (m *Model) SelectorChanged(ft *filetype.FileType) {}

func expandHome(path string) string {
	path = strings.TrimSpace(path)
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
