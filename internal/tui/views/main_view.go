package views

import (
	"fmt"
	"strings"

	"notepad/internal/tabs"
	"notepad/internal/tui/common"
	"notepad/internal/tui/components"
	"notepad/internal/tui/styles"
	"notepad/pkg/types"
)

// RenderMainView draws the tab bar, the active document and whichever
// prompt the model is showing.
func RenderMainView(m common.ModelReader, theme styles.Theme) string {
	var sb strings.Builder

	tabBar := components.NewTabBar(theme)
	tabBar.SetTabs(m.Tabs(), m.ActiveIndex())
	sb.WriteString(tabBar.View())
	sb.WriteString("\n")

	switch m.Mode() {
	case types.Switch:
		sb.WriteString(RenderSwitcher(m, theme))
	case types.Insert:
		sb.WriteString(m.EditorView())
	default:
		sb.WriteString(RenderDocument(m, theme))
	}
	sb.WriteString("\n")

	switch m.Mode() {
	case types.Prompt:
		line := theme.Prompt.Render(m.PromptLabel()) + " " + m.PromptView()
		if f := m.PromptFilter(); f != "" {
			line += "  " + theme.Help.Render("["+f+"]")
		}
		sb.WriteString(line + "\n")
	case types.Confirm:
		sb.WriteString(theme.Prompt.Render(m.ConfirmMessage()) + " " +
			theme.Help.Render("[s]ave  [d]iscard  [c]ancel") + "\n")
	}

	status := components.NewStatusBar(theme)
	status.SetMode(m.Mode().String())
	status.SetFileType(m.SelectedType())
	if active := activeTab(m); active != nil {
		status.SetSize(len(active.Document().Text()))
	}
	status.SetText(m.Status(), m.StatusIsError())
	sb.WriteString(status.View())

	if m.ShowHelp() {
		sb.WriteString("\n" + m.HelpView())
	}

	return theme.App.Render(sb.String())
}

// RenderDocument renders the visible lines of the active document with
// syntax highlighting and line numbers.
func RenderDocument(m common.ModelReader, theme styles.Theme) string {
	t := activeTab(m)
	if t == nil {
		return ""
	}

	lines := t.Document().Highlight()
	start := m.Scroll()
	if start > len(lines) {
		start = len(lines)
	}
	end := len(lines)
	if h := m.Height(); h > 0 && start+h < end {
		end = start + h
	}

	width := len(fmt.Sprint(len(lines)))
	var sb strings.Builder
	for i := start; i < end; i++ {
		sb.WriteString(theme.LineNumber.Render(fmt.Sprintf("%*d ", width, i+1)))
		for _, seg := range lines[i] {
			sb.WriteString(theme.Segment(seg))
		}
		if i < end-1 {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// RenderSwitcher lists the tabs matching the switcher query.
func RenderSwitcher(m common.ModelReader, theme styles.Theme) string {
	var sb strings.Builder
	sb.WriteString(theme.Prompt.Render("Switch to:") + " " + m.SwitchQuery() + "\n")

	matches := m.Matches()
	if len(matches) == 0 {
		sb.WriteString(theme.Unselected.Render("  no matching tabs"))
		return sb.String()
	}
	for i, t := range matches {
		if i == m.SwitchCursor() {
			sb.WriteString(theme.Selected.Render("> " + t.Title()))
		} else {
			sb.WriteString(theme.Unselected.Render("  " + t.Title()))
		}
		if i < len(matches)-1 {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

func activeTab(m common.ModelReader) *tabs.Tab {
	ts := m.Tabs()
	i := m.ActiveIndex()
	if i < 0 || i >= len(ts) {
		return nil
	}
	return ts[i]
}
