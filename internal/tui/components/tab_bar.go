package components

import (
	"notepad/internal/tabs"
	"notepad/internal/tui/styles"

	"github.com/charmbracelet/lipgloss"
)

// TabBar renders the tab strip, highlighting the active tab.
type TabBar struct {
	theme  styles.Theme
	tabs   []*tabs.Tab
	active int
	width  int
}

func NewTabBar(theme styles.Theme) *TabBar {
	return &TabBar{theme: theme, active: -1}
}

func (b *TabBar) SetTabs(ts []*tabs.Tab, active int) {
	b.tabs = ts
	b.active = active
}

func (b *TabBar) SetWidth(width int) {
	b.width = width
}

func (b *TabBar) View() string {
	if len(b.tabs) == 0 {
		return b.theme.Unselected.Render("no open tabs - ctrl+n new, ctrl+o open")
	}

	cells := make([]string, len(b.tabs))
	for i, t := range b.tabs {
		title := t.Title()
		if t.Stale() {
			title += " !"
		}
		if i == b.active {
			cells[i] = b.theme.ActiveTab.Render(title)
		} else {
			cells[i] = b.theme.Tab.Render(title)
		}
	}

	bar := lipgloss.JoinHorizontal(lipgloss.Top, cells...)
	if b.width > 0 {
		bar = lipgloss.NewStyle().MaxWidth(b.width).Render(bar)
	}
	return bar
}
