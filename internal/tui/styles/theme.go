package styles

import (
	"notepad/internal/config"
	"notepad/internal/highlight"

	"github.com/charmbracelet/lipgloss"
)

// Theme defines the terminal UI styles
type Theme struct {
	App        lipgloss.Style
	Title      lipgloss.Style
	Tab        lipgloss.Style
	ActiveTab  lipgloss.Style
	Selected   lipgloss.Style
	Unselected lipgloss.Style
	Help       lipgloss.Style
	Status     lipgloss.Style
	Error      lipgloss.Style
	Prompt     lipgloss.Style
	LineNumber lipgloss.Style
	Highlight  map[highlight.Style]lipgloss.Style
}

// Default is the theme for the default configuration.
var Default = New(config.New())

// New builds a theme whose highlight styles follow cfg.Theme.
func New(cfg *config.Config) Theme {
	return Theme{
		App: lipgloss.NewStyle().
			Padding(0, 1),
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7B61FF")),
		Tab: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#959595")).
			Padding(0, 1),
		ActiveTab: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#4F4FB7")).
			Padding(0, 1),
		Selected: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#73F59F")).
			Bold(true),
		Unselected: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666")),
		Help: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#5A9")),
		Status: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#959595")),
		Error: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000")),
		Prompt: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#81A1C1")),
		LineNumber: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4C566A")),
		Highlight: map[highlight.Style]lipgloss.Style{
			highlight.Keyword: format(cfg.Theme.Keyword),
			highlight.Comment: format(cfg.Theme.Comment),
			highlight.String:  format(cfg.Theme.String),
		},
	}
}

func format(f config.Format) lipgloss.Style {
	s := lipgloss.NewStyle().Bold(f.Bold).Italic(f.Italic)
	if f.Color != "" {
		s = s.Foreground(lipgloss.Color(f.Color))
	}
	return s
}

// Segment renders one highlighted run.
func (t Theme) Segment(seg highlight.Segment) string {
	if s, ok := t.Highlight[seg.Style]; ok {
		return s.Render(seg.Text)
	}
	return seg.Text
}
