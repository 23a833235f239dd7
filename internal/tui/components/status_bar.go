package components

import (
	"fmt"

	"notepad/internal/tui/styles"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

// StatusBar renders the mode, file type, size and last message.
type StatusBar struct {
	theme    styles.Theme
	mode     string
	fileType string
	size     int
	text     string
	isError  bool
	width    int
}

func NewStatusBar(theme styles.Theme) *StatusBar {
	return &StatusBar{theme: theme}
}

func (s *StatusBar) SetMode(mode string)         { s.mode = mode }
func (s *StatusBar) SetFileType(tag string)      { s.fileType = tag }
func (s *StatusBar) SetSize(bytes int)           { s.size = bytes }
func (s *StatusBar) SetWidth(width int)          { s.width = width }
func (s *StatusBar) SetText(text string, e bool) { s.text, s.isError = text, e }

func (s *StatusBar) View() string {
	left := s.theme.Title.Render(s.mode)
	info := s.theme.Status.Render(fmt.Sprintf(" %s  %s ", s.fileType, humanize.Bytes(uint64(s.size))))

	msg := s.text
	if msg != "" {
		if s.isError {
			msg = s.theme.Error.Render(msg)
		} else {
			msg = s.theme.Status.Render(msg)
		}
	}

	bar := lipgloss.JoinHorizontal(lipgloss.Top, left, info, msg)
	if s.width > 0 {
		bar = lipgloss.NewStyle().MaxWidth(s.width).Render(bar)
	}
	return bar
}
