package main

import (
	"notepad/internal/errors"
	"notepad/internal/log"
	"notepad/internal/tui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

// NewTUICmd creates the terminal interface command
func NewTUICmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "tui [files...]",
		Short: "Start the terminal user interface",
		Long:  `Edit the given files in tabs inside the terminal.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.runTUI(args)
		},
	}
}

// newModel builds the TUI model with files opened and, when configured, an
// untitled tab.
func (s *session) newModel(files []string, opts ...tui.Option) *tui.Model {
	opts = append([]tui.Option{tui.WithConfigPath(s.cfgPath)}, opts...)
	m := tui.New(s.cfg, s.registry, opts...)
	for _, path := range files {
		// Failures show up in the status bar
		_, _ = m.Manager().OpenTab(path)
	}
	if m.Manager().Len() == 0 && s.cfg.Editor.OpenUntitled {
		m.Manager().NewTab()
	}
	return m
}

func (s *session) runTUI(files []string) error {
	s.quietLogs()
	log.Infof("Starting terminal editor with %d file(s)", len(files))

	var opts []tui.Option
	w := s.newWatcher()
	if w != nil {
		defer w.Stop()
		opts = append(opts, tui.WithWatcher(w))
	}

	p := tea.NewProgram(s.newModel(files, opts...), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return errors.Wrap(err, "error running TUI")
	}
	return nil
}
