package main

import (
	"notepad/internal/gui"
	"notepad/internal/log"

	"github.com/spf13/cobra"
)

// NewGUICmd creates the GUI command for the CLI
func NewGUICmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "gui [files...]",
		Short: "Launch the graphical user interface",
		Long:  `Open the desktop editor window with the given files in tabs.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.runGUI(args)
		},
	}
}

func (s *session) runGUI(files []string) error {
	log.Infof("Starting desktop editor with %d file(s)", len(files))
	w := s.newWatcher()
	if w != nil {
		defer w.Stop()
	}

	app, err := gui.NewFactory(s.cfg, s.registry, gui.Options{
		ConfigPath: s.cfgPath,
		Files:      files,
		Watcher:    w,
	}).Create()
	if err != nil {
		return err
	}
	app.Run()
	return nil
}
