package main

import (
	"io"

	"notepad/internal/config"
	"notepad/internal/errors"
	"notepad/internal/filetype"
	"notepad/internal/log"
	"notepad/internal/watch"

	"github.com/spf13/cobra"
)

// session is the state shared by every command once the root command has
// loaded the configuration.
type session struct {
	cfgFile string
	debug   bool
	useTUI  bool

	cfg      *config.Config
	cfgPath  string
	registry *filetype.Registry
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	s := &session{}

	rootCmd := &cobra.Command{
		Use:     "notepad [files...]",
		Short:   "A multi-tab text editor",
		Long:    `Notepad edits plain text and source files in tabs, with syntax highlighting for the configured file types.`,
		Version: version,
		Args:    cobra.ArbitraryArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return s.load()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if s.useTUI {
				return s.runTUI(args)
			}
			return s.runGUI(args)
		},
	}

	rootCmd.PersistentFlags().StringVar(&s.cfgFile, "config", "", "config file (default is $HOME/.config/notepad/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&s.debug, "debug", false, "enable debug logging")
	rootCmd.Flags().BoolVar(&s.useTUI, "tui", false, "use the terminal interface instead of the desktop window")

	rootCmd.AddCommand(NewGUICmd(s))
	rootCmd.AddCommand(NewTUICmd(s))
	rootCmd.AddCommand(NewConfigCmd(s))

	return rootCmd
}

// load reads the configuration, sets up logging and builds the file type
// registry.
func (s *session) load() error {
	s.cfgPath = s.cfgFile
	if s.cfgPath == "" {
		path, err := config.DefaultPath()
		if err != nil {
			return err
		}
		s.cfgPath = path
	}

	cfg, err := config.LoadConfigFile(s.cfgPath)
	if err != nil {
		if errors.IsInvalidConfig(err) {
			log.Warnf("Fix %s or rewrite it with 'notepad config init --force'", s.cfgPath)
		}
		return err
	}
	s.cfg = cfg

	log.SetDebug(s.debug || cfg.Log.Debug)
	if cfg.Log.File != "" {
		log.Configure(log.WithFile(cfg.Log.File))
	}
	log.LogWithFields(log.F("path", s.cfgPath)).Debug("Configuration loaded")

	s.registry, err = filetype.NewRegistry(cfg)
	if err != nil {
		return err
	}
	log.Debugf("Registered file types %v", s.registry.Tags())
	return nil
}

// quietLogs keeps log lines off the terminal while the TUI owns it. A
// configured log file still receives them.
func (s *session) quietLogs() {
	opts := []log.Option{log.WithOutput(io.Discard)}
	if s.cfg.Log.File != "" {
		opts = append(opts, log.WithFile(s.cfg.Log.File))
	}
	log.Configure(opts...)
}

// newWatcher starts the external change watcher when the configuration
// asks for one. Failing to watch never stops the editor.
func (s *session) newWatcher() *watch.Watcher {
	if !s.cfg.Editor.WatchFiles {
		return nil
	}
	w, err := watch.New()
	if err != nil {
		log.LogWithError(err).Warn("File watching disabled")
		return nil
	}
	if err := w.Start(); err != nil {
		log.LogWithError(err).Warn("File watching disabled")
		return nil
	}
	return w
}
