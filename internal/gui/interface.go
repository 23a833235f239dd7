package gui

import (
	"notepad/internal/config"
	"notepad/internal/filetype"
	"notepad/internal/watch"
)

// Interface is a desktop editor window that can be run.
type Interface interface {
	Run()
}

// Options configures a desktop session.
type Options struct {
	// Path the selector value is persisted to; empty disables persisting
	ConfigPath string
	// Files opened at startup
	Files []string
	// Optional external change watcher, stopped on quit
	Watcher *watch.Watcher
}

// Factory creates GUI instances
type Factory struct {
	config   *config.Config
	registry *filetype.Registry
	options  Options
}

// NewFactory creates a new GUI factory
func NewFactory(cfg *config.Config, registry *filetype.Registry, opts Options) *Factory {
	return &Factory{
		config:   cfg,
		registry: registry,
		options:  opts,
	}
}

// Create returns a new GUI instance, or an error in builds without GUI
// support.
func (f *Factory) Create() (Interface, error) {
	return create(f)
}
