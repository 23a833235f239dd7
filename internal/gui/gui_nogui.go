//go:build nogui
// +build nogui

package gui

import (
	"notepad/internal/errors"
)

func create(*Factory) (Interface, error) {
	return nil, errors.New("GUI not available in this build")
}

// Available returns whether the GUI is available in this build
func Available() bool {
	return false
}
