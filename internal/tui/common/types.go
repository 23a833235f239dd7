package common

import (
	"notepad/internal/tabs"
	"notepad/pkg/types"
)

// ModelReader defines the interface that views use to read model state
type ModelReader interface {
	Tabs() []*tabs.Tab
	ActiveIndex() int
	Mode() types.Mode
	SelectedType() string

	// EditorView is the rendered text area, used in insert mode
	EditorView() string
	// Scroll is the first document line shown in view mode
	Scroll() int
	// Height is the number of body lines available, 0 when unknown
	Height() int

	Status() string
	StatusIsError() bool

	// PromptLabel and PromptView describe the open or save-as prompt
	PromptLabel() string
	PromptView() string
	PromptFilter() string
	ConfirmMessage() string

	// Matches and SwitchCursor describe the tab switcher
	Matches() []*tabs.Tab
	SwitchCursor() int
	SwitchQuery() string

	ShowHelp() bool
	HelpView() string
}
