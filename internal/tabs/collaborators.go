package tabs

import (
	"notepad/internal/filetype"
)

// Choice is the answer to an unsaved-changes confirmation.
type Choice int

const (
	Cancel Choice = iota
	Save
	Discard
)

func (c Choice) String() string {
	switch c {
	case Save:
		return "save"
	case Discard:
		return "discard"
	default:
		return "cancel"
	}
}

// Prompter is the modal dialog collaborator. Every prompt answers through
// its callback, which may run later on the same event loop; a dismissed
// prompt answers with errors.ErrCancelled.
type Prompter interface {
	// PromptOpen asks for a file to open.
	PromptOpen(filters []filetype.Filter, done func(path string, err error))
	// PromptSave asks for a destination. preferred indexes the filter to
	// preselect; the callback reports the filter the user ended up with,
	// or nil when none applies.
	PromptSave(suggested string, filters []filetype.Filter, preferred int, done func(path string, filter *filetype.Filter, err error))
	// Confirm asks Save / Discard / Cancel.
	Confirm(title, message string, done func(Choice))
	// ShowError blocks the user with an error notification.
	ShowError(err error)
	// ShowInfo shows a non-error notification.
	ShowInfo(title, message string)
}

// View is the tab-strip collaborator. Indexes are positions in the
// manager's collection at the time of the call.
type View interface {
	TabAdded(t *Tab, index int)
	TabRemoved(t *Tab, index int)
	TabActivated(t *Tab, index int)
	// TabChanged fires when a tab's title, text, type or modified state
	// changed.
	TabChanged(t *Tab)
	TabMoved(t *Tab, from, to int)
	SelectorChanged(ft *filetype.FileType)
}

// NopView ignores every notification. Embed it to implement only the
// callbacks you need.
type NopView struct{}

func (NopView) TabAdded(*Tab, int)                 {}
func (NopView) TabRemoved(*Tab, int)               {}
func (NopView) TabActivated(*Tab, int)             {}
func (NopView) TabChanged(*Tab)                    {}
func (NopView) TabMoved(*Tab, int, int)            {}
func (NopView) SelectorChanged(*filetype.FileType) {}
