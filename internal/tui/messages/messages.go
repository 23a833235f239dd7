package messages

import "notepad/internal/watch"

// FileChangedMsg carries a change another program made to an open file.
type FileChangedMsg struct {
	Change watch.Change
}

// WatchStoppedMsg is sent once the watcher's channel closes.
type WatchStoppedMsg struct{}

// ErrorMsg reports a failure outside the tab manager.
type ErrorMsg struct {
	Err error
}
