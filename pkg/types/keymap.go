package types

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the keybindings of the terminal editor.
// It lives in pkg/types so the model and its help view share one set.
type KeyMap struct {
	// General
	Help key.Binding
	Quit key.Binding

	// File commands
	New    key.Binding
	Open   key.Binding
	Save   key.Binding
	SaveAs key.Binding
	Close  key.Binding

	// Tabs
	NextTab   key.Binding
	PrevTab   key.Binding
	MoveRight key.Binding
	MoveLeft  key.Binding
	Switch    key.Binding // Fuzzy tab switcher
	FileType  key.Binding // Cycle the file-type selector

	// Editing
	Insert key.Binding
	Escape key.Binding

	// Prompts
	Accept      key.Binding
	NextFilter  key.Binding
	ConfirmSave key.Binding
	Discard     key.Binding
	Cancel      key.Binding
}

// DefaultKeyMap returns the standard bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Help: key.NewBinding(key.WithKeys("f1"), key.WithHelp("f1", "help")),
		Quit: key.NewBinding(key.WithKeys("ctrl+q"), key.WithHelp("ctrl+q", "quit")),

		New:    key.NewBinding(key.WithKeys("ctrl+n"), key.WithHelp("ctrl+n", "new")),
		Open:   key.NewBinding(key.WithKeys("ctrl+o"), key.WithHelp("ctrl+o", "open")),
		Save:   key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
		SaveAs: key.NewBinding(key.WithKeys("alt+s"), key.WithHelp("alt+s", "save as")),
		Close:  key.NewBinding(key.WithKeys("ctrl+w"), key.WithHelp("ctrl+w", "close tab")),

		NextTab:   key.NewBinding(key.WithKeys("alt+right", "alt+l"), key.WithHelp("alt+→", "next tab")),
		PrevTab:   key.NewBinding(key.WithKeys("alt+left", "alt+h"), key.WithHelp("alt+←", "previous tab")),
		MoveRight: key.NewBinding(key.WithKeys("alt+."), key.WithHelp("alt+.", "move tab right")),
		MoveLeft:  key.NewBinding(key.WithKeys("alt+,"), key.WithHelp("alt+,", "move tab left")),
		Switch:    key.NewBinding(key.WithKeys("ctrl+p"), key.WithHelp("ctrl+p", "switch tab")),
		FileType:  key.NewBinding(key.WithKeys("ctrl+t"), key.WithHelp("ctrl+t", "file type")),

		Insert: key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "edit")),
		Escape: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),

		Accept:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "accept")),
		NextFilter:  key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next filter")),
		ConfirmSave: key.NewBinding(key.WithKeys("s", "S", "y"), key.WithHelp("s", "save")),
		Discard:     key.NewBinding(key.WithKeys("d", "D", "n"), key.WithHelp("d", "discard")),
		Cancel:      key.NewBinding(key.WithKeys("c", "C", "esc"), key.WithHelp("c", "cancel")),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Insert, k.Save, k.Open, k.Close, k.Switch, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.New, k.Open, k.Save, k.SaveAs, k.Close},
		{k.NextTab, k.PrevTab, k.MoveRight, k.MoveLeft, k.Switch},
		{k.Insert, k.Escape, k.FileType, k.Help, k.Quit},
	}
}
