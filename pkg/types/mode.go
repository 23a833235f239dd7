package types

// Mode represents the current mode of the TUI
type Mode int

const (
	// View shows the highlighted active document and takes commands
	View Mode = iota
	// Insert edits the active document
	Insert
	// Prompt reads a file name for open or save as
	Prompt
	// Confirm asks save, discard or cancel for a modified tab
	Confirm
	// Switch is the fuzzy tab switcher
	Switch
)

func (m Mode) String() string {
	switch m {
	case Insert:
		return "INSERT"
	case Prompt:
		return "PROMPT"
	case Confirm:
		return "CONFIRM"
	case Switch:
		return "SWITCH"
	default:
		return "VIEW"
	}
}
