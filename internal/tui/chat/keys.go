package chat

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines keybindings for the chat TUI
type KeyMap struct {
	// Global
	Quit    key.Binding
	NewChat key.Binding
	History key.Binding

	// Editor
	Send       key.Binding
	Newline    key.Binding
	NewlineAlt key.Binding
	Cancel     key.Binding

	// Suggestions
	Suggest1 key.Binding
	Suggest2 key.Binding
	Suggest3 key.Binding
}

// DefaultKeyMap returns the default keybindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
		NewChat: key.NewBinding(
			key.WithKeys("ctrl+n"),
			key.WithHelp("ctrl+n", "new chat"),
		),
		History: key.NewBinding(
			key.WithKeys("ctrl+h"),
			key.WithHelp("ctrl+h", "history"),
		),
		Send: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "send"),
		),
		Newline: key.NewBinding(
			key.WithKeys("ctrl+j"),
			key.WithHelp("ctrl+j", "newline"),
		),
		NewlineAlt: key.NewBinding(
			key.WithKeys("alt+enter", "shift+enter"),
			key.WithHelp("alt+enter", "newline"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
		Suggest1: key.NewBinding(
			key.WithKeys("alt+1"),
			key.WithHelp("alt+1", "suggestion 1"),
		),
		Suggest2: key.NewBinding(
			key.WithKeys("alt+2"),
			key.WithHelp("alt+2", "suggestion 2"),
		),
		Suggest3: key.NewBinding(
			key.WithKeys("alt+3"),
			key.WithHelp("alt+3", "suggestion 3"),
		),
	}
}
