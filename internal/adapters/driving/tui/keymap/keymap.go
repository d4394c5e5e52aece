// Package keymap defines keybindings for the TUI.
package keymap

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines all keybindings for the TUI.
type KeyMap struct {
	// Quit exits without writing output.
	Quit key.Binding

	// Up navigates up in the question list.
	Up key.Binding

	// Down navigates down in the question list.
	Down key.Binding

	// Edit opens the selected answer for editing.
	Edit key.Binding

	// Copy copies the selected answer to the clipboard.
	Copy key.Binding

	// Accept finishes the review and outputs the document.
	Accept key.Binding

	// Save leaves edit mode, keeping the edited answer.
	Save key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit"),
		),
		Copy: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "copy"),
		),
		Accept: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "accept"),
		),
		Save: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "save"),
		),
	}
}

// ShortHelp returns the minimal keybinding hints.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Quit}
}

// ReviewHelp returns keybindings for the review view.
func (k *KeyMap) ReviewHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Edit, k.Copy, k.Accept, k.Quit}
}

// EditHelp returns keybindings for answer editing.
func (k *KeyMap) EditHelp() []key.Binding {
	return []key.Binding{k.Save}
}

// Matches checks if a key string matches a binding.
func Matches(keyStr string, binding key.Binding) bool {
	for _, k := range binding.Keys() {
		if k == keyStr {
			return true
		}
	}
	return false
}
