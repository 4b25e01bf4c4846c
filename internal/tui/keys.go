package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the key bindings of the confirmation prompt.
type KeyMap struct {
	Yes  key.Binding
	No   key.Binding
	All  key.Binding
	Quit key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Yes: key.NewBinding(
			key.WithKeys("y", "Y", "enter"),
			key.WithHelp("y", "write"),
		),
		No: key.NewBinding(
			key.WithKeys("n", "N"),
			key.WithHelp("n", "skip"),
		),
		All: key.NewBinding(
			key.WithKeys("a", "A"),
			key.WithHelp("a", "write all"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "skip all"),
		),
	}
}

// HelpText returns the one-line help shown under the prompt.
func (k KeyMap) HelpText() string {
	bindings := []key.Binding{k.Yes, k.No, k.All, k.Quit}
	text := ""
	for i, b := range bindings {
		if i > 0 {
			text += " " + SymbolBullet + " "
		}
		text += b.Help().Key + " " + b.Help().Desc
	}
	return text
}
