package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap lists the prompt key bindings. Every binding acknowledges: the
// prompt only gates termination, so there is nothing to cancel.
type keyMap struct {
	Acknowledge key.Binding
	Close       key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Acknowledge: key.NewBinding(
			key.WithKeys("enter", " ", "o"),
			key.WithHelp("enter", "ok, close dashboard"),
		),
		Close: key.NewBinding(
			key.WithKeys("esc", "q", "ctrl+c"),
			key.WithHelp("esc/q", "close"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Acknowledge, k.Close}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
