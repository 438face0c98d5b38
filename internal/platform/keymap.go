package platform

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds the engine's own bindings. Keys not bound here go to the
// game.
type KeyMap struct {
	Debug      key.Binding
	Screenshot key.Binding
	Quit       key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Debug, k.Screenshot, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// DefaultKeyMap returns default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Debug: key.NewBinding(
			key.WithKeys("f3"),
			key.WithHelp("F3", "debug overlay"),
		),
		Screenshot: key.NewBinding(
			key.WithKeys("f2"),
			key.WithHelp("F2", "screenshot"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
	}
}
