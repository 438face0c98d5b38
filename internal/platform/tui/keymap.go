package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/yolk/internal/platform"
)

// keyNames renames Bubble Tea keys whose String() is not a usable name.
var keyNames = map[string]string{
	" ":     "space",
	"enter": "return",
	"esc":   "escape",
}

// KeyName returns the engine's name for a key message.
func KeyName(msg tea.KeyMsg) string {
	name := msg.String()
	if mapped, ok := keyNames[name]; ok {
		return mapped
	}
	return name
}

// KeyEvent translates a key message into a key press. Terminals never
// report releases, so the press is marked transient.
func KeyEvent(msg tea.KeyMsg) platform.Event {
	return platform.Event{
		Kind:      platform.EventKeyDown,
		Key:       KeyName(msg),
		Transient: true,
	}
}
