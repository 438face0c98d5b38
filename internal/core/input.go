package core

import "strings"

// InputFrame holds the keys held down since the last fixed update.
// Backends that cannot report key releases (terminals) rely on the engine
// clearing the frame after each update.
type InputFrame struct {
	// Keys maps normalized key names ("left", "space", "a") to their state.
	Keys map[string]bool
}

// NewInputFrame creates an empty input frame.
func NewInputFrame() InputFrame {
	return InputFrame{
		Keys: make(map[string]bool),
	}
}

// NormalizeKey lowercases and trims a key name so scripts can ask for
// "Left" or "left" interchangeably.
func NormalizeKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Press marks a key as held.
func (f *InputFrame) Press(key string) {
	if f.Keys == nil {
		f.Keys = make(map[string]bool)
	}
	f.Keys[NormalizeKey(key)] = true
}

// Release marks a key as no longer held.
func (f *InputFrame) Release(key string) {
	delete(f.Keys, NormalizeKey(key))
}

// Has returns true if the key is held in this frame.
func (f InputFrame) Has(key string) bool {
	if f.Keys == nil {
		return false
	}
	return f.Keys[NormalizeKey(key)]
}

// Clear releases every key.
func (f *InputFrame) Clear() {
	for k := range f.Keys {
		delete(f.Keys, k)
	}
}
