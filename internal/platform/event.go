// Package platform defines the window the engine presents to and the
// events it reads back. Backends live in subpackages; the headless one
// here drives tests and --headless runs.
package platform

import "fmt"

// EventKind identifies an event.
type EventKind int

const (
	EventNone EventKind = iota
	EventQuit
	EventResize
	EventFocusLost
	EventFocusGained
	EventKeyDown
	EventKeyUp
)

var kindNames = map[EventKind]string{
	EventNone:        "none",
	EventQuit:        "quit",
	EventResize:      "resize",
	EventFocusLost:   "focus-lost",
	EventFocusGained: "focus-gained",
	EventKeyDown:     "key-down",
	EventKeyUp:       "key-up",
}

func (k EventKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("event(%d)", int(k))
}

// Event is one input or window notification.
type Event struct {
	Kind EventKind

	// Key is the key name for key events, in Bubble Tea's spelling
	// ("left", "space", "f3", "ctrl+c").
	Key    string
	Repeat bool
	// Transient marks a key press that will never get a matching release.
	Transient bool

	// Width and Height carry the new outer size for resize events.
	Width, Height int
}

// String returns the key name for key events so events can be matched
// against key bindings directly.
func (e Event) String() string {
	if e.Kind == EventKeyDown || e.Kind == EventKeyUp {
		return e.Key
	}
	return e.Kind.String()
}

// KeyDown builds a key press event.
func KeyDown(name string) Event {
	return Event{Kind: EventKeyDown, Key: name}
}

// KeyUp builds a key release event.
func KeyUp(name string) Event {
	return Event{Kind: EventKeyUp, Key: name}
}

// Resize builds a resize event.
func Resize(width, height int) Event {
	return Event{Kind: EventResize, Width: width, Height: height}
}
