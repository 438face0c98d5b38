package core

import "time"

// Logical frame dimensions. Scripts always draw into a GameWidth x
// GameHeight canvas; backends scale it for display.
const (
	GameWidth  = 320
	GameHeight = 240
	Scale      = 2

	ScreenWidth  = GameWidth * Scale
	ScreenHeight = GameHeight * Scale
)

// FPS is the fixed simulation rate.
const FPS = 60

// TickMS is the duration of one fixed update in milliseconds.
const TickMS = 1000.0 / FPS

// Frame pacing sleeps.
const (
	// UnfocusedSleep is how long an iteration idles while the window is unfocused.
	UnfocusedSleep = 50 * time.Millisecond
	// NoVSyncSleep is yielded after each presented frame when the backend
	// does not block on vertical sync.
	NoVSyncSleep = time.Millisecond
)
