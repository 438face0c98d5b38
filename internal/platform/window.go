package platform

import "github.com/vovakirdan/yolk/internal/core"

// Frame is one presented image.
type Frame struct {
	// Pixels holds Width*Height packed ARGB values. Backends must not keep
	// the slice after Present returns.
	Pixels        []uint32
	Width, Height int

	// Viewport is where the canvas lands inside the window's outer area.
	Viewport core.Rect

	// Overlay is optional status text drawn over the frame.
	Overlay string
}

// Window is a presentation surface plus its event source. All methods are
// called from the main loop goroutine.
type Window interface {
	// Poll returns the next pending event without blocking.
	Poll() (Event, bool)

	// Show makes the window visible. It is called once, after the game's
	// init succeeded.
	Show() error

	// Present displays a frame.
	Present(f Frame) error

	// Size returns the outer drawable size in pixels.
	Size() (width, height int)

	// SetSize requests a new outer size. Backends that cannot resize
	// ignore it.
	SetSize(width, height int)

	SetTitle(title string)

	// VSync reports whether Present blocks until the next refresh.
	VSync() bool

	Close() error
}
