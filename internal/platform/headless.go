package platform

import (
	"errors"

	"github.com/vovakirdan/yolk/internal/core"
)

// HeadlessOptions configures a Headless window.
type HeadlessOptions struct {
	Width, Height int

	// MaxFrames emits a quit event once this many frames were presented.
	// Zero means run until something else stops the loop.
	MaxFrames int

	// Events are delivered by Poll once the given number of frames have
	// been presented.
	Events map[int][]Event

	VSync bool
}

// Headless is an off-screen window. It keeps the last presented frame so
// tests can inspect it.
type Headless struct {
	opts      HeadlessOptions
	width     int
	height    int
	title     string
	pending   []Event
	delivered map[int]bool
	quitSent  bool

	shown     bool
	closed    bool
	presented int
	last      []uint32
	overlay   string
}

var errClosed = errors.New("platform: window closed")

// NewHeadless creates an off-screen window of the given outer size.
func NewHeadless(opts HeadlessOptions) *Headless {
	if opts.Width <= 0 {
		opts.Width = core.ScreenWidth
	}
	if opts.Height <= 0 {
		opts.Height = core.ScreenHeight
	}
	return &Headless{
		opts:      opts,
		width:     opts.Width,
		height:    opts.Height,
		delivered: make(map[int]bool),
	}
}

// Push queues an event for the next Poll.
func (h *Headless) Push(e Event) {
	h.pending = append(h.pending, e)
}

func (h *Headless) Poll() (Event, bool) {
	if !h.delivered[h.presented] {
		h.delivered[h.presented] = true
		h.pending = append(h.pending, h.opts.Events[h.presented]...)
	}
	if len(h.pending) > 0 {
		e := h.pending[0]
		h.pending = h.pending[1:]
		if e.Kind == EventResize {
			h.width, h.height = e.Width, e.Height
		}
		return e, true
	}
	if h.opts.MaxFrames > 0 && h.presented >= h.opts.MaxFrames && !h.quitSent {
		h.quitSent = true
		return Event{Kind: EventQuit}, true
	}
	return Event{}, false
}

func (h *Headless) Show() error {
	if h.closed {
		return errClosed
	}
	h.shown = true
	return nil
}

func (h *Headless) Present(f Frame) error {
	if h.closed {
		return errClosed
	}
	h.last = append(h.last[:0], f.Pixels...)
	h.overlay = f.Overlay
	h.presented++
	return nil
}

func (h *Headless) Size() (int, int) {
	return h.width, h.height
}

func (h *Headless) SetSize(width, height int) {
	h.width, h.height = width, height
}

func (h *Headless) SetTitle(title string) {
	h.title = title
}

func (h *Headless) VSync() bool {
	return h.opts.VSync
}

// Close is idempotent.
func (h *Headless) Close() error {
	h.closed = true
	return nil
}

// Shown reports whether Show was called.
func (h *Headless) Shown() bool { return h.shown }

// Closed reports whether Close was called.
func (h *Headless) Closed() bool { return h.closed }

// Presented returns how many frames were presented.
func (h *Headless) Presented() int { return h.presented }

// Pending returns how many queued events Poll has not handed out.
func (h *Headless) Pending() int { return len(h.pending) }

// Title returns the current title.
func (h *Headless) Title() string { return h.title }

// LastFrame returns a copy of the last presented pixels.
func (h *Headless) LastFrame() []uint32 {
	return append([]uint32(nil), h.last...)
}

// Overlay returns the overlay text of the last presented frame.
func (h *Headless) Overlay() string { return h.overlay }

var _ Window = (*Headless)(nil)
