package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/yolk/internal/platform"
)

// frameMsg carries a rendered frame from the engine.
type frameMsg string

// titleMsg asks the terminal to change its title.
type titleMsg string

// Model is the Bubble Tea model behind a terminal Window. It owns no game
// state: it forwards input to the engine and shows whatever frame the
// engine sent last.
type Model struct {
	events  chan<- platform.Event
	closing <-chan struct{}
	view    string
}

// NewModel creates a model that forwards events on events until closing
// is closed.
func NewModel(events chan<- platform.Event, closing <-chan struct{}) Model {
	return Model{events: events, closing: closing}
}

// Init does nothing; Bubble Tea reports the initial size on its own.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case frameMsg:
		m.view = string(msg)

	case titleMsg:
		return m, tea.SetWindowTitle(string(msg))

	case tea.KeyMsg:
		m.emit(KeyEvent(msg))

	case tea.WindowSizeMsg:
		w, h := PixelSize(msg.Width, msg.Height)
		m.emit(platform.Resize(w, h))

	case tea.FocusMsg:
		m.emit(platform.Event{Kind: platform.EventFocusGained})

	case tea.BlurMsg:
		m.emit(platform.Event{Kind: platform.EventFocusLost})
	}

	return m, nil
}

// emit hands an event to the engine, giving up once the window is closing.
func (m Model) emit(e platform.Event) {
	select {
	case m.events <- e:
	case <-m.closing:
	}
}

// View renders the last frame.
func (m Model) View() string {
	return m.view
}

// PixelSize converts a terminal size in cells to the drawable size in
// half-block pixels. One row is kept for the status line.
func PixelSize(cols, rows int) (int, int) {
	if rows < 2 {
		return cols, 0
	}
	return cols, (rows - 1) * 2
}
