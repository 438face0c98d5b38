// Package tui presents the engine canvas in a terminal using Bubble Tea.
// Bubble Tea runs on its own goroutine; the engine talks to it only through
// the event channel and Program.Send.
package tui

import (
	"io"
	"os"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"github.com/vovakirdan/yolk/internal/platform"
)

// eventBuffer is how many input events may queue up between two frames.
const eventBuffer = 256

// Options configures a terminal window.
type Options struct {
	Title  string
	Input  io.Reader // Defaults to stdin
	Output io.Writer // Defaults to stdout
	Logger *log.Logger
}

// Window is a platform.Window backed by a Bubble Tea program.
type Window struct {
	prog    *tea.Program
	events  chan platform.Event
	closing chan struct{}
	done    chan struct{}
	log     *log.Logger

	mu      sync.Mutex
	cols    int
	rows    int
	title   string
	started bool
	closed  bool
	runErr  error
}

// New prepares a terminal window. Nothing is drawn until Show.
func New(opts Options) *Window {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	cols, rows := 80, 24
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		cols, rows = w, h
	}

	w := &Window{
		events:  make(chan platform.Event, eventBuffer),
		closing: make(chan struct{}),
		done:    make(chan struct{}),
		log:     logger.WithPrefix("tui"),
		cols:    cols,
		rows:    rows,
		title:   opts.Title,
	}

	progOpts := []tea.ProgramOption{
		tea.WithAltScreen(),
		tea.WithReportFocus(),
	}
	if opts.Input != nil {
		progOpts = append(progOpts, tea.WithInput(opts.Input))
	}
	if opts.Output != nil {
		progOpts = append(progOpts, tea.WithOutput(opts.Output))
	}
	w.prog = tea.NewProgram(NewModel(w.events, w.closing), progOpts...)

	return w
}

// Poll returns the next queued event. Resizes update the cached size
// before they are handed out.
func (w *Window) Poll() (platform.Event, bool) {
	select {
	case e := <-w.events:
		if e.Kind == platform.EventResize {
			w.mu.Lock()
			w.cols = e.Width
			w.rows = e.Height/2 + 1
			w.mu.Unlock()
		}
		return e, true
	default:
		return platform.Event{}, false
	}
}

// Show starts the Bubble Tea program.
func (w *Window) Show() error {
	w.mu.Lock()
	if w.started || w.closed {
		w.mu.Unlock()
		return nil
	}
	w.started = true
	title := w.title
	w.mu.Unlock()

	go func() {
		defer close(w.done)
		_, err := w.prog.Run()
		w.mu.Lock()
		w.runErr = err
		w.mu.Unlock()
		if err != nil {
			w.log.Error("terminal program stopped", "error", err)
		}
		// The program can end on its own (signal, broken tty)
		select {
		case w.events <- platform.Event{Kind: platform.EventQuit}:
		case <-w.closing:
		}
	}()

	if title != "" {
		w.prog.Send(titleMsg(title))
	}
	return nil
}

// Present renders f on the calling goroutine and hands the text to Bubble Tea.
func (w *Window) Present(f platform.Frame) error {
	w.mu.Lock()
	started, cols, rows := w.started && !w.closed, w.cols, w.rows
	w.mu.Unlock()
	if !started {
		return nil
	}

	w.prog.Send(frameMsg(RenderFrame(f, cols, rows)))
	return nil
}

// Size returns the drawable size in half-block pixels.
func (w *Window) Size() (int, int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return PixelSize(w.cols, w.rows)
}

// SetSize is ignored: a program cannot resize its terminal.
func (w *Window) SetSize(width, height int) {
	w.log.Debug("terminal cannot be resized", "width", width, "height", height)
}

// SetTitle changes the terminal title.
func (w *Window) SetTitle(title string) {
	w.mu.Lock()
	w.title = title
	started := w.started && !w.closed
	w.mu.Unlock()

	if started {
		w.prog.Send(titleMsg(title))
	}
}

// VSync is false: frames are pushed as fast as the loop produces them.
func (w *Window) VSync() bool {
	return false
}

// Close stops the program and restores the terminal. It is idempotent.
func (w *Window) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	started := w.started
	w.mu.Unlock()

	close(w.closing)
	if !started {
		return nil
	}

	w.prog.Quit()
	<-w.done

	w.mu.Lock()
	defer w.mu.Unlock()
	return w.runErr
}

// Compile-time interface check
var _ platform.Window = (*Window)(nil)
