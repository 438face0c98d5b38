// Package engine runs a game: it loads the entry script, drives the
// fixed-timestep loop and tears everything down in one place.
package engine

import (
	"errors"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/yolk/internal/async"
	"github.com/vovakirdan/yolk/internal/audio"
	"github.com/vovakirdan/yolk/internal/bundle"
	"github.com/vovakirdan/yolk/internal/capture"
	"github.com/vovakirdan/yolk/internal/config"
	"github.com/vovakirdan/yolk/internal/core"
	"github.com/vovakirdan/yolk/internal/platform"
	"github.com/vovakirdan/yolk/internal/script"
)

// ErrAudioUnlocked is returned by native audio calls made outside the
// script audio hook.
var ErrAudioUnlocked = errors.New("engine: audio call outside the audio update")

// Options configures a Context.
type Options struct {
	Entry  *bundle.Entry
	Window platform.Window
	Config config.Config

	// RecordPath enables GIF recording when non-empty.
	RecordPath string

	Clock     Clock      // Defaults to the system clock
	AudioSink audio.Sink // Defaults to audio.Discard
	KeyMap    *platform.KeyMap
	Logger    *log.Logger
}

// Context is everything one running game owns. There is one per process;
// it is created, run and shut down from a single goroutine.
type Context struct {
	cfg    config.Config
	entry  *bundle.Entry
	window platform.Window
	clock  Clock
	keys   platform.KeyMap
	log    *log.Logger

	canvas   *core.Canvas
	viewport core.Rect
	input    core.InputFrame
	pulsed   []string // Transient keys to release after the next update

	runtime  script.Runtime
	program  script.Program
	dispatch *Dispatcher

	audio       *audio.Engine
	audioLocked bool

	recordPath string
	recorder   *capture.Recorder

	loader  *async.Loader
	pending map[int]script.AsyncStatus

	timing  TimingState
	exit    exitRequest
	focused bool
	debug   bool
	stats   frameStats

	shutdownOnce sync.Once
	shutdownErr  error
}

// New assembles a Context. It takes ownership of the entry and the
// window: both are closed by shutdown.
func New(opts Options) (*Context, error) {
	if opts.Entry == nil {
		return nil, errors.New("engine: no entry")
	}
	if opts.Window == nil {
		return nil, errors.New("engine: no window")
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	clock := opts.Clock
	if clock == nil {
		clock = SystemClock()
	}
	keys := platform.DefaultKeyMap()
	if opts.KeyMap != nil {
		keys = *opts.KeyMap
	}

	cfg := opts.Config
	cfg.Normalize()

	c := &Context{
		cfg:        cfg,
		entry:      opts.Entry,
		window:     opts.Window,
		clock:      clock,
		keys:       keys,
		log:        logger,
		canvas:     core.NewCanvas(core.GameWidth, core.GameHeight),
		input:      core.NewInputFrame(),
		recordPath: opts.RecordPath,
		pending:    make(map[int]script.AsyncStatus),
		timing:     NewTimingState(cfg.Timing.MaxLagMS, cfg.Timing.Lockstep),
		focused:    true,
		debug:      cfg.Debug,
	}
	c.loader = async.NewLoader(c.entry.ReadFile, async.DefaultWorkers)

	if cfg.Audio.Enabled {
		c.audio = audio.New(audio.Config{
			BufferFrames: config.BufferFrames(cfg.Audio.BufferShift),
			SampleRate:   cfg.Audio.SampleRate,
			Sink:         opts.AudioSink,
			Logger:       logger,
		})
	}

	c.window.SetTitle(cfg.Window.Title)
	c.updateViewport()

	return c, nil
}

// updateViewport fits the canvas into the window's current outer size.
func (c *Context) updateViewport() {
	w, h := c.window.Size()
	c.viewport = core.FitViewport(w, h, c.canvas.Width(), c.canvas.Height())
}

// Canvas returns the frame buffer scripts draw into.
func (c *Context) Canvas() *core.Canvas {
	return c.canvas
}

// Viewport returns where the canvas is placed in the window.
func (c *Context) Viewport() core.Rect {
	return c.viewport
}

// Exit requests shutdown after the current script call. Only the first
// request counts.
func (c *Context) Exit(status int) {
	c.exit.request(status)
}

// ExitCode maps the final outcome to a process exit status.
func (c *Context) ExitCode(o Outcome) int {
	if c.exit.requested && c.exit.status != 0 {
		return c.exit.status
	}
	if o == ExitFailure {
		return 1
	}
	return 0
}

func (c *Context) ResizeWindow(width, height int) {
	c.window.SetSize(width, height)
	c.updateViewport()
}

func (c *Context) SetWindowTitle(title string) {
	c.window.SetTitle(title)
}

func (c *Context) SetLockstep(on bool) {
	c.timing.Lockstep = on
}

func (c *Context) IsKeyDown(name string) bool {
	return c.input.Has(name)
}

func (c *Context) ReadFile(name string) ([]byte, error) {
	return c.entry.ReadFile(name)
}

// LoadAsync starts a background read. Completions are picked up by the
// main loop; see drainAsync.
func (c *Context) LoadAsync(name string) int {
	id := c.loader.Submit(name)
	if id != 0 {
		c.pending[id] = script.AsyncStatus{Known: true}
	}
	return id
}

func (c *Context) AsyncResult(id int) script.AsyncStatus {
	return c.pending[id]
}

// drainAsync publishes finished loads to scripts.
func (c *Context) drainAsync() {
	c.loader.Drain(func(r async.Result) {
		c.pending[r.ID] = script.AsyncStatus{Known: true, Ready: true, Data: r.Data, Err: r.Err}
		if r.Err != nil {
			c.log.Warn("async load failed", "file", r.Name, "error", r.Err)
		}
	})
}

func (c *Context) AttachAudio() bool {
	return c.audio != nil
}

func (c *Context) PlayTone(freq, seconds, volume float64) error {
	if c.audio == nil {
		return nil
	}
	if !c.audioLocked {
		return ErrAudioUnlocked
	}
	_, err := c.audio.PlayTone(freq, seconds, volume)
	return err
}

func (c *Context) StopAudio() error {
	if c.audio == nil {
		return nil
	}
	if !c.audioLocked {
		return ErrAudioUnlocked
	}
	c.audio.StopAll()
	return nil
}

func (c *Context) Logger() *log.Logger {
	return c.log
}

// load creates the runtime for the entry script and binds its program.
func (c *Context) load() error {
	rt, err := script.ForFile(c.entry.Name, c)
	if err != nil {
		return fmt.Errorf("engine: %s: %w", c.entry.Name, err)
	}
	c.runtime = rt

	prog, err := rt.Load(c.entry.Name, c.entry.Source)
	if err != nil {
		return err
	}
	c.program = prog
	c.dispatch = &Dispatcher{
		runtime: rt,
		program: prog,
		exit:    &c.exit,
		locked:  &c.audioLocked,
		log:     c.log,
	}
	if c.audio != nil {
		c.dispatch.mixer = c.audio
	}
	return nil
}

// Compile-time interface check
var _ script.Host = (*Context)(nil)
