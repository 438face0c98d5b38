package engine

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/yolk/internal/bundle"
	"github.com/vovakirdan/yolk/internal/config"
	"github.com/vovakirdan/yolk/internal/platform"
	"github.com/vovakirdan/yolk/internal/script"
)

// fakeClock advances by step on every Now and by d on every Sleep.
type fakeClock struct {
	now     time.Duration
	step    time.Duration
	sleeps  []time.Duration
	onSleep func(n int)
}

func (c *fakeClock) Now() time.Duration {
	t := c.now
	c.now += c.step
	return t
}

func (c *fakeClock) Sleep(d time.Duration) {
	c.now += d
	c.sleeps = append(c.sleeps, d)
	if c.onSleep != nil {
		c.onSleep(len(c.sleeps))
	}
}

// fakeRuntime is a scriptable script.Runtime.
type fakeRuntime struct {
	host    script.Host
	loadErr error

	onInit   func(h script.Host) error
	onUpdate func(n int, h script.Host) error
	onDraw   func(n int, h script.Host) error
	onAudio  func(h script.Host) error

	inits, updates, draws, audioCalls int
	slots                             []int
	releases, closes                  int
}

// current is handed out by the ".fake" factory.
var current *fakeRuntime

func init() {
	script.Register(".fake", "Fake", func(h script.Host) script.Runtime {
		current.host = h
		return current
	})
}

func (f *fakeRuntime) Load(string, []byte) (script.Program, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return fakeProgram{f}, nil
}

func (f *fakeRuntime) EnsureSlots(n int) {
	f.slots = append(f.slots, n)
}

func (f *fakeRuntime) AudioHook() (func() error, bool) {
	if f.onAudio == nil {
		return nil, false
	}
	return func() error {
		f.audioCalls++
		return f.onAudio(f.host)
	}, true
}

func (f *fakeRuntime) Release() { f.releases++ }

func (f *fakeRuntime) Close() error {
	f.closes++
	return nil
}

type fakeProgram struct{ f *fakeRuntime }

func (p fakeProgram) Init() error {
	p.f.inits++
	if p.f.onInit != nil {
		return p.f.onInit(p.f.host)
	}
	return nil
}

func (p fakeProgram) Update() error {
	p.f.updates++
	if p.f.onUpdate != nil {
		return p.f.onUpdate(p.f.updates, p.f.host)
	}
	return nil
}

func (p fakeProgram) Draw(float64) error {
	p.f.draws++
	if p.f.onDraw != nil {
		return p.f.onDraw(p.f.draws, p.f.host)
	}
	return nil
}

// harness wires a Context to a headless window, a fake clock and a temp
// game directory.
type harness struct {
	t      *testing.T
	dir    string
	win    *platform.Headless
	clock  *fakeClock
	cfg    config.Config
	record string
	logs   bytes.Buffer
	ctx    *Context
}

func newHarness(t *testing.T, hopts platform.HeadlessOptions) *harness {
	t.Helper()
	hopts.VSync = true
	cfg := config.DefaultConfig()
	cfg.Audio.Enabled = false

	return &harness{
		t:     t,
		dir:   t.TempDir(),
		win:   platform.NewHeadless(hopts),
		clock: &fakeClock{step: 17 * time.Millisecond},
		cfg:   cfg,
	}
}

// writeEntry creates the entry script and resolves it.
func (h *harness) writeEntry(name, src string) *bundle.Entry {
	h.t.Helper()
	if err := os.WriteFile(filepath.Join(h.dir, name), []byte(src), 0o600); err != nil {
		h.t.Fatal(err)
	}
	entry, err := bundle.Resolve(h.dir, name)
	if err != nil {
		h.t.Fatalf("Resolve() failed: %v", err)
	}
	return entry
}

func (h *harness) build(entry *bundle.Entry) *Context {
	h.t.Helper()
	c, err := New(Options{
		Entry:      entry,
		Window:     h.win,
		Config:     h.cfg,
		RecordPath: h.record,
		Clock:      h.clock,
		Logger:     log.NewWithOptions(&h.logs, log.Options{Level: log.DebugLevel}),
	})
	if err != nil {
		h.t.Fatalf("New() failed: %v", err)
	}
	h.ctx = c
	return c
}

// runFake runs a fake game to completion.
func (h *harness) runFake(f *fakeRuntime) (int, error) {
	h.t.Helper()
	current = f
	c := h.build(h.writeEntry("main.fake", "fake"))
	return c.Run(context.Background())
}

var errBoom = errors.New("boom")
