// Package lua runs games written in Lua 5.2 on go-lua.
//
// A game is a chunk that sets a global table Game with init, update and
// draw functions. Hooks are called with Game as their first argument, so
// both Game.update() and Game:update() definitions work.
package lua

import (
	_ "embed"
	"errors"
	"fmt"

	glua "github.com/Shopify/go-lua"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/yolk/internal/script"
)

//go:embed prelude.lua
var prelude string

// Registry keys for the handles the engine holds on to.
const (
	keyGame       = "yolk.game"
	keyInit       = "yolk.init"
	keyUpdate     = "yolk.update"
	keyDraw       = "yolk.draw"
	keyAudio      = "yolk.audio"
	keyAudioFlush = "yolk.audio.update"
)

func init() {
	script.Register(".lua", "Lua", New)
}

// Runtime hosts one Lua state.
type Runtime struct {
	host script.Host
	l    *glua.State
	log  *log.Logger

	handles  []string // Registry keys acquired so far
	attached bool
	exiting  bool // Set by Process.exit until the call unwinds
	exitCode int
	released bool
	closed   bool
}

// New creates a Lua state with the standard libraries and the engine API.
func New(host script.Host) script.Runtime {
	l := glua.NewState()
	glua.OpenLibraries(l)

	r := &Runtime{
		host: host,
		l:    l,
		log:  host.Logger().WithPrefix("lua"),
	}
	r.installAPI()

	if err := glua.DoString(l, prelude); err != nil {
		panic("failed to run Lua prelude: " + err.Error())
	}
	l.Global("AudioEngine")
	l.Field(-1, "update")
	r.ref(keyAudioFlush)
	r.ref(keyAudio)

	return r
}

// ref pops the top of the stack into the registry under key.
func (r *Runtime) ref(key string) {
	r.l.SetField(glua.RegistryIndex, key)
	r.handles = append(r.handles, key)
}

// Load runs the chunk and binds the Game hooks.
func (r *Runtime) Load(name string, src []byte) (script.Program, error) {
	if r.closed {
		return nil, errors.New("lua: runtime closed")
	}
	l := r.l
	base := l.Top()
	defer l.SetTop(base)

	if err := glua.LoadBuffer(l, string(src), "@"+name, ""); err != nil {
		return nil, script.NewError(script.PhaseLoad, r.errorMessage(err), err)
	}
	r.exiting = false
	if err := l.ProtectedCall(0, 0, 0); err != nil {
		return nil, r.wrapError(script.PhaseLoad, err)
	}

	l.Global("Game")
	if !l.IsTable(-1) {
		return nil, script.NewError(script.PhaseLoad, fmt.Sprintf("%s does not define Game", name), script.ErrMissingGame)
	}
	l.PushValue(-1)
	r.ref(keyGame)

	hooks := []struct {
		name string
		key  string
	}{
		{"init", keyInit},
		{"update", keyUpdate},
		{"draw", keyDraw},
	}
	for _, h := range hooks {
		l.Field(-1, h.name)
		if !l.IsFunction(-1) {
			return nil, script.NewError(script.PhaseLoad, fmt.Sprintf("Game.%s is not a function", h.name), script.ErrMissingHook)
		}
		r.ref(h.key)
	}

	r.log.Debug("game loaded", "file", name)
	return program{r}, nil
}

// EnsureSlots grows the Lua stack so a hook call has room for n values.
func (r *Runtime) EnsureSlots(n int) {
	if r.closed {
		return
	}
	if !r.l.CheckStack(n) {
		r.log.Warn("could not grow Lua stack", "slots", n)
	}
}

// AudioHook returns AudioEngine.update once the script has used audio.
func (r *Runtime) AudioHook() (func() error, bool) {
	if !r.attached || r.released {
		return nil, false
	}
	return func() error {
		return r.call(script.PhaseAudio, keyAudioFlush, keyAudio)
	}, true
}

// Release clears every registry handle acquired so far.
func (r *Runtime) Release() {
	if r.released || r.closed {
		return
	}
	r.released = true
	for _, key := range r.handles {
		r.l.PushNil()
		r.l.SetField(glua.RegistryIndex, key)
	}
	r.handles = nil
}

// Close releases handles and drops the state.
func (r *Runtime) Close() error {
	if r.closed {
		return nil
	}
	r.Release()
	r.closed = true
	r.l = nil
	return nil
}

// call invokes the function stored under fnKey with the value under
// selfKey as its first argument.
func (r *Runtime) call(phase script.Phase, fnKey, selfKey string, args ...float64) error {
	if r.released || r.closed {
		return script.NewError(phase, "handles released", script.ErrReleased)
	}
	l := r.l
	base := l.Top()
	defer l.SetTop(base)

	l.Field(glua.RegistryIndex, fnKey)
	if !l.IsFunction(-1) {
		return script.NewError(phase, "handles released", script.ErrReleased)
	}
	l.Field(glua.RegistryIndex, selfKey)
	for _, a := range args {
		l.PushNumber(a)
	}
	r.exiting = false

	if err := l.ProtectedCall(1+len(args), 0, 0); err != nil {
		return r.wrapError(phase, err)
	}
	return nil
}

// wrapError converts a failed protected call into a script error. The
// error value is on top of the stack.
func (r *Runtime) wrapError(phase script.Phase, err error) error {
	msg := r.errorMessage(err)
	if r.exiting {
		r.exiting = false
		if r.exitCode == 0 {
			return script.NewError(phase, "exit requested", script.ErrExit)
		}
	}
	return script.NewError(phase, msg, err)
}

func (r *Runtime) errorMessage(err error) string {
	if msg, ok := r.l.ToString(-1); ok && msg != "" {
		return msg
	}
	return err.Error()
}

type program struct {
	r *Runtime
}

func (p program) Init() error {
	return p.r.call(script.PhaseInit, keyInit, keyGame)
}

func (p program) Update() error {
	return p.r.call(script.PhaseUpdate, keyUpdate, keyGame)
}

func (p program) Draw(alpha float64) error {
	return p.r.call(script.PhaseDraw, keyDraw, keyGame, alpha)
}

// Compile-time interface check
var _ script.Runtime = (*Runtime)(nil)
