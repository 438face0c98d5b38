// Package js runs games written in JavaScript on the goja interpreter.
//
// A game is a script that defines a global Game with init, update and draw
// functions; either a plain object or a class with static methods works.
package js

import (
	_ "embed"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/dop251/goja"

	"github.com/vovakirdan/yolk/internal/script"
)

//go:embed prelude.js
var prelude string

// gameLookup finds Game whether it was declared with var, let, const or class.
const gameLookup = "typeof Game === 'undefined' ? undefined : Game"

func init() {
	script.Register(".js", "JavaScript", New)
}

// Runtime hosts one goja VM.
type Runtime struct {
	host script.Host
	vm   *goja.Runtime
	log  *log.Logger

	game   *goja.Object
	init   goja.Callable
	update goja.Callable
	draw   goja.Callable

	audio      *goja.Object
	audioFlush goja.Callable
	attached   bool

	released bool
	closed   bool
}

// New creates a runtime with the engine API installed.
func New(host script.Host) script.Runtime {
	r := &Runtime{
		host: host,
		vm:   goja.New(),
		log:  host.Logger().WithPrefix("js"),
	}

	if err := r.installAPI(); err != nil {
		// Registration errors are programming bugs, not runtime errors
		panic("failed to register JS API: " + err.Error())
	}
	if _, err := r.vm.RunScript("prelude.js", prelude); err != nil {
		panic("failed to run JS prelude: " + err.Error())
	}

	audio := r.vm.Get("AudioEngine").ToObject(r.vm)
	flush, ok := goja.AssertFunction(audio.Get("update"))
	if !ok {
		panic("JS prelude does not define AudioEngine.update")
	}
	r.audio = audio
	r.audioFlush = flush

	return r
}

// Load runs src and binds the Game hooks.
func (r *Runtime) Load(name string, src []byte) (script.Program, error) {
	if r.closed {
		return nil, errors.New("js: runtime closed")
	}
	defer r.vm.ClearInterrupt()

	if _, err := r.vm.RunScript(name, string(src)); err != nil {
		return nil, wrapError(script.PhaseLoad, err)
	}

	v, err := r.vm.RunString(gameLookup)
	if err != nil {
		return nil, wrapError(script.PhaseLoad, err)
	}
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return nil, script.NewError(script.PhaseLoad, fmt.Sprintf("%s does not define Game", name), script.ErrMissingGame)
	}
	r.game = v.ToObject(r.vm)

	hooks := []struct {
		name string
		dst  *goja.Callable
	}{
		{"init", &r.init},
		{"update", &r.update},
		{"draw", &r.draw},
	}
	for _, h := range hooks {
		fn, ok := goja.AssertFunction(r.game.Get(h.name))
		if !ok {
			return nil, script.NewError(script.PhaseLoad, fmt.Sprintf("Game.%s is not a function", h.name), script.ErrMissingHook)
		}
		*h.dst = fn
	}

	r.log.Debug("game loaded", "file", name)
	return program{r}, nil
}

// EnsureSlots is a no-op: goja grows its stack on demand.
func (r *Runtime) EnsureSlots(int) {}

// AudioHook returns AudioEngine.update once the script has used audio.
func (r *Runtime) AudioHook() (func() error, bool) {
	if !r.attached || r.released {
		return nil, false
	}
	return func() error {
		return r.call(script.PhaseAudio, r.audioFlush, r.audio)
	}, true
}

// Release drops the Game object and its hooks.
func (r *Runtime) Release() {
	if r.released {
		return
	}
	r.released = true
	r.game = nil
	r.init, r.update, r.draw = nil, nil, nil
	r.audio, r.audioFlush = nil, nil
}

// Close releases handles and discards the VM.
func (r *Runtime) Close() error {
	if r.closed {
		return nil
	}
	r.Release()
	r.closed = true
	r.vm = nil
	return nil
}

func (r *Runtime) call(phase script.Phase, fn goja.Callable, this goja.Value, args ...goja.Value) error {
	if fn == nil || r.vm == nil {
		return script.NewError(phase, "handles released", script.ErrReleased)
	}
	defer r.vm.ClearInterrupt()

	_, err := fn(this, args...)
	return wrapError(phase, err)
}

// wrapError converts goja failures into script errors.
func wrapError(phase script.Phase, err error) error {
	if err == nil {
		return nil
	}

	var interrupted *goja.InterruptedError
	if errors.As(err, &interrupted) {
		return script.NewError(phase, "exit requested", script.ErrExit)
	}

	var ex *goja.Exception
	if errors.As(err, &ex) {
		return script.NewError(phase, ex.Error(), err)
	}
	return script.NewError(phase, err.Error(), err)
}

type program struct {
	r *Runtime
}

func (p program) Init() error {
	return p.r.call(script.PhaseInit, p.r.init, p.r.game)
}

func (p program) Update() error {
	return p.r.call(script.PhaseUpdate, p.r.update, p.r.game)
}

func (p program) Draw(alpha float64) error {
	if p.r.vm == nil {
		return script.NewError(script.PhaseDraw, "handles released", script.ErrReleased)
	}
	return p.r.call(script.PhaseDraw, p.r.draw, p.r.game, p.r.vm.ToValue(alpha))
}

// Compile-time interface check
var _ script.Runtime = (*Runtime)(nil)
