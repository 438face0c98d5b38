// Package script defines the contract between the engine and an embedded
// scripting language. The engine only ever talks to a Runtime and the
// Program it loads; language packages register a Factory keyed by file
// extension and never import the engine.
package script

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/yolk/internal/core"
)

// Lifecycle stack needs, in slots, for each hook.
const (
	InitSlots   = 3
	UpdateSlots = 8
	DrawSlots   = 8
	AudioSlots  = 3
)

// Program is the lifecycle capability of a loaded game. A Runtime only
// hands one out once all three hooks were found.
type Program interface {
	// Init runs once before the first frame.
	Init() error

	// Update advances the game by one fixed tick.
	Update() error

	// Draw renders the current state. Alpha is how far the clock is
	// between the last update and the next one, in [0, 1).
	Draw(alpha float64) error
}

// Runtime is one language VM. It is driven from a single goroutine.
type Runtime interface {
	// Load compiles and runs src, then locates the Game object and its
	// lifecycle hooks.
	Load(name string, src []byte) (Program, error)

	// EnsureSlots reserves room for n values on the VM stack before a call.
	EnsureSlots(n int)

	// AudioHook returns the script-level audio update function. The second
	// result is false until the script has used the audio API.
	AudioHook() (func() error, bool)

	// Release drops every handle acquired by Load. It is safe after a failed
	// or partial Load and after a previous Release.
	Release()

	// Close tears down the VM.
	Close() error
}

// AsyncStatus is the state of a background load as seen by a script.
type AsyncStatus struct {
	Known bool
	Ready bool
	Data  []byte
	Err   error
}

// Host is everything a script may reach in the engine.
type Host interface {
	// Exit requests the engine stop after the current call. The status is
	// the process exit code.
	Exit(status int)

	ResizeWindow(width, height int)
	SetWindowTitle(title string)
	SetLockstep(on bool)

	Canvas() *core.Canvas
	IsKeyDown(name string) bool

	ReadFile(name string) ([]byte, error)
	LoadAsync(name string) int
	AsyncResult(id int) AsyncStatus

	// AttachAudio reports whether an audio engine is running.
	AttachAudio() bool
	// PlayTone and StopAudio are only valid inside the audio hook.
	PlayTone(freq, seconds, volume float64) error
	StopAudio() error

	Logger() *log.Logger
}

// Phase names the call a script error came from.
type Phase string

const (
	PhaseLoad   Phase = "load"
	PhaseInit   Phase = "init"
	PhaseUpdate Phase = "update"
	PhaseDraw   Phase = "draw"
	PhaseAudio  Phase = "audio"
)

var (
	// ErrExit marks a call that was cut short by Process.exit.
	ErrExit = errors.New("script: exit requested")

	// ErrMissingGame is returned by Load when no Game object is defined.
	ErrMissingGame = errors.New("script: Game is not defined")

	// ErrMissingHook is returned by Load when Game lacks a lifecycle hook.
	ErrMissingHook = errors.New("script: Game is missing a lifecycle hook")

	// ErrReleased is returned by calls made after Release.
	ErrReleased = errors.New("script: handles released")
)

// Error is a failure raised by script code.
type Error struct {
	Phase   Phase
	Message string
	Err     error
}

func (e *Error) Error() string {
	return fmt.Sprintf("script %s: %s", e.Phase, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError wraps err as a script error for phase.
func NewError(phase Phase, message string, err error) *Error {
	return &Error{Phase: phase, Message: message, Err: err}
}
