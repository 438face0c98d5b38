package engine

import (
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/yolk/internal/script"
)

// Mixer is the part of the audio engine the dispatcher locks around the
// script audio hook.
type Mixer interface {
	Lock()
	Unlock()
}

// Dispatcher calls the script lifecycle hooks and turns each call into an
// Outcome. A pending exit request takes precedence over the call's error.
type Dispatcher struct {
	runtime script.Runtime
	program script.Program
	exit    *exitRequest
	mixer   Mixer // Nil when audio is off
	locked  *bool // Set while the audio hook runs
	log     *log.Logger
}

func (d *Dispatcher) Init() Outcome {
	return d.call(script.PhaseInit, script.InitSlots, d.program.Init)
}

func (d *Dispatcher) Update() Outcome {
	return d.call(script.PhaseUpdate, script.UpdateSlots, d.program.Update)
}

func (d *Dispatcher) Draw(alpha float64) Outcome {
	return d.call(script.PhaseDraw, script.DrawSlots, func() error {
		return d.program.Draw(alpha)
	})
}

// UpdateAudio runs the script audio hook while holding the mixer lock. It
// does nothing when audio is off or the script never used it.
func (d *Dispatcher) UpdateAudio() Outcome {
	if d.mixer == nil {
		return Continue
	}
	hook, ok := d.runtime.AudioHook()
	if !ok {
		return Continue
	}

	return d.call(script.PhaseAudio, script.AudioSlots, func() error {
		d.mixer.Lock()
		*d.locked = true
		defer func() {
			*d.locked = false
			d.mixer.Unlock()
		}()
		return hook()
	})
}

func (d *Dispatcher) call(phase script.Phase, slots int, fn func() error) Outcome {
	d.runtime.EnsureSlots(slots)
	err := fn()

	if o, ok := d.exit.outcome(); ok {
		d.log.Debug("exit requested", "phase", phase, "status", d.exit.status)
		return o
	}
	if err != nil {
		d.log.Error("script failed", "phase", phase, "error", err)
		return ExitFailure
	}
	return Continue
}
