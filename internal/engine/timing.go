package engine

import (
	"math"

	"github.com/vovakirdan/yolk/internal/core"
)

// snapEpsilon is how close (in seconds) a frame time must be to a common
// refresh interval to be snapped onto it.
const snapEpsilon = 0.0002

// snapTargets are the refresh intervals frame times are snapped to.
var snapTargets = []float64{1.0 / 120, 1.0 / 60, 1.0 / 30}

// maxAlpha is the largest float64 below 1.
var maxAlpha = math.Nextafter(1, 0)

// SnapElapsed replaces a frame time within snapEpsilon of 1/120, 1/60 or
// 1/30 seconds with the exact value. This absorbs vsync jitter so a
// steady display produces a steady number of updates per frame.
func SnapElapsed(seconds float64) float64 {
	for _, target := range snapTargets {
		if math.Abs(seconds-target) < snapEpsilon {
			return target
		}
	}
	return seconds
}

// TimingState is the fixed-timestep accumulator.
type TimingState struct {
	LagMS    float64 // Unsimulated time
	TickMS   float64 // Duration of one update
	MaxLagMS float64 // Cap on LagMS, 0 for none
	Lockstep bool    // At most one update per frame
}

// NewTimingState creates an accumulator for the engine's tick rate.
func NewTimingState(maxLagMS float64, lockstep bool) TimingState {
	return TimingState{
		TickMS:   core.TickMS,
		MaxLagMS: maxLagMS,
		Lockstep: lockstep,
	}
}

// Advance adds a frame's elapsed wall time, after snapping, to the lag.
func (t *TimingState) Advance(elapsedSeconds float64) {
	if elapsedSeconds < 0 {
		elapsedSeconds = 0
	}
	t.LagMS += SnapElapsed(elapsedSeconds) * 1000
	if t.MaxLagMS > 0 && t.LagMS > t.MaxLagMS {
		t.LagMS = t.MaxLagMS
	}
}

// Drain runs step once per whole tick of lag and subtracts the tick after
// each. Free-running, it leaves lag in [0, tick). In lockstep it runs at
// most once and clamps lag into [0, tick]. It stops early if step returns
// anything other than Continue.
func (t *TimingState) Drain(step func() Outcome) Outcome {
	for t.LagMS >= t.TickMS {
		if o := step(); o != Continue {
			return o
		}
		t.LagMS -= t.TickMS
		if t.Lockstep {
			t.LagMS = core.ClampF(t.LagMS, 0, t.TickMS)
			break
		}
	}
	return Continue
}

// Alpha is how far between two updates the current frame falls, in [0, 1).
func (t *TimingState) Alpha() float64 {
	if t.TickMS <= 0 {
		return 0
	}
	return core.ClampF(t.LagMS/t.TickMS, 0, maxAlpha)
}
