package engine

import "fmt"

// Outcome is the result of one lifecycle phase or loop step.
type Outcome int

const (
	// Continue keeps the loop running.
	Continue Outcome = iota
	// ExitClean stops the engine with exit status 0.
	ExitClean
	// ExitFailure stops the engine with a non-zero exit status.
	ExitFailure
)

func (o Outcome) String() string {
	switch o {
	case Continue:
		return "continue"
	case ExitClean:
		return "exit-clean"
	case ExitFailure:
		return "exit-failure"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// exitRequest records the first status passed to Process.exit.
type exitRequest struct {
	requested bool
	status    int
}

func (e *exitRequest) request(status int) {
	if e.requested {
		return
	}
	e.requested = true
	e.status = status
}

// outcome maps a pending request to an Outcome; ok is false when no exit
// was requested.
func (e *exitRequest) outcome() (Outcome, bool) {
	if !e.requested {
		return Continue, false
	}
	if e.status == 0 {
		return ExitClean, true
	}
	return ExitFailure, true
}
