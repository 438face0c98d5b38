package engine

import "time"

// Clock is the loop's time source. Tests substitute a manual clock.
type Clock interface {
	// Now returns the time elapsed since some fixed origin.
	Now() time.Duration
	Sleep(d time.Duration)
}

type systemClock struct {
	start time.Time
}

// SystemClock returns a monotonic wall clock.
func SystemClock() Clock {
	return systemClock{start: time.Now()}
}

func (c systemClock) Now() time.Duration {
	return time.Since(c.start)
}

func (systemClock) Sleep(d time.Duration) {
	time.Sleep(d)
}
