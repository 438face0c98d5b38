package engine

import "errors"

// shutdown releases everything the context owns. It runs once, whichever
// path ended the run, and always in this order: recorder, async workers,
// pending completions, window events, script handles, audio, runtime,
// window, bundle.
func (c *Context) shutdown() error {
	c.shutdownOnce.Do(func() {
		var errs []error

		if c.recorder != nil {
			errs = append(errs, c.recorder.Close())
		}

		c.loader.Wait()
		c.drainAsync()
		c.drainEvents()

		if c.runtime != nil {
			c.runtime.Release()
		}
		if c.audio != nil {
			c.audio.Halt()
		}
		if c.runtime != nil {
			errs = append(errs, c.runtime.Close())
		}

		errs = append(errs, c.window.Close(), c.entry.Close())

		c.shutdownErr = errors.Join(errs...)
		if c.shutdownErr != nil {
			c.log.Error("shutdown", "error", c.shutdownErr)
		}
		c.log.Debug("shutdown complete", "frames", c.stats.frames, "updates", c.stats.updates)
	})
	return c.shutdownErr
}

// maxDrainedEvents bounds drainEvents when a backend keeps producing input.
const maxDrainedEvents = 1024

// drainEvents discards input that arrived after the loop stopped.
func (c *Context) drainEvents() {
	n := 0
	for ; n < maxDrainedEvents; n++ {
		if _, ok := c.window.Poll(); !ok {
			break
		}
	}
	if n > 0 {
		c.log.Debug("discarded events", "count", n)
	}
}
