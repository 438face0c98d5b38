package engine

import (
	"context"
	"errors"

	"github.com/vovakirdan/yolk/internal/capture"
)

// Run executes the game to completion and returns the process exit code.
// The returned error describes why a run failed to start; lifecycle
// failures are logged and reported through the exit code.
func Run(ctx context.Context, opts Options) (int, error) {
	c, err := New(opts)
	if err != nil {
		return 1, err
	}
	return c.Run(ctx)
}

// Run loads the game, calls init, shows the window and loops. Every path
// out goes through shutdown.
func (c *Context) Run(ctx context.Context) (int, error) {
	o, startErr := c.start()
	if o == Continue {
		o = c.loop(ctx)
	}

	shutdownErr := c.shutdown()
	c.log.Debug("engine stopped", "outcome", o)
	return c.ExitCode(o), errors.Join(startErr, shutdownErr)
}

// start runs everything up to the first frame.
func (c *Context) start() (Outcome, error) {
	if c.audio != nil {
		c.audio.Start()
	}

	if err := c.load(); err != nil {
		if o, ok := c.exit.outcome(); ok {
			return o, nil
		}
		c.log.Error("load failed", "file", c.entry.Name, "error", err)
		return ExitFailure, err
	}

	if o := c.dispatch.Init(); o != Continue {
		return o, nil
	}

	if c.recordPath != "" {
		rec, err := capture.NewRecorder(c.recordPath, capture.RecorderOptions{
			SampleEvery: c.cfg.Capture.SampleEvery,
			FrameDelay:  c.cfg.Capture.FrameDelay,
			Width:       c.canvas.Width(),
			Height:      c.canvas.Height(),
			Logger:      c.log,
		})
		if err != nil {
			c.log.Error("recording disabled", "error", err)
			return ExitFailure, err
		}
		c.recorder = rec
		c.log.Info("recording", "path", c.recordPath)
	}

	if err := c.window.Show(); err != nil {
		c.log.Error("window failed", "error", err)
		return ExitFailure, err
	}
	c.updateViewport()
	return Continue, nil
}
