package engine

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/key"

	"github.com/vovakirdan/yolk/internal/capture"
	"github.com/vovakirdan/yolk/internal/core"
	"github.com/vovakirdan/yolk/internal/platform"
)

// loop runs frames until something asks to stop. Each iteration handles
// input, runs zero or more fixed updates and draws exactly once.
func (c *Context) loop(ctx context.Context) Outcome {
	previous := c.clock.Now()

	for {
		if ctx.Err() != nil {
			c.log.Info("interrupted")
			return ExitClean
		}
		if o := c.processInput(); o != Continue {
			return o
		}

		now := c.clock.Now()
		elapsed := now - previous
		previous = now

		if !c.focused {
			// Time spent in the background is dropped, not caught up
			c.clock.Sleep(core.UnfocusedSleep)
			continue
		}

		c.timing.Advance(elapsed.Seconds())
		if o := c.timing.Drain(c.tick); o != Continue {
			return o
		}
		if o := c.render(elapsed); o != Continue {
			return o
		}

		if !c.window.VSync() {
			c.clock.Sleep(core.NoVSyncSleep)
		}
	}
}

// processInput drains window events and async completions.
func (c *Context) processInput() Outcome {
	for {
		e, ok := c.window.Poll()
		if !ok {
			break
		}

		switch e.Kind {
		case platform.EventQuit:
			c.log.Info("window closed")
			return ExitClean

		case platform.EventResize:
			c.updateViewport()

		case platform.EventFocusLost:
			// Releases are not delivered to an unfocused window
			c.focused = false
			c.input.Clear()
			c.pulsed = c.pulsed[:0]

		case platform.EventFocusGained:
			c.focused = true

		case platform.EventKeyDown:
			if o := c.handleKeyDown(e); o != Continue {
				return o
			}

		case platform.EventKeyUp:
			c.input.Release(e.Key)
		}
	}

	c.drainAsync()
	return Continue
}

func (c *Context) handleKeyDown(e platform.Event) Outcome {
	switch {
	case key.Matches(e, c.keys.Quit):
		c.log.Info("quit requested")
		return ExitClean

	case key.Matches(e, c.keys.Debug):
		if !e.Repeat {
			c.debug = !c.debug
		}
		return Continue

	case key.Matches(e, c.keys.Screenshot):
		if !e.Repeat {
			c.screenshot()
		}
		return Continue
	}

	c.input.Press(e.Key)
	if e.Transient {
		c.pulsed = append(c.pulsed, e.Key)
	}
	return Continue
}

// screenshot writes the canvas next to the game.
func (c *Context) screenshot() {
	p := filepath.Join(c.entry.BaseDir, c.cfg.Capture.ScreenshotName)
	if err := capture.WritePNG(p, c.canvas); err != nil {
		c.log.Error("screenshot failed", "error", err)
		return
	}
	c.log.Info("screenshot saved", "path", p)
}

// tick is one fixed update: game logic, then audio, then the recorder.
func (c *Context) tick() Outcome {
	if o := c.dispatch.Update(); o != Continue {
		return o
	}
	for _, k := range c.pulsed {
		c.input.Release(k)
	}
	c.pulsed = c.pulsed[:0]

	if o := c.dispatch.UpdateAudio(); o != Continue {
		return o
	}
	if c.recorder != nil {
		c.recorder.Sample(c.canvas)
	}
	c.stats.updates++
	return Continue
}

// render draws and presents one frame.
func (c *Context) render(elapsed time.Duration) Outcome {
	if o := c.dispatch.Draw(c.timing.Alpha()); o != Continue {
		return o
	}
	c.stats.frame(elapsed)

	frame := platform.Frame{
		Pixels:   c.canvas.Pixels(),
		Width:    c.canvas.Width(),
		Height:   c.canvas.Height(),
		Viewport: c.viewport,
	}
	if c.debug {
		frame.Overlay = c.stats.overlay(c.timing)
	}
	if err := c.window.Present(frame); err != nil {
		c.log.Error("present failed", "error", err)
		return ExitFailure
	}
	return Continue
}

// frameStats feeds the debug overlay.
type frameStats struct {
	frames     int
	updates    int
	avgFrameMS float64
}

func (s *frameStats) frame(elapsed time.Duration) {
	ms := float64(elapsed) / float64(time.Millisecond)
	if s.frames == 0 {
		s.avgFrameMS = ms
	} else {
		s.avgFrameMS = s.avgFrameMS*0.9 + ms*0.1
	}
	s.frames++
}

func (s *frameStats) fps() float64 {
	if s.avgFrameMS <= 0 {
		return 0
	}
	return 1000 / s.avgFrameMS
}

func (s *frameStats) overlay(t TimingState) string {
	mode := "free"
	if t.Lockstep {
		mode = "lockstep"
	}
	return fmt.Sprintf("%.1f fps  %.2f ms  lag %.2f  %s", s.fps(), s.avgFrameMS, t.LagMS, mode)
}
