// Package audio provides the mixer that runs beside the main loop. A
// goroutine plays the role of the real-time device callback; it and the
// main loop share channel state only while holding the engine lock.
package audio

import (
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// Sink receives mixed interleaved stereo samples in [-1, 1].
type Sink interface {
	WriteSamples(samples []float32) error
}

// Discard is a Sink that drops everything.
var Discard Sink = discard{}

type discard struct{}

func (discard) WriteSamples([]float32) error { return nil }

// Config sizes the mixer.
type Config struct {
	BufferFrames int // Frames per callback
	SampleRate   int // Frames per second
	Sink         Sink
	Logger       *log.Logger
}

// ErrHalted is returned by operations on an engine that has been halted.
var ErrHalted = errors.New("audio: engine halted")

// Engine mixes active channels into a Sink on its own goroutine.
//
// Methods that mutate channel state (PlayTone, StopAll) expect the caller to
// hold the lock, mirroring how script-level audio updates run inside
// Lock/Unlock.
type Engine struct {
	mu       sync.Mutex
	cfg      Config
	channels map[uint64]*channel
	nextID   uint64
	mixed    uint64 // Frames delivered to the sink
	halted   bool
	started  bool

	stop chan struct{}
	done chan struct{}
	once sync.Once
	log  *log.Logger
}

// New creates an engine. Call Start to begin mixing.
func New(cfg Config) *Engine {
	if cfg.BufferFrames <= 0 {
		cfg.BufferFrames = 2048
	}
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = 44100
	}
	if cfg.Sink == nil {
		cfg.Sink = Discard
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}

	return &Engine{
		cfg:      cfg,
		channels: make(map[uint64]*channel),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
		log:      logger.WithPrefix("audio"),
	}
}

// Period returns how often the mixer callback fires.
func (e *Engine) Period() time.Duration {
	return time.Duration(float64(time.Second) * float64(e.cfg.BufferFrames) / float64(e.cfg.SampleRate))
}

// Start launches the mixer goroutine.
func (e *Engine) Start() {
	e.log.Debug("mixer started", "buffer", e.cfg.BufferFrames, "rate", e.cfg.SampleRate, "period", e.Period())
	e.started = true
	go e.run()
}

func (e *Engine) run() {
	defer close(e.done)

	ticker := time.NewTicker(e.Period())
	defer ticker.Stop()

	buf := make([]float32, e.cfg.BufferFrames*2)
	for {
		select {
		case <-e.stop:
			return
		case <-ticker.C:
			e.Callback(buf)
			if err := e.cfg.Sink.WriteSamples(buf); err != nil {
				e.log.Warn("sink write failed", "error", err)
			}
		}
	}
}

// Callback mixes one buffer of interleaved stereo samples. It takes the
// lock itself, like a device callback would.
func (e *Engine) Callback(out []float32) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.mix(out)
}

// mix must be called with the lock held.
func (e *Engine) mix(out []float32) {
	for i := range out {
		out[i] = 0
	}

	frames := len(out) / 2
	for id, ch := range e.channels {
		if ch.render(out, e.cfg.SampleRate) {
			delete(e.channels, id)
		}
	}
	for i, s := range out {
		if s > 1 {
			out[i] = 1
		} else if s < -1 {
			out[i] = -1
		}
	}
	e.mixed += uint64(frames)
}

// Lock acquires exclusive access to mixer state.
func (e *Engine) Lock() {
	e.mu.Lock()
}

// Unlock releases the mixer lock.
func (e *Engine) Unlock() {
	e.mu.Unlock()
}

// TryLock acquires the lock if it is free and reports whether it did.
func (e *Engine) TryLock() bool {
	return e.mu.TryLock()
}

// PlayTone starts a sine tone and returns its channel id.
// The caller must hold the lock.
func (e *Engine) PlayTone(freq, seconds, volume float64) (uint64, error) {
	if e.halted {
		return 0, ErrHalted
	}
	e.nextID++
	e.channels[e.nextID] = newToneChannel(freq, seconds, volume, e.cfg.SampleRate)
	return e.nextID, nil
}

// StopAll silences every channel. The caller must hold the lock.
func (e *Engine) StopAll() {
	for id := range e.channels {
		delete(e.channels, id)
	}
}

// Active returns the number of playing channels. The caller must hold the lock.
func (e *Engine) Active() int {
	return len(e.channels)
}

// MixedFrames returns how many frames the mixer has produced.
func (e *Engine) MixedFrames() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.mixed
}

// Halt stops the mixer goroutine and drops all channels. It is safe to
// call more than once, and on an engine that was never started.
func (e *Engine) Halt() {
	e.once.Do(func() {
		close(e.stop)
		if e.started {
			<-e.done
		}

		e.mu.Lock()
		e.halted = true
		e.StopAll()
		e.mu.Unlock()
		e.log.Debug("mixer halted", "frames", e.mixed)
	})
}
