package capture

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color/palette"
	"image/draw"
	"os"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/yolk/internal/core"
)

// Recording defaults.
const (
	DefaultSampleEvery = 2 // Keep one fixed tick in N
	DefaultFrameDelay  = 3 // Centiseconds per GIF frame
)

// RecorderOptions tunes the sampling cadence and the output size.
type RecorderOptions struct {
	SampleEvery int
	FrameDelay  int

	// Width and Height are the GIF's logical screen. Canvases of another
	// size are cropped or padded. Defaults to the game canvas size.
	Width, Height int

	Logger *log.Logger
}

// Recorder streams sampled canvas frames into an animated GIF. Each frame
// is written to the file as soon as it is sampled; Close only appends the
// trailer.
type Recorder struct {
	path  string
	file  *os.File
	every int
	delay int
	log   *log.Logger

	counter int
	frames  int
	scratch *image.RGBA
	frame   *image.Paletted
	buf     bytes.Buffer
	err     error
	closed  bool
}

// NewRecorder creates the output file and writes the GIF header right away
// so an unwritable path fails at startup.
func NewRecorder(path string, opts RecorderOptions) (*Recorder, error) {
	if opts.SampleEvery <= 0 {
		opts.SampleEvery = DefaultSampleEvery
	}
	if opts.FrameDelay <= 0 {
		opts.FrameDelay = DefaultFrameDelay
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		opts.Width, opts.Height = core.GameWidth, core.GameHeight
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("capture: create %s: %w", path, err)
	}

	r := &Recorder{
		path:  path,
		file:  f,
		every: opts.SampleEvery,
		delay: opts.FrameDelay,
		log:   logger.WithPrefix("capture"),
		frame: image.NewPaletted(image.Rect(0, 0, opts.Width, opts.Height), palette.Plan9),
	}

	writeGIFHeader(&r.buf, opts.Width, opts.Height, palette.Plan9)
	if err := r.flush(); err != nil {
		_ = f.Close()
		return nil, err
	}
	return r, nil
}

// Path returns the output file path.
func (r *Recorder) Path() string {
	return r.path
}

// Sample is called once per fixed update. Every Nth call encodes the
// canvas and appends it to the file. After a write error the recorder
// stops sampling; Close reports the error.
func (r *Recorder) Sample(c *core.Canvas) {
	if r.closed || r.err != nil {
		return
	}
	r.counter++
	if r.counter%r.every != 0 {
		return
	}

	r.scratch = toRGBA(r.scratch, c)
	if r.scratch.Bounds() != r.frame.Bounds() {
		clear(r.frame.Pix)
	}
	draw.Draw(r.frame, r.frame.Bounds(), r.scratch, image.Point{}, draw.Src)
	r.appendFrame()
}

func (r *Recorder) appendFrame() {
	if err := writeGIFFrame(&r.buf, r.frame, r.delay); err != nil {
		r.buf.Reset()
		r.fail(err)
		return
	}
	if err := r.flush(); err != nil {
		r.fail(err)
		return
	}
	r.frames++
}

func (r *Recorder) fail(err error) {
	r.err = err
	r.log.Error("recording stopped", "path", r.path, "error", err)
}

// flush writes the pending bytes to the file.
func (r *Recorder) flush() error {
	_, err := r.file.Write(r.buf.Bytes())
	r.buf.Reset()
	if err != nil {
		return fmt.Errorf("capture: write %s: %w", r.path, err)
	}
	return nil
}

// Frames returns how many frames have been written so far.
func (r *Recorder) Frames() int {
	return r.frames
}

// Close finishes the GIF and closes the file. A recording with no sampled
// frames still gets one blank frame so the output is a valid image.
// Calling Close again is a no-op.
func (r *Recorder) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true

	if r.err == nil && r.frames == 0 {
		clear(r.frame.Pix)
		r.appendFrame()
	}
	writeErr := r.err
	if writeErr == nil {
		r.buf.WriteByte(gifTrailer)
		writeErr = r.flush()
	}
	closeErr := r.file.Close()
	if err := errors.Join(writeErr, closeErr); err != nil {
		return fmt.Errorf("capture: finish %s: %w", r.path, err)
	}

	r.log.Info("recording saved", "path", r.path, "frames", r.frames, "ticks", r.counter)
	return nil
}
