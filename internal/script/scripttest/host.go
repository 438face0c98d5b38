// Package scripttest provides an in-memory script.Host for runtime tests.
package scripttest

import (
	"bytes"
	"errors"
	"io/fs"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/yolk/internal/core"
	"github.com/vovakirdan/yolk/internal/script"
)

// Tone is one recorded PlayTone call.
type Tone struct {
	Freq, Seconds, Volume float64
}

// Host records every call a script makes.
type Host struct {
	ExitStatus int
	Exited     bool

	Width, Height int
	Title         string
	Lockstep      bool

	Files map[string][]byte
	Keys  core.InputFrame

	AudioAvailable bool
	AudioLocked    bool
	Attached       bool
	Tones          []Tone
	Stops          int

	Async map[int]script.AsyncStatus
	Loads []string

	Output bytes.Buffer

	canvas *core.Canvas
	logger *log.Logger
}

// NewHost creates a host with a small canvas.
func NewHost() *Host {
	h := &Host{
		Files: make(map[string][]byte),
		Keys:  core.NewInputFrame(),
		Async: make(map[int]script.AsyncStatus),
	}
	h.canvas = core.NewCanvas(16, 8)
	h.logger = log.NewWithOptions(&h.Output, log.Options{Level: log.DebugLevel})
	return h
}

func (h *Host) Exit(status int) {
	if h.Exited {
		return
	}
	h.Exited = true
	h.ExitStatus = status
}

func (h *Host) ResizeWindow(width, height int) {
	h.Width, h.Height = width, height
}

func (h *Host) SetWindowTitle(title string) { h.Title = title }
func (h *Host) SetLockstep(on bool)         { h.Lockstep = on }
func (h *Host) Canvas() *core.Canvas        { return h.canvas }
func (h *Host) IsKeyDown(name string) bool  { return h.Keys.Has(name) }
func (h *Host) Logger() *log.Logger         { return h.logger }

func (h *Host) ReadFile(name string) ([]byte, error) {
	data, ok := h.Files[name]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return data, nil
}

// LoadAsync records the request and completes it immediately.
func (h *Host) LoadAsync(name string) int {
	h.Loads = append(h.Loads, name)
	id := len(h.Loads)
	data, err := h.ReadFile(name)
	h.Async[id] = script.AsyncStatus{Known: true, Ready: true, Data: data, Err: err}
	return id
}

func (h *Host) AsyncResult(id int) script.AsyncStatus {
	return h.Async[id]
}

func (h *Host) AttachAudio() bool {
	if h.AudioAvailable {
		h.Attached = true
	}
	return h.AudioAvailable
}

var errUnlocked = errors.New("audio call outside the audio hook")

func (h *Host) PlayTone(freq, seconds, volume float64) error {
	if !h.AudioLocked {
		return errUnlocked
	}
	h.Tones = append(h.Tones, Tone{Freq: freq, Seconds: seconds, Volume: volume})
	return nil
}

func (h *Host) StopAudio() error {
	if !h.AudioLocked {
		return errUnlocked
	}
	h.Stops++
	return nil
}

var _ script.Host = (*Host)(nil)
