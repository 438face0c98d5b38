package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/yolk/internal/core"
	"github.com/vovakirdan/yolk/internal/platform"
)

func TestKeyName(t *testing.T) {
	tests := []struct {
		msg      tea.KeyMsg
		expected string
	}{
		{tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}, "space"},
		{tea.KeyMsg{Type: tea.KeyEnter}, "return"},
		{tea.KeyMsg{Type: tea.KeyEsc}, "escape"},
		{tea.KeyMsg{Type: tea.KeyLeft}, "left"},
		{tea.KeyMsg{Type: tea.KeyF3}, "f3"},
		{tea.KeyMsg{Type: tea.KeyCtrlC}, "ctrl+c"},
		{tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'a'}}, "a"},
	}

	for _, tc := range tests {
		if got := KeyName(tc.msg); got != tc.expected {
			t.Errorf("KeyName(%v) = %q, expected %q", tc.msg, got, tc.expected)
		}
	}

	e := KeyEvent(tea.KeyMsg{Type: tea.KeyUp})
	if e.Kind != platform.EventKeyDown || e.Key != "up" || !e.Transient {
		t.Errorf("KeyEvent() = %+v", e)
	}
}

func TestModelForwardsEvents(t *testing.T) {
	events := make(chan platform.Event, 8)
	closing := make(chan struct{})
	m := NewModel(events, closing)

	msgs := []tea.Msg{
		tea.KeyMsg{Type: tea.KeyF2},
		tea.WindowSizeMsg{Width: 80, Height: 25},
		tea.BlurMsg{},
		tea.FocusMsg{},
	}
	var model tea.Model = m
	for _, msg := range msgs {
		model, _ = model.Update(msg)
	}

	expected := []platform.Event{
		{Kind: platform.EventKeyDown, Key: "f2", Transient: true},
		platform.Resize(80, 48),
		{Kind: platform.EventFocusLost},
		{Kind: platform.EventFocusGained},
	}
	for i, want := range expected {
		got := <-events
		if got != want {
			t.Errorf("event %d = %+v, expected %+v", i, got, want)
		}
	}

	model, _ = model.Update(frameMsg("hello"))
	if got := model.View(); got != "hello" {
		t.Errorf("View() = %q", got)
	}

	// Once closing, a full channel no longer blocks the program
	close(closing)
	full := NewModel(make(chan platform.Event), closing)
	full.Update(tea.KeyMsg{Type: tea.KeyLeft})
}

func TestRenderFrame(t *testing.T) {
	canvas := core.NewCanvas(4, 4)
	canvas.FillRect(core.NewRect(0, 0, 2, 4), core.ColorRed)

	f := platform.Frame{
		Pixels:   canvas.Pixels(),
		Width:    4,
		Height:   4,
		Viewport: core.FitViewport(8, 4, 4, 4),
		Overlay:  "fps 60",
	}
	out := RenderFrame(f, 8, 3)

	lines := strings.Split(out, "\n")
	if len(lines) != 3 {
		t.Fatalf("RenderFrame() produced %d lines, expected 3", len(lines))
	}
	for i, line := range lines[:2] {
		if n := strings.Count(line, halfBlock); n != 8 {
			t.Errorf("line %d has %d cells, expected 8", i, n)
		}
	}
	if !strings.Contains(lines[2], "fps 60") {
		t.Errorf("overlay line = %q", lines[2])
	}

	if got := RenderFrame(f, 0, 10); got != "" {
		t.Errorf("RenderFrame() with no columns = %q", got)
	}
}

func TestPixelAtLetterbox(t *testing.T) {
	f := platform.Frame{
		Pixels:   []uint32{uint32(core.ColorWhite)},
		Width:    1,
		Height:   1,
		Viewport: core.NewRect(2, 0, 2, 2),
	}
	if got := pixelAt(f, 0, 0); got != uint32(core.ColorBlack) {
		t.Errorf("outside viewport = %08x, expected black", got)
	}
	if got := pixelAt(f, 3, 1); got != uint32(core.ColorWhite) {
		t.Errorf("inside viewport = %08x, expected white", got)
	}
}

func TestPixelSize(t *testing.T) {
	if w, h := PixelSize(80, 25); w != 80 || h != 48 {
		t.Errorf("PixelSize(80, 25) = %d, %d", w, h)
	}
	if _, h := PixelSize(80, 1); h != 0 {
		t.Errorf("PixelSize with one row = %d", h)
	}
}

func TestPixelSampling(t *testing.T) {
	f := platform.Frame{
		Pixels:   []uint32{0xFF112233, 0xFF445566, 0xFF778899},
		Width:    3,
		Height:   1,
		Viewport: core.NewRect(1, 0, 4, 2),
	}

	tests := []struct {
		x, y     int
		expected uint32
	}{
		{0, 0, uint32(core.ColorBlack)}, // Letterbox
		{1, 0, 0xFF112233},
		{3, 1, 0xFF445566},
		{4, 1, 0xFF778899}, // Right edge of the viewport
		{5, 0, uint32(core.ColorBlack)},
	}
	for _, tc := range tests {
		if got := pixelAt(f, tc.x, tc.y); got != tc.expected {
			t.Errorf("pixelAt(%d, %d) = %#x, expected %#x", tc.x, tc.y, got, tc.expected)
		}
	}

	if got := hexColor(0xFF112233); got != lipgloss.Color("#112233") {
		t.Errorf("hexColor() = %q, expected #112233", got)
	}
}
