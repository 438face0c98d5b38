package lua

import (
	"errors"
	"strings"
	"testing"

	glua "github.com/Shopify/go-lua"

	"github.com/vovakirdan/yolk/internal/core"
	"github.com/vovakirdan/yolk/internal/script"
	"github.com/vovakirdan/yolk/internal/script/scripttest"
)

const counterGame = `
Game = { ticks = 0 }

function Game:init()
  Window.setTitle("counter")
  Window.resize(64, 48)
  Canvas.cls(0xFF0000FF)
end

function Game:update()
  self.ticks = self.ticks + 1
end

function Game:draw(alpha)
  self.alpha = alpha
  Canvas.pset(1, 2, 0xFFFF0000)
end
`

func load(t *testing.T, host *scripttest.Host, src string) (*Runtime, script.Program) {
	t.Helper()
	rt := New(host).(*Runtime)
	t.Cleanup(func() { _ = rt.Close() })

	prog, err := rt.Load("main.lua", []byte(src))
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	return rt, prog
}

// field reads Game.<name> as a string.
func field(t *testing.T, rt *Runtime, name string) string {
	t.Helper()
	l := rt.l
	top := l.Top()
	defer l.SetTop(top)

	l.Global("Game")
	l.Field(-1, name)
	return valueString(l, -1)
}

func TestLifecycle(t *testing.T) {
	host := scripttest.NewHost()
	rt, prog := load(t, host, counterGame)

	if err := prog.Init(); err != nil {
		t.Fatalf("Init() failed: %v", err)
	}
	if host.Title != "counter" || host.Width != 64 || host.Height != 48 {
		t.Errorf("window = %q %dx%d", host.Title, host.Width, host.Height)
	}
	if got := host.Canvas().Get(0, 0); got != core.ColorBlue {
		t.Errorf("cls color = %s", got.Hex())
	}

	for i := 0; i < 3; i++ {
		if err := prog.Update(); err != nil {
			t.Fatalf("Update() failed: %v", err)
		}
	}
	if err := prog.Draw(0.5); err != nil {
		t.Fatalf("Draw() failed: %v", err)
	}

	if got := field(t, rt, "ticks"); got != "3" {
		t.Errorf("ticks = %s, expected 3", got)
	}
	if got := field(t, rt, "alpha"); got != "0.5" {
		t.Errorf("alpha = %s, expected 0.5", got)
	}
	if got := host.Canvas().Get(1, 2); got != core.ColorRed {
		t.Errorf("pset color = %s", got.Hex())
	}
	if rt.l.Top() != 0 {
		t.Errorf("stack not balanced: top = %d", rt.l.Top())
	}
}

func TestLinesAndUncheckedResize(t *testing.T) {
	src := `
Game = {}
function Game:init()
  Window.resize(0, -5)
  Canvas.hline(2, 1, 4, 0xFF00FF00)
  Canvas.vline(0, 2, 3, 0xFF0000FF)
end
function Game:update() end
function Game:draw() end
`
	host := scripttest.NewHost()
	rt, prog := load(t, host, src)
	if err := prog.Init(); err != nil {
		t.Fatalf("Init() failed: %v", err)
	}

	if host.Width != 0 || host.Height != -5 {
		t.Errorf("resize passed %dx%d, expected 0x-5", host.Width, host.Height)
	}
	c := host.Canvas()
	for x := 2; x < 6; x++ {
		if c.Get(x, 1) != core.ColorGreen {
			t.Errorf("hline: pixel (%d, 1) = %s", x, c.Get(x, 1).Hex())
		}
	}
	for y := 2; y < 5; y++ {
		if c.Get(0, y) != core.ColorBlue {
			t.Errorf("vline: pixel (0, %d) = %s", y, c.Get(0, y).Hex())
		}
	}
	if c.Get(0, 5) == core.ColorBlue {
		t.Error("vline drew past its length")
	}
	if rt.l.Top() != 0 {
		t.Errorf("stack not balanced: top = %d", rt.l.Top())
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		sentinel error
	}{
		{"no game", "x = 1", script.ErrMissingGame},
		{"game not a table", "Game = 5", script.ErrMissingGame},
		{"missing draw", "Game = { init = function() end, update = function() end }", script.ErrMissingHook},
		{"syntax error", "Game = {", nil},
		{"errors at top level", "error('bad start')", nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rt := New(scripttest.NewHost())
			defer rt.Close()

			_, err := rt.Load("main.lua", []byte(tc.src))
			if err == nil {
				t.Fatal("Load() should fail")
			}
			var serr *script.Error
			if !errors.As(err, &serr) || serr.Phase != script.PhaseLoad {
				t.Errorf("error = %v, expected a load-phase script error", err)
			}
			if tc.sentinel != nil && !errors.Is(err, tc.sentinel) {
				t.Errorf("error = %v, expected %v", err, tc.sentinel)
			}

			rt.Release()
			rt.Release()
		})
	}
}

func TestPartialLoadReleasesHandles(t *testing.T) {
	host := scripttest.NewHost()
	rt := New(host).(*Runtime)
	defer rt.Close()

	_, err := rt.Load("main.lua", []byte("Game = { init = function() end }"))
	if !errors.Is(err, script.ErrMissingHook) {
		t.Fatalf("Load() = %v", err)
	}

	rt.Release()
	l := rt.l
	for _, key := range []string{keyGame, keyInit, keyAudioFlush} {
		l.Field(glua.RegistryIndex, key)
		if !l.IsNil(-1) {
			t.Errorf("registry %s still set after Release", key)
		}
		l.Pop(1)
	}
}

func TestExit(t *testing.T) {
	tests := []struct {
		name    string
		status  string
		want    int
		isClean bool
	}{
		{"clean", "0", 0, true},
		{"default status", "", 0, true},
		{"failure", "4", 4, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			src := "Game = { init = function() end, draw = function() end }\n" +
				"function Game.update() Process.exit(" + tc.status + ") Game.after = true end"
			host := scripttest.NewHost()
			rt, prog := load(t, host, src)

			err := prog.Update()
			if err == nil {
				t.Fatal("Update() should stop at Process.exit")
			}
			if errors.Is(err, script.ErrExit) != tc.isClean {
				t.Errorf("Update() = %v, clean exit expected %v", err, tc.isClean)
			}
			if !host.Exited || host.ExitStatus != tc.want {
				t.Errorf("host exit = %v/%d, expected %d", host.Exited, host.ExitStatus, tc.want)
			}
			if got := field(t, rt, "after"); got != "nil" {
				t.Error("script kept running after Process.exit")
			}
		})
	}
}

func TestRuntimeErrorCarriesPhase(t *testing.T) {
	src := `Game = { init = function() end, update = function() error("boom") end, draw = function() end }`
	_, prog := load(t, scripttest.NewHost(), src)

	err := prog.Update()
	var serr *script.Error
	if !errors.As(err, &serr) {
		t.Fatalf("Update() = %v, expected *script.Error", err)
	}
	if serr.Phase != script.PhaseUpdate || !strings.Contains(serr.Message, "boom") {
		t.Errorf("script error = %+v", serr)
	}
}

func TestAudioHook(t *testing.T) {
	src := `
Game = { init = function() end, draw = function() end }
function Game.update()
  AudioEngine.stopAll()
  AudioEngine.tone(220, 0.25, 0.5)
end
`
	host := scripttest.NewHost()
	host.AudioAvailable = true
	rt, prog := load(t, host, src)

	if _, ok := rt.AudioHook(); ok {
		t.Error("AudioHook() should be absent before the script uses audio")
	}
	if err := prog.Update(); err != nil {
		t.Fatalf("Update() failed: %v", err)
	}

	hook, ok := rt.AudioHook()
	if !ok {
		t.Fatal("AudioHook() should exist after AudioEngine use")
	}

	// Outside the lock the host refuses native calls
	if err := hook(); err == nil {
		t.Error("hook() should fail when the audio lock is not held")
	}

	if err := prog.Update(); err != nil {
		t.Fatal(err)
	}
	host.AudioLocked = true
	if err := hook(); err != nil {
		t.Fatalf("hook() failed: %v", err)
	}
	if host.Stops != 1 || len(host.Tones) != 1 {
		t.Fatalf("stops=%d tones=%v", host.Stops, host.Tones)
	}
	if got := host.Tones[0]; got.Freq != 220 || got.Seconds != 0.25 || got.Volume != 0.5 {
		t.Errorf("tone = %+v", got)
	}
}

func TestFileSystemAndKeyboard(t *testing.T) {
	src := `
Game = { draw = function() end }
function Game.init()
  Game.text = FileSystem.load("level.txt")
  Game.op = FileSystem.loadAsync("level.txt")
  Game.missing = not pcall(FileSystem.load, "missing.txt")
end
function Game.update()
  local r = FileSystem.poll(Game.op)
  Game.ready = r.ready
  Game.async = r.data
  Game.left = Keyboard.isKeyDown("left")
  print("tick", Canvas.width, Canvas.height, nil)
end
`
	host := scripttest.NewHost()
	host.Files["level.txt"] = []byte("###")
	host.Keys.Press("LEFT")
	rt, prog := load(t, host, src)

	if err := prog.Init(); err != nil {
		t.Fatalf("Init() failed: %v", err)
	}
	if err := prog.Update(); err != nil {
		t.Fatalf("Update() failed: %v", err)
	}

	checks := map[string]string{
		"text":    "###",
		"missing": "true",
		"ready":   "true",
		"async":   "###",
		"left":    "true",
	}
	for name, want := range checks {
		if got := field(t, rt, name); got != want {
			t.Errorf("Game.%s = %s, expected %s", name, got, want)
		}
	}
	if !strings.Contains(host.Output.String(), "tick 16 8 nil") {
		t.Errorf("print output = %q", host.Output.String())
	}
}

func TestEnsureSlotsAndRelease(t *testing.T) {
	rt, prog := load(t, scripttest.NewHost(), counterGame)
	rt.EnsureSlots(script.UpdateSlots)

	rt.Release()
	rt.Release()
	if err := prog.Draw(0); !errors.Is(err, script.ErrReleased) {
		t.Errorf("Draw() after Release = %v", err)
	}
	if err := rt.Close(); err != nil {
		t.Errorf("Close() = %v", err)
	}
	rt.EnsureSlots(3)
}

func TestRegistered(t *testing.T) {
	if !script.Exists(".lua") {
		t.Error(".lua runtime should be registered")
	}
}
