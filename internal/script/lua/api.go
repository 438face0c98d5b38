package lua

import (
	"fmt"
	"strings"

	glua "github.com/Shopify/go-lua"

	"github.com/vovakirdan/yolk/internal/core"
)

// installAPI defines the engine globals.
func (r *Runtime) installAPI() {
	l := r.l

	libs := []struct {
		name string
		fns  []glua.RegistryFunction
	}{
		{"Process", []glua.RegistryFunction{
			{Name: "exit", Function: r.exit},
		}},
		{"Window", []glua.RegistryFunction{
			{Name: "resize", Function: r.windowResize},
			{Name: "setTitle", Function: r.windowSetTitle},
			{Name: "lockstep", Function: r.windowLockstep},
		}},
		{"Canvas", []glua.RegistryFunction{
			{Name: "cls", Function: r.canvasCls},
			{Name: "pset", Function: r.canvasPset},
			{Name: "pget", Function: r.canvasPget},
			{Name: "rectfill", Function: r.canvasRectfill},
			{Name: "hline", Function: r.canvasHline},
			{Name: "vline", Function: r.canvasVline},
		}},
		{"Keyboard", []glua.RegistryFunction{
			{Name: "isKeyDown", Function: r.keyboardIsKeyDown},
		}},
		{"FileSystem", []glua.RegistryFunction{
			{Name: "load", Function: r.fsLoad},
			{Name: "loadAsync", Function: r.fsLoadAsync},
			{Name: "poll", Function: r.fsPoll},
		}},
		{"__audio", []glua.RegistryFunction{
			{Name: "attach", Function: r.audioAttach},
			{Name: "tone", Function: r.audioTone},
			{Name: "stopAll", Function: r.audioStopAll},
		}},
	}

	for _, lib := range libs {
		l.NewTable()
		glua.SetFunctions(l, lib.fns, 0)
		if lib.name == "Canvas" {
			canvas := r.host.Canvas()
			l.PushInteger(canvas.Width())
			l.SetField(-2, "width")
			l.PushInteger(canvas.Height())
			l.SetField(-2, "height")
		}
		l.SetGlobal(lib.name)
	}

	l.PushGoFunction(r.print)
	l.SetGlobal("print")
}

// Process.exit(status)
// Lua has no uncatchable unwind, so every status raises an error; the
// engine reads the requested status from the host either way.
func (r *Runtime) exit(l *glua.State) int {
	status := glua.OptInteger(l, 1, 0)
	r.host.Exit(status)
	r.exiting = true
	r.exitCode = status
	glua.Errorf(l, "%s", fmt.Sprintf("exit status %d", status))
	return 0
}

func (r *Runtime) windowResize(l *glua.State) int {
	w := glua.CheckInteger(l, 1)
	h := glua.CheckInteger(l, 2)
	r.host.ResizeWindow(w, h)
	return 0
}

func (r *Runtime) windowSetTitle(l *glua.State) int {
	r.host.SetWindowTitle(glua.CheckString(l, 1))
	return 0
}

func (r *Runtime) windowLockstep(l *glua.State) int {
	r.host.SetLockstep(l.ToBoolean(1))
	return 0
}

func (r *Runtime) canvasCls(l *glua.State) int {
	col := core.ColorBlack
	if !l.IsNoneOrNil(1) {
		col = checkColor(l, 1)
	}
	r.host.Canvas().Clear(col)
	return 0
}

func (r *Runtime) canvasPset(l *glua.State) int {
	x := glua.CheckInteger(l, 1)
	y := glua.CheckInteger(l, 2)
	r.host.Canvas().Set(x, y, checkColor(l, 3))
	return 0
}

func (r *Runtime) canvasPget(l *glua.State) int {
	x := glua.CheckInteger(l, 1)
	y := glua.CheckInteger(l, 2)
	l.PushNumber(float64(r.host.Canvas().Get(x, y)))
	return 1
}

func (r *Runtime) canvasRectfill(l *glua.State) int {
	rect := core.NewRect(
		glua.CheckInteger(l, 1),
		glua.CheckInteger(l, 2),
		glua.CheckInteger(l, 3),
		glua.CheckInteger(l, 4),
	)
	r.host.Canvas().FillRect(rect, checkColor(l, 5))
	return 0
}

func (r *Runtime) canvasHline(l *glua.State) int {
	x := glua.CheckInteger(l, 1)
	y := glua.CheckInteger(l, 2)
	n := glua.CheckInteger(l, 3)
	r.host.Canvas().DrawHLine(x, y, n, checkColor(l, 4))
	return 0
}

func (r *Runtime) canvasVline(l *glua.State) int {
	x := glua.CheckInteger(l, 1)
	y := glua.CheckInteger(l, 2)
	n := glua.CheckInteger(l, 3)
	r.host.Canvas().DrawVLine(x, y, n, checkColor(l, 4))
	return 0
}

func (r *Runtime) keyboardIsKeyDown(l *glua.State) int {
	l.PushBoolean(r.host.IsKeyDown(glua.CheckString(l, 1)))
	return 1
}

func (r *Runtime) fsLoad(l *glua.State) int {
	data, err := r.host.ReadFile(glua.CheckString(l, 1))
	if err != nil {
		glua.Errorf(l, "%s", err.Error())
	}
	l.PushString(string(data))
	return 1
}

func (r *Runtime) fsLoadAsync(l *glua.State) int {
	l.PushInteger(r.host.LoadAsync(glua.CheckString(l, 1)))
	return 1
}

// FileSystem.poll(id) -> {ready, data, error}
func (r *Runtime) fsPoll(l *glua.State) int {
	id := glua.CheckInteger(l, 1)
	st := r.host.AsyncResult(id)
	if !st.Known {
		glua.Errorf(l, "%s", fmt.Sprintf("FileSystem.poll(): unknown operation %d", id))
	}

	l.NewTable()
	l.PushBoolean(st.Ready)
	l.SetField(-2, "ready")
	if st.Ready {
		if st.Err != nil {
			l.PushString(st.Err.Error())
			l.SetField(-2, "error")
		} else {
			l.PushString(string(st.Data))
			l.SetField(-2, "data")
		}
	}
	return 1
}

func (r *Runtime) audioAttach(l *glua.State) int {
	if r.host.AttachAudio() {
		r.attached = true
	}
	l.PushBoolean(r.attached)
	return 1
}

func (r *Runtime) audioTone(l *glua.State) int {
	freq := glua.CheckNumber(l, 1)
	seconds := glua.CheckNumber(l, 2)
	volume := glua.OptNumber(l, 3, 1)
	if err := r.host.PlayTone(freq, seconds, volume); err != nil {
		glua.Errorf(l, "%s", err.Error())
	}
	return 0
}

func (r *Runtime) audioStopAll(l *glua.State) int {
	if err := r.host.StopAudio(); err != nil {
		glua.Errorf(l, "%s", err.Error())
	}
	return 0
}

func (r *Runtime) print(l *glua.State) int {
	n := l.Top()
	parts := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		parts = append(parts, valueString(l, i))
	}
	r.log.Info(strings.Join(parts, " "))
	return 0
}

func valueString(l *glua.State, index int) string {
	switch l.TypeOf(index) {
	case glua.TypeNil, glua.TypeNone:
		return "nil"
	case glua.TypeBoolean:
		if l.ToBoolean(index) {
			return "true"
		}
		return "false"
	case glua.TypeNumber, glua.TypeString:
		s, _ := l.ToString(index)
		return s
	default:
		return glua.TypeNameOf(l, index)
	}
}

// checkColor reads a packed 0xAARRGGBB number.
func checkColor(l *glua.State, index int) core.Color {
	return core.Color(uint32(int64(glua.CheckNumber(l, index))))
}
