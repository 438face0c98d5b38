package js

import (
	"fmt"
	"strings"

	"github.com/dop251/goja"

	"github.com/vovakirdan/yolk/internal/core"
)

type native = func(call goja.FunctionCall) goja.Value

// installAPI defines the engine globals.
func (r *Runtime) installAPI() error {
	vm := r.vm

	globals := []struct {
		name string
		fns  map[string]native
	}{
		{"Process", map[string]native{
			"exit": r.exit,
		}},
		{"Window", map[string]native{
			"resize":   r.windowResize,
			"setTitle": r.windowSetTitle,
			"lockstep": r.windowLockstep,
		}},
		{"Canvas", map[string]native{
			"cls":      r.canvasCls,
			"pset":     r.canvasPset,
			"pget":     r.canvasPget,
			"rectfill": r.canvasRectfill,
			"hline":    r.canvasHline,
			"vline":    r.canvasVline,
		}},
		{"Keyboard", map[string]native{
			"isKeyDown": r.keyboardIsKeyDown,
		}},
		{"FileSystem", map[string]native{
			"load":      r.fsLoad,
			"loadAsync": r.fsLoadAsync,
			"poll":      r.fsPoll,
		}},
		{"__audio", map[string]native{
			"attach":  r.audioAttach,
			"tone":    r.audioTone,
			"stopAll": r.audioStopAll,
		}},
	}

	for _, g := range globals {
		obj := vm.NewObject()
		for name, fn := range g.fns {
			if err := obj.Set(name, fn); err != nil {
				return fmt.Errorf("%s.%s: %w", g.name, name, err)
			}
		}
		if err := vm.Set(g.name, obj); err != nil {
			return fmt.Errorf("%s: %w", g.name, err)
		}
	}

	canvas := vm.Get("Canvas").ToObject(vm)
	dims := map[string]func() int{
		"width":  func() int { return r.host.Canvas().Width() },
		"height": func() int { return r.host.Canvas().Height() },
	}
	for name, get := range dims {
		getter := vm.ToValue(func(goja.FunctionCall) goja.Value { return vm.ToValue(get()) })
		if err := canvas.DefineAccessorProperty(name, getter, nil, goja.FLAG_FALSE, goja.FLAG_TRUE); err != nil {
			return fmt.Errorf("Canvas.%s: %w", name, err)
		}
	}

	return vm.Set("print", r.print)
}

// Process.exit(status)
// Status 0 stops the running call in a way scripts cannot catch. Any
// other status throws.
func (r *Runtime) exit(call goja.FunctionCall) goja.Value {
	status := int(call.Argument(0).ToInteger())
	r.host.Exit(status)
	if status == 0 {
		r.vm.Interrupt("exit")
		return goja.Undefined()
	}
	panic(r.vm.NewGoError(fmt.Errorf("exit status %d", status)))
}

func (r *Runtime) windowResize(call goja.FunctionCall) goja.Value {
	r.requireArgs(call, 2, "Window.resize() requires width and height")
	w := int(call.Argument(0).ToInteger())
	h := int(call.Argument(1).ToInteger())
	r.host.ResizeWindow(w, h)
	return goja.Undefined()
}

func (r *Runtime) windowSetTitle(call goja.FunctionCall) goja.Value {
	r.host.SetWindowTitle(call.Argument(0).String())
	return goja.Undefined()
}

func (r *Runtime) windowLockstep(call goja.FunctionCall) goja.Value {
	r.host.SetLockstep(call.Argument(0).ToBoolean())
	return goja.Undefined()
}

func (r *Runtime) canvasCls(call goja.FunctionCall) goja.Value {
	col := core.ColorBlack
	if len(call.Arguments) > 0 {
		col = toColor(call.Argument(0))
	}
	r.host.Canvas().Clear(col)
	return goja.Undefined()
}

func (r *Runtime) canvasPset(call goja.FunctionCall) goja.Value {
	r.requireArgs(call, 3, "Canvas.pset() requires x, y and color")
	x := int(call.Argument(0).ToInteger())
	y := int(call.Argument(1).ToInteger())
	r.host.Canvas().Set(x, y, toColor(call.Argument(2)))
	return goja.Undefined()
}

func (r *Runtime) canvasPget(call goja.FunctionCall) goja.Value {
	r.requireArgs(call, 2, "Canvas.pget() requires x and y")
	x := int(call.Argument(0).ToInteger())
	y := int(call.Argument(1).ToInteger())
	return r.vm.ToValue(uint32(r.host.Canvas().Get(x, y)))
}

func (r *Runtime) canvasRectfill(call goja.FunctionCall) goja.Value {
	r.requireArgs(call, 5, "Canvas.rectfill() requires x, y, w, h and color")
	rect := core.NewRect(
		int(call.Argument(0).ToInteger()),
		int(call.Argument(1).ToInteger()),
		int(call.Argument(2).ToInteger()),
		int(call.Argument(3).ToInteger()),
	)
	r.host.Canvas().FillRect(rect, toColor(call.Argument(4)))
	return goja.Undefined()
}

// Canvas.hline(x, y, length, color)
func (r *Runtime) canvasHline(call goja.FunctionCall) goja.Value {
	r.requireArgs(call, 4, "Canvas.hline() requires x, y, length and color")
	x, y, n := r.lineArgs(call)
	r.host.Canvas().DrawHLine(x, y, n, toColor(call.Argument(3)))
	return goja.Undefined()
}

// Canvas.vline(x, y, length, color)
func (r *Runtime) canvasVline(call goja.FunctionCall) goja.Value {
	r.requireArgs(call, 4, "Canvas.vline() requires x, y, length and color")
	x, y, n := r.lineArgs(call)
	r.host.Canvas().DrawVLine(x, y, n, toColor(call.Argument(3)))
	return goja.Undefined()
}

func (r *Runtime) lineArgs(call goja.FunctionCall) (x, y, length int) {
	return int(call.Argument(0).ToInteger()),
		int(call.Argument(1).ToInteger()),
		int(call.Argument(2).ToInteger())
}

func (r *Runtime) keyboardIsKeyDown(call goja.FunctionCall) goja.Value {
	return r.vm.ToValue(r.host.IsKeyDown(call.Argument(0).String()))
}

func (r *Runtime) fsLoad(call goja.FunctionCall) goja.Value {
	r.requireArgs(call, 1, "FileSystem.load() requires a path")
	data, err := r.host.ReadFile(call.Argument(0).String())
	if err != nil {
		panic(r.vm.NewGoError(err))
	}
	return r.vm.ToValue(string(data))
}

func (r *Runtime) fsLoadAsync(call goja.FunctionCall) goja.Value {
	r.requireArgs(call, 1, "FileSystem.loadAsync() requires a path")
	return r.vm.ToValue(r.host.LoadAsync(call.Argument(0).String()))
}

// FileSystem.poll(id) -> {ready, data, error}
func (r *Runtime) fsPoll(call goja.FunctionCall) goja.Value {
	id := int(call.Argument(0).ToInteger())
	st := r.host.AsyncResult(id)
	if !st.Known {
		panic(r.vm.NewTypeError(fmt.Sprintf("FileSystem.poll(): unknown operation %d", id)))
	}

	result := map[string]interface{}{
		"ready": st.Ready,
		"data":  nil,
		"error": nil,
	}
	if st.Ready {
		if st.Err != nil {
			result["error"] = st.Err.Error()
		} else {
			result["data"] = string(st.Data)
		}
	}
	return r.vm.ToValue(result)
}

func (r *Runtime) audioAttach(goja.FunctionCall) goja.Value {
	if r.host.AttachAudio() {
		r.attached = true
	}
	return r.vm.ToValue(r.attached)
}

func (r *Runtime) audioTone(call goja.FunctionCall) goja.Value {
	freq := call.Argument(0).ToFloat()
	seconds := call.Argument(1).ToFloat()
	volume := call.Argument(2).ToFloat()
	if err := r.host.PlayTone(freq, seconds, volume); err != nil {
		panic(r.vm.NewGoError(err))
	}
	return goja.Undefined()
}

func (r *Runtime) audioStopAll(goja.FunctionCall) goja.Value {
	if err := r.host.StopAudio(); err != nil {
		panic(r.vm.NewGoError(err))
	}
	return goja.Undefined()
}

func (r *Runtime) print(call goja.FunctionCall) goja.Value {
	parts := make([]string, len(call.Arguments))
	for i, arg := range call.Arguments {
		parts[i] = arg.String()
	}
	r.log.Info(strings.Join(parts, " "))
	return goja.Undefined()
}

// requireArgs panics with a JS exception if the call has fewer than n arguments.
func (r *Runtime) requireArgs(call goja.FunctionCall, n int, msg string) {
	if len(call.Arguments) < n {
		panic(r.vm.NewTypeError(msg))
	}
}

// toColor reads a packed 0xAARRGGBB number.
func toColor(v goja.Value) core.Color {
	return core.Color(uint32(v.ToInteger()))
}
