package script

import (
	"errors"
	"testing"
)

type stubRuntime struct{ host Host }

func (stubRuntime) Load(string, []byte) (Program, error) { return nil, errors.New("stub") }
func (stubRuntime) EnsureSlots(int)                      {}
func (stubRuntime) AudioHook() (func() error, bool)      { return nil, false }
func (stubRuntime) Release()                             {}
func (stubRuntime) Close() error                         { return nil }

func TestRegistry(t *testing.T) {
	Register("stub", "Stub", func(h Host) Runtime { return stubRuntime{host: h} })

	tests := []struct {
		ext    string
		exists bool
	}{
		{".stub", true},
		{"stub", true},
		{".STUB", true},
		{".nope", false},
		{"", false},
	}
	for _, tc := range tests {
		if got := Exists(tc.ext); got != tc.exists {
			t.Errorf("Exists(%q) = %v, expected %v", tc.ext, got, tc.exists)
		}
	}

	if _, err := ForFile("game/main.stub", nil); err != nil {
		t.Errorf("ForFile() failed: %v", err)
	}
	if _, err := ForFile("main.wren", nil); err == nil {
		t.Error("ForFile() should fail for an unregistered extension")
	}

	found := false
	for _, info := range List() {
		if info.Ext == ".stub" && info.Language == "Stub" {
			found = true
		}
	}
	if !found {
		t.Errorf("List() = %v, expected .stub entry", List())
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	Register(".dup", "Dup", func(Host) Runtime { return stubRuntime{} })

	defer func() {
		if recover() == nil {
			t.Error("second Register() should panic")
		}
	}()
	Register("dup", "Dup", func(Host) Runtime { return stubRuntime{} })
}

func TestErrorUnwrap(t *testing.T) {
	err := NewError(PhaseUpdate, "exit requested", ErrExit)
	if !errors.Is(err, ErrExit) {
		t.Error("script error should unwrap to its cause")
	}
	if got := err.Error(); got != "script update: exit requested" {
		t.Errorf("Error() = %q", got)
	}
}
