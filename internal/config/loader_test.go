package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadCustomPath(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "custom.yaml")
	data := []byte("timing:\n  lockstep: true\naudio:\n  buffer_shift: 9\n")
	if err := os.WriteFile(p, data, 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if !cfg.Timing.Lockstep {
		t.Error("lockstep should be read from the file")
	}
	if cfg.Audio.BufferShift != 9 {
		t.Errorf("BufferShift = %d, expected 9", cfg.Audio.BufferShift)
	}
	// Omitted keys keep their defaults
	if cfg.Capture.SampleEvery != 2 {
		t.Errorf("SampleEvery = %d, expected default 2", cfg.Capture.SampleEvery)
	}
	if cfg.Audio.SampleRate != DefaultSampleRate {
		t.Errorf("SampleRate = %d, expected %d", cfg.Audio.SampleRate, DefaultSampleRate)
	}
}

func TestLoadCustomPathErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("Load() should fail for a missing custom file")
	}

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("timing: [unclosed"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(bad); err == nil {
		t.Error("Load() should fail for malformed YAML")
	}
}

func TestEmbeddedDefaultsMatchHardcoded(t *testing.T) {
	cfg, err := parse(DefaultYAML())
	if err != nil {
		t.Fatalf("embedded defaults do not parse: %v", err)
	}
	if cfg != DefaultConfig() {
		t.Errorf("embedded defaults = %+v, expected %+v", cfg, DefaultConfig())
	}
}

func TestBufferFrames(t *testing.T) {
	tests := []struct {
		shift    int
		expected int
	}{
		{11, 2048},
		{8, 256},
		{0, DefaultBufferFrames},
		{-3, DefaultBufferFrames},
		{40, DefaultBufferFrames},
	}

	for _, tc := range tests {
		if got := BufferFrames(tc.shift); got != tc.expected {
			t.Errorf("BufferFrames(%d) = %d, expected %d", tc.shift, got, tc.expected)
		}
	}
}

func TestHeapBytes(t *testing.T) {
	if got := HeapBytes(0); got != 100*1024*1024 {
		t.Errorf("HeapBytes(0) = %d, expected 100MB", got)
	}
	if got := HeapBytes(16); got != 16*1024*1024 {
		t.Errorf("HeapBytes(16) = %d, expected 16MB", got)
	}
}

func TestOverridesApply(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Audio.BufferShift = 9
	cfg.Script.InitialHeapMB = 64

	zero := 0
	heap := 32
	Overrides{
		Debug:         true,
		BufferShift:   &zero,
		InitialHeapMB: &heap,
		Lockstep:      true,
		NoAudio:       true,
	}.Apply(&cfg)

	if !cfg.Debug || !cfg.Timing.Lockstep || cfg.Audio.Enabled {
		t.Errorf("flags not applied: %+v", cfg)
	}
	if cfg.Audio.BufferShift != DefaultBufferShift {
		t.Errorf("zero shift should fall back to %d, got %d", DefaultBufferShift, cfg.Audio.BufferShift)
	}
	if cfg.Script.InitialHeapMB != 32 {
		t.Errorf("InitialHeapMB = %d, expected 32", cfg.Script.InitialHeapMB)
	}

	// Unset overrides leave file values alone
	cfg2 := DefaultConfig()
	cfg2.Audio.BufferShift = 9
	Overrides{}.Apply(&cfg2)
	if cfg2.Audio.BufferShift != 9 || cfg2.Debug {
		t.Errorf("empty overrides changed config: %+v", cfg2)
	}
}
