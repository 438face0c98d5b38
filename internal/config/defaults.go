package config

import (
	_ "embed"
)

//go:embed defaults/yolk.yaml
var defaultYAML []byte

// DefaultConfig returns the built-in configuration.
func DefaultConfig() Config {
	return Config{
		Window: WindowConfig{
			Title: "yolk",
			Scale: 2,
			VSync: false,
		},
		Timing: TimingConfig{
			Lockstep: false,
			MaxLagMS: 0,
		},
		Audio: AudioConfig{
			Enabled:     true,
			BufferShift: DefaultBufferShift,
			SampleRate:  DefaultSampleRate,
		},
		Script: ScriptConfig{
			InitialHeapMB: DefaultInitialHeapMB,
		},
		Capture: CaptureConfig{
			DefaultRecordPath: "yolk.gif",
			ScreenshotName:    "screenshot.png",
			SampleEvery:       2,
			FrameDelay:        3,
		},
	}
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultYAML
}
