// Package config provides YAML-based engine settings and the CLI override
// rules for the yolk runtime.
package config

// Config contains every tunable of a run.
type Config struct {
	Window  WindowConfig  `yaml:"window"`
	Timing  TimingConfig  `yaml:"timing"`
	Audio   AudioConfig   `yaml:"audio"`
	Script  ScriptConfig  `yaml:"script"`
	Capture CaptureConfig `yaml:"capture"`
	Debug   bool          `yaml:"debug"`
}

// WindowConfig defines the display surface.
type WindowConfig struct {
	Title string `yaml:"title"`
	Scale int    `yaml:"scale"`
	VSync bool   `yaml:"vsync"`
}

// TimingConfig defines the fixed-timestep policy.
type TimingConfig struct {
	Lockstep bool    `yaml:"lockstep"`   // At most one update per rendered frame
	MaxLagMS float64 `yaml:"max_lag_ms"` // Cap on accumulated lag; 0 = uncapped
}

// AudioConfig defines the mixer.
type AudioConfig struct {
	Enabled     bool `yaml:"enabled"`
	BufferShift int  `yaml:"buffer_shift"` // Buffer is 1 << BufferShift frames
	SampleRate  int  `yaml:"sample_rate"`
}

// ScriptConfig defines the scripting runtime.
type ScriptConfig struct {
	InitialHeapMB int `yaml:"initial_heap_mb"`
}

// CaptureConfig defines recording and screenshot output.
type CaptureConfig struct {
	DefaultRecordPath string `yaml:"default_record_path"`
	ScreenshotName    string `yaml:"screenshot_name"`
	SampleEvery       int    `yaml:"sample_every"` // Fixed ticks per recorded frame
	FrameDelay        int    `yaml:"frame_delay"`  // GIF frame delay in 1/100 s
}

// Fallbacks for invalid or zero CLI values.
const (
	DefaultBufferShift   = 11
	DefaultBufferFrames  = 1 << DefaultBufferShift
	MaxBufferShift       = 16
	DefaultInitialHeapMB = 100
	DefaultSampleRate    = 44100
)

// BufferFrames returns the audio buffer size for a shift value. Zero,
// negative and oversized shifts fall back to DefaultBufferFrames.
func BufferFrames(shift int) int {
	if shift <= 0 || shift > MaxBufferShift {
		return DefaultBufferFrames
	}
	return 1 << shift
}

// HeapBytes converts the initial heap setting to bytes. Zero or negative
// values fall back to DefaultInitialHeapMB.
func HeapBytes(mb int) int64 {
	if mb <= 0 {
		mb = DefaultInitialHeapMB
	}
	return int64(mb) * 1024 * 1024
}

// Normalize replaces zero values left by a partial YAML file with defaults.
func (c *Config) Normalize() {
	def := DefaultConfig()

	if c.Window.Title == "" {
		c.Window.Title = def.Window.Title
	}
	if c.Window.Scale <= 0 {
		c.Window.Scale = def.Window.Scale
	}
	if c.Timing.MaxLagMS < 0 {
		c.Timing.MaxLagMS = 0
	}
	if c.Audio.BufferShift <= 0 || c.Audio.BufferShift > MaxBufferShift {
		c.Audio.BufferShift = DefaultBufferShift
	}
	if c.Audio.SampleRate <= 0 {
		c.Audio.SampleRate = def.Audio.SampleRate
	}
	if c.Script.InitialHeapMB <= 0 {
		c.Script.InitialHeapMB = DefaultInitialHeapMB
	}
	if c.Capture.DefaultRecordPath == "" {
		c.Capture.DefaultRecordPath = def.Capture.DefaultRecordPath
	}
	if c.Capture.ScreenshotName == "" {
		c.Capture.ScreenshotName = def.Capture.ScreenshotName
	}
	if c.Capture.SampleEvery <= 0 {
		c.Capture.SampleEvery = def.Capture.SampleEvery
	}
	if c.Capture.FrameDelay <= 0 {
		c.Capture.FrameDelay = def.Capture.FrameDelay
	}
}
