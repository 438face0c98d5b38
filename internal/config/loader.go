package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LocalConfigName is the per-project settings file looked up in the
// working directory.
const LocalConfigName = "yolk.yaml"

// Load loads engine configuration.
// Search order: customPath -> ~/.yolk/config.yaml -> ./yolk.yaml -> embedded default
func Load(customPath string) (Config, error) {
	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		cfg, err := parse(data)
		if err != nil {
			return Config{}, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath("config.yaml"); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if cfg, err := parse(data); err == nil {
				return cfg, nil
			}
		}
	}

	// Try local config file
	if data, err := os.ReadFile(LocalConfigName); err == nil {
		if cfg, err := parse(data); err == nil {
			return cfg, nil
		}
	}

	// Use embedded default YAML
	cfg, err := parse(defaultYAML)
	if err != nil {
		return DefaultConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// parse decodes YAML on top of the defaults so omitted keys keep their
// built-in values.
func parse(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}
	cfg.Normalize()
	return cfg, nil
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".yolk", filename)
}

// Overrides carries values given on the command line. Nil pointers and
// empty strings leave the file's value in place.
type Overrides struct {
	Debug         bool
	BufferShift   *int
	InitialHeapMB *int
	Lockstep      bool
	NoAudio       bool
}

// Apply layers command-line overrides on top of the loaded file. Invalid
// numeric flags fall back to the built-in defaults, not the file's values.
func (o Overrides) Apply(cfg *Config) {
	if o.Debug {
		cfg.Debug = true
	}
	if o.BufferShift != nil {
		shift := *o.BufferShift
		if shift <= 0 || shift > MaxBufferShift {
			shift = DefaultBufferShift
		}
		cfg.Audio.BufferShift = shift
	}
	if o.InitialHeapMB != nil {
		mb := *o.InitialHeapMB
		if mb <= 0 {
			mb = DefaultInitialHeapMB
		}
		cfg.Script.InitialHeapMB = mb
	}
	if o.Lockstep {
		cfg.Timing.Lockstep = true
	}
	if o.NoAudio {
		cfg.Audio.Enabled = false
	}
}
