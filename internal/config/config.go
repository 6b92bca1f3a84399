// Package config loads tool settings from a YAML file, filling
// anything missing from defaults. Settings cover only the shell around
// the editing core: fresh-score defaults, history depth, log level.
package config

import (
	"os"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	"gopkg.in/yaml.v3"

	"github.com/etudehq/etude/internal/rhythm"
	"github.com/etudehq/etude/internal/score"
)

// Config holds tool settings.
type Config struct {
	// TimeSignature seeds fresh scores. Unknown signatures fall back
	// to the default at load time.
	TimeSignature string `yaml:"timeSignature"`
	// BPM seeds fresh scores.
	BPM int `yaml:"bpm"`
	// GrandStaff starts fresh scores with two staves.
	GrandStaff bool `yaml:"grandStaff"`
	// MaxHistory caps the undo stack.
	MaxHistory int `yaml:"maxHistory"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"logLevel"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		TimeSignature: score.DefaultTimeSignature,
		BPM:           score.DefaultBPM,
		MaxHistory:    1000,
		LogLevel:      "info",
	}
}

// Load reads YAML settings from path, layered over the defaults. A
// missing file is not an error; a malformed one is.
func Load(path string) (Config, error) {
	cfg := Default()
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fault.Wrap(err, fmsg.With("reading config"))
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fault.Wrap(err, fmsg.With("parsing config"))
	}
	normalize(&cfg)
	return cfg, nil
}

func normalize(cfg *Config) {
	if !rhythm.KnownSignature(cfg.TimeSignature) {
		cfg.TimeSignature = score.DefaultTimeSignature
	}
	if cfg.BPM <= 0 {
		cfg.BPM = score.DefaultBPM
	}
	if cfg.MaxHistory <= 0 {
		cfg.MaxHistory = 1000
	}
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		cfg.LogLevel = "info"
	}
}
