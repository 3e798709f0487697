// Package config provides YAML-based configuration loading for the
// Disk Solitaire tools and hint service.
package config

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"
)

// Config contains all configuration for the disks CLI and server.
type Config struct {
	Solver  SolverConfig  `yaml:"solver"`
	Hints   HintsConfig   `yaml:"hints"`
	Storage StorageConfig `yaml:"storage"`
	Server  ServerConfig  `yaml:"server"`
	Log     LogConfig     `yaml:"log"`
	Levels  LevelsConfig  `yaml:"levels"`
}

// SolverConfig defines search limits.
type SolverConfig struct {
	MaxStates int          `yaml:"max_states"` // 0 = unlimited
	Effort    EffortPreset `yaml:"effort"`     // Overrides MaxStates when set
	AutoHint  bool         `yaml:"auto_hint"`
}

// HintsConfig selects how much a hint reveals.
type HintsConfig struct {
	Level HintLevel `yaml:"level"`
}

// StorageConfig defines where solutions are cached.
type StorageConfig struct {
	DBPath string `yaml:"db_path"`
}

// ServerConfig defines the HTTP hint service.
type ServerConfig struct {
	Addr          string        `yaml:"addr"`
	HintTimeout   time.Duration `yaml:"hint_timeout"`
	SessionTTL    time.Duration `yaml:"session_ttl"`
	CleanupPeriod time.Duration `yaml:"cleanup_period"`
}

// LogConfig defines logging output.
type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// LevelsConfig points at extra level packs.
type LevelsConfig struct {
	Dir string `yaml:"dir"`
}

// StateCap returns the effective search cap: the effort preset when one is
// set, MaxStates otherwise.
func (c SolverConfig) StateCap() int {
	if c.Effort != "" {
		return MaxStatesForEffort(c.Effort)
	}
	return c.MaxStates
}

// Validate checks the configuration for values the tools cannot use.
func (c Config) Validate() error {
	if c.Solver.MaxStates < 0 {
		return fmt.Errorf("config: solver.max_states must not be negative, got %d", c.Solver.MaxStates)
	}
	if c.Solver.Effort != "" && !c.Solver.Effort.Valid() {
		return fmt.Errorf("config: unknown solver.effort %q", c.Solver.Effort)
	}
	if !c.Hints.Level.Valid() {
		return fmt.Errorf("config: unknown hints.level %q", c.Hints.Level)
	}
	if c.Server.HintTimeout <= 0 {
		return fmt.Errorf("config: server.hint_timeout must be positive, got %s", c.Server.HintTimeout)
	}
	if c.Server.SessionTTL < 0 || c.Server.CleanupPeriod < 0 {
		return fmt.Errorf("config: server session durations must not be negative")
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("config: log.level: %w", err)
	}
	return nil
}

// LogLevel returns the parsed log level, or info if it is invalid.
func (c Config) LogLevel() log.Level {
	lvl, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}
