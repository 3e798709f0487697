package config

import (
	_ "embed"
	"time"
)

//go:embed defaults/disks.yaml
var defaultYAML []byte

// DefaultConfig returns the hardcoded default configuration.
// It matches defaults/disks.yaml.
func DefaultConfig() Config {
	return Config{
		Solver: SolverConfig{
			MaxStates: 2_000_000,
			AutoHint:  true,
		},
		Hints: HintsConfig{
			Level: HintSmall,
		},
		Storage: StorageConfig{
			DBPath: "~/.disks/solutions.db",
		},
		Server: ServerConfig{
			Addr:          ":8080",
			HintTimeout:   30 * time.Second,
			SessionTTL:    30 * time.Minute,
			CleanupPeriod: time.Minute,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// GetDefaultYAML returns the embedded default YAML.
func GetDefaultYAML() []byte {
	return defaultYAML
}
