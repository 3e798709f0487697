package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"gopkg.in/yaml.v3"
)

func TestEmbeddedDefaultsMatchHardcoded(t *testing.T) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(GetDefaultYAML(), &cfg); err != nil {
		t.Fatalf("embedded YAML does not parse: %v", err)
	}
	if cfg != DefaultConfig() {
		t.Errorf("embedded defaults %+v differ from hardcoded %+v", cfg, DefaultConfig())
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults do not validate: %v", err)
	}
}

func TestLoadCustomPathOverridesOnlyGivenKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "disks.yaml")
	data := []byte("solver:\n  max_states: 5000\nserver:\n  hint_timeout: 5s\nlog:\n  level: debug\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Solver.MaxStates != 5000 {
		t.Errorf("MaxStates = %d, expected 5000", cfg.Solver.MaxStates)
	}
	if cfg.Server.HintTimeout != 5*time.Second {
		t.Errorf("HintTimeout = %s, expected 5s", cfg.Server.HintTimeout)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("Addr = %q, default should be kept", cfg.Server.Addr)
	}
	if !cfg.Solver.AutoHint {
		t.Error("AutoHint default should be kept")
	}
	if cfg.LogLevel().String() != "debug" {
		t.Errorf("LogLevel = %s, expected debug", cfg.LogLevel())
	}
}

func TestLoadCustomPathErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("missing custom config should fail")
	}

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	_ = os.WriteFile(bad, []byte("solver: [not, a, map"), 0o644)
	if _, err := Load(bad); err == nil {
		t.Error("unparseable custom config should fail")
	}

	invalid := filepath.Join(t.TempDir(), "invalid.yaml")
	_ = os.WriteFile(invalid, []byte("hints:\n  level: huge\n"), 0o644)
	if _, err := Load(invalid); err == nil {
		t.Error("invalid hint level should fail validation")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative max states", func(c *Config) { c.Solver.MaxStates = -1 }},
		{"unknown effort", func(c *Config) { c.Solver.Effort = "heroic" }},
		{"unknown hint level", func(c *Config) { c.Hints.Level = "" }},
		{"zero hint timeout", func(c *Config) { c.Server.HintTimeout = 0 }},
		{"negative ttl", func(c *Config) { c.Server.SessionTTL = -time.Second }},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected a validation error")
			}
		})
	}
}

func TestStateCap(t *testing.T) {
	c := SolverConfig{MaxStates: 42}
	if c.StateCap() != 42 {
		t.Errorf("StateCap = %d, expected 42", c.StateCap())
	}
	c.Effort = EffortExhaustive
	if c.StateCap() != 0 {
		t.Errorf("exhaustive StateCap = %d, expected 0", c.StateCap())
	}
	c.Effort = EffortQuick
	if c.StateCap() != MaxStatesForEffort(EffortQuick) {
		t.Errorf("quick StateCap = %d", c.StateCap())
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	got, err := ExpandHome("~/.disks/x.db")
	if err != nil {
		t.Fatalf("ExpandHome failed: %v", err)
	}
	if got != filepath.Join(home, ".disks", "x.db") {
		t.Errorf("ExpandHome = %q", got)
	}
	if got, _ := ExpandHome("/tmp/x.db"); got != "/tmp/x.db" {
		t.Errorf("absolute path changed to %q", got)
	}
}
