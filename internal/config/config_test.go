package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeFile(t *testing.T, name, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_YAML(t *testing.T) {
	path := writeFile(t, "zapravka.yaml", `listen: ":9000"
seed: 42
mutation:
  mode: timer
  interval_seconds: 3
cache:
  ttl_seconds: 0
search_log:
  enabled: false
geocoder:
  enabled: false
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	checks := []struct {
		name string
		got  any
		want any
	}{
		{"listen", cfg.Listen, ":9000"},
		{"seed", cfg.Seed, uint64(42)},
		{"mutation.mode", cfg.Mutation.Mode, MutationTimer},
		{"mutation.interval", cfg.Mutation.Interval(), 3 * time.Second},
		{"cache.ttl", cfg.Cache.TTL(), time.Duration(0)},
		{"search_log.enabled", cfg.SearchLog.Enabled, false},
		{"search_log.path default", cfg.SearchLog.Path, "search_log.db"},
		{"geocoder.enabled", cfg.Geocoder.Enabled, false},
		{"geocoder.timeout default", cfg.Geocoder.Timeout(), 10 * time.Second},
		{"rate_limit default", cfg.RateLimit.PerMinute, 120},
		{"logging.level default", cfg.Logging.Level, "info"},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s: got %v, want %v", c.name, c.got, c.want)
		}
	}
}

func TestLoad_JSON(t *testing.T) {
	path := writeFile(t, "zapravka.json", `{"rate_limit": {"per_minute": 0}, "logging": {"level": "debug", "json": true}}`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	if cfg.RateLimit.PerMinute != 0 || cfg.Logging.Level != "debug" || !cfg.Logging.JSON {
		t.Errorf("Unexpected config: %+v", cfg)
	}
	if cfg.Mutation.Mode != MutationPoll {
		t.Errorf("Expected default mutation mode, got %q", cfg.Mutation.Mode)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeFile(t, "zapravka.yml", "mutation:\n  mode: timer\n")
	t.Setenv("ZAPRAVKA_MUTATION__MODE", "poll")
	t.Setenv("ZAPRAVKA_MUTATION__INTERVAL_SECONDS", "5")
	t.Setenv("ZAPRAVKA_LISTEN", "0.0.0.0:8081")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	if cfg.Mutation.Mode != MutationPoll {
		t.Errorf("Expected env to override mode, got %q", cfg.Mutation.Mode)
	}
	if cfg.Mutation.IntervalSeconds != 5 {
		t.Errorf("Expected interval 5, got %d", cfg.Mutation.IntervalSeconds)
	}
	if cfg.Listen != "0.0.0.0:8081" {
		t.Errorf("Expected listen override, got %q", cfg.Listen)
	}
}

func TestLoad_NoFile(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	if *cfg != Default() {
		t.Errorf("Expected defaults, got %+v", cfg)
	}
}

func TestLoad_Errors(t *testing.T) {
	if _, err := Load(writeFile(t, "zapravka.toml", "listen = 1")); err == nil {
		t.Error("Expected an error for an unsupported format")
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Expected an error for a missing file")
	}
	if _, err := Load(writeFile(t, "bad.yaml", "mutation:\n  mode: sometimes\n")); err == nil {
		t.Error("Expected a validation error")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		valid  bool
	}{
		{"defaults", func(*Config) {}, true},
		{"empty listen", func(c *Config) { c.Listen = "" }, false},
		{"zero interval", func(c *Config) { c.Mutation.IntervalSeconds = 0 }, false},
		{"negative ttl", func(c *Config) { c.Cache.TTLSeconds = -1 }, false},
		{"search log without path", func(c *Config) { c.SearchLog.Path = "" }, false},
		{"disabled search log without path", func(c *Config) { c.SearchLog.Path = ""; c.SearchLog.Enabled = false }, true},
		{"zero geocoder timeout", func(c *Config) { c.Geocoder.TimeoutSeconds = 0 }, false},
		{"disabled geocoder without timeout", func(c *Config) { c.Geocoder.TimeoutSeconds = 0; c.Geocoder.Enabled = false }, true},
		{"negative rate", func(c *Config) { c.RateLimit.PerMinute = -5 }, false},
		{"bad level", func(c *Config) { c.Logging.Level = "loud" }, false},
		{"upper case level", func(c *Config) { c.Logging.Level = "WARN" }, true},
	}
	for _, test := range tests {
		cfg := Default()
		test.mutate(&cfg)
		err := cfg.Validate()
		if test.valid && err != nil {
			t.Errorf("%s: unexpected error: %v", test.name, err)
		}
		if !test.valid && err == nil {
			t.Errorf("%s: expected an error", test.name)
		}
	}
}

func TestLoggingConfig_SlogLevel(t *testing.T) {
	tests := []struct {
		level    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
	}

	for _, test := range tests {
		if got := (LoggingConfig{Level: test.level}).SlogLevel(); got != test.expected {
			t.Errorf("SlogLevel(%q) = %v, expected %v", test.level, got, test.expected)
		}
	}
}
