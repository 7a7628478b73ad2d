// Package config loads the zapravka server configuration from an optional
// YAML or JSON file and ZAPRAVKA_ environment variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "ZAPRAVKA_"

const (
	// MutationPoll runs one mutation cycle per Poll-latest request.
	MutationPoll = "poll"
	// MutationTimer runs mutation cycles on a ticker, independent of polls.
	MutationTimer = "timer"
)

// Config is the serve command configuration.
type Config struct {
	Listen    string          `json:"listen"`
	Seed      uint64          `json:"seed"`
	Mutation  MutationConfig  `json:"mutation"`
	Cache     CacheConfig     `json:"cache"`
	SearchLog SearchLogConfig `json:"search_log"`
	RateLimit RateLimitConfig `json:"rate_limit"`
	Geocoder  GeocoderConfig  `json:"geocoder"`
	Logging   LoggingConfig   `json:"logging"`
}

type MutationConfig struct {
	Mode            string `json:"mode"`
	IntervalSeconds int    `json:"interval_seconds"`
}

func (m MutationConfig) Interval() time.Duration {
	return time.Duration(m.IntervalSeconds) * time.Second
}

type CacheConfig struct {
	TTLSeconds int `json:"ttl_seconds"`
}

func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}

type SearchLogConfig struct {
	Enabled bool   `json:"enabled"`
	Path    string `json:"path"`
}

type RateLimitConfig struct {
	// PerMinute is the number of requests allowed per client IP. Zero
	// disables rate limiting.
	PerMinute int `json:"per_minute"`
}

type GeocoderConfig struct {
	Enabled bool   `json:"enabled"`
	Server  string `json:"server"`
	// TimeoutSeconds bounds each Nominatim request.
	TimeoutSeconds int `json:"timeout_seconds"`
}

func (g GeocoderConfig) Timeout() time.Duration {
	return time.Duration(g.TimeoutSeconds) * time.Second
}

type LoggingConfig struct {
	Level string `json:"level"`
	JSON  bool   `json:"json"`
}

// SlogLevel maps Level to a slog level, defaulting to info.
func (l LoggingConfig) SlogLevel() slog.Level {
	switch strings.ToLower(l.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	return Config{
		Listen: "127.0.0.1:8080",
		Seed:   0,
		Mutation: MutationConfig{
			Mode:            MutationPoll,
			IntervalSeconds: 8,
		},
		Cache:     CacheConfig{TTLSeconds: 30},
		SearchLog: SearchLogConfig{Enabled: true, Path: "search_log.db"},
		RateLimit: RateLimitConfig{PerMinute: 120},
		Geocoder: GeocoderConfig{
			Enabled:        true,
			Server:         "https://nominatim.openstreetmap.org/",
			TimeoutSeconds: 10,
		},
		Logging: LoggingConfig{Level: "info"},
	}
}

// Load reads path (skipped when empty) on top of the defaults, then applies
// environment overrides such as ZAPRAVKA_MUTATION__MODE=timer.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		var parser koanf.Parser
		switch ext := strings.ToLower(filepath.Ext(path)); ext {
		case ".yaml", ".yml":
			parser = yaml.Parser()
		case ".json":
			parser = json.Parser()
		default:
			return nil, fmt.Errorf("unsupported config format: %s", ext)
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return nil, fmt.Errorf("error loading config file: %w", err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), strings.ToLower(envPrefix))
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("error loading environment: %w", err)
	}

	cfg := Default()
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, fmt.Errorf("error decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var errs []error
	if c.Listen == "" {
		errs = append(errs, errors.New("listen address is required"))
	}
	switch c.Mutation.Mode {
	case MutationPoll, MutationTimer:
	default:
		errs = append(errs, fmt.Errorf("mutation.mode must be %q or %q, got %q", MutationPoll, MutationTimer, c.Mutation.Mode))
	}
	if c.Mutation.IntervalSeconds <= 0 {
		errs = append(errs, errors.New("mutation.interval_seconds must be positive"))
	}
	if c.Cache.TTLSeconds < 0 {
		errs = append(errs, errors.New("cache.ttl_seconds must not be negative"))
	}
	if c.SearchLog.Enabled && c.SearchLog.Path == "" {
		errs = append(errs, errors.New("search_log.path is required when the search log is enabled"))
	}
	if c.Geocoder.Enabled && c.Geocoder.TimeoutSeconds <= 0 {
		errs = append(errs, errors.New("geocoder.timeout_seconds must be positive when the geocoder is enabled"))
	}
	if c.RateLimit.PerMinute < 0 {
		errs = append(errs, errors.New("rate_limit.per_minute must not be negative"))
	}
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("unknown logging.level %q", c.Logging.Level))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
