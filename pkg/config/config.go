// Package config loads staleboard configuration.
//
// Values are layered: Defaults, then an optional YAML file, then
// STALEBOARD_* environment variables. Command-line flags are applied on
// top of that by the caller.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/kylerisse/staleboard/pkg/node"
	"github.com/kylerisse/staleboard/pkg/staleness"
	"gopkg.in/yaml.v3"
)

// AgeFormat selects how a node's age is shown on the dashboard.
type AgeFormat string

const (
	// AgeRelative shows "N minutes ago" style strings.
	AgeRelative AgeFormat = "relative"
	// AgeSeconds shows the raw number of seconds since the last update.
	AgeSeconds AgeFormat = "seconds"
)

// Config holds all configuration for the dashboard process.
type Config struct {
	ListenAddr string          `yaml:"listen_addr"`
	StatusDir  string          `yaml:"status_dir"`
	Suffix     string          `yaml:"suffix"`
	Warning    Duration        `yaml:"warning"`
	Critical   Duration        `yaml:"critical"`
	AgeFormat  AgeFormat       `yaml:"age_format"`
	Timezone   string          `yaml:"timezone"`
	Cache      CacheConfig     `yaml:"cache"`
	RateLimit  RateLimitConfig `yaml:"rate_limit"`
}

// CacheConfig controls the optional scan cache. A zero TTL means the
// warning threshold.
type CacheConfig struct {
	Enabled bool     `yaml:"enabled"`
	TTL     Duration `yaml:"ttl"`
}

// RateLimitConfig controls the global request limiter. RPS of 0 disables it.
type RateLimitConfig struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

// Duration is a time.Duration that unmarshals from either a Go duration
// string ("5m", "90s") or a bare integer number of seconds.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: expected a duration, got a %v node", value.Line, value.Kind)
	}
	parsed, err := ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	*d = Duration(parsed)
	return nil
}

// ParseDuration accepts a Go duration string or an integer number of seconds.
func ParseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if secs, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: %w", s, err)
	}
	return d, nil
}

// Defaults returns a Config with default values.
func Defaults() *Config {
	return &Config{
		ListenAddr: ":8080",
		StatusDir:  "status",
		Suffix:     node.DefaultSuffix,
		Warning:    Duration(staleness.DefaultThresholds.Warning),
		Critical:   Duration(staleness.DefaultThresholds.Critical),
		AgeFormat:  AgeRelative,
		RateLimit: RateLimitConfig{
			RPS:   0,
			Burst: 20,
		},
	}
}

// Load reads configuration from a YAML file, if path is non-empty, and
// applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("STALEBOARD_LISTEN_ADDR"); v != "" {
		cfg.ListenAddr = v
	}
	if v := os.Getenv("STALEBOARD_STATUS_DIR"); v != "" {
		cfg.StatusDir = v
	}
	if v := os.Getenv("STALEBOARD_SUFFIX"); v != "" {
		cfg.Suffix = v
	}
	if v := os.Getenv("STALEBOARD_AGE_FORMAT"); v != "" {
		cfg.AgeFormat = AgeFormat(v)
	}
	if v := os.Getenv("STALEBOARD_TIMEZONE"); v != "" {
		cfg.Timezone = v
	}
	if v := os.Getenv("STALEBOARD_WARNING"); v != "" {
		d, err := ParseDuration(v)
		if err != nil {
			return fmt.Errorf("STALEBOARD_WARNING: %w", err)
		}
		cfg.Warning = Duration(d)
	}
	if v := os.Getenv("STALEBOARD_CRITICAL"); v != "" {
		d, err := ParseDuration(v)
		if err != nil {
			return fmt.Errorf("STALEBOARD_CRITICAL: %w", err)
		}
		cfg.Critical = Duration(d)
	}
	return nil
}

// Thresholds returns the staleness thresholds.
func (c *Config) Thresholds() staleness.Thresholds {
	return staleness.Thresholds{
		Warning:  time.Duration(c.Warning),
		Critical: time.Duration(c.Critical),
	}
}

// CacheTTL returns the configured cache TTL, or the warning threshold if unset.
func (c *Config) CacheTTL() time.Duration {
	if c.Cache.TTL > 0 {
		return time.Duration(c.Cache.TTL)
	}
	return time.Duration(c.Warning)
}

// Location returns the time zone used to render timestamps. An empty
// Timezone means the process local time.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	if c.StatusDir == "" {
		return fmt.Errorf("status_dir must not be empty")
	}
	if c.ListenAddr == "" {
		return fmt.Errorf("listen_addr must not be empty")
	}
	if err := c.Thresholds().Validate(); err != nil {
		return err
	}
	switch c.AgeFormat {
	case AgeRelative, AgeSeconds:
	default:
		return fmt.Errorf("age_format must be %q or %q, got %q", AgeRelative, AgeSeconds, c.AgeFormat)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if c.RateLimit.RPS < 0 {
		return fmt.Errorf("rate_limit.rps must not be negative")
	}
	if c.RateLimit.RPS > 0 && c.RateLimit.Burst <= 0 {
		return fmt.Errorf("rate_limit.burst must be positive when rate limiting is enabled")
	}
	if c.Cache.TTL < 0 {
		return fmt.Errorf("cache.ttl must not be negative")
	}
	return nil
}
