// Package config loads process configuration from an optional YAML file
// with SKYWINDOW_* environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Constraints are the limits applied when a query leaves them unset.
type Constraints struct {
	MaxAirmass       float64 `yaml:"max_airmass"`
	MaxLunarPhase    float64 `yaml:"max_lunar_phase"`
	MinLunarDistance float64 `yaml:"min_lunar_distance"`
}

// Config covers process level configuration.
type Config struct {
	RegistryPath string `yaml:"registry"` // empty uses the built-in registry
	LogLevel     string `yaml:"log_level"`
	LogFormat    string `yaml:"log_format"` // auto | console | json
	Mode         string `yaml:"mode"`       // default | fast
	Concurrency  int    `yaml:"concurrency"`

	Defaults Constraints `yaml:"defaults"`

	TracingEnabled    bool    `yaml:"tracing_enabled"`
	TracingSampleRate float64 `yaml:"tracing_sample_rate"`

	// MetricsTextfile, when set, receives a Prometheus textfile after
	// each command.
	MetricsTextfile string `yaml:"metrics_textfile"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		LogLevel:          "info",
		LogFormat:         "auto",
		Mode:              "default",
		Concurrency:       4,
		Defaults:          Constraints{MaxAirmass: 2.0, MaxLunarPhase: 1.0, MinLunarDistance: 0.0},
		TracingSampleRate: 1.0,
	}
}

// Load reads path (if non-empty) over the defaults, applies environment
// overrides, and validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.RegistryPath = getEnv("SKYWINDOW_REGISTRY", cfg.RegistryPath)
	cfg.LogLevel = getEnv("SKYWINDOW_LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = getEnv("SKYWINDOW_LOG_FORMAT", cfg.LogFormat)
	cfg.Mode = getEnv("SKYWINDOW_MODE", cfg.Mode)
	cfg.Concurrency = getEnvInt("SKYWINDOW_CONCURRENCY", cfg.Concurrency)
	cfg.Defaults.MaxAirmass = getEnvFloat("SKYWINDOW_MAX_AIRMASS", cfg.Defaults.MaxAirmass)
	cfg.Defaults.MaxLunarPhase = getEnvFloat("SKYWINDOW_MAX_LUNAR_PHASE", cfg.Defaults.MaxLunarPhase)
	cfg.Defaults.MinLunarDistance = getEnvFloat("SKYWINDOW_MIN_LUNAR_DISTANCE", cfg.Defaults.MinLunarDistance)
	cfg.TracingEnabled = getEnvBool("SKYWINDOW_TRACING_ENABLED", cfg.TracingEnabled)
	cfg.TracingSampleRate = getEnvFloat("SKYWINDOW_TRACING_SAMPLE_RATE", cfg.TracingSampleRate)
	cfg.MetricsTextfile = getEnv("SKYWINDOW_METRICS_TEXTFILE", cfg.MetricsTextfile)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	var errs []error

	switch c.LogFormat {
	case "auto", "console", "json":
	default:
		errs = append(errs, fmt.Errorf("unsupported log format %q", c.LogFormat))
	}
	switch c.Mode {
	case "default", "fast":
	default:
		errs = append(errs, fmt.Errorf("unsupported mode %q", c.Mode))
	}
	if c.Concurrency < 1 {
		errs = append(errs, fmt.Errorf("concurrency must be at least 1, got %d", c.Concurrency))
	}
	if c.Defaults.MaxAirmass < 1 || c.Defaults.MaxAirmass > 25 {
		errs = append(errs, fmt.Errorf("defaults.max_airmass %g outside [1, 25]", c.Defaults.MaxAirmass))
	}
	if c.Defaults.MaxLunarPhase < 0 || c.Defaults.MaxLunarPhase > 1 {
		errs = append(errs, fmt.Errorf("defaults.max_lunar_phase %g outside [0, 1]", c.Defaults.MaxLunarPhase))
	}
	if c.Defaults.MinLunarDistance < 0 || c.Defaults.MinLunarDistance > 180 {
		errs = append(errs, fmt.Errorf("defaults.min_lunar_distance %g outside [0, 180]", c.Defaults.MinLunarDistance))
	}
	if c.TracingSampleRate < 0 || c.TracingSampleRate > 1 {
		errs = append(errs, fmt.Errorf("tracing_sample_rate %g outside [0, 1]", c.TracingSampleRate))
	}
	return errors.Join(errs...)
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getEnvInt(key string, def int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvFloat(key string, def float64) float64 {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseFloat(val, 64); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	switch strings.ToLower(os.Getenv(key)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return def
	}
}
