// Package config loads client settings from a YAML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	appDir   = "wstest"
	fileName = "config.yaml"
)

// Config holds client settings. Zero durations and sizes fall back to the
// defaults when validated.
type Config struct {
	// Endpoint is connected on startup when no endpoint is given on the
	// command line.
	Endpoint string `yaml:"endpoint"`

	DialTimeout     time.Duration `yaml:"dial_timeout"`
	SendTimeout     time.Duration `yaml:"send_timeout"`
	CloseTimeout    time.Duration `yaml:"close_timeout"`
	RefreshInterval time.Duration `yaml:"refresh_interval"`
	QueueSize       int           `yaml:"queue_size"`

	// LogFile receives JSON log records. Empty disables logging.
	LogFile  string `yaml:"log_file"`
	LogLevel string `yaml:"log_level"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		DialTimeout:     10 * time.Second,
		SendTimeout:     5 * time.Second,
		CloseTimeout:    5 * time.Second,
		RefreshInterval: 50 * time.Millisecond,
		QueueSize:       64,
		LogLevel:        "info",
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/wstest/config.yaml or the
// platform equivalent.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate config directory: %w", err)
	}
	return filepath.Join(dir, appDir, fileName), nil
}

// Load reads path over the defaults. A missing file yields the defaults
// when optional is true.
func Load(path string, optional bool) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if optional && errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects negative values and unknown log levels.
func (c Config) Validate() error {
	var errs []error
	durations := []struct {
		name  string
		value time.Duration
	}{
		{"dial_timeout", c.DialTimeout},
		{"send_timeout", c.SendTimeout},
		{"close_timeout", c.CloseTimeout},
		{"refresh_interval", c.RefreshInterval},
	}
	for _, d := range durations {
		if d.value < 0 {
			errs = append(errs, fmt.Errorf("%s must not be negative, got %s", d.name, d.value))
		}
	}
	if c.QueueSize < 0 {
		errs = append(errs, fmt.Errorf("queue_size must not be negative, got %d", c.QueueSize))
	}
	switch c.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("log_level must be one of debug, info, warn, error, got %q", c.LogLevel))
	}
	return errors.Join(errs...)
}
