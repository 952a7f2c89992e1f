// Package config resolves reconstruction settings from defaults, an optional
// YAML file and the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/joshuapare/flagrecon/internal/logger"
	"github.com/joshuapare/flagrecon/internal/render"
	"github.com/joshuapare/flagrecon/pkg/types"
)

// Environment variables consulted by Load.
const (
	EnvConfig      = "FLAGRECON_CONFIG"
	EnvThreshold   = "FLAGRECON_THRESHOLD"
	EnvEncoding    = "FLAGRECON_ENCODING"
	EnvPlaceholder = "FLAGRECON_PLACEHOLDER"
	EnvWorkers     = "FLAGRECON_WORKERS"
	EnvLogLevel    = "FLAGRECON_LOG_LEVEL"
)

// Config holds all reconstruction settings.
type Config struct {
	// Threshold is the confidence cutoff in (0.5, 1].
	Threshold float64 `yaml:"threshold"`

	// Encoding names the presentation for reconstructed bytes
	// (latin1, windows-1252, raw, hex).
	Encoding string `yaml:"encoding"`

	// Placeholder marks undetermined bytes.
	Placeholder string `yaml:"placeholder"`

	// Workers > 1 aggregates samples in parallel.
	Workers int `yaml:"workers"`

	// LogLevel is the diagnostic level used with --verbose.
	LogLevel string `yaml:"log_level"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Threshold:   types.DefaultThreshold,
		Encoding:    string(render.DefaultEncoding),
		Placeholder: render.DefaultPlaceholder,
		Workers:     1,
		LogLevel:    "debug",
	}
}

// Load reads .env (if present), then the YAML file at path (or
// $FLAGRECON_CONFIG when path is empty), then environment overrides, and
// returns the validated result. A missing YAML file is an error only when a
// path was given.
func Load(path string) (*Config, error) {
	// Best-effort: load .env from current directory
	_ = godotenv.Load()

	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = strings.TrimSpace(os.Getenv(EnvConfig))
		explicit = path != ""
	}
	if explicit {
		if err := cfg.mergeFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.mergeEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return types.Errorf(types.ErrKindSourceNotFound, err, fmt.Sprintf("config file '%s' not found", path))
		}
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	logger.Debug("config file loaded", "path", path)
	return nil
}

func (c *Config) mergeEnv() error {
	if raw := strings.TrimSpace(os.Getenv(EnvThreshold)); raw != "" {
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return fmt.Errorf("config: %s=%q: %w", EnvThreshold, raw, err)
		}
		c.Threshold = f
	}
	if raw := strings.TrimSpace(os.Getenv(EnvEncoding)); raw != "" {
		c.Encoding = raw
	}
	if raw := os.Getenv(EnvPlaceholder); raw != "" {
		c.Placeholder = raw
	}
	if raw := strings.TrimSpace(os.Getenv(EnvWorkers)); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("config: %s=%q: %w", EnvWorkers, raw, err)
		}
		c.Workers = n
	}
	if raw := strings.TrimSpace(os.Getenv(EnvLogLevel)); raw != "" {
		c.LogLevel = raw
	}
	return nil
}

// Validate checks every field and normalizes the encoding name.
func (c *Config) Validate() error {
	if !types.ValidThreshold(c.Threshold) {
		return types.Errorf(types.ErrKindThreshold, nil,
			fmt.Sprintf("threshold %v must be in (%v, %v]", c.Threshold, types.MinThresholdExclusive, types.MaxThreshold))
	}
	enc, err := render.ParseEncoding(c.Encoding)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	c.Encoding = string(enc)
	if c.Placeholder == "" {
		c.Placeholder = render.DefaultPlaceholder
	}
	if c.Workers < 0 {
		return fmt.Errorf("config: workers must be >= 0, got %d", c.Workers)
	}
	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}
