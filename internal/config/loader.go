package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/okian/medbench/internal/domain/benchmark"
)

// Environment variables read by Load.
const (
	EnvPrefix = "MEDBENCH_"
	EnvFile   = "MEDBENCH_CONFIG"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New(ctx))
//  2. file (YAML) if MEDBENCH_CONFIG is set
//  3. env (prefix MEDBENCH_)
func Load(ctx context.Context) (*Config, error) {
	base := New(ctx)

	k := koanf.New(".")

	if path := os.Getenv(EnvFile); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
		}
	}

	// MEDBENCH_PNG_WIDTH -> png_width; underscores are kept to match the
	// flat koanf tags.
	envProvider := env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, strings.ToLower(EnvPrefix))
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	cfg := *base
	// Slices are decoded in place; start empty so a shorter list wins.
	cfg.Themes = nil
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}
	if len(cfg.Themes) == 0 {
		cfg.Themes = base.Themes
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

var themeNames = map[string]bool{"white": true, "light": true, "dark": true}

// Validate checks field ranges and benchmark color and scale overrides.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.DataDir == "":
		return fmt.Errorf("%w: data_dir must not be empty", ErrInvalidConfig)
	case c.OutputDir == "":
		return fmt.Errorf("%w: output_dir must not be empty", ErrInvalidConfig)
	case c.OutputBase == "":
		return fmt.Errorf("%w: output_base must not be empty", ErrInvalidConfig)
	case c.FetchTimeoutMS <= 0:
		return fmt.Errorf("%w: fetch_timeout_ms must be positive", ErrInvalidConfig)
	case c.FetchMaxBytes <= 0:
		return fmt.Errorf("%w: fetch_max_bytes must be positive", ErrInvalidConfig)
	case c.PNGWidth <= 0 || c.PNGHeight <= 0:
		return fmt.Errorf("%w: png size must be positive", ErrInvalidConfig)
	}
	for _, t := range c.Themes {
		if !themeNames[strings.ToLower(strings.TrimSpace(t))] {
			return fmt.Errorf("%w: unknown theme %q", ErrInvalidConfig, t)
		}
	}
	if _, err := c.Table(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// Table builds the benchmark table with the configured color and scale
// overrides.
func (c *Config) Table() (benchmark.Table, error) {
	return benchmark.NewTable(benchmark.WithColors(c.Colors), benchmark.WithScales(c.Scales))
}

// Path resolves name against DataDir unless it is absolute.
func (c *Config) Path(name string) string {
	if name == "" || filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.DataDir, name)
}
