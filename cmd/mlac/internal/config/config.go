// Package config loads mlac command defaults from the environment.
package config

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"

	"github.com/thesyncim/mlac"
)

// Config holds defaults that command-line flags may override.
type Config struct {
	Profile     string  `env:"MLAC_PROFILE, default=mlac"`
	BitrateKbps float64 `env:"MLAC_BITRATE_KBPS"`
	LatencyMs   int     `env:"MLAC_LATENCY_MS, default=0"`
	Iterations  int     `env:"MLAC_ITERATIONS, default=1"`
	SampleRate  int     `env:"MLAC_SAMPLE_RATE, default=44100"`
	Format      string  `env:"MLAC_FORMAT, default=yaml"`
}

// LoadEnv loads a .env file from the working directory, if there is one.
func LoadEnv() error {
	return godotenv.Load()
}

// Load reads the configuration from the process environment.
func Load(ctx context.Context) (*Config, error) {
	return LoadFrom(ctx, envconfig.OsLookuper())
}

// LoadFrom reads the configuration through l.
func LoadFrom(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("failed to process environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if _, ok := mlac.ProfileByName(c.Profile); !ok {
		return fmt.Errorf("MLAC_PROFILE: unknown profile %q", c.Profile)
	}
	if c.BitrateKbps < 0 {
		return fmt.Errorf("MLAC_BITRATE_KBPS must not be negative, got %v", c.BitrateKbps)
	}
	if c.LatencyMs < 0 {
		return fmt.Errorf("MLAC_LATENCY_MS must not be negative, got %d", c.LatencyMs)
	}
	if c.Iterations < 1 || c.Iterations > mlac.MaxIterations {
		return fmt.Errorf("MLAC_ITERATIONS must be in [1, %d], got %d", mlac.MaxIterations, c.Iterations)
	}
	if c.SampleRate <= 0 {
		return fmt.Errorf("MLAC_SAMPLE_RATE must be positive, got %d", c.SampleRate)
	}
	switch c.Format {
	case "yaml", "table":
	default:
		return fmt.Errorf("MLAC_FORMAT: unsupported output format %q", c.Format)
	}
	return nil
}

// IsNotExist reports whether err from LoadEnv means there was no .env file.
func IsNotExist(err error) bool {
	return os.IsNotExist(err)
}
