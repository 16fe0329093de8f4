package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the settings of a generation run
type Config struct {
	// Input settings
	Grammar string `yaml:"grammar"` // Path to the grammar file
	Count   int    `yaml:"count"`   // Number of phrases to generate

	// Generation settings
	Seed     int64 `yaml:"seed"`      // Random seed, 0 = time based
	MaxDepth int   `yaml:"max_depth"` // Maximum nonterminal nesting, 0 = unlimited
	Workers  int   `yaml:"workers"`   // Number of concurrent generators
	Strict   bool  `yaml:"strict"`    // Fail on rules without alternatives

	// Output settings
	LogLevel    string `yaml:"log_level"`    // debug, info, warn or error
	Tree        bool   `yaml:"tree"`         // Print derivation trees
	Coverage    bool   `yaml:"coverage"`     // Report production coverage
	MetricsFile string `yaml:"metrics_file"` // Prometheus textfile output path
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Count:    1,
		MaxDepth: 1000,
		Workers:  1,
		LogLevel: "warn",
	}
}

// Load reads a YAML config file on top of the defaults
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := DefaultConfig()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the config for values that cannot be used
func (c *Config) Validate() error {
	if c.Count < 0 {
		return fmt.Errorf("count must not be negative, got %d", c.Count)
	}
	if c.MaxDepth < 0 {
		return fmt.Errorf("max_depth must not be negative, got %d", c.MaxDepth)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level parses LogLevel
func (c *Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(c.LogLevel))); err != nil {
		return 0, fmt.Errorf("invalid log_level %q", c.LogLevel)
	}
	return level, nil
}
