// Package config provides configuration loading and management.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the full configuration for framepull.
type Config struct {
	// Input/Output
	InputPath  string `yaml:"input"`
	OutputPath string `yaml:"output"`

	// Codec selection
	Codec string `yaml:"codec"` // preferred codec component name ("" = any)

	// Pump tuning
	InputTimeoutMs  int `yaml:"input_timeout_ms"`
	OutputTimeoutMs int `yaml:"output_timeout_ms"`
	MaxRetries      int `yaml:"max_retries"`

	// Seek applied before the first read, in milliseconds (-1 = none)
	SeekToMs int64 `yaml:"seek_to_ms"`

	// Render
	Render RenderConfig `yaml:"render"`

	// Logging
	LogLevel string `yaml:"log_level"`
}

// RenderConfig represents the zero-copy render surface settings.
type RenderConfig struct {
	Enabled      bool `yaml:"enabled"`
	CanvasWidth  int  `yaml:"canvas_width"`
	CanvasHeight int  `yaml:"canvas_height"`
	Caption      bool `yaml:"caption"`
}

// Defaults returns a Config with default values.
func Defaults() Config {
	return Config{
		InputTimeoutMs:  5,
		OutputTimeoutMs: 500,
		MaxRetries:      64,
		SeekToMs:        -1,
		Render: RenderConfig{
			Caption: true,
		},
		LogLevel: "info",
	}
}

// LoadFromFile loads configuration from a YAML file on top of the defaults.
func LoadFromFile(path string) (Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.InputTimeoutMs <= 0 {
		return fmt.Errorf("input_timeout_ms must be positive, got %d", c.InputTimeoutMs)
	}
	if c.OutputTimeoutMs <= 0 {
		return fmt.Errorf("output_timeout_ms must be positive, got %d", c.OutputTimeoutMs)
	}
	if c.OutputTimeoutMs < c.InputTimeoutMs {
		return fmt.Errorf("output_timeout_ms (%d) must not be smaller than input_timeout_ms (%d)",
			c.OutputTimeoutMs, c.InputTimeoutMs)
	}
	if c.MaxRetries <= 0 {
		return fmt.Errorf("max_retries must be positive, got %d", c.MaxRetries)
	}
	return nil
}

// InputTimeout returns the input dequeue timeout as a duration.
func (c *Config) InputTimeout() time.Duration {
	return time.Duration(c.InputTimeoutMs) * time.Millisecond
}

// OutputTimeout returns the output dequeue timeout as a duration.
func (c *Config) OutputTimeout() time.Duration {
	return time.Duration(c.OutputTimeoutMs) * time.Millisecond
}
