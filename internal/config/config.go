// Package config holds runtime settings for the dataload command: log level,
// default target size, and viewer/figure dimensions.
package config

import (
	"fmt"
	"os"

	"dataload/internal/logger"
	"dataload/internal/tensor"

	"gopkg.in/yaml.v3"
)

type Window struct {
	Width  float32 `yaml:"width"`
	Height float32 `yaml:"height"`
}

// Figure is measured in points (1/72 inch).
type Figure struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

type Config struct {
	LogLevel   string       `yaml:"log_level"`
	TargetSize *tensor.Size `yaml:"target_size,omitempty"`
	Window     Window       `yaml:"window"`
	Figure     Figure       `yaml:"figure"`
}

// Default mirrors a 10x5 inch two-panel figure.
func Default() *Config {
	return &Config{
		LogLevel: "info",
		Window:   Window{Width: 1000, Height: 500},
		Figure:   Figure{Width: 720, Height: 360},
	}
}

// Load reads a YAML file over the defaults. An empty path returns the
// defaults. Environment overrides are applied afterwards.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv honours LOG_LEVEL, DEBUG=1 and DATALOAD_SIZE.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.LogLevel = v
	} else if os.Getenv("DEBUG") == "1" {
		c.LogLevel = "debug"
	}

	if v := os.Getenv("DATALOAD_SIZE"); v != "" {
		size, err := tensor.ParseSize(v)
		if err != nil {
			return fmt.Errorf("DATALOAD_SIZE: %w", err)
		}
		c.TargetSize = &size
	}
	return nil
}

func (c *Config) Validate() error {
	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if c.TargetSize != nil {
		if err := c.TargetSize.Validate(); err != nil {
			return fmt.Errorf("target_size: %w", err)
		}
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size must be positive, got %.0fx%.0f", c.Window.Width, c.Window.Height)
	}
	if c.Figure.Width <= 0 || c.Figure.Height <= 0 {
		return fmt.Errorf("figure size must be positive, got %.0fx%.0f", c.Figure.Width, c.Figure.Height)
	}
	return nil
}

// Level returns the parsed log level; Validate has already rejected bad values.
func (c *Config) Level() logger.LogLevel {
	level, _ := logger.ParseLevel(c.LogLevel)
	return level
}
