// Package config loads and validates the machine configuration.
package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config describes the simulated machine. All timing in the system is
// derived from TickHz.
type Config struct {
	// TickHz is the simulated tick frequency.
	TickHz int `yaml:"tick_hz" validate:"required,min=1000"`

	// KbdHalfPeriod is the keyboard clock half period in ticks.
	KbdHalfPeriod int `yaml:"kbd_half_period" validate:"required,min=2"`

	// TicksPerFrame is how many ticks the interactive run loop executes
	// per UI refresh.
	TicksPerFrame int `yaml:"ticks_per_frame" validate:"required,min=1"`

	LogFile string `yaml:"log_file"`
	Verbose bool   `yaml:"verbose"`
}

// Default returns the stock configuration: a 1 MHz tick with a keyboard
// clock around 12.5 kHz.
func Default() *Config {
	return &Config{
		TickHz:        1_000_000,
		KbdHalfPeriod: 40,
		TicksPerFrame: 20_000,
	}
}

// Load reads a YAML config file. Missing fields keep their defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the struct constraints.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
