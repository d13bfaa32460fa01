// Package config provides configuration loading for the analytics server and CLI.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all engine and server configuration.
type Config struct {
	Server        ServerConfig       `yaml:"server"`
	Database      DatabaseConfig     `yaml:"database"`
	Engine        EngineConfig       `yaml:"engine"`
	Hunger        HungerConfig       `yaml:"hunger"`
	Valuation     ValuationConfig    `yaml:"valuation"`
	EventsPerHour map[string]float64 `yaml:"events_per_hour"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Addr            string `yaml:"addr"`
	CORSAllowOrigin string `yaml:"cors_allow_origin"`
}

// DatabaseConfig holds the read-side database settings.
type DatabaseConfig struct {
	DSN string `yaml:"dsn"` // Empty = in-memory store
}

// EngineConfig holds the calculator constants.
type EngineConfig struct {
	BaselineStrength int     `yaml:"baseline_strength"`   // Strength assumed when a snapshot omits it
	MaxProcPerMinute float64 `yaml:"max_proc_per_minute"` // Ceiling on any single ability's per-minute chance
	BaseXPPerHour    float64 `yaml:"base_xp_per_hour"`    // XP every active pet earns without abilities
	LevelAllowance   int     `yaml:"level_allowance"`     // Levels a pet may gain over its hatch level
	MaxLevel         int     `yaml:"max_level"`           // Global strength ceiling
	NearCapWithin    int     `yaml:"near_cap_within"`     // Default window for the near-cap view
}

// HungerConfig holds hunger fallbacks.
type HungerConfig struct {
	DefaultCapacity float64 `yaml:"default_capacity"` // Used when a species has no capacity entry
}

// ValuationConfig holds valuation bridge cache settings.
type ValuationConfig struct {
	Enabled bool          `yaml:"enabled"`
	TTL     time.Duration `yaml:"ttl"`
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Only overwrites fields present in the file.
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// MustLoad is like Load but panics on error.
func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		panic(fmt.Sprintf("config: failed to load: %v", err))
	}
	return cfg
}

var ErrInvalidConfig = errors.New("invalid config")

// Validate rejects values the calculators cannot work with.
func (c *Config) Validate() error {
	e := c.Engine
	switch {
	case e.MaxProcPerMinute <= 0 || e.MaxProcPerMinute > 1:
		return fmt.Errorf("%w: engine.max_proc_per_minute must be in (0, 1], got %v", ErrInvalidConfig, e.MaxProcPerMinute)
	case e.BaselineStrength < 0 || e.BaselineStrength > e.MaxLevel:
		return fmt.Errorf("%w: engine.baseline_strength must be in [0, max_level], got %d", ErrInvalidConfig, e.BaselineStrength)
	case e.MaxLevel <= 0:
		return fmt.Errorf("%w: engine.max_level must be positive, got %d", ErrInvalidConfig, e.MaxLevel)
	case e.LevelAllowance <= 0:
		return fmt.Errorf("%w: engine.level_allowance must be positive, got %d", ErrInvalidConfig, e.LevelAllowance)
	case e.BaseXPPerHour < 0:
		return fmt.Errorf("%w: engine.base_xp_per_hour must not be negative, got %v", ErrInvalidConfig, e.BaseXPPerHour)
	case c.Hunger.DefaultCapacity < 0:
		return fmt.Errorf("%w: hunger.default_capacity must not be negative, got %v", ErrInvalidConfig, c.Hunger.DefaultCapacity)
	case c.Valuation.TTL < 0:
		return fmt.Errorf("%w: valuation.ttl must not be negative, got %s", ErrInvalidConfig, c.Valuation.TTL)
	}
	for kind, rate := range c.EventsPerHour {
		if rate < 0 {
			return fmt.Errorf("%w: events_per_hour.%s must not be negative, got %v", ErrInvalidConfig, kind, rate)
		}
	}
	return nil
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
