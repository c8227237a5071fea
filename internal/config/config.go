package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/physics2d/internal/broadphase"
	"github.com/san-kum/physics2d/internal/engine"
	"github.com/san-kum/physics2d/internal/geometry"
	"github.com/san-kum/physics2d/internal/solver"
)

const (
	DefaultScene         = "drop"
	DefaultBroadPhase    = "sweep"
	DefaultDt            = 0.01
	DefaultDuration      = 10.0
	DefaultContactMargin = 1.0
	DefaultGravityY      = 960.0
)

var (
	ErrUnknownBroadPhase = errors.New("config: unknown broad phase")
	ErrInvalidStep       = errors.New("config: dt and duration must be positive")
)

type Config struct {
	Scene         string        `yaml:"scene"`
	BroadPhase    string        `yaml:"broad_phase"`
	Dt            float64       `yaml:"dt"`
	Duration      float64       `yaml:"duration"`
	Seed          int64         `yaml:"seed"`
	ContactMargin float64       `yaml:"contact_margin"`
	Gravity       GravityConfig `yaml:"gravity"`
	Solver        solver.Config `yaml:"solver"`
}

// GravityConfig is the uniform field added by scenes that use one. Screen
// coordinates: positive Y points down.
type GravityConfig struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

func (g GravityConfig) Vector() geometry.Vector2D { return geometry.Vector2D{X: g.X, Y: g.Y} }

func DefaultConfig() *Config {
	return &Config{
		Scene:         DefaultScene,
		BroadPhase:    DefaultBroadPhase,
		Dt:            DefaultDt,
		Duration:      DefaultDuration,
		ContactMargin: DefaultContactMargin,
		Gravity:       GravityConfig{Y: DefaultGravityY},
		Solver:        solver.DefaultConfig(),
	}
}

// Load reads a YAML file over the defaults; keys missing from the file keep
// their default value.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if !(c.Dt > 0) || !(c.Duration > 0) {
		return fmt.Errorf("%w: dt=%v duration=%v", ErrInvalidStep, c.Dt, c.Duration)
	}
	if _, err := c.detector(); err != nil {
		return err
	}
	if c.ContactMargin < 0 {
		return &solver.ConfigError{Field: "contact_margin", Value: c.ContactMargin}
	}
	return c.Solver.Validate()
}

// Steps is the number of fixed steps covering Duration.
func (c *Config) Steps() int { return int(c.Duration/c.Dt + 0.5) }

func (c *Config) detector() (broadphase.Detector, error) {
	switch c.BroadPhase {
	case "", "sweep":
		return broadphase.NewSweepAndPrune(), nil
	case "brute":
		return broadphase.BruteForce{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBroadPhase, c.BroadPhase)
	}
}

// EngineConfig translates the file settings into an engine configuration
// with a fresh broad phase.
func (c *Config) EngineConfig() (engine.Config, error) {
	d, err := c.detector()
	if err != nil {
		return engine.Config{}, err
	}
	return engine.Config{
		Solver:        c.Solver,
		ContactMargin: c.ContactMargin,
		BroadPhase:    d,
	}, nil
}
