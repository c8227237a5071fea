package solver

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidConfig indicates a solver knob outside its valid range.
var ErrInvalidConfig = errors.New("solver: invalid configuration")

// ConfigError names the offending knob.
type ConfigError struct {
	Field string
	Value any
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: %s = %v", ErrInvalidConfig, e.Field, e.Value)
}

func (e *ConfigError) Unwrap() error {
	return ErrInvalidConfig
}

type Config struct {
	// Iterations is the number of passes over all constraints per step.
	Iterations int `yaml:"iterations"`

	// BiasFactor is the fraction of penetration corrected per step.
	BiasFactor float64 `yaml:"bias_factor"`

	// AllowedPenetration is the depth left uncorrected.
	AllowedPenetration float64 `yaml:"allowed_penetration"`

	// SplitImpulse moves penetration correction into pseudo-velocities that
	// never show up in the reported velocity.
	SplitImpulse bool `yaml:"split_impulse"`

	// RestitutionThreshold is the closing speed below which contacts do
	// not bounce.
	RestitutionThreshold float64 `yaml:"restitution_threshold"`

	// PositionIterations is the number of passes that move bodies out of
	// contacts deeper than the allowed penetration, and joints back
	// together, after positions are integrated. Zero turns them off.
	PositionIterations int `yaml:"position_iterations"`
}

func DefaultConfig() Config {
	return Config{
		Iterations:           13,
		BiasFactor:           0.7,
		AllowedPenetration:   0.01,
		SplitImpulse:         true,
		RestitutionThreshold: 50,
		PositionIterations:   10,
	}
}

func (c Config) Validate() error {
	if c.Iterations < 1 {
		return &ConfigError{Field: "iterations", Value: c.Iterations}
	}
	if !(c.BiasFactor >= 0 && c.BiasFactor <= 1) {
		return &ConfigError{Field: "bias_factor", Value: c.BiasFactor}
	}
	if !finiteNonNegative(c.AllowedPenetration) {
		return &ConfigError{Field: "allowed_penetration", Value: c.AllowedPenetration}
	}
	if !finiteNonNegative(c.RestitutionThreshold) {
		return &ConfigError{Field: "restitution_threshold", Value: c.RestitutionThreshold}
	}
	if c.PositionIterations < 0 {
		return &ConfigError{Field: "position_iterations", Value: c.PositionIterations}
	}
	return nil
}

func finiteNonNegative(v float64) bool { return v >= 0 && !math.IsInf(v, 1) }
