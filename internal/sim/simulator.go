package sim

import (
	"context"
	"fmt"
)

type Simulator struct {
	setup     Setup
	metrics   []Metric
	observers []Observer
}

func New(setup Setup) *Simulator {
	return &Simulator{
		setup:     setup,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// Run builds an engine for cfg.Seed and steps it for cfg.Duration. On
// cancellation it returns the partial result with ctx.Err().
func (s *Simulator) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	e, err := s.setup(cfg.Seed)
	if err != nil {
		return nil, fmt.Errorf("setup: %w", err)
	}

	steps := int(cfg.Duration/cfg.Dt + 0.5)
	result := &Result{
		Metrics: make(map[string]float64),
		Errors:  make([]error, 0),
	}
	if cfg.RecordEvery > 0 {
		result.Frames = make([]Frame, 0, steps/cfg.RecordEvery+2)
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	t := 0.0
	result.Frames = append(result.Frames, Capture(e, t))

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			s.finish(result, e, t)
			return result, ctx.Err()
		default:
		}

		if err := e.Update(cfg.Dt); err != nil {
			result.Errors = append(result.Errors, SimError{Time: t, Step: i, Message: err.Error()})
			break
		}
		t += cfg.Dt
		result.StepsTaken++

		for _, m := range s.metrics {
			m.Observe(e, t)
		}
		for _, obs := range s.observers {
			obs.OnStep(e, t)
		}

		if cfg.ValidateState && !finite(e) {
			result.Errors = append(result.Errors, SimError{Time: t, Step: i, Message: "invalid state (NaN/Inf)"})
			break
		}

		if cfg.RecordEvery > 0 && result.StepsTaken%cfg.RecordEvery == 0 {
			result.Frames = append(result.Frames, Capture(e, t))
		}
	}

	s.finish(result, e, t)
	return result, nil
}

func (s *Simulator) finish(result *Result, w World, t float64) {
	if last := len(result.Frames) - 1; last < 0 || result.Frames[last].Time != t {
		result.Frames = append(result.Frames, Capture(w, t))
	}
	result.Stats = w.Stats()
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}

func validateConfig(cfg Config) error {
	if cfg.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f", cfg.Dt)
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %f", cfg.Duration)
	}
	if cfg.RecordEvery < 0 {
		return fmt.Errorf("record interval must not be negative, got %d", cfg.RecordEvery)
	}
	return nil
}

func finite(w World) bool {
	for _, b := range w.Bodies() {
		if !b.State.Position.Linear.IsFinite() {
			return false
		}
	}
	return true
}
