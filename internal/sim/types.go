package sim

import (
	"fmt"

	"github.com/san-kum/physics2d/internal/body"
	"github.com/san-kum/physics2d/internal/engine"
)

// World is the read-only view of an engine handed to metrics and
// observers.
type World interface {
	Bodies() []*body.Body
	Stats() engine.Stats
}

type Metric interface {
	Name() string
	Observe(w World, t float64)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(w World, t float64)
}

// Setup builds a fresh, populated engine for one run.
type Setup func(seed int64) (*engine.PhysicsEngine, error)

type Config struct {
	Dt       float64
	Duration float64
	Seed     int64

	// RecordEvery keeps a Frame every n steps. Zero records only the
	// initial and final frames.
	RecordEvery int

	// ValidateState stops the run at the first non-finite body position.
	ValidateState bool
}

func DefaultConfig() Config {
	return Config{
		Dt:            0.01,
		Duration:      10.0,
		RecordEvery:   1,
		ValidateState: true,
	}
}

// BodyState is one body's pose and velocity at a frame.
type BodyState struct {
	ID      uint64  `json:"id"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Angle   float64 `json:"angle"`
	VX      float64 `json:"vx"`
	VY      float64 `json:"vy"`
	Omega   float64 `json:"omega"`
	Kinetic float64 `json:"kinetic"`
}

type Frame struct {
	Time   float64     `json:"time"`
	Bodies []BodyState `json:"bodies"`
}

func Capture(w World, t float64) Frame {
	bodies := w.Bodies()
	f := Frame{Time: t, Bodies: make([]BodyState, len(bodies))}
	for i, b := range bodies {
		s := b.State
		f.Bodies[i] = BodyState{
			ID:      b.ID(),
			X:       s.Position.Linear.X,
			Y:       s.Position.Linear.Y,
			Angle:   s.Position.Angular,
			VX:      s.Velocity.Linear.X,
			VY:      s.Velocity.Linear.Y,
			Omega:   s.Velocity.Angular,
			Kinetic: b.KineticEnergy(),
		}
	}
	return f
}

type Result struct {
	Frames     []Frame
	Metrics    map[string]float64
	Stats      engine.Stats
	StepsTaken int
	Errors     []error
}

type SimError struct {
	Time    float64
	Step    int
	Message string
}

func (e SimError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %s", e.Step, e.Time, e.Message)
}
