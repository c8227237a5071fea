package body

import (
	"fmt"
	"math"
	"sync/atomic"

	"github.com/san-kum/physics2d/internal/geometry"
	"github.com/san-kum/physics2d/internal/lifecycle"
	"github.com/san-kum/physics2d/internal/shapes"
)

// PhysicsState is the kinematic state of a body. Position.Angular is the
// orientation in radians; ForceAccumulator holds torque and force summed
// since the last step.
type PhysicsState struct {
	Position         geometry.ALVector2D
	Velocity         geometry.ALVector2D
	ForceAccumulator geometry.ALVector2D
}

func NewPhysicsState(position geometry.ALVector2D) PhysicsState {
	return PhysicsState{Position: position}
}

// Coefficients are the surface properties used when composing contacts.
type Coefficients struct {
	Restitution     float64 `yaml:"restitution"`
	StaticFriction  float64 `yaml:"static_friction"`
	DynamicFriction float64 `yaml:"dynamic_friction"`
	Softness        float64 `yaml:"softness"`
}

// NewCoefficients uses a single friction value for both static and
// dynamic friction.
func NewCoefficients(restitution, friction float64) Coefficients {
	return Coefficients{Restitution: restitution, StaticFriction: friction, DynamicFriction: friction}
}

func (c Coefficients) Validate() error {
	for _, v := range []float64{c.Restitution, c.StaticFriction, c.DynamicFriction, c.Softness} {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %+v", ErrInvalidCoefficients, c)
		}
	}
	return nil
}

var lastID atomic.Uint64

// Body is a rigid body: shape, mass, state and surface coefficients.
type Body struct {
	lifecycle.Entity

	State        PhysicsState
	Coefficients Coefficients

	// IgnoresGravity exempts the body from gravity logics.
	IgnoresGravity bool

	// CollisionGroup: bodies sharing a non-zero group never collide.
	CollisionGroup int

	// Bias is the split-impulse pseudo-velocity. It moves the body during
	// position integration and is cleared afterwards.
	Bias geometry.ALVector2D

	id     uint64
	shape  shapes.Shape
	mass   MassInfo
	matrix geometry.Matrix2x3
	bounds geometry.BoundingRectangle

	updated  lifecycle.Signal[float64]
	collided lifecycle.Signal[*Body]
}

// New builds a body. A nil lifetime gets an immortal Lifespan.
func New(state PhysicsState, shape shapes.Shape, mass MassInfo, coefficients Coefficients, lifetime *lifecycle.Lifespan) (*Body, error) {
	if shape == nil {
		return nil, ErrNilShape
	}
	if !mass.IsValid() {
		return nil, fmt.Errorf("%w: mass info was not built with NewMassInfo", ErrInvalidMass)
	}
	if err := coefficients.Validate(); err != nil {
		return nil, err
	}
	b := &Body{
		State:        state,
		Coefficients: coefficients,
		id:           lastID.Add(1),
		shape:        shape,
		mass:         mass,
	}
	b.SetLifetime(lifetime)
	b.ApplyMatrix()
	return b, nil
}

// NewWithMass builds a body whose moment of inertia is derived from the
// shape. An infinite mass yields an infinite moment of inertia.
func NewWithMass(state PhysicsState, shape shapes.Shape, mass float64, coefficients Coefficients, lifetime *lifecycle.Lifespan) (*Body, error) {
	if shape == nil {
		return nil, ErrNilShape
	}
	inertia := math.Inf(1)
	if !math.IsInf(mass, 1) {
		inertia = mass * shape.InertiaMultiplier()
	}
	mi, err := NewMassInfo(mass, inertia)
	if err != nil {
		return nil, err
	}
	return New(state, shape, mi, coefficients, lifetime)
}

func (b *Body) ID() uint64                           { return b.id }
func (b *Body) Shape() shapes.Shape                  { return b.shape }
func (b *Body) Mass() MassInfo                       { return b.mass }
func (b *Body) Matrix() geometry.Matrix2x3           { return b.matrix }
func (b *Body) Bounds() geometry.BoundingRectangle   { return b.bounds }
func (b *Body) HasInfiniteMass() bool                { return b.mass.massInv == 0 }
func (b *Body) IsParticle() bool                     { return b.shape.Kind() == shapes.KindParticle }
func (b *Body) String() string                       { return fmt.Sprintf("body %d", b.id) }
func (b *Body) OnUpdated(fn func(dt float64)) func() { return b.updated.Subscribe(fn) }
func (b *Body) OnCollided(fn func(*Body)) func()     { return b.collided.Subscribe(fn) }

// SetMass replaces the mass properties.
func (b *Body) SetMass(m MassInfo) error {
	if !m.IsValid() {
		return ErrInvalidMass
	}
	b.mass = m
	return nil
}

// ApplyMatrix recomputes the world transform and bounds from
// State.Position. Call it after editing the position directly.
func (b *Body) ApplyMatrix() {
	b.matrix = geometry.FromALVector(b.State.Position)
	b.bounds = b.shape.Bounds(b.matrix)
}

// WorldVertices returns the shape outline in world space.
func (b *Body) WorldVertices() []geometry.Vector2D {
	local := b.shape.Vertices()
	return b.matrix.TransformAll(local, local)
}

func (b *Body) ApplyForce(f geometry.Vector2D) {
	b.State.ForceAccumulator.Linear = b.State.ForceAccumulator.Linear.Add(f)
}

// ApplyForceAt applies f at a world-space point, adding the resulting torque.
func (b *Body) ApplyForceAt(f, point geometry.Vector2D) {
	b.ApplyForce(f)
	r := point.Sub(b.State.Position.Linear)
	b.State.ForceAccumulator.Angular += r.ZCross(f)
}

func (b *Body) ApplyTorque(t float64) { b.State.ForceAccumulator.Angular += t }

// ApplyImpulse changes velocity immediately. r is the offset of the point
// of application from the body's origin, in world orientation.
func (b *Body) ApplyImpulse(j, r geometry.Vector2D) {
	b.State.Velocity.Linear = b.State.Velocity.Linear.Add(j.Scale(b.mass.massInv))
	b.State.Velocity.Angular += r.ZCross(j) * b.mass.inertiaInv
}

func (b *Body) ApplyBiasImpulse(j, r geometry.Vector2D) {
	b.Bias.Linear = b.Bias.Linear.Add(j.Scale(b.mass.massInv))
	b.Bias.Angular += r.ZCross(j) * b.mass.inertiaInv
}

// ApplyPositionImpulse moves the body as far as impulse j at offset r would
// change its velocity, and refreshes the transform.
func (b *Body) ApplyPositionImpulse(j, r geometry.Vector2D) {
	b.State.Position.Linear = b.State.Position.Linear.Add(j.Scale(b.mass.massInv))
	b.State.Position.Angular += r.ZCross(j) * b.mass.inertiaInv
	b.ApplyMatrix()
}

// VelocityAt returns the velocity of the world point at offset r.
func (b *Body) VelocityAt(r geometry.Vector2D) geometry.Vector2D {
	return b.State.Velocity.Linear.Add(geometry.ScalarCross(b.State.Velocity.Angular, r))
}

func (b *Body) BiasVelocityAt(r geometry.Vector2D) geometry.Vector2D {
	return b.Bias.Linear.Add(geometry.ScalarCross(b.Bias.Angular, r))
}

// IntegrateVelocity adds the accumulated force and torque to the velocity.
// A degree of freedom with infinite mass keeps its velocity.
func (b *Body) IntegrateVelocity(dt float64) {
	f := b.State.ForceAccumulator
	b.State.Velocity.Linear = b.State.Velocity.Linear.Add(f.Linear.Scale(b.mass.massInv * dt))
	b.State.Velocity.Angular += f.Angular * b.mass.inertiaInv * dt
}

// IntegratePosition advances the position by the velocity plus the bias
// pseudo-velocity, clears the bias and refreshes the world transform.
func (b *Body) IntegratePosition(dt float64) {
	v := b.State.Velocity.Add(b.Bias)
	b.State.Position = b.State.Position.Add(v.Scale(dt))
	b.Bias = geometry.ALVector2D{}
	b.ApplyMatrix()
}

func (b *Body) ClearForces() { b.State.ForceAccumulator = geometry.ALVector2D{} }

// KineticEnergy ignores degrees of freedom with infinite mass.
func (b *Body) KineticEnergy() float64 {
	e := 0.0
	if b.mass.massInv != 0 {
		e += 0.5 * b.mass.mass * b.State.Velocity.Linear.MagnitudeSq()
	}
	if b.mass.inertiaInv != 0 {
		w := b.State.Velocity.Angular
		e += 0.5 * b.mass.inertia * w * w
	}
	return e
}

// NotifyUpdated and NotifyCollided are called by the owning engine.
func (b *Body) NotifyUpdated(dt float64)   { b.updated.Emit(dt) }
func (b *Body) NotifyCollided(other *Body) { b.collided.Emit(other) }
