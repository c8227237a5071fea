package body

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/physics2d/internal/geometry"
	"github.com/san-kum/physics2d/internal/lifecycle"
	"github.com/san-kum/physics2d/internal/shapes"
	"gopkg.in/yaml.v3"
)

func mustCircle(t *testing.T, r float64) *shapes.Circle {
	t.Helper()
	c, err := shapes.NewCircle(r, 12)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestNewMassInfo(t *testing.T) {
	tests := []struct {
		name             string
		mass, inertia    float64
		wantErr          bool
		massInv, inerInv float64
	}{
		{"finite", 2, 4, false, 0.5, 0.25},
		{"infinite", math.Inf(1), math.Inf(1), false, 0, 0},
		{"infinite inertia only", 1, math.Inf(1), false, 1, 0},
		{"zero", 0, 1, true, 0, 0},
		{"negative inertia", 1, -1, true, 0, 0},
		{"nan", math.NaN(), 1, true, 0, 0},
		{"negative infinity", math.Inf(-1), 1, true, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := NewMassInfo(tt.mass, tt.inertia)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidMass) {
					t.Errorf("expected ErrInvalidMass, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if m.MassInv() != tt.massInv || m.MomentOfInertiaInv() != tt.inerInv {
				t.Errorf("expected inverses %f %f, got %f %f", tt.massInv, tt.inerInv, m.MassInv(), m.MomentOfInertiaInv())
			}
		})
	}
}

func TestMassFactories(t *testing.T) {
	tests := []struct {
		name string
		fn   func() (MassInfo, error)
		want float64
	}{
		{"cylindrical shell", func() (MassInfo, error) { return FromCylindricalShell(2, 3) }, 18},
		{"hollow cylinder", func() (MassInfo, error) { return FromHollowCylinder(2, 1, 3) }, 10},
		{"solid cylinder", func() (MassInfo, error) { return FromSolidCylinder(2, 3) }, 9},
		{"rectangle", func() (MassInfo, error) { return FromRectangle(12, 1, 2) }, 5},
		{"square", func() (MassInfo, error) { return FromSquare(6, 2) }, 4},
		{"polygon", func() (MassInfo, error) { return FromPolygon(shapes.CreateRectangle(2, 2), 6) }, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := tt.fn()
			if err != nil {
				t.Fatal(err)
			}
			if math.Abs(m.MomentOfInertia()-tt.want) > 1e-9 {
				t.Errorf("expected inertia %f, got %f", tt.want, m.MomentOfInertia())
			}
		})
	}

	if _, err := FromPolygon(nil, 1); !errors.Is(err, ErrInvalidMass) {
		t.Errorf("expected ErrInvalidMass for empty polygon, got %v", err)
	}
}

func TestMassInfoYAMLRecomputesInverses(t *testing.T) {
	m, _ := NewMassInfo(4, math.Inf(1))
	data, err := yaml.Marshal(m)
	if err != nil {
		t.Fatal(err)
	}

	var back MassInfo
	if err := yaml.Unmarshal(data, &back); err != nil {
		t.Fatal(err)
	}
	if back.MassInv() != 0.25 || back.MomentOfInertiaInv() != 0 {
		t.Errorf("inverses not recomputed: %f %f", back.MassInv(), back.MomentOfInertiaInv())
	}

	if err := yaml.Unmarshal([]byte("mass: -1\nmoment_of_inertia: 1\n"), &back); !errors.Is(err, ErrInvalidMass) {
		t.Errorf("expected ErrInvalidMass, got %v", err)
	}
}

func TestNewBodyValidation(t *testing.T) {
	c := mustCircle(t, 1)
	if _, err := New(PhysicsState{}, nil, Infinite(), Coefficients{}, nil); !errors.Is(err, ErrNilShape) {
		t.Errorf("expected ErrNilShape, got %v", err)
	}
	if _, err := New(PhysicsState{}, c, MassInfo{}, Coefficients{}, nil); !errors.Is(err, ErrInvalidMass) {
		t.Errorf("expected ErrInvalidMass for zero MassInfo, got %v", err)
	}
	if _, err := New(PhysicsState{}, c, Infinite(), NewCoefficients(-1, 0), nil); !errors.Is(err, ErrInvalidCoefficients) {
		t.Errorf("expected ErrInvalidCoefficients, got %v", err)
	}
}

func TestNewWithMassDerivesInertia(t *testing.T) {
	b, err := NewWithMass(PhysicsState{}, mustCircle(t, 20), 120, NewCoefficients(0.2, 0.3), nil)
	if err != nil {
		t.Fatal(err)
	}
	if b.Mass().MomentOfInertia() != 120*200 {
		t.Errorf("expected inertia 24000, got %f", b.Mass().MomentOfInertia())
	}
	if b.Lifetime() == nil {
		t.Error("body should get a lifetime")
	}

	floor, err := NewWithMass(PhysicsState{}, mustCircle(t, 1), math.Inf(1), Coefficients{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !floor.HasInfiniteMass() || floor.Mass().MomentOfInertiaInv() != 0 {
		t.Error("infinite mass should give infinite inertia")
	}

	other, _ := NewWithMass(PhysicsState{}, mustCircle(t, 1), 1, Coefficients{}, lifecycle.NewLifespan())
	if other.ID() == b.ID() {
		t.Error("ids should be unique")
	}
}

func TestIntegration(t *testing.T) {
	b, _ := NewWithMass(NewPhysicsState(geometry.NewALVector2D(0, geometry.Zero)), mustCircle(t, 1), 2, Coefficients{}, nil)

	updates := 0
	b.OnUpdated(func(float64) { updates++ })

	b.ApplyForce(geometry.Vector2D{X: 4})
	b.ApplyTorque(1)
	b.IntegrateVelocity(0.5)
	if b.State.Velocity.Linear.X != 1 {
		t.Errorf("expected vx 1, got %f", b.State.Velocity.Linear.X)
	}
	if b.State.Velocity.Angular != 0.5 {
		t.Errorf("expected w 0.5, got %f", b.State.Velocity.Angular)
	}

	b.Bias.Linear = geometry.Vector2D{Y: 2}
	b.IntegratePosition(0.5)
	b.NotifyUpdated(0.5)
	if b.State.Position.Linear != (geometry.Vector2D{X: 0.5, Y: 1}) {
		t.Errorf("unexpected position %v", b.State.Position.Linear)
	}
	if b.Bias != (geometry.ALVector2D{}) {
		t.Error("bias should be cleared after integration")
	}
	if !b.Bounds().Contains(geometry.Vector2D{X: 0.5, Y: 1}) {
		t.Error("bounds should follow position")
	}
	if updates != 1 {
		t.Errorf("expected 1 update notification, got %d", updates)
	}

	b.ClearForces()
	if !b.State.ForceAccumulator.IsZero() {
		t.Error("forces not cleared")
	}
}

func TestInfiniteMassIgnoresForcesAndImpulses(t *testing.T) {
	b, _ := New(PhysicsState{}, mustCircle(t, 1), Infinite(), Coefficients{}, nil)
	b.ApplyForceAt(geometry.Vector2D{X: 100, Y: 100}, geometry.Vector2D{X: 1})
	b.IntegrateVelocity(1)
	b.ApplyImpulse(geometry.Vector2D{X: 5}, geometry.Vector2D{Y: 1})
	if b.State.Velocity != (geometry.ALVector2D{}) {
		t.Errorf("infinite mass body moved: %v", b.State.Velocity)
	}
	if b.KineticEnergy() != 0 {
		t.Error("immovable body should have no kinetic energy")
	}
}

func TestApplyImpulseAndVelocityAt(t *testing.T) {
	b, _ := New(PhysicsState{}, mustCircle(t, 1), mustMass(t, 2, 4), Coefficients{}, nil)
	b.ApplyImpulse(geometry.Vector2D{Y: 2}, geometry.Vector2D{X: 1})
	if b.State.Velocity.Linear != (geometry.Vector2D{Y: 1}) || b.State.Velocity.Angular != 0.5 {
		t.Errorf("unexpected velocity %v", b.State.Velocity)
	}
	v := b.VelocityAt(geometry.Vector2D{X: 2})
	if v != (geometry.Vector2D{Y: 2}) {
		t.Errorf("expected point velocity (0, 2), got %v", v)
	}
	want := 0.5*2*1 + 0.5*4*0.25
	if math.Abs(b.KineticEnergy()-want) > 1e-12 {
		t.Errorf("expected kinetic energy %f, got %f", want, b.KineticEnergy())
	}
}

func TestApplyPositionImpulse(t *testing.T) {
	b, _ := New(PhysicsState{}, mustCircle(t, 1), mustMass(t, 2, 4), Coefficients{}, nil)
	b.ApplyPositionImpulse(geometry.Vector2D{Y: 2}, geometry.Vector2D{X: 1})
	if b.State.Position.Linear != (geometry.Vector2D{Y: 1}) || b.State.Position.Angular != 0.5 {
		t.Errorf("unexpected position %v", b.State.Position)
	}
	if b.State.Velocity != (geometry.ALVector2D{}) {
		t.Errorf("velocity should be untouched, got %v", b.State.Velocity)
	}
	if c := b.Bounds().Center(); c != (geometry.Vector2D{Y: 1}) {
		t.Errorf("expected bounds centred on (0, 1), got %v", c)
	}

	still, _ := New(PhysicsState{}, mustCircle(t, 1), Infinite(), Coefficients{}, nil)
	still.ApplyPositionImpulse(geometry.Vector2D{X: 5}, geometry.Vector2D{Y: 1})
	if still.State.Position != (geometry.ALVector2D{}) {
		t.Errorf("infinite mass body moved: %v", still.State.Position)
	}
}

func TestCollidedNotification(t *testing.T) {
	a, _ := New(PhysicsState{}, mustCircle(t, 1), Infinite(), Coefficients{}, nil)
	b, _ := New(PhysicsState{}, mustCircle(t, 1), Infinite(), Coefficients{}, nil)

	var hit *Body
	cancel := a.OnCollided(func(o *Body) { hit = o })
	a.NotifyCollided(b)
	if hit != b {
		t.Error("expected collided notification with other body")
	}
	cancel()
	hit = nil
	a.NotifyCollided(b)
	if hit != nil {
		t.Error("cancelled subscriber was notified")
	}
}

func mustMass(t *testing.T, m, i float64) MassInfo {
	t.Helper()
	mi, err := NewMassInfo(m, i)
	if err != nil {
		t.Fatal(err)
	}
	return mi
}
