package solver

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/physics2d/internal/body"
	"github.com/san-kum/physics2d/internal/geometry"
	"github.com/san-kum/physics2d/internal/lifecycle"
)

// ErrInvalidJoint indicates a joint that does not join two distinct bodies.
var ErrInvalidJoint = errors.New("solver: joint needs two distinct bodies")

// Joint is a persistent constraint between two bodies. The set of joints
// is closed; HingeJoint is the only implementation.
type Joint interface {
	lifecycle.Owned

	Bodies() (*body.Body, *body.Body)

	// prepare computes per-step data and applies the warm start impulse;
	// false skips the joint this step.
	prepare(dt float64, cfg Config) bool
	solve()
	solveBias()

	// solvePosition moves the bodies to close the anchor gap and returns
	// the gap it started from.
	solvePosition() float64

	// weight is how many times the joint is solved per solver iteration.
	weight() int
}

// HingeJoint pins a point of one body to a point of another. Both bodies
// keep rotating freely about the pin.
type HingeJoint struct {
	lifecycle.Entity

	// SplitImpulse corrects anchor drift through pseudo-velocities. It only
	// takes effect when the solver runs in split-impulse mode.
	SplitImpulse bool

	// BiasFactor overrides the solver's bias factor when positive.
	BiasFactor float64

	// Softness is added to the diagonal of the effective mass matrix.
	Softness float64

	// Iterations is how many times the joint is solved in each solver
	// iteration. Joints solved more often converge faster; values below
	// one count as one.
	Iterations int

	a, b           *body.Body
	localA, localB geometry.Vector2D

	ra, rb      geometry.Vector2D
	mass        mgl64.Mat2
	bias        geometry.Vector2D
	split       bool
	accumulated geometry.Vector2D
}

// NewHingeJoint pins a and b together at the world point anchor, using
// their current positions. A nil lifetime gets an immortal Lifespan.
func NewHingeJoint(a, b *body.Body, anchor geometry.Vector2D, lifetime *lifecycle.Lifespan) (*HingeJoint, error) {
	if a == nil || b == nil || a == b {
		return nil, ErrInvalidJoint
	}
	if !anchor.IsFinite() {
		return nil, fmt.Errorf("%w: anchor %v", ErrInvalidJoint, anchor)
	}
	j := &HingeJoint{
		SplitImpulse: true,
		Iterations:   1,
		a:            a,
		b:            b,
		localA:       toLocal(a, anchor),
		localB:       toLocal(b, anchor),
	}
	j.SetLifetime(lifetime)
	return j, nil
}

func toLocal(b *body.Body, world geometry.Vector2D) geometry.Vector2D {
	return geometry.FromALVector(b.State.Position).Inverse().Transform(world)
}

func rotate(local geometry.Vector2D, angle float64) geometry.Vector2D {
	v := mgl64.Rotate2D(angle).Mul2x1(mgl64.Vec2{local.X, local.Y})
	return geometry.Vector2D{X: v[0], Y: v[1]}
}

func (j *HingeJoint) Bodies() (*body.Body, *body.Body) { return j.a, j.b }
func (j *HingeJoint) String() string                   { return fmt.Sprintf("hinge %s-%s", j.a, j.b) }

// Anchors returns the world positions of the pin on each body. They
// coincide while the joint is satisfied.
func (j *HingeJoint) Anchors() (geometry.Vector2D, geometry.Vector2D) {
	pa := j.a.State.Position
	pb := j.b.State.Position
	return pa.Linear.Add(rotate(j.localA, pa.Angular)), pb.Linear.Add(rotate(j.localB, pb.Angular))
}

// Impulse returns the impulse accumulated by the last Solve. It seeds the
// next step.
func (j *HingeJoint) Impulse() geometry.Vector2D { return j.accumulated }

func (j *HingeJoint) weight() int { return max(j.Iterations, 1) }

func (j *HingeJoint) massMatrix(ra, rb geometry.Vector2D, softness float64) (mgl64.Mat2, bool) {
	ma, mb := j.a.Mass(), j.b.Mass()
	im := ma.MassInv() + mb.MassInv()
	ia, ib := ma.MomentOfInertiaInv(), mb.MomentOfInertiaInv()

	k := mgl64.Mat2{
		im + ia*ra.Y*ra.Y + ib*rb.Y*rb.Y + softness,
		-ia*ra.X*ra.Y - ib*rb.X*rb.Y,
		-ia*ra.X*ra.Y - ib*rb.X*rb.Y,
		im + ia*ra.X*ra.X + ib*rb.X*rb.X + softness,
	}
	if math.Abs(k.Det()) < geometry.Epsilon {
		return mgl64.Mat2{}, false
	}
	return k.Inv(), true
}

func (j *HingeJoint) prepare(dt float64, cfg Config) bool {
	j.ra = rotate(j.localA, j.a.State.Position.Angular)
	j.rb = rotate(j.localB, j.b.State.Position.Angular)

	mass, ok := j.massMatrix(j.ra, j.rb, j.Softness)
	if !ok {
		j.accumulated = geometry.Zero
		return false
	}
	j.mass = mass

	beta := cfg.BiasFactor
	if j.BiasFactor > 0 {
		beta = j.BiasFactor
	}
	pa, pb := j.Anchors()
	j.bias = pb.Sub(pa).Scale(-beta / dt)
	j.split = cfg.SplitImpulse && j.SplitImpulse

	j.a.ApplyImpulse(j.accumulated.Negate(), j.ra)
	j.b.ApplyImpulse(j.accumulated, j.rb)
	return true
}

func mul(m mgl64.Mat2, v geometry.Vector2D) geometry.Vector2D {
	p := m.Mul2x1(mgl64.Vec2{v.X, v.Y})
	return geometry.Vector2D{X: p[0], Y: p[1]}
}

func (j *HingeJoint) solve() {
	target := geometry.Zero
	if !j.split {
		target = j.bias
	}
	dv := j.b.VelocityAt(j.rb).Sub(j.a.VelocityAt(j.ra))
	p := mul(j.mass, target.Sub(dv).Sub(j.accumulated.Scale(j.Softness)))
	j.accumulated = j.accumulated.Add(p)
	j.a.ApplyImpulse(p.Negate(), j.ra)
	j.b.ApplyImpulse(p, j.rb)
}

func (j *HingeJoint) solveBias() {
	if !j.split {
		return
	}
	dv := j.b.BiasVelocityAt(j.rb).Sub(j.a.BiasVelocityAt(j.ra))
	p := mul(j.mass, j.bias.Sub(dv))
	j.a.ApplyBiasImpulse(p.Negate(), j.ra)
	j.b.ApplyBiasImpulse(p, j.rb)
}

func (j *HingeJoint) solvePosition() float64 {
	pa, pb := j.Anchors()
	gap := pb.Sub(pa)
	l := gap.Magnitude()
	if l > maxCorrection {
		gap = gap.Scale(maxCorrection / l)
	}
	ra := pa.Sub(j.a.State.Position.Linear)
	rb := pb.Sub(j.b.State.Position.Linear)
	mass, ok := j.massMatrix(ra, rb, 0)
	if !ok {
		return 0
	}
	p := mul(mass, gap.Negate())
	j.a.ApplyPositionImpulse(p.Negate(), ra)
	j.b.ApplyPositionImpulse(p, rb)
	return l
}
