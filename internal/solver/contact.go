package solver

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/physics2d/internal/body"
	"github.com/san-kum/physics2d/internal/collision"
	"github.com/san-kum/physics2d/internal/geometry"
)

// staticSlip is the tangential speed below which static friction applies.
const staticSlip = 1e-2

type contactPoint struct {
	a, b     *body.Body
	manifold int

	normal, tangent geometry.Vector2D
	ra, rb          geometry.Vector2D

	// surface points of each body in body space, for the position pass
	localA, localB geometry.Vector2D

	normalMass  float64
	tangentMass float64
	friction    float64

	// target is the normal velocity the contact drives towards; bias is the
	// pseudo-velocity target when split impulse is on.
	target float64
	bias   float64

	pn, pt, pb float64
}

func effectiveMass(a, b *body.Body, ra, rb, axis geometry.Vector2D, softness float64) float64 {
	ma, mb := a.Mass(), b.Mass()
	rna, rnb := ra.ZCross(axis), rb.ZCross(axis)
	k := ma.MassInv() + mb.MassInv() + ma.MomentOfInertiaInv()*rna*rna + mb.MomentOfInertiaInv()*rnb*rnb + softness
	if k <= geometry.Epsilon {
		return 0
	}
	return 1 / k
}

func relativeVelocity(a, b *body.Body, ra, rb geometry.Vector2D) geometry.Vector2D {
	return b.VelocityAt(rb).Sub(a.VelocityAt(ra))
}

func relativeBiasVelocity(a, b *body.Body, ra, rb geometry.Vector2D) geometry.Vector2D {
	return b.BiasVelocityAt(rb).Sub(a.BiasVelocityAt(ra))
}

// prepare builds the contact points of one manifold. Points whose
// effective mass is zero are skipped.
func (s *SequentialImpulses) prepare(idx int, m collision.Manifold, dt float64) int {
	a, b := m.A, m.B
	ca, cb := a.Coefficients, b.Coefficients
	restitution := (ca.Restitution + cb.Restitution) / 2
	softness := (ca.Softness + cb.Softness) / 2
	tangent := geometry.Vector2D{X: m.Normal.Y, Y: -m.Normal.X}

	skipped := 0
	for _, c := range m.Contacts {
		ra := c.Point.Sub(a.State.Position.Linear)
		rb := c.Point.Sub(b.State.Position.Linear)

		nm := effectiveMass(a, b, ra, rb, m.Normal, softness)
		if nm == 0 {
			skipped++
			continue
		}

		dv := relativeVelocity(a, b, ra, rb)
		vn := dv.Dot(m.Normal)
		separation := -c.Depth

		target := 0.0
		if separation > 0 {
			target = -separation / dt
		}
		if restitution > 0 && vn < -s.cfg.RestitutionThreshold && separation <= -vn*dt {
			target = math.Max(target, -restitution*vn)
		}

		bias := 0.0
		if separation < 0 {
			bias = s.cfg.BiasFactor / dt * math.Max(0, -separation-s.cfg.AllowedPenetration)
		}
		if !s.cfg.SplitImpulse {
			target = math.Max(target, bias)
			bias = 0
		}

		friction := (ca.DynamicFriction + cb.DynamicFriction) / 2
		if math.Abs(dv.Dot(tangent)) < staticSlip {
			friction = (ca.StaticFriction + cb.StaticFriction) / 2
		}

		s.contacts = append(s.contacts, contactPoint{
			a:           a,
			b:           b,
			manifold:    idx,
			normal:      m.Normal,
			tangent:     tangent,
			ra:          ra,
			rb:          rb,
			normalMass:  nm,
			tangentMass: effectiveMass(a, b, ra, rb, tangent, softness),
			friction:    friction,
			target:      target,
			bias:        bias,
			localA:      localPoint(a, c.Point.Add(m.Normal.Scale(c.Depth/2))),
			localB:      localPoint(b, c.Point.Sub(m.Normal.Scale(c.Depth/2))),
		})
	}
	return skipped
}

func (c *contactPoint) apply(impulse geometry.Vector2D) {
	c.a.ApplyImpulse(impulse.Negate(), c.ra)
	c.b.ApplyImpulse(impulse, c.rb)
}

func (c *contactPoint) solve() {
	// friction, bounded by the current normal impulse
	if c.tangentMass > 0 {
		vt := relativeVelocity(c.a, c.b, c.ra, c.rb).Dot(c.tangent)
		limit := c.friction * c.pn
		old := c.pt
		c.pt = mgl64.Clamp(old-vt*c.tangentMass, -limit, limit)
		c.apply(c.tangent.Scale(c.pt - old))
	}

	vn := relativeVelocity(c.a, c.b, c.ra, c.rb).Dot(c.normal)
	old := c.pn
	c.pn = math.Max(old+(c.target-vn)*c.normalMass, 0)
	c.apply(c.normal.Scale(c.pn - old))
}

func (c *contactPoint) solveBias() {
	if c.bias == 0 && c.pb == 0 {
		return
	}
	vn := relativeBiasVelocity(c.a, c.b, c.ra, c.rb).Dot(c.normal)
	old := c.pb
	c.pb = math.Max(old+(c.bias-vn)*c.normalMass, 0)
	j := c.normal.Scale(c.pb - old)
	c.a.ApplyBiasImpulse(j.Negate(), c.ra)
	c.b.ApplyBiasImpulse(j, c.rb)
}

// solvePosition pushes the bodies apart along the normal until the contact
// is no deeper than target, and returns the excess depth it started from.
func (c *contactPoint) solvePosition(target float64) float64 {
	pa := worldPoint(c.a, c.localA)
	pb := worldPoint(c.b, c.localB)
	excess := pa.Sub(pb).Dot(c.normal) - target
	if excess <= 0 {
		return 0
	}
	ra := pa.Sub(c.a.State.Position.Linear)
	rb := pb.Sub(c.b.State.Position.Linear)
	k := effectiveMass(c.a, c.b, ra, rb, c.normal, 0)
	if k == 0 {
		return 0
	}
	p := c.normal.Scale(math.Min(excess, maxCorrection) * k)
	c.a.ApplyPositionImpulse(p.Negate(), ra)
	c.b.ApplyPositionImpulse(p, rb)
	return excess
}

func localPoint(b *body.Body, world geometry.Vector2D) geometry.Vector2D {
	return rotate(world.Sub(b.State.Position.Linear), -b.State.Position.Angular)
}

func worldPoint(b *body.Body, local geometry.Vector2D) geometry.Vector2D {
	return b.State.Position.Linear.Add(rotate(local, b.State.Position.Angular))
}
