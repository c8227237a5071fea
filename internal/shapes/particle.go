package shapes

import (
	"math"

	"github.com/san-kum/physics2d/internal/geometry"
)

// Particle is a dimensionless point. It reports collisions but never
// receives contact response, and it cannot rotate.
type Particle struct{}

func NewParticle() *Particle { return &Particle{} }

func (p *Particle) Kind() Kind                    { return KindParticle }
func (p *Particle) Vertices() []geometry.Vector2D { return []geometry.Vector2D{geometry.Zero} }
func (p *Particle) BoundingRadius() float64       { return 0 }
func (p *Particle) InertiaMultiplier() float64    { return math.Inf(1) }
func (p *Particle) sealed()                       {}

func (p *Particle) Bounds(m geometry.Matrix2x3) geometry.BoundingRectangle {
	return geometry.FromCircle(m.Transform(geometry.Zero), 0)
}
