package logic

import (
	"github.com/san-kum/physics2d/internal/geometry"
	"github.com/san-kum/physics2d/internal/lifecycle"
)

// ExplosionField kicks every body within Radius of Center away from it
// once, then expires. The impulse per unit mass falls linearly from
// Impulse at the centre to zero at Radius.
type ExplosionField struct {
	Base
	Center  geometry.Vector2D
	Radius  float64
	Impulse float64
}

func NewExplosionField(center geometry.Vector2D, radius, impulse float64) *ExplosionField {
	e := &ExplosionField{Center: center, Radius: radius, Impulse: impulse}
	e.SetLifetime(lifecycle.NewLifespan())
	return e
}

func (e *ExplosionField) RunLogic(dt float64) {
	if e.Lifetime().IsExpired() {
		return
	}
	for _, b := range e.Bodies() {
		if b.HasInfiniteMass() {
			continue
		}
		dir, dist := b.State.Position.Linear.Sub(e.Center).Normalize()
		if dist >= e.Radius || dist == 0 {
			continue
		}
		falloff := 1 - dist/e.Radius
		b.ApplyImpulse(dir.Scale(e.Impulse*falloff*b.Mass().Mass()), geometry.Zero)
	}
	e.Lifetime().Expire()
}
