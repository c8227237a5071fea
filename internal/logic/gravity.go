package logic

import (
	"github.com/san-kum/physics2d/internal/geometry"
	"github.com/san-kum/physics2d/internal/lifecycle"
)

// GravityField pulls every body with acceleration Gravity.
type GravityField struct {
	Base
	Gravity geometry.Vector2D
}

func NewGravityField(gravity geometry.Vector2D, lifetime *lifecycle.Lifespan) *GravityField {
	g := &GravityField{Gravity: gravity}
	g.SetLifetime(lifetime)
	return g
}

func (g *GravityField) RunLogic(dt float64) {
	for _, b := range g.Bodies() {
		if affected(b) {
			b.ApplyForce(g.Gravity.Scale(b.Mass().Mass()))
		}
	}
}

// GravityPointField pulls bodies towards Location with an acceleration of
// Strength/distance. A negative Strength pushes them away. Within
// MinDistance the pull is held at its MinDistance value.
type GravityPointField struct {
	Base
	Location    geometry.Vector2D
	Strength    float64
	MinDistance float64
}

func NewGravityPointField(location geometry.Vector2D, strength float64, lifetime *lifecycle.Lifespan) *GravityPointField {
	g := &GravityPointField{Location: location, Strength: strength, MinDistance: 1}
	g.SetLifetime(lifetime)
	return g
}

func (g *GravityPointField) RunLogic(dt float64) {
	for _, b := range g.Bodies() {
		if !affected(b) {
			continue
		}
		dir, dist := g.Location.Sub(b.State.Position.Linear).Normalize()
		if dist == 0 {
			continue
		}
		if dist < g.MinDistance {
			dist = g.MinDistance
		}
		b.ApplyForce(dir.Scale(g.Strength * b.Mass().Mass() / dist))
	}
}
