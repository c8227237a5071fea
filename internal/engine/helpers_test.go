package engine_test

import (
	"math"

	. "github.com/onsi/gomega"

	"github.com/san-kum/physics2d/internal/body"
	"github.com/san-kum/physics2d/internal/collision"
	"github.com/san-kum/physics2d/internal/engine"
	"github.com/san-kum/physics2d/internal/geometry"
	"github.com/san-kum/physics2d/internal/lifecycle"
	"github.com/san-kum/physics2d/internal/logic"
	"github.com/san-kum/physics2d/internal/shapes"
)

const dt = 0.01

var gravity = geometry.Vector2D{Y: 960}

func newEngine() *engine.PhysicsEngine {
	e, err := engine.New(engine.DefaultConfig())
	Expect(err).NotTo(HaveOccurred())
	return e
}

func state(x, y float64) body.PhysicsState {
	return body.NewPhysicsState(geometry.NewALVector2D(0, geometry.Vector2D{X: x, Y: y}))
}

func newBox(x, y, w, h, mass float64) *body.Body {
	p, err := shapes.NewPolygon(shapes.CreateRectangle(h, w))
	Expect(err).NotTo(HaveOccurred())
	b, err := body.NewWithMass(state(x, y), p, mass, body.NewCoefficients(0.2, 0.3), nil)
	Expect(err).NotTo(HaveOccurred())
	return b
}

func newBall(x, y, r, mass float64) *body.Body {
	c, err := shapes.NewCircle(r, 16)
	Expect(err).NotTo(HaveOccurred())
	b, err := body.NewWithMass(state(x, y), c, mass, body.NewCoefficients(0.2, 0.3), nil)
	Expect(err).NotTo(HaveOccurred())
	return b
}

func newFloor() *body.Body {
	return newBox(700, 750, 2000, 60, math.Inf(1))
}

func addGravity(e *engine.PhysicsEngine) {
	Expect(e.AddLogic(logic.NewGravityField(gravity, nil))).To(Succeed())
}

func step(e *engine.PhysicsEngine, n int) {
	for i := 0; i < n; i++ {
		Expect(e.Update(dt)).To(Succeed())
	}
}

// penetration is the deepest overlap between any two bodies.
func penetration(bodies []*body.Body) float64 {
	deepest := 0.0
	for i := range bodies {
		for j := i + 1; j < len(bodies); j++ {
			for _, m := range collision.Detect(bodies[i], bodies[j], 0, nil) {
				deepest = math.Max(deepest, m.MaxDepth())
			}
		}
	}
	return deepest
}

type countingLogic struct {
	logic.Base
	runs int
}

func (c *countingLogic) RunLogic(float64) { c.runs++ }

func newCountingLogic(l *lifecycle.Lifespan) *countingLogic {
	c := &countingLogic{}
	c.SetLifetime(l)
	return c
}
