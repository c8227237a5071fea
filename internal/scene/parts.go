package scene

import (
	"math"
	"math/rand"

	"github.com/san-kum/physics2d/internal/body"
	"github.com/san-kum/physics2d/internal/engine"
	"github.com/san-kum/physics2d/internal/geometry"
	"github.com/san-kum/physics2d/internal/lifecycle"
	"github.com/san-kum/physics2d/internal/logic"
	"github.com/san-kum/physics2d/internal/shapes"
	"github.com/san-kum/physics2d/internal/solver"
)

// FloorTop is the Y of the standard floor's upper surface.
const FloorTop = 720.0

var surface = body.NewCoefficients(0.2, 0.2)

func at(angle, x, y float64) geometry.ALVector2D {
	return geometry.NewALVector2D(angle, geometry.Vector2D{X: x, Y: y})
}

// jitter returns k*step for a k drawn uniformly from [lo, hi].
func jitter(rng *rand.Rand, lo, hi int, step float64) float64 {
	return float64(rng.Intn(hi-lo+1)+lo) * step
}

func addGravity(e *engine.PhysicsEngine, g geometry.Vector2D) error {
	return e.AddLogic(logic.NewGravityField(g, nil))
}

func addFloor(e *engine.PhysicsEngine, position geometry.ALVector2D) (*body.Body, error) {
	p, err := shapes.NewPolygon(shapes.CreateRectangle(60, 2000))
	if err != nil {
		return nil, err
	}
	floor, err := body.New(body.NewPhysicsState(position), p, body.Infinite(), surface, nil)
	if err != nil {
		return nil, err
	}
	floor.IgnoresGravity = true
	return floor, e.AddBody(floor)
}

// addRectangle adds a box whose sides are perturbed by up to 0.04 and
// whose outline is subdivided for rendering.
func addRectangle(e *engine.PhysicsEngine, rng *rand.Rand, length, width, mass float64, position geometry.ALVector2D) (*body.Body, error) {
	width += jitter(rng, -4, 4, 0.01)
	length += jitter(rng, -4, 4, 0.01)
	vertices := shapes.Subdivide(shapes.CreateRectangle(length, width), (length+width)/4)
	p, err := shapes.NewPolygon(vertices)
	if err != nil {
		return nil, err
	}
	b, err := body.NewWithMass(body.NewPhysicsState(position), p, mass, surface, nil)
	if err != nil {
		return nil, err
	}
	if math.IsInf(mass, 1) {
		b.IgnoresGravity = true
	}
	return b, e.AddBody(b)
}

func addCircle(e *engine.PhysicsEngine, radius float64, vertexCount int, mass float64, position geometry.ALVector2D) (*body.Body, error) {
	c, err := shapes.NewCircle(radius, vertexCount)
	if err != nil {
		return nil, err
	}
	b, err := body.NewWithMass(body.NewPhysicsState(position), c, mass, surface, nil)
	if err != nil {
		return nil, err
	}
	return b, e.AddBody(b)
}

// addLine adds a static thick segment from p1 to p2.
func addLine(e *engine.PhysicsEngine, p1, p2 geometry.Vector2D, thickness float64) (*body.Body, error) {
	d := p1.Sub(p2)
	length := d.Magnitude()
	l, err := shapes.NewLine([]geometry.Vector2D{{X: -length / 2}, {X: length / 2}}, thickness)
	if err != nil {
		return nil, err
	}
	mid := p1.Add(p2).Scale(0.5)
	b, err := body.New(body.NewPhysicsState(geometry.NewALVector2D(d.Angle(), mid)), l, body.Infinite(), surface, nil)
	if err != nil {
		return nil, err
	}
	b.IgnoresGravity = true
	return b, e.AddBody(b)
}

// addChain lays boxes left to right from position, hinging each to the
// previous one halfway between their centres.
func addChain(e *engine.PhysicsEngine, rng *rand.Rand, position geometry.Vector2D, boxLength, boxWidth, boxMass, spacing, length float64) ([]*body.Body, error) {
	var bodies []*body.Body
	var last *body.Body
	for x := 0.0; x < length; x += boxLength + spacing {
		current, err := addRectangle(e, rng, boxWidth, boxLength, boxMass, geometry.NewALVector2D(0, position))
		if err != nil {
			return nil, err
		}
		bodies = append(bodies, current)
		if last != nil {
			anchor := current.State.Position.Linear.Add(last.State.Position.Linear).Scale(0.5)
			if err := addHinge(e, last, current, anchor); err != nil {
				return nil, err
			}
		}
		last = current
		position.X += boxLength + spacing
	}
	return bodies, nil
}

func addHinge(e *engine.PhysicsEngine, a, b *body.Body, anchor geometry.Vector2D) error {
	j, err := solver.NewHingeJoint(a, b, anchor, nil)
	if err != nil {
		return err
	}
	return e.AddJoint(j)
}

// addTower stacks 30-unit boxes at x from the floor up to minY.
func addTower(e *engine.PhysicsEngine, rng *rand.Rand, x, minY, maxY float64) error {
	const size = 30.0
	for y := maxY; y > minY; y -= size + 2 {
		if _, err := addRectangle(e, rng, size, size, 20, at(0, x+jitter(rng, -3, 3, 0.1), y)); err != nil {
			return err
		}
	}
	return nil
}

func addPyramid(e *engine.PhysicsEngine, rng *rand.Rand) error {
	const (
		size     = 30.0
		spacing  = 0.01
		xSpacing = 1.0
		xMin     = 200.0
		xMax     = 700.0
		yMin     = 50.0
		yMax     = FloorTop - size/2
		step     = (size + spacing + xSpacing) / 2
	)
	offset := 0.0
	for y := yMax; y >= yMin; y -= spacing + size {
		for x := xMin + offset; x < xMax-offset; x += spacing + xSpacing + size {
			if _, err := addRectangle(e, rng, size, size, 20, at(0.01, x, y)); err != nil {
				return err
			}
		}
		offset += step
	}
	return nil
}

// addTowers fills a grid of loosely spaced boxes that fall into columns.
func addTowers(e *engine.PhysicsEngine, rng *rand.Rand) error {
	const (
		size     = 25.0
		spacing  = 20.0
		xSpacing = -1.0
	)
	for x := 200.0; x < 800; x += spacing + xSpacing + size {
		for y := 700.0; y > 400; y -= spacing + size {
			pos := at(0, x+jitter(rng, -1, 0, 0.1), y+jitter(rng, -1, 0, 0.1))
			if _, err := addRectangle(e, rng, size, size, 20, pos); err != nil {
				return err
			}
		}
	}
	return nil
}

// addParticles fires count particles outwards from position. They live
// for two seconds and die early once they come to rest against something.
func addParticles(e *engine.PhysicsEngine, rng *rand.Rand, position geometry.Vector2D, count int) error {
	particles := make([]*body.Body, count)
	angle := 2 * math.Pi / float64(count)
	for i := range particles {
		p, err := body.NewWithMass(body.NewPhysicsState(geometry.NewALVector2D(0, position)),
			shapes.NewParticle(), 1, surface, lifecycle.NewTimedLifespan(2))
		if err != nil {
			return err
		}
		speed := float64(rng.Intn(801) + 200)
		p.State.Velocity.Linear = geometry.FromLengthAndAngle(speed, float64(i)*angle+(rng.Float64()-0.5)*angle)
		p.OnCollided(func(other *body.Body) {
			if p.State.Velocity.Linear.Sub(other.State.Velocity.Linear).MagnitudeSq() < 1 {
				p.Lifetime().Expire()
			}
		})
		particles[i] = p
	}
	return e.AddBodyRange(particles)
}
