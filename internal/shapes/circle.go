package shapes

import (
	"fmt"
	"math"

	"github.com/san-kum/physics2d/internal/geometry"
)

// Circle is a disc of the given radius centred on the local origin. The
// vertex ring only serves drawing; collision uses the exact radius.
type Circle struct {
	radius float64
	ring   []geometry.Vector2D
}

func NewCircle(radius float64, vertexCount int) (*Circle, error) {
	if !(radius > 0) || math.IsInf(radius, 0) {
		return nil, fmt.Errorf("%w: circle radius %v", ErrInvalidSize, radius)
	}
	if vertexCount < 3 {
		return nil, fmt.Errorf("%w: circle needs 3 ring vertices, got %d", ErrInvalidSize, vertexCount)
	}
	ring := make([]geometry.Vector2D, vertexCount)
	step := 2 * math.Pi / float64(vertexCount)
	for i := range ring {
		ring[i] = geometry.FromLengthAndAngle(radius, float64(i)*step)
	}
	return &Circle{radius: radius, ring: ring}, nil
}

func (c *Circle) Kind() Kind                    { return KindCircle }
func (c *Circle) Radius() float64               { return c.radius }
func (c *Circle) Vertices() []geometry.Vector2D { return cloneVertices(c.ring) }
func (c *Circle) BoundingRadius() float64       { return c.radius }
func (c *Circle) InertiaMultiplier() float64    { return c.radius * c.radius / 2 }
func (c *Circle) sealed()                       {}

func (c *Circle) Bounds(m geometry.Matrix2x3) geometry.BoundingRectangle {
	return geometry.FromCircle(m.Transform(geometry.Zero), c.radius)
}
