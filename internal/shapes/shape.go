package shapes

import (
	"errors"

	"github.com/san-kum/physics2d/internal/geometry"
)

var (
	// ErrEmptyVertices indicates a shape built from no vertices.
	ErrEmptyVertices = errors.New("shapes: vertex list is empty")

	// ErrDegenerate indicates a shape with zero area or zero length.
	ErrDegenerate = errors.New("shapes: degenerate geometry")

	// ErrNotConvex indicates a polygon whose outline turns both ways.
	ErrNotConvex = errors.New("shapes: polygon is not convex")

	// ErrInvalidSize indicates a non-positive radius, thickness or vertex count.
	ErrInvalidSize = errors.New("shapes: invalid size")
)

// Kind tags the closed set of shapes understood by the narrow phase.
type Kind uint8

const (
	KindPolygon Kind = iota
	KindCircle
	KindLine
	KindParticle
)

func (k Kind) String() string {
	switch k {
	case KindPolygon:
		return "polygon"
	case KindCircle:
		return "circle"
	case KindLine:
		return "line"
	case KindParticle:
		return "particle"
	default:
		return "unknown"
	}
}

// Shape is implemented only by *Polygon, *Circle, *Line and *Particle.
type Shape interface {
	Kind() Kind

	// Vertices returns a copy of the local-space outline.
	Vertices() []geometry.Vector2D

	// BoundingRadius is the distance from the local origin to the farthest
	// point of the shape, thickness included.
	BoundingRadius() float64

	// InertiaMultiplier is the moment of inertia about the local origin per
	// unit of mass.
	InertiaMultiplier() float64

	// Bounds returns the world-space box of the shape under m.
	Bounds(m geometry.Matrix2x3) geometry.BoundingRectangle

	sealed()
}

func boundingRadius(vertices []geometry.Vector2D) float64 {
	r := 0.0
	for _, v := range vertices {
		if l := v.Magnitude(); l > r {
			r = l
		}
	}
	return r
}

func cloneVertices(vertices []geometry.Vector2D) []geometry.Vector2D {
	out := make([]geometry.Vector2D, len(vertices))
	copy(out, vertices)
	return out
}
