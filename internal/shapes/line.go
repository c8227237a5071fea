package shapes

import (
	"fmt"
	"math"

	"github.com/san-kum/physics2d/internal/geometry"
)

// Line is an open polyline with thickness. Each segment collides as a
// capsule of radius Thickness/2.
type Line struct {
	vertices  []geometry.Vector2D
	thickness float64
	radius    float64
	inertia   float64
}

func NewLine(vertices []geometry.Vector2D, thickness float64) (*Line, error) {
	if len(vertices) == 0 {
		return nil, ErrEmptyVertices
	}
	if len(vertices) < 2 {
		return nil, fmt.Errorf("%w: line needs 2 vertices, got %d", ErrDegenerate, len(vertices))
	}
	if thickness < 0 || math.IsNaN(thickness) || math.IsInf(thickness, 0) {
		return nil, fmt.Errorf("%w: line thickness %v", ErrInvalidSize, thickness)
	}

	vs := cloneVertices(vertices)
	var total, moment float64
	for i := 0; i+1 < len(vs); i++ {
		a, b := vs[i], vs[i+1]
		l := a.Distance(b)
		if l < geometry.Epsilon {
			continue
		}
		// thin rod about the origin: l^2/12 about its midpoint plus parallel axis
		mid := a.Add(b).Scale(0.5)
		moment += l * (l*l/12 + mid.MagnitudeSq())
		total += l
	}
	if total == 0 {
		return nil, fmt.Errorf("%w: line has zero length", ErrDegenerate)
	}

	return &Line{
		vertices:  vs,
		thickness: thickness,
		radius:    thickness / 2,
		inertia:   moment / total,
	}, nil
}

func (l *Line) Kind() Kind                    { return KindLine }
func (l *Line) Vertices() []geometry.Vector2D { return cloneVertices(l.vertices) }
func (l *Line) Thickness() float64            { return l.thickness }
func (l *Line) Radius() float64               { return l.radius }
func (l *Line) BoundingRadius() float64       { return boundingRadius(l.vertices) + l.radius }
func (l *Line) InertiaMultiplier() float64    { return l.inertia }
func (l *Line) sealed()                       {}

// Segments returns each consecutive vertex pair. Zero-length segments are
// skipped.
func (l *Line) Segments() [][2]geometry.Vector2D {
	out := make([][2]geometry.Vector2D, 0, len(l.vertices)-1)
	for i := 0; i+1 < len(l.vertices); i++ {
		a, b := l.vertices[i], l.vertices[i+1]
		if a.Distance(b) < geometry.Epsilon {
			continue
		}
		out = append(out, [2]geometry.Vector2D{a, b})
	}
	return out
}

func (l *Line) Bounds(m geometry.Matrix2x3) geometry.BoundingRectangle {
	r := geometry.FromVectors(nil)
	for _, v := range l.vertices {
		r = r.Union(geometry.FromCircle(m.Transform(v), l.radius))
	}
	return r
}
