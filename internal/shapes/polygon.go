package shapes

import (
	"fmt"
	"math"

	"github.com/san-kum/physics2d/internal/geometry"
)

// Polygon is a convex outline. Its vertex list may contain collinear points
// (see Subdivide); the narrow phase works on the hull with those removed.
type Polygon struct {
	vertices []geometry.Vector2D
	hull     []geometry.Vector2D
	normals  []geometry.Vector2D
	radius   float64
	inertia  float64
	area     float64
}

// NewPolygon validates and stores vertices. Clockwise input is reversed so
// that the signed area is always positive.
func NewPolygon(vertices []geometry.Vector2D) (*Polygon, error) {
	if len(vertices) == 0 {
		return nil, ErrEmptyVertices
	}
	if len(vertices) < 3 {
		return nil, fmt.Errorf("%w: polygon needs 3 vertices, got %d", ErrDegenerate, len(vertices))
	}
	vs := cloneVertices(vertices)
	area := signedArea(vs)
	if math.Abs(area) < geometry.Epsilon {
		return nil, fmt.Errorf("%w: polygon area is zero", ErrDegenerate)
	}
	if area < 0 {
		for i, j := 0, len(vs)-1; i < j; i, j = i+1, j-1 {
			vs[i], vs[j] = vs[j], vs[i]
		}
		area = -area
	}

	hull := make([]geometry.Vector2D, 0, len(vs))
	n := len(vs)
	for i := 0; i < n; i++ {
		prev, cur, next := vs[(i+n-1)%n], vs[i], vs[(i+1)%n]
		e1, e2 := cur.Sub(prev), next.Sub(cur)
		cross := e1.ZCross(e2)
		tol := 1e-9 * e1.Magnitude() * e2.Magnitude()
		if cross < -tol {
			return nil, ErrNotConvex
		}
		if cross > tol {
			hull = append(hull, cur)
		}
	}
	if len(hull) < 3 {
		return nil, fmt.Errorf("%w: polygon hull collapsed", ErrDegenerate)
	}

	normals := make([]geometry.Vector2D, len(hull))
	for i := range hull {
		edge := hull[(i+1)%len(hull)].Sub(hull[i])
		normals[i], _ = geometry.Vector2D{X: edge.Y, Y: -edge.X}.Normalize()
	}

	return &Polygon{
		vertices: vs,
		hull:     hull,
		normals:  normals,
		radius:   boundingRadius(vs),
		inertia:  polygonInertia(vs),
		area:     area,
	}, nil
}

func (p *Polygon) Kind() Kind                    { return KindPolygon }
func (p *Polygon) Vertices() []geometry.Vector2D { return cloneVertices(p.vertices) }
func (p *Polygon) BoundingRadius() float64       { return p.radius }
func (p *Polygon) InertiaMultiplier() float64    { return p.inertia }
func (p *Polygon) Area() float64                 { return p.area }
func (p *Polygon) sealed()                       {}

// Hull returns the corner vertices, collinear points removed. The slice is
// shared and must not be modified.
func (p *Polygon) Hull() []geometry.Vector2D { return p.hull }

// Normals returns the outward unit normal of each hull edge i -> i+1.
// The slice is shared and must not be modified.
func (p *Polygon) Normals() []geometry.Vector2D { return p.normals }

func (p *Polygon) Bounds(m geometry.Matrix2x3) geometry.BoundingRectangle {
	r := geometry.FromVectors(nil)
	for _, v := range p.hull {
		r = r.Union(geometry.FromCircle(m.Transform(v), 0))
	}
	return r
}

// Centroid returns the area-weighted center of the outline.
func (p *Polygon) Centroid() geometry.Vector2D {
	var cx, cy float64
	n := len(p.vertices)
	for i := 0; i < n; i++ {
		a, b := p.vertices[i], p.vertices[(i+1)%n]
		c := a.ZCross(b)
		cx += (a.X + b.X) * c
		cy += (a.Y + b.Y) * c
	}
	f := 1 / (6 * p.area)
	return geometry.Vector2D{X: cx * f, Y: cy * f}
}

// CreateRectangle returns the four corners of a length x width rectangle
// centred on the origin.
func CreateRectangle(length, width float64) []geometry.Vector2D {
	hw, hh := width/2, length/2
	return []geometry.Vector2D{
		{X: hw, Y: -hh},
		{X: hw, Y: hh},
		{X: -hw, Y: hh},
		{X: -hw, Y: -hh},
	}
}

// Subdivide inserts evenly spaced points so that no edge of the closed
// outline is longer than maxLength. The new points are collinear, so a
// Polygon built from them drops them from its Hull: they change the drawn
// outline and nothing in contact generation.
func Subdivide(vertices []geometry.Vector2D, maxLength float64) []geometry.Vector2D {
	if maxLength <= 0 || len(vertices) < 2 {
		return cloneVertices(vertices)
	}
	out := make([]geometry.Vector2D, 0, len(vertices)*2)
	n := len(vertices)
	for i := 0; i < n; i++ {
		a, b := vertices[i], vertices[(i+1)%n]
		edge := b.Sub(a)
		parts := int(math.Ceil(edge.Magnitude() / maxLength))
		if parts < 1 {
			parts = 1
		}
		for k := 0; k < parts; k++ {
			out = append(out, a.Add(edge.Scale(float64(k)/float64(parts))))
		}
	}
	return out
}

func signedArea(vs []geometry.Vector2D) float64 {
	sum := 0.0
	for i := range vs {
		sum += vs[i].ZCross(vs[(i+1)%len(vs)])
	}
	return sum / 2
}

// polygonInertia is the second moment of a uniform lamina about the origin
// divided by its mass.
func polygonInertia(vs []geometry.Vector2D) float64 {
	var num, den float64
	for j, i := len(vs)-1, 0; i < len(vs); j, i = i, i+1 {
		p0, p1 := vs[j], vs[i]
		a := p1.Dot(p1) + p1.Dot(p0) + p0.Dot(p0)
		b := math.Abs(p0.ZCross(p1))
		num += a * b
		den += b
	}
	if den == 0 {
		return 0
	}
	return num / (6 * den)
}
