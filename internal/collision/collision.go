package collision

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/physics2d/internal/body"
	"github.com/san-kum/physics2d/internal/geometry"
	"github.com/san-kum/physics2d/internal/shapes"
)

// Contact is one point of a manifold. Point lies midway between the two
// surfaces. Depth is positive when they overlap and negative for a gap.
type Contact struct {
	Point geometry.Vector2D
	Depth float64
}

// Manifold is the contact between two bodies along one normal. Normal is a
// unit vector pointing from A towards B.
type Manifold struct {
	A, B     *body.Body
	Normal   geometry.Vector2D
	Contacts []Contact
}

// MaxDepth returns the depth of the deepest contact point.
func (m Manifold) MaxDepth() float64 {
	d := math.Inf(-1)
	for _, c := range m.Contacts {
		d = math.Max(d, c.Depth)
	}
	return d
}

// featureTolerance biases reference face selection towards A so that the
// manifold does not flip between steps for nearly equal separations.
const featureTolerance = 0.0005

// roundGap is the core separation above which rounded pieces are checked
// for meeting corner to corner.
const roundGap = 0.0005

// piece is a convex part of a shape in world space: a point (one vertex)
// or a polygon, rounded by radius. Lines contribute one piece per segment.
type piece struct {
	verts   []geometry.Vector2D
	normals []geometry.Vector2D
	radius  float64
}

func (p piece) round() bool { return len(p.verts) == 1 }

func pieces(b *body.Body) []piece {
	m := b.Matrix()
	switch s := b.Shape().(type) {
	case *shapes.Polygon:
		p := piece{
			verts:   m.TransformAll(s.Hull(), nil),
			normals: make([]geometry.Vector2D, len(s.Normals())),
		}
		for i, n := range s.Normals() {
			p.normals[i] = m.TransformNormal(n)
		}
		return []piece{p}
	case *shapes.Circle:
		return []piece{{verts: []geometry.Vector2D{m.Translation()}, radius: s.Radius()}}
	case *shapes.Line:
		segs := s.Segments()
		out := make([]piece, 0, len(segs))
		for _, seg := range segs {
			a, c := m.Transform(seg[0]), m.Transform(seg[1])
			dir, _ := c.Sub(a).Normalize()
			n := geometry.Vector2D{X: dir.Y, Y: -dir.X}
			out = append(out, piece{
				verts:   []geometry.Vector2D{a, c},
				normals: []geometry.Vector2D{n, n.Negate()},
				radius:  s.Radius(),
			})
		}
		return out
	case *shapes.Particle:
		return []piece{{verts: []geometry.Vector2D{m.Translation()}}}
	}
	return nil
}

// Detect appends the manifolds between a and b to dst. Contacts are kept
// while their depth is greater than -margin, so with a zero margin shapes
// that only touch produce nothing. A Line yields one manifold per segment
// in contact.
func Detect(a, b *body.Body, margin float64, dst []Manifold) []Manifold {
	pa, pb := pieces(a), pieces(b)
	for _, x := range pa {
		for _, y := range pb {
			normal, contacts := collide(x, y, margin)
			if len(contacts) == 0 {
				continue
			}
			dst = append(dst, Manifold{A: a, B: b, Normal: normal, Contacts: contacts})
		}
	}
	return dst
}

func collide(a, b piece, margin float64) (geometry.Vector2D, []Contact) {
	switch {
	case a.round() && b.round():
		return circles(a.verts[0], a.radius, b.verts[0], b.radius, margin)
	case b.round():
		return polygonCircle(a, b.verts[0], b.radius, margin)
	case a.round():
		n, c := polygonCircle(b, a.verts[0], a.radius, margin)
		return n.Negate(), c
	default:
		return polygons(a, b, margin)
	}
}

func circles(ca geometry.Vector2D, ra float64, cb geometry.Vector2D, rb float64, margin float64) (geometry.Vector2D, []Contact) {
	n, dist := cb.Sub(ca).Normalize()
	depth := ra + rb - dist
	if depth <= -margin {
		return geometry.Zero, nil
	}
	if dist == 0 {
		n = geometry.YAxis
	}
	return n, []Contact{{Point: midpoint(ca.Add(n.Scale(ra)), cb.Sub(n.Scale(rb))), Depth: depth}}
}

// polygonCircle returns the normal from the polygon towards the circle.
func polygonCircle(p piece, c geometry.Vector2D, r, margin float64) (geometry.Vector2D, []Contact) {
	total := p.radius + r
	count := len(p.verts)

	idx := 0
	sep := math.Inf(-1)
	for i := range p.verts {
		s := p.normals[i].Dot(c.Sub(p.verts[i]))
		if s > total+margin {
			return geometry.Zero, nil
		}
		if s > sep {
			sep, idx = s, i
		}
	}

	v1, v2 := p.verts[idx], p.verts[(idx+1)%count]
	var normal, core geometry.Vector2D
	var dist float64

	switch {
	case sep < geometry.Epsilon && count > 2:
		// centre inside the polygon
		normal, dist = p.normals[idx], sep
		core = c.Sub(normal.Scale(sep))
	case c.Sub(v1).Dot(v2.Sub(v1)) <= 0:
		normal, dist = c.Sub(v1).Normalize()
		if dist == 0 {
			normal = p.normals[idx]
		}
		core = v1
	case c.Sub(v2).Dot(v1.Sub(v2)) <= 0:
		normal, dist = c.Sub(v2).Normalize()
		if dist == 0 {
			normal = p.normals[idx]
		}
		core = v2
	default:
		normal = p.normals[idx]
		dist = c.Sub(v1).Dot(normal)
		core = c.Sub(normal.Scale(dist))
	}

	depth := total - dist
	if depth <= -margin {
		return geometry.Zero, nil
	}
	point := midpoint(core.Add(normal.Scale(p.radius)), c.Sub(normal.Scale(r)))
	return normal, []Contact{{Point: point, Depth: depth}}
}

// maxSeparation finds the face of a whose normal separates b the most.
func maxSeparation(a, b piece) (int, float64) {
	best, bestSep := 0, math.Inf(-1)
	for i, n := range a.normals {
		s := math.Inf(1)
		for _, v := range b.verts {
			s = math.Min(s, n.Dot(v.Sub(a.verts[i])))
		}
		if s > bestSep {
			best, bestSep = i, s
		}
	}
	return best, bestSep
}

// polygons clips the incident edge against the side planes of the
// reference face, producing up to two points. Rounded pieces whose cores
// are apart and closest at two corners meet at a single point instead.
func polygons(a, b piece, margin float64) (geometry.Vector2D, []Contact) {
	total := a.radius + b.radius

	edgeA, sepA := maxSeparation(a, b)
	if sepA > total+margin {
		return geometry.Zero, nil
	}
	edgeB, sepB := maxSeparation(b, a)
	if sepB > total+margin {
		return geometry.Zero, nil
	}

	ref, inc, edge, flip := a, b, edgeA, false
	if sepB > sepA+featureTolerance {
		ref, inc, edge, flip = b, a, edgeB, true
	}

	normal := ref.normals[edge]
	v11, v12 := ref.verts[edge], ref.verts[(edge+1)%len(ref.verts)]
	tangent, _ := v12.Sub(v11).Normalize()

	incident := 0
	minDot := math.Inf(1)
	for i, n := range inc.normals {
		if d := normal.Dot(n); d < minDot {
			minDot, incident = d, i
		}
	}
	clip := [2]geometry.Vector2D{inc.verts[incident], inc.verts[(incident+1)%len(inc.verts)]}

	if total > 0 && math.Max(sepA, sepB) > roundGap {
		s, t := closestFractions(v11, v12, clip[0], clip[1])
		if (s == 0 || s == 1) && (t == 0 || t == 1) {
			p1, p2 := v11, clip[0]
			if s == 1 {
				p1 = v12
			}
			if t == 1 {
				p2 = clip[1]
			}
			normal, contacts := corners(p1, ref.radius, p2, inc.radius, margin)
			if flip {
				normal = normal.Negate()
			}
			return normal, contacts
		}
	}

	front := normal.Dot(v11)
	var ok bool
	if clip, ok = clipSegment(clip, tangent.Negate(), -tangent.Dot(v11)); !ok {
		return geometry.Zero, nil
	}
	if clip, ok = clipSegment(clip, tangent, tangent.Dot(v12)); !ok {
		return geometry.Zero, nil
	}

	var contacts []Contact
	for _, v := range clip {
		sep := normal.Dot(v) - front
		depth := total - sep
		if depth <= -margin {
			continue
		}
		// midway between the reference surface and the incident surface
		point := v.Sub(normal.Scale((sep - ref.radius + inc.radius) / 2))
		contacts = append(contacts, Contact{Point: point, Depth: depth})
	}
	if flip {
		normal = normal.Negate()
	}
	return normal, contacts
}

// corners is the contact between corner p1 rounded by r1 and corner p2
// rounded by r2, with the normal pointing from p1 to p2.
func corners(p1 geometry.Vector2D, r1 float64, p2 geometry.Vector2D, r2 float64, margin float64) (geometry.Vector2D, []Contact) {
	normal, dist := p2.Sub(p1).Normalize()
	depth := r1 + r2 - dist
	if depth <= -margin || dist == 0 {
		return geometry.Zero, nil
	}
	point := midpoint(p1.Add(normal.Scale(r1)), p2.Sub(normal.Scale(r2)))
	return normal, []Contact{{Point: point, Depth: depth}}
}

// closestFractions returns where along p1-q1 and p2-q2 the two segments
// come closest, as fractions clamped to [0, 1].
func closestFractions(p1, q1, p2, q2 geometry.Vector2D) (float64, float64) {
	d1, d2, r := q1.Sub(p1), q2.Sub(p2), p1.Sub(p2)
	a, e, f := d1.Dot(d1), d2.Dot(d2), d2.Dot(r)
	c, b := d1.Dot(r), d1.Dot(d2)

	s := 0.0
	if den := a*e - b*b; den > geometry.Epsilon {
		s = mgl64.Clamp((b*f-c*e)/den, 0, 1)
	}
	t := (b*s + f) / e
	switch {
	case t < 0:
		t, s = 0, mgl64.Clamp(-c/a, 0, 1)
	case t > 1:
		t, s = 1, mgl64.Clamp((b-c)/a, 0, 1)
	}
	return s, t
}

// clipSegment keeps the part of seg with normal·v <= offset.
func clipSegment(seg [2]geometry.Vector2D, normal geometry.Vector2D, offset float64) ([2]geometry.Vector2D, bool) {
	var out [2]geometry.Vector2D
	n := 0
	d0 := normal.Dot(seg[0]) - offset
	d1 := normal.Dot(seg[1]) - offset
	if d0 <= 0 {
		out[n] = seg[0]
		n++
	}
	if d1 <= 0 {
		out[n] = seg[1]
		n++
	}
	if d0*d1 < 0 && n < 2 {
		t := d0 / (d0 - d1)
		out[n] = seg[0].Add(seg[1].Sub(seg[0]).Scale(t))
		n++
	}
	return out, n == 2
}

func midpoint(a, b geometry.Vector2D) geometry.Vector2D {
	return a.Add(b).Scale(0.5)
}
