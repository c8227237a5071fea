package geometry

import "math"

// BoundingRectangle is an axis-aligned bounding box. Bounds are inclusive:
// boxes that share an edge overlap.
type BoundingRectangle struct {
	Min, Max Vector2D
}

func NewBoundingRectangle(minX, minY, maxX, maxY float64) BoundingRectangle {
	return BoundingRectangle{Min: Vector2D{minX, minY}, Max: Vector2D{maxX, maxY}}
}

// FromVectors returns the smallest box containing every point.
// An empty slice yields an inverted box that overlaps nothing.
func FromVectors(points []Vector2D) BoundingRectangle {
	r := BoundingRectangle{
		Min: Vector2D{math.Inf(1), math.Inf(1)},
		Max: Vector2D{math.Inf(-1), math.Inf(-1)},
	}
	for _, p := range points {
		r.Min.X = math.Min(r.Min.X, p.X)
		r.Min.Y = math.Min(r.Min.Y, p.Y)
		r.Max.X = math.Max(r.Max.X, p.X)
		r.Max.Y = math.Max(r.Max.Y, p.Y)
	}
	return r
}

func FromCircle(center Vector2D, radius float64) BoundingRectangle {
	return BoundingRectangle{
		Min: Vector2D{center.X - radius, center.Y - radius},
		Max: Vector2D{center.X + radius, center.Y + radius},
	}
}

func (r BoundingRectangle) Overlaps(o BoundingRectangle) bool {
	return r.Min.X <= o.Max.X && o.Min.X <= r.Max.X &&
		r.Min.Y <= o.Max.Y && o.Min.Y <= r.Max.Y
}

func (r BoundingRectangle) Contains(p Vector2D) bool {
	return p.X >= r.Min.X && p.X <= r.Max.X && p.Y >= r.Min.Y && p.Y <= r.Max.Y
}

// Expand grows the box by margin on every side.
func (r BoundingRectangle) Expand(margin float64) BoundingRectangle {
	return BoundingRectangle{
		Min: Vector2D{r.Min.X - margin, r.Min.Y - margin},
		Max: Vector2D{r.Max.X + margin, r.Max.Y + margin},
	}
}

func (r BoundingRectangle) Union(o BoundingRectangle) BoundingRectangle {
	return BoundingRectangle{
		Min: Vector2D{math.Min(r.Min.X, o.Min.X), math.Min(r.Min.Y, o.Min.Y)},
		Max: Vector2D{math.Max(r.Max.X, o.Max.X), math.Max(r.Max.Y, o.Max.Y)},
	}
}

func (r BoundingRectangle) Center() Vector2D {
	return Vector2D{(r.Min.X + r.Max.X) / 2, (r.Min.Y + r.Max.Y) / 2}
}

func (r BoundingRectangle) Width() float64  { return r.Max.X - r.Min.X }
func (r BoundingRectangle) Height() float64 { return r.Max.Y - r.Min.Y }
