package geometry

import "github.com/go-gl/mathgl/mgl64"

// Matrix2x3 is a 2D affine transform stored as a homogeneous 3x3 matrix.
// The zero value is not a valid transform; use Identity or FromALVector.
type Matrix2x3 struct {
	m mgl64.Mat3
}

func Identity() Matrix2x3 { return Matrix2x3{m: mgl64.Ident3()} }

// FromALVector builds the world transform of a body at position p:
// rotate by p.Angular about the origin, then translate by p.Linear.
func FromALVector(p ALVector2D) Matrix2x3 {
	t := mgl64.Translate2D(p.Linear.X, p.Linear.Y)
	return Matrix2x3{m: t.Mul3(mgl64.HomogRotate2D(p.Angular))}
}

// Transform maps a local point to world space.
func (m Matrix2x3) Transform(v Vector2D) Vector2D {
	r := m.m.Mul3x1(mgl64.Vec3{v.X, v.Y, 1})
	return Vector2D{r[0], r[1]}
}

// TransformNormal applies only the rotational part of m.
func (m Matrix2x3) TransformNormal(v Vector2D) Vector2D {
	r := m.m.Mul3x1(mgl64.Vec3{v.X, v.Y, 0})
	return Vector2D{r[0], r[1]}
}

func (m Matrix2x3) TransformAll(local []Vector2D, dst []Vector2D) []Vector2D {
	dst = dst[:0]
	for _, v := range local {
		dst = append(dst, m.Transform(v))
	}
	return dst
}

func (m Matrix2x3) Multiply(o Matrix2x3) Matrix2x3 { return Matrix2x3{m: m.m.Mul3(o.m)} }

func (m Matrix2x3) Inverse() Matrix2x3 { return Matrix2x3{m: m.m.Inv()} }

// Translation returns the linear offset of the transform.
func (m Matrix2x3) Translation() Vector2D { return Vector2D{m.m.At(0, 2), m.m.At(1, 2)} }

// ApproxEqual compares two transforms element-wise within threshold.
func (m Matrix2x3) ApproxEqual(o Matrix2x3, threshold float64) bool {
	return m.m.ApproxEqualThreshold(o.m, threshold)
}
