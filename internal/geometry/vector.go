package geometry

import (
	"fmt"
	"math"
)

// Epsilon is the tolerance used for near-zero lengths and determinants.
const Epsilon = 1e-9

type Vector2D struct {
	X, Y float64
}

var (
	Zero  = Vector2D{}
	XAxis = Vector2D{X: 1}
	YAxis = Vector2D{Y: 1}
)

func NewVector2D(x, y float64) Vector2D { return Vector2D{X: x, Y: y} }

// FromLengthAndAngle builds a vector of the given length pointing at angle radians.
func FromLengthAndAngle(length, angle float64) Vector2D {
	sin, cos := math.Sincos(angle)
	return Vector2D{X: length * cos, Y: length * sin}
}

func (v Vector2D) Add(o Vector2D) Vector2D     { return Vector2D{v.X + o.X, v.Y + o.Y} }
func (v Vector2D) Sub(o Vector2D) Vector2D     { return Vector2D{v.X - o.X, v.Y - o.Y} }
func (v Vector2D) Scale(f float64) Vector2D    { return Vector2D{v.X * f, v.Y * f} }
func (v Vector2D) Negate() Vector2D            { return Vector2D{-v.X, -v.Y} }
func (v Vector2D) Dot(o Vector2D) float64      { return v.X*o.X + v.Y*o.Y }
func (v Vector2D) Magnitude() float64          { return math.Hypot(v.X, v.Y) }
func (v Vector2D) MagnitudeSq() float64        { return v.X*v.X + v.Y*v.Y }
func (v Vector2D) Angle() float64              { return math.Atan2(v.Y, v.X) }
func (v Vector2D) Distance(o Vector2D) float64 { return v.Sub(o).Magnitude() }

// ZCross returns the z component of the 3D cross product of v and o.
func (v Vector2D) ZCross(o Vector2D) float64 { return v.X*o.Y - v.Y*o.X }

// CrossScalar returns v x s, the vector v rotated by -90 degrees and scaled.
func (v Vector2D) CrossScalar(s float64) Vector2D { return Vector2D{s * v.Y, -s * v.X} }

// ScalarCross returns s x v, the angular-times-radius velocity term.
func ScalarCross(s float64, v Vector2D) Vector2D { return Vector2D{-s * v.Y, s * v.X} }

// Perpendicular returns v rotated by +90 degrees.
func (v Vector2D) Perpendicular() Vector2D { return Vector2D{-v.Y, v.X} }

// Normalize returns the unit vector of v and its original length.
// Vectors shorter than Epsilon normalize to Zero.
func (v Vector2D) Normalize() (Vector2D, float64) {
	l := v.Magnitude()
	if l < Epsilon {
		return Zero, 0
	}
	return Vector2D{v.X / l, v.Y / l}, l
}

// Rotate returns v rotated by angle radians.
func (v Vector2D) Rotate(angle float64) Vector2D {
	sin, cos := math.Sincos(angle)
	return Vector2D{v.X*cos - v.Y*sin, v.X*sin + v.Y*cos}
}

func (v Vector2D) IsFinite() bool {
	return !math.IsNaN(v.X) && !math.IsNaN(v.Y) && !math.IsInf(v.X, 0) && !math.IsInf(v.Y, 0)
}

func (v Vector2D) String() string { return fmt.Sprintf("(%.4f, %.4f)", v.X, v.Y) }

// ALVector2D pairs an angular component with a linear component. It is used
// for position (angle, point), velocity (angular, linear) and force (torque, force).
type ALVector2D struct {
	Angular float64
	Linear  Vector2D
}

func NewALVector2D(angular float64, linear Vector2D) ALVector2D {
	return ALVector2D{Angular: angular, Linear: linear}
}

func (a ALVector2D) Add(o ALVector2D) ALVector2D {
	return ALVector2D{a.Angular + o.Angular, a.Linear.Add(o.Linear)}
}

func (a ALVector2D) Scale(f float64) ALVector2D {
	return ALVector2D{a.Angular * f, a.Linear.Scale(f)}
}

func (a ALVector2D) IsZero() bool { return a.Angular == 0 && a.Linear == Zero }
