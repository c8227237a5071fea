package body

import (
	"fmt"
	"math"

	"github.com/san-kum/physics2d/internal/geometry"
	"gopkg.in/yaml.v3"
)

// GravitationalConstant is G in N·m²/kg².
const GravitationalConstant = 6.67e-11

// MassInfo pairs mass with moment of inertia and caches both inverses.
// Each quantity is either positive finite or +Inf; +Inf means the body is
// immovable in that degree of freedom and its inverse is exactly zero.
//
// The inverses are always derived from the stored values, including after
// a YAML round trip.
type MassInfo struct {
	mass       float64
	inertia    float64
	massInv    float64
	inertiaInv float64
}

func NewMassInfo(mass, momentOfInertia float64) (MassInfo, error) {
	if !validMass(mass) {
		return MassInfo{}, fmt.Errorf("%w: mass %v", ErrInvalidMass, mass)
	}
	if !validMass(momentOfInertia) {
		return MassInfo{}, fmt.Errorf("%w: moment of inertia %v", ErrInvalidMass, momentOfInertia)
	}
	return MassInfo{
		mass:       mass,
		inertia:    momentOfInertia,
		massInv:    inverse(mass),
		inertiaInv: inverse(momentOfInertia),
	}, nil
}

// Infinite returns the mass of an immovable body.
func Infinite() MassInfo {
	m, _ := NewMassInfo(math.Inf(1), math.Inf(1))
	return m
}

func validMass(v float64) bool { return v > 0 }

func inverse(v float64) float64 {
	if math.IsInf(v, 1) {
		return 0
	}
	return 1 / v
}

func (m MassInfo) Mass() float64               { return m.mass }
func (m MassInfo) MomentOfInertia() float64    { return m.inertia }
func (m MassInfo) MassInv() float64            { return m.massInv }
func (m MassInfo) MomentOfInertiaInv() float64 { return m.inertiaInv }
func (m MassInfo) IsValid() bool               { return validMass(m.mass) && validMass(m.inertia) }

// AccelerationDueToGravity is the pull this mass exerts at unit distance.
func (m MassInfo) AccelerationDueToGravity() float64 { return m.mass * GravitationalConstant }

func FromCylindricalShell(mass, radius float64) (MassInfo, error) {
	return NewMassInfo(mass, mass*radius*radius)
}

func FromHollowCylinder(mass, innerRadius, outerRadius float64) (MassInfo, error) {
	return NewMassInfo(mass, 0.5*mass*(innerRadius*innerRadius+outerRadius*outerRadius))
}

func FromSolidCylinder(mass, radius float64) (MassInfo, error) {
	return NewMassInfo(mass, 0.5*mass*radius*radius)
}

func FromRectangle(mass, length, width float64) (MassInfo, error) {
	return NewMassInfo(mass, mass*(length*length+width*width)/12)
}

func FromSquare(mass, sideLength float64) (MassInfo, error) {
	return NewMassInfo(mass, mass*sideLength*sideLength/6)
}

// FromPolygon treats vertices as a uniform lamina and returns its mass
// properties about the local origin.
func FromPolygon(vertices []geometry.Vector2D, mass float64) (MassInfo, error) {
	if len(vertices) == 0 {
		return MassInfo{}, fmt.Errorf("%w: polygon has no vertices", ErrInvalidMass)
	}
	var num, den float64
	for j, i := len(vertices)-1, 0; i < len(vertices); j, i = i, i+1 {
		p0, p1 := vertices[j], vertices[i]
		a := p1.Dot(p1) + p1.Dot(p0) + p0.Dot(p0)
		b := math.Abs(p0.ZCross(p1))
		num += a * b
		den += b
	}
	if den == 0 {
		return MassInfo{}, fmt.Errorf("%w: polygon has no area", ErrInvalidMass)
	}
	return NewMassInfo(mass, mass*num/(den*6))
}

type massYAML struct {
	Mass            float64 `yaml:"mass"`
	MomentOfInertia float64 `yaml:"moment_of_inertia"`
}

func (m MassInfo) MarshalYAML() (any, error) {
	return massYAML{Mass: m.mass, MomentOfInertia: m.inertia}, nil
}

func (m *MassInfo) UnmarshalYAML(node *yaml.Node) error {
	var raw massYAML
	if err := node.Decode(&raw); err != nil {
		return err
	}
	mi, err := NewMassInfo(raw.Mass, raw.MomentOfInertia)
	if err != nil {
		return err
	}
	*m = mi
	return nil
}
