package metrics

import (
	"math"

	"github.com/san-kum/physics2d/internal/body"
	"github.com/san-kum/physics2d/internal/geometry"
	"github.com/san-kum/physics2d/internal/sim"
)

// TotalEnergy is the kinetic energy of all finite-mass bodies plus their
// potential energy in a uniform field g, measured from the origin.
func TotalEnergy(bodies []*body.Body, g geometry.Vector2D) float64 {
	e := 0.0
	for _, b := range bodies {
		if b.HasInfiniteMass() {
			continue
		}
		e += b.KineticEnergy() - b.Mass().Mass()*g.Dot(b.State.Position.Linear)
	}
	return e
}

// Energy is the mean total energy over the run.
type Energy struct {
	name        string
	gravity     geometry.Vector2D
	samples     int
	totalEnergy float64
}

func NewEnergy(gravity geometry.Vector2D) *Energy {
	return &Energy{name: "energy", gravity: gravity}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) Observe(w sim.World, t float64) {
	e.totalEnergy += TotalEnergy(w.Bodies(), e.gravity)
	e.samples++
}

func (e *Energy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.totalEnergy / float64(e.samples)
}

func (e *Energy) Reset() {
	e.totalEnergy = 0
	e.samples = 0
}

// EnergyDrift is the largest relative change of total energy from the
// first sample. Contacts and joints only ever remove energy, so a large
// value points at solver trouble.
type EnergyDrift struct {
	name          string
	gravity       geometry.Vector2D
	initialEnergy float64
	maxDrift      float64
	samples       int
}

func NewEnergyDrift(gravity geometry.Vector2D) *EnergyDrift {
	return &EnergyDrift{name: "energy_drift", gravity: gravity}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(w sim.World, t float64) {
	energy := TotalEnergy(w.Bodies(), e.gravity)
	if e.samples == 0 {
		e.initialEnergy = energy
	}
	e.samples++

	if e.initialEnergy != 0 {
		drift := math.Abs(energy-e.initialEnergy) / math.Abs(e.initialEnergy)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 { return e.maxDrift }

func (e *EnergyDrift) Reset() {
	e.initialEnergy = 0
	e.maxDrift = 0
	e.samples = 0
}
