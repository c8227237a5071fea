package metrics

import (
	"math"

	"github.com/san-kum/physics2d/internal/sim"
)

// Contacts is the mean number of solved contact points per step.
type Contacts struct {
	name    string
	sum     float64
	samples int
}

func NewContacts() *Contacts {
	return &Contacts{name: "contacts"}
}

func (c *Contacts) Name() string { return c.name }

func (c *Contacts) Observe(w sim.World, t float64) {
	c.sum += float64(w.Stats().ContactPoints)
	c.samples++
}

func (c *Contacts) Value() float64 {
	if c.samples == 0 {
		return 0
	}
	return c.sum / float64(c.samples)
}

func (c *Contacts) Reset() {
	c.sum = 0
	c.samples = 0
}

// Penetration is the deepest overlap seen by the solver in any step.
type Penetration struct {
	name string
	max  float64
}

func NewPenetration() *Penetration {
	return &Penetration{name: "max_penetration"}
}

func (p *Penetration) Name() string { return p.name }

func (p *Penetration) Observe(w sim.World, t float64) {
	p.max = math.Max(p.max, w.Stats().MaxPenetration)
}

func (p *Penetration) Value() float64 { return p.max }
func (p *Penetration) Reset()         { p.max = 0 }
