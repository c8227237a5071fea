package solver

import (
	"math"

	"github.com/san-kum/physics2d/internal/collision"
)

const (
	// positionTarget is the fraction of the allowed penetration the
	// position pass settles contacts at.
	positionTarget = 0.5

	// maxCorrection bounds how far one position step moves a constraint.
	maxCorrection = 10.0

	// positionTolerance ends the position pass early.
	positionTolerance = 1e-6
)

// Report summarises one Solve call.
type Report struct {
	// Impulses holds the total normal impulse applied per manifold, in
	// manifold order. It is reused by the next Solve call.
	Impulses []float64

	Points        int
	SkippedPoints int
	SkippedJoints int
}

// SequentialImpulses is an iterative velocity solver for contacts and
// joints. Each iteration visits joints, then contacts, in input order. A
// joint with Iterations n takes part in the first n of the joint passes
// that open every iteration.
//
// A SequentialImpulses is not safe for concurrent use.
type SequentialImpulses struct {
	cfg      Config
	contacts []contactPoint
	joints   []Joint
	weight   int
	impulses []float64
}

func New(cfg Config) (*SequentialImpulses, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &SequentialImpulses{cfg: cfg}, nil
}

func (s *SequentialImpulses) Config() Config { return s.cfg }

// Solve applies impulses to the bodies of manifolds and joints so that
// their velocities satisfy the constraints for a step of dt. Pseudo
// velocities are left in each body's Bias for position integration.
func (s *SequentialImpulses) Solve(dt float64, manifolds []collision.Manifold, joints []Joint) Report {
	var r Report
	s.contacts = s.contacts[:0]
	s.joints = s.joints[:0]
	s.weight = 1

	if dt > 0 {
		for i, m := range manifolds {
			r.SkippedPoints += s.prepare(i, m, dt)
		}
		for _, j := range joints {
			if j.prepare(dt, s.cfg) {
				s.joints = append(s.joints, j)
				s.weight = max(s.weight, j.weight())
			} else {
				r.SkippedJoints++
			}
		}
	}
	r.Points = len(s.contacts)

	for it := 0; it < s.cfg.Iterations; it++ {
		s.eachJoint(Joint.solve)
		for i := range s.contacts {
			s.contacts[i].solve()
		}
	}

	if s.cfg.SplitImpulse {
		for it := 0; it < s.cfg.Iterations; it++ {
			s.eachJoint(Joint.solveBias)
			for i := range s.contacts {
				s.contacts[i].solveBias()
			}
		}
	}

	s.impulses = s.impulses[:0]
	for range manifolds {
		s.impulses = append(s.impulses, 0)
	}
	for _, c := range s.contacts {
		s.impulses[c.manifold] += c.pn
	}
	r.Impulses = s.impulses
	return r
}

// SolvePositions moves the bodies of the last Solve directly, leaving
// velocities alone, until no contact is deeper than half the allowed
// penetration and the anchors of every joint meet. It runs after position
// integration.
func (s *SequentialImpulses) SolvePositions() {
	target := s.cfg.AllowedPenetration * positionTarget
	for it := 0; it < s.cfg.PositionIterations; it++ {
		worst := 0.0
		s.eachJoint(func(j Joint) {
			worst = math.Max(worst, j.solvePosition())
		})
		for i := range s.contacts {
			worst = math.Max(worst, s.contacts[i].solvePosition(target))
		}
		if worst < positionTolerance {
			return
		}
	}
}

// eachJoint runs fn over the prepared joints once per joint pass.
func (s *SequentialImpulses) eachJoint(fn func(Joint)) {
	for pass := 0; pass < s.weight; pass++ {
		for _, j := range s.joints {
			if j.weight() > pass {
				fn(j)
			}
		}
	}
}
