package engine

import (
	"math"

	"github.com/san-kum/physics2d/internal/body"
	"github.com/san-kum/physics2d/internal/broadphase"
	"github.com/san-kum/physics2d/internal/collision"
	"github.com/san-kum/physics2d/internal/geometry"
	"github.com/san-kum/physics2d/internal/lifecycle"
	"github.com/san-kum/physics2d/internal/logic"
	"github.com/san-kum/physics2d/internal/solver"
)

type Config struct {
	Solver solver.Config

	// ContactMargin is the distance at which separated shapes already
	// produce contacts, on top of the distance they can travel in a step.
	ContactMargin float64

	// BroadPhase defaults to a SweepAndPrune.
	BroadPhase broadphase.Detector
}

func DefaultConfig() Config {
	return Config{Solver: solver.DefaultConfig(), ContactMargin: 1}
}

// Stats describes the last Update.
type Stats struct {
	Steps          int
	Time           float64
	Bodies         int
	Joints         int
	Logics         int
	CandidatePairs int
	Manifolds      int
	ContactPoints  int
	SkippedPoints  int
	SkippedJoints  int
	MaxPenetration float64
}

// PhysicsEngine owns bodies, joints and logics and advances them in
// fixed steps. It is not safe for concurrent use: callers stepping on one
// goroutine and reading on another must synchronise around Update.
type PhysicsEngine struct {
	handle   lifecycle.Handle
	cfg      Config
	detector broadphase.Detector
	solver   *solver.SequentialImpulses

	bodies []*body.Body
	joints []solver.Joint
	logics []logic.Logic
	linked map[[2]uint64]int

	updating      bool
	clearPending  bool
	pendingBodies []*body.Body
	pendingJoints []solver.Joint
	pendingLogics []logic.Logic

	items     []broadphase.Item
	sweeps    map[*body.Body]float64
	manifolds []collision.Manifold
	contacts  []collision.Manifold
	events    []collision.Manifold
	before    []geometry.ALVector2D
	lifespans map[*lifecycle.Lifespan]struct{}

	stats Stats
}

func New(cfg Config) (*PhysicsEngine, error) {
	s, err := solver.New(cfg.Solver)
	if err != nil {
		return nil, err
	}
	if !(cfg.ContactMargin >= 0) || math.IsInf(cfg.ContactMargin, 1) {
		return nil, &solver.ConfigError{Field: "contact_margin", Value: cfg.ContactMargin}
	}
	detector := cfg.BroadPhase
	if detector == nil {
		detector = broadphase.NewSweepAndPrune()
	}
	return &PhysicsEngine{
		handle:    lifecycle.NewHandle(),
		cfg:       cfg,
		detector:  detector,
		solver:    s,
		linked:    make(map[[2]uint64]int),
		sweeps:    make(map[*body.Body]float64),
		lifespans: make(map[*lifecycle.Lifespan]struct{}),
	}, nil
}

func (e *PhysicsEngine) Handle() lifecycle.Handle { return e.handle }
func (e *PhysicsEngine) Config() Config           { return e.cfg }
func (e *PhysicsEngine) Stats() Stats             { return e.stats }

// Bodies returns the attached bodies. The slice is owned by the engine
// and must not be modified.
func (e *PhysicsEngine) Bodies() []*body.Body   { return e.bodies }
func (e *PhysicsEngine) Joints() []solver.Joint { return e.joints }
func (e *PhysicsEngine) Logics() []logic.Logic  { return e.logics }

// Contacts returns the solver manifolds of the last step.
func (e *PhysicsEngine) Contacts() []collision.Manifold { return e.contacts }

func pairKey(a, b *body.Body) [2]uint64 {
	if b.ID() < a.ID() {
		a, b = b, a
	}
	return [2]uint64{a.ID(), b.ID()}
}

// canCollide is the broad phase filter.
func (e *PhysicsEngine) canCollide(a, b *body.Body) bool {
	switch {
	case a.HasInfiniteMass() && b.HasInfiniteMass():
		return false
	case a.IsParticle() && b.IsParticle():
		return false
	case a.CollisionGroup != 0 && a.CollisionGroup == b.CollisionGroup:
		return false
	}
	return e.linked[pairKey(a, b)] == 0
}
