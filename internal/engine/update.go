package engine

import (
	"math"

	"github.com/san-kum/physics2d/internal/body"
	"github.com/san-kum/physics2d/internal/broadphase"
	"github.com/san-kum/physics2d/internal/collision"
	"github.com/san-kum/physics2d/internal/logic"
	"github.com/san-kum/physics2d/internal/solver"
)

// Update advances the simulation by dt:
//
//  1. remove entities whose Lifespan expired since the last step
//  2. run logics
//  3. integrate velocities from accumulated forces
//  4. find candidate pairs with boxes swept by each body's motion
//  5. build contact manifolds, speculative ones included
//  6. solve contacts and joints
//  7. integrate positions, push apart contacts deeper than half the
//     allowed penetration, pull joint anchors together and fire updated
//     notifications for bodies whose position changed
//  8. fire collided notifications
//  9. age every Lifespan, remove expired entities and clear forces
//
// Positions are integrated after the solve rather than before detection,
// which departs from the usual integrate, detect, solve order: contacts
// are found at the start-of-step positions and the solved velocities move
// the bodies in the same step. A zero dt skips steps 3 to 8. Entities
// added during Update join after step 9.
func (e *PhysicsEngine) Update(dt float64) error {
	if !(dt >= 0) || math.IsInf(dt, 1) {
		return ErrNegativeTimeStep
	}
	if e.updating {
		return ErrReentrantUpdate
	}
	e.updating = true

	e.purge()

	for _, l := range e.logics {
		if !l.Lifetime().IsExpired() {
			l.RunLogic(dt)
		}
	}

	e.stats.CandidatePairs = 0
	e.stats.Manifolds = 0
	e.stats.ContactPoints = 0
	e.stats.SkippedPoints = 0
	e.stats.SkippedJoints = 0
	e.stats.MaxPenetration = 0
	e.contacts = e.contacts[:0]

	if dt > 0 {
		for _, b := range e.bodies {
			b.IntegrateVelocity(dt)
		}

		e.detect(dt)

		report := e.solver.Solve(dt, e.contacts, e.joints)
		e.stats.ContactPoints = report.Points
		e.stats.SkippedPoints = report.SkippedPoints
		e.stats.SkippedJoints = report.SkippedJoints

		e.before = e.before[:0]
		for _, b := range e.bodies {
			e.before = append(e.before, b.State.Position)
			b.IntegratePosition(dt)
		}
		e.solver.SolvePositions()
		for i, b := range e.bodies {
			if b.State.Position != e.before[i] {
				b.NotifyUpdated(dt)
			}
		}

		e.fireCollisions(report.Impulses)
	}

	e.age(dt)
	e.purge()

	for _, b := range e.bodies {
		b.ClearForces()
	}

	e.stats.Steps++
	e.stats.Time += dt

	e.mergePending()
	e.updating = false

	if e.clearPending {
		e.clearPending = false
		e.Clear()
	}

	e.stats.Bodies = len(e.bodies)
	e.stats.Joints = len(e.joints)
	e.stats.Logics = len(e.logics)
	return nil
}

// travel is how far any point of b can move in dt at its current velocity.
func travel(b *body.Body, dt float64) float64 {
	v := b.State.Velocity
	return (v.Linear.Magnitude() + math.Abs(v.Angular)*b.Shape().BoundingRadius()) * dt
}

func (e *PhysicsEngine) detect(dt float64) {
	margin := e.cfg.ContactMargin

	e.items = e.items[:0]
	clear(e.sweeps)
	for _, b := range e.bodies {
		d := travel(b, dt)
		e.sweeps[b] = d
		e.items = append(e.items, broadphase.Item{Body: b, Bounds: b.Bounds().Expand(d + margin)})
	}

	pairs := e.detector.Detect(e.items, e.canCollide)
	e.stats.CandidatePairs = len(pairs)

	e.manifolds = e.manifolds[:0]
	for _, p := range pairs {
		e.manifolds = collision.Detect(p.A, p.B, margin+e.sweeps[p.A]+e.sweeps[p.B], e.manifolds)
	}

	e.events = e.events[:0]
	for _, m := range e.manifolds {
		if m.A.IsParticle() || m.B.IsParticle() {
			e.events = append(e.events, m)
			continue
		}
		e.contacts = append(e.contacts, m)
		e.stats.MaxPenetration = math.Max(e.stats.MaxPenetration, m.MaxDepth())
	}
	e.stats.Manifolds = len(e.contacts)
}

// fireCollisions notifies both bodies of every pair that exchanged a
// normal impulse or overlaps, once per pair. Particles are notified when
// they lie on or inside the other shape.
func (e *PhysicsEngine) fireCollisions(impulses []float64) {
	fired := make(map[[2]uint64]bool)
	notify := func(a, b *body.Body) {
		k := pairKey(a, b)
		if fired[k] {
			return
		}
		fired[k] = true
		a.NotifyCollided(b)
		b.NotifyCollided(a)
	}

	for i, m := range e.contacts {
		if impulses[i] > 0 || m.MaxDepth() > 0 {
			notify(m.A, m.B)
		}
	}
	for _, m := range e.events {
		if m.MaxDepth() >= 0 {
			notify(m.A, m.B)
		}
	}
}

// age advances each distinct Lifespan once, however many entities share it.
func (e *PhysicsEngine) age(dt float64) {
	if dt == 0 {
		return
	}
	clear(e.lifespans)
	for _, b := range e.bodies {
		e.lifespans[b.Lifetime()] = struct{}{}
	}
	for _, j := range e.joints {
		e.lifespans[j.Lifetime()] = struct{}{}
	}
	for _, l := range e.logics {
		e.lifespans[l.Lifetime()] = struct{}{}
	}
	for l := range e.lifespans {
		l.Advance(dt)
	}
}

// purge removes expired entities, and joints that lost a body, firing one
// removed notification each.
func (e *PhysicsEngine) purge() {
	var deadBodies []*body.Body
	live := e.bodies[:0]
	for _, b := range e.bodies {
		if b.Lifetime().IsExpired() {
			deadBodies = append(deadBodies, b)
		} else {
			live = append(live, b)
		}
	}
	clear(e.bodies[len(live):])
	e.bodies = live

	var deadJoints []solver.Joint
	liveJoints := e.joints[:0]
	for _, j := range e.joints {
		a, b := j.Bodies()
		if j.Lifetime().IsExpired() || a.Lifetime().IsExpired() || b.Lifetime().IsExpired() {
			deadJoints = append(deadJoints, j)
			k := pairKey(a, b)
			if e.linked[k]--; e.linked[k] <= 0 {
				delete(e.linked, k)
			}
		} else {
			liveJoints = append(liveJoints, j)
		}
	}
	clear(e.joints[len(liveJoints):])
	e.joints = liveJoints

	var deadLogics []logic.Logic
	liveLogics := e.logics[:0]
	for _, l := range e.logics {
		if l.Lifetime().IsExpired() {
			deadLogics = append(deadLogics, l)
		} else {
			liveLogics = append(liveLogics, l)
		}
	}
	clear(e.logics[len(liveLogics):])
	e.logics = liveLogics

	for _, b := range deadBodies {
		e.detachBody(b)
	}
	for _, j := range deadJoints {
		e.detachJoint(j)
	}
	for _, l := range deadLogics {
		e.detachLogic(l)
	}
}
