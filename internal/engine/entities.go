package engine

import (
	"fmt"

	"github.com/san-kum/physics2d/internal/body"
	"github.com/san-kum/physics2d/internal/logic"
	"github.com/san-kum/physics2d/internal/solver"
)

// AddBody attaches b. It fails if b already belongs to an engine, this one
// included. Bodies added from a notification during Update join the
// engine when that Update returns.
func (e *PhysicsEngine) AddBody(b *body.Body) error {
	if b == nil {
		return ErrNilEntity
	}
	if err := b.Attach(e.handle, b.String()); err != nil {
		return err
	}
	if e.updating {
		e.pendingBodies = append(e.pendingBodies, b)
		return nil
	}
	e.insertBody(b)
	return nil
}

// AddBodyRange attaches all bodies or none of them.
func (e *PhysicsEngine) AddBodyRange(bodies []*body.Body) error {
	seen := make(map[*body.Body]bool, len(bodies))
	for _, b := range bodies {
		if b == nil {
			return ErrNilEntity
		}
		if seen[b] {
			return fmt.Errorf("%w: %s", ErrDuplicateEntity, b)
		}
		seen[b] = true
	}
	for i, b := range bodies {
		if err := b.Attach(e.handle, b.String()); err != nil {
			for _, prev := range bodies[:i] {
				_ = prev.Release(e.handle)
			}
			return err
		}
	}
	for _, b := range bodies {
		if e.updating {
			e.pendingBodies = append(e.pendingBodies, b)
		} else {
			e.insertBody(b)
		}
	}
	return nil
}

// AddJoint attaches j. Both of its bodies must already be added.
func (e *PhysicsEngine) AddJoint(j solver.Joint) error {
	if j == nil {
		return ErrNilEntity
	}
	a, b := j.Bodies()
	if a.Owner() != e.handle || b.Owner() != e.handle {
		return fmt.Errorf("%w: %v", ErrJointBodiesDetached, j)
	}
	if err := j.Attach(e.handle, fmt.Sprint(j)); err != nil {
		return err
	}
	if e.updating {
		e.pendingJoints = append(e.pendingJoints, j)
		return nil
	}
	e.insertJoint(j)
	return nil
}

func (e *PhysicsEngine) AddLogic(l logic.Logic) error {
	if l == nil {
		return ErrNilEntity
	}
	if err := l.Attach(e.handle, fmt.Sprintf("logic %T", l)); err != nil {
		return err
	}
	if e.updating {
		e.pendingLogics = append(e.pendingLogics, l)
		return nil
	}
	e.insertLogic(l)
	return nil
}

func (e *PhysicsEngine) insertBody(b *body.Body) {
	b.ApplyMatrix()
	e.bodies = append(e.bodies, b)
	b.NotifyAdded(e.handle)
}

func (e *PhysicsEngine) insertJoint(j solver.Joint) {
	a, b := j.Bodies()
	e.linked[pairKey(a, b)]++
	e.joints = append(e.joints, j)
	j.NotifyAdded(e.handle)
}

func (e *PhysicsEngine) insertLogic(l logic.Logic) {
	l.Bind(e)
	e.logics = append(e.logics, l)
	l.NotifyAdded(e.handle)
}

// mergePending adds entities queued during Update. Entities queued by the
// added notifications of this merge are merged too.
func (e *PhysicsEngine) mergePending() {
	for len(e.pendingBodies)+len(e.pendingJoints)+len(e.pendingLogics) > 0 {
		bodies, joints, logics := e.pendingBodies, e.pendingJoints, e.pendingLogics
		e.pendingBodies, e.pendingJoints, e.pendingLogics = nil, nil, nil
		for _, b := range bodies {
			e.insertBody(b)
		}
		for _, j := range joints {
			e.insertJoint(j)
		}
		for _, l := range logics {
			e.insertLogic(l)
		}
	}
}

// Clear detaches every entity, firing removed notifications. Called during
// Update it takes effect when Update returns.
func (e *PhysicsEngine) Clear() {
	if e.updating {
		e.clearPending = true
		return
	}
	bodies, joints, logics := e.bodies, e.joints, e.logics
	pb, pj, pl := e.pendingBodies, e.pendingJoints, e.pendingLogics
	e.bodies, e.joints, e.logics = nil, nil, nil
	e.pendingBodies, e.pendingJoints, e.pendingLogics = nil, nil, nil
	clear(e.linked)
	e.contacts = e.contacts[:0]
	e.stats = Stats{}
	if r, ok := e.detector.(interface{ Reset() }); ok {
		r.Reset()
	}

	for _, b := range append(bodies, pb...) {
		e.detachBody(b)
	}
	for _, j := range append(joints, pj...) {
		e.detachJoint(j)
	}
	for _, l := range append(logics, pl...) {
		e.detachLogic(l)
	}
}

// detach releases ownership before notifying, so a removed subscriber may
// add the entity again.
func (e *PhysicsEngine) detachBody(b *body.Body) {
	if b.Release(e.handle) == nil {
		b.NotifyRemoved(e.handle)
	}
}

func (e *PhysicsEngine) detachJoint(j solver.Joint) {
	if j.Release(e.handle) == nil {
		j.NotifyRemoved(e.handle)
	}
}

func (e *PhysicsEngine) detachLogic(l logic.Logic) {
	l.Unbind()
	if l.Release(e.handle) == nil {
		l.NotifyRemoved(e.handle)
	}
}
