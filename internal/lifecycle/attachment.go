package lifecycle

import "sync/atomic"

// Handle identifies an engine. The zero Handle means "detached".
type Handle uint64

var lastHandle atomic.Uint64

// NewHandle returns a process-unique, non-zero Handle.
func NewHandle() Handle { return Handle(lastHandle.Add(1)) }

// Attachment records which engine, if any, owns an entity and carries the
// entity's added and removed notifications.
type Attachment struct {
	owner   atomic.Uint64
	added   Signal[Handle]
	removed Signal[Handle]
}

// Owner returns the owning engine, or 0 when detached.
func (a *Attachment) Owner() Handle { return Handle(a.owner.Load()) }

func (a *Attachment) IsAttached() bool { return a.owner.Load() != 0 }

// Attach claims the entity for h. It fails with an *OwnershipError if any
// engine, h included, already owns it.
func (a *Attachment) Attach(h Handle, entity string) error {
	if a.owner.CompareAndSwap(0, uint64(h)) {
		return nil
	}
	return &OwnershipError{Entity: entity, Owner: a.Owner()}
}

// Release gives the entity up if h owns it. The entity is detached before
// any removed subscriber runs, so a subscriber may attach it again.
func (a *Attachment) Release(h Handle) error {
	if !a.owner.CompareAndSwap(uint64(h), 0) {
		return ErrNotAttached
	}
	return nil
}

func (a *Attachment) OnAdded(fn func(Handle)) (cancel func())   { return a.added.Subscribe(fn) }
func (a *Attachment) OnRemoved(fn func(Handle)) (cancel func()) { return a.removed.Subscribe(fn) }

// NotifyAdded and NotifyRemoved are called by the owning engine.
func (a *Attachment) NotifyAdded(h Handle)   { a.added.Emit(h) }
func (a *Attachment) NotifyRemoved(h Handle) { a.removed.Emit(h) }
