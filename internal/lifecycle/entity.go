package lifecycle

// Owned is implemented by everything an engine can own.
type Owned interface {
	Attach(h Handle, entity string) error
	Release(h Handle) error
	IsAttached() bool
	NotifyAdded(h Handle)
	NotifyRemoved(h Handle)
	Lifetime() *Lifespan
}

// Entity is embedded by everything an engine can own: bodies, joints and
// logics. The zero value is ready to use and has an immortal Lifespan.
type Entity struct {
	Attachment

	// Tag is free for the caller.
	Tag any

	lifetime        *Lifespan
	lifetimeChanged Signal[*Lifespan]
}

func (e *Entity) Lifetime() *Lifespan {
	if e.lifetime == nil {
		e.lifetime = NewLifespan()
	}
	return e.lifetime
}

// SetLifetime replaces the Lifespan. A nil Lifespan is replaced with an
// immortal one.
func (e *Entity) SetLifetime(l *Lifespan) {
	if l == nil {
		l = NewLifespan()
	}
	if l == e.lifetime {
		return
	}
	e.lifetime = l
	e.lifetimeChanged.Emit(l)
}

func (e *Entity) OnLifetimeChanged(fn func(*Lifespan)) (cancel func()) {
	return e.lifetimeChanged.Subscribe(fn)
}
