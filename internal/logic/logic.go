package logic

import (
	"github.com/san-kum/physics2d/internal/body"
	"github.com/san-kum/physics2d/internal/lifecycle"
)

// Engine is the view of the owning engine a logic gets while attached.
type Engine interface {
	Bodies() []*body.Body
}

// Logic runs once per step, before integration, and usually accumulates
// forces or impulses onto the engine's bodies.
type Logic interface {
	lifecycle.Owned

	// Bind and Unbind are called by the engine on attach and detach,
	// before the added and removed notifications.
	Bind(e Engine)
	Unbind()

	RunLogic(dt float64)
}

// Base carries the lifecycle and engine reference shared by all logics.
// Embed it and implement RunLogic.
type Base struct {
	lifecycle.Entity
	engine Engine
}

func (b *Base) Bind(e Engine)  { b.engine = e }
func (b *Base) Unbind()        { b.engine = nil }
func (b *Base) Engine() Engine { return b.engine }

// Bodies returns the bodies of the owning engine, or nil when detached.
func (b *Base) Bodies() []*body.Body {
	if b.engine == nil {
		return nil
	}
	return b.engine.Bodies()
}

// affected reports whether gravity-like logics act on b.
func affected(b *body.Body) bool {
	return !b.IgnoresGravity && !b.HasInfiniteMass()
}
