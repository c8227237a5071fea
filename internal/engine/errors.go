package engine

import "errors"

var (
	// ErrNegativeTimeStep indicates a negative or NaN dt passed to Update.
	ErrNegativeTimeStep = errors.New("engine: time step must be non-negative")

	// ErrReentrantUpdate indicates Update called from a notification fired by Update.
	ErrReentrantUpdate = errors.New("engine: Update called while updating")

	// ErrNilEntity indicates a nil body, joint or logic.
	ErrNilEntity = errors.New("engine: entity is nil")

	// ErrDuplicateEntity indicates the same body twice in one AddBodyRange call.
	ErrDuplicateEntity = errors.New("engine: entity listed twice")

	// ErrJointBodiesDetached indicates a joint whose bodies are not in this engine.
	ErrJointBodiesDetached = errors.New("engine: joint bodies must be added to the engine first")
)
