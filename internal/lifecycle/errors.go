package lifecycle

import (
	"errors"
	"fmt"
)

// Ownership errors.
var (
	// ErrAlreadyAttached indicates an entity that already belongs to an engine.
	ErrAlreadyAttached = errors.New("lifecycle: entity already attached to an engine")

	// ErrNotAttached indicates a detach request from an engine that does not own the entity.
	ErrNotAttached = errors.New("lifecycle: entity not attached to this engine")
)

// OwnershipError reports a rejected attach with the current owner.
type OwnershipError struct {
	Entity string
	Owner  Handle
}

func (e *OwnershipError) Error() string {
	return fmt.Sprintf("%s: %s (owner %d)", ErrAlreadyAttached, e.Entity, e.Owner)
}

func (e *OwnershipError) Unwrap() error {
	return ErrAlreadyAttached
}
