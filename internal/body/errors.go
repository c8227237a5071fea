package body

import "errors"

var (
	// ErrInvalidMass indicates a mass or moment of inertia that is neither
	// positive finite nor +Inf.
	ErrInvalidMass = errors.New("body: mass must be positive finite or +Inf")

	// ErrInvalidCoefficients indicates a negative or non-finite coefficient.
	ErrInvalidCoefficients = errors.New("body: coefficients must be finite and non-negative")

	// ErrNilShape indicates a body built without geometry.
	ErrNilShape = errors.New("body: shape is nil")
)
