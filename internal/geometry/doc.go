// Package geometry provides the 2D value types shared by every layer of the
// engine:
//
//   - [Vector2D]: 2D vector with dot/cross helpers
//   - [ALVector2D]: angular + linear pair used for position, velocity and force
//   - [Matrix2x3]: affine world transform built from an [ALVector2D]
//   - [BoundingRectangle]: inclusive axis-aligned bounding box
//
// All types are immutable values; no function in this package keeps state.
package geometry
