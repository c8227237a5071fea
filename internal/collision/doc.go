// Package collision is the narrow phase. [Detect] dispatches on the shape
// kinds of two bodies and returns contact manifolds with normals pointing
// from the first body to the second.
//
// Polygons and line segments are handled by a separating axis test with
// clipping, circles and particles as rounded points. A positive margin
// also reports contacts that are up to margin apart; the solver uses those
// to stop fast bodies before they pass through each other.
package collision
