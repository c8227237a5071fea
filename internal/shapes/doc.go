// Package shapes defines the immutable collision geometry a body carries.
//
// The set of shapes is closed:
//
//   - [Polygon]: convex outline, optionally with collinear subdivision points
//   - [Circle]: exact disc with a vertex ring for drawing
//   - [Line]: open polyline with thickness
//   - [Particle]: point that reports hits but takes no contact response
//
// Shapes are defined in local space. A shape value may be shared by many
// bodies.
package shapes
