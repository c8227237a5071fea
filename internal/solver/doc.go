// Package solver resolves contacts and joints with sequential impulses.
//
// Every step each contact point gets a normal and a friction constraint.
// The normal target is zero for touching contacts, the allowed closing
// speed for speculative contacts, and a restitution bounce for fast
// impacts. Penetration deeper than Config.AllowedPenetration is corrected
// by a Baumgarte bias, either mixed into the velocity target or, in split
// impulse mode, solved separately on pseudo-velocities.
package solver
