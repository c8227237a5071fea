// Package logic holds the per-step force generators an engine runs before
// integration: [GravityField], [GravityPointField] and [ExplosionField].
// Custom logics embed [Base] and implement RunLogic.
package logic
