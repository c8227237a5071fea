// Package broadphase finds candidate body pairs whose boxes overlap.
//
// [SweepAndPrune] is the detector used by the engine; [BruteForce] checks
// all pairs and exists to cross-validate it.
package broadphase
