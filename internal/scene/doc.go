// Package scene builds the demonstration worlds run by the CLI and the
// live viewer. Every builder takes its randomness from an explicit
// *rand.Rand, so a seed fully determines the scene.
//
// Coordinates are screen-like: X grows to the right, Y grows downwards,
// and the standard floor's top surface sits at Y = 720.
package scene
