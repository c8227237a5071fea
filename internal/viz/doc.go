// Package viz draws simulations in the terminal.
//
// Bodies are outlined on a braille [Canvas] through a [Viewport] that maps
// world coordinates to sub-pixels. [Model] is a Bubble Tea program that
// steps an engine live and keeps a short history for replay.
//
// # Key Bindings
//
//	Space - Pause/Resume simulation
//	R     - Rebuild the scene with the same seed
//	E     - Detonate an explosion in the middle of the world
//	T     - Cycle color themes
//	[/]   - Step back/forward through recorded frames
//	Q     - Quit
package viz
