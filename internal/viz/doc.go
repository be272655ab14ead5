// Package viz draws a running simulation in the terminal.
//
// [Model] is a Bubble Tea model that owns a physics engine, advances it once
// per frame at the selected speed and renders bodies and their trails on a
// braille [Canvas] through a perspective [Camera]. [Picker] puts a scenario
// menu in front of it.
//
// # Key Bindings
//
//	Space - Pause/Resume simulation
//	←/→   - Speed slider stops, [ ] for fine steps
//	+/-   - Zoom
//	WASD  - Rotate the camera
//	Tab   - Cycle the focused body
//	R     - Restart the scenario
//	T     - Cycle color themes
//	?     - Show help overlay
package viz
