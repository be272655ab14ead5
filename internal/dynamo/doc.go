// Package dynamo provides the core primitives shared by the orbit simulator.
//
// The package defines the value types and error taxonomy every other
// package builds on:
//
//   - [Vector3d]: double-precision 3D vector
//   - [SimulationError]: a failed integration step with its context
//   - physical constants ([GravitationalConstant], [AstronomicalUnit], ...)
//
// # Precision
//
// Positions reach ~1e13 m in the outer solar system, so every quantity is
// float64. Conversion to the float64 vectors of mathgl ([Vector3d.Vec],
// [FromVec]) is lossless.
//
// # Thread Safety
//
// Vector3d is a value type and safe to copy between goroutines. Nothing in
// this package holds mutable state.
package dynamo
