// Package physics advances point masses under pairwise Newtonian gravity
// and keeps bounded trails of where they have been.
//
// The core types are:
//
//   - [MassBody]: position, velocity, mass and the accumulated force
//   - [CelestialBody]: a MassBody with rotation, orbit elements and a parent
//   - [Engine]: owns the body list and sub-steps time with a fixed scheme
//   - [AngularTracker] and [LinearTracker]: the two trail strategies
//
// Per-body behaviour is expressed through the small [Body] interface; the
// engine never type-switches on concrete bodies.
//
// # Usage
//
//	eng := physics.NewEngine()
//	sun := &physics.CelestialBody{MassBody: physics.MassBody{Name: "Sun", Mass: dynamo.MassOfSun}, Kind: physics.Star}
//	sun.Initialize()
//	_ = eng.AddBody(sun)
//	_ = eng.Simulate(3600)
//
// The engine is not safe for concurrent use. Renderers must read body state
// between Simulate calls, never during one.
package physics
