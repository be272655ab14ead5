// Package orbit implements two-body Kepler maths used to seed the N-body
// engine: solving Kepler's equation, orienting an orbit in space from its
// classical elements, and placing a body at periapsis with its vis-viva
// speed relative to a (possibly moving) parent.
//
// Angles in [Elements] are degrees because that is how scenario tables and
// fact sheets publish them. The solver works in radians.
package orbit
