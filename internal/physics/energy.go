package physics

import (
	"math"

	"github.com/san-kum/orbitsim/internal/dynamo"
)

// TotalMomentum is the sum of m*v over bodies.
func TotalMomentum(bodies []Body) dynamo.Vector3d {
	p := dynamo.Zero
	for _, b := range bodies {
		p = p.Add(b.State().Momentum())
	}
	return p
}

// TotalAngularMomentum is the sum of r x m*v about the origin.
func TotalAngularMomentum(bodies []Body) dynamo.Vector3d {
	l := dynamo.Zero
	for _, b := range bodies {
		s := b.State()
		l = l.Add(s.Position.Cross(s.Momentum()))
	}
	return l
}

// KineticEnergy is the sum of m*v^2/2.
func KineticEnergy(bodies []Body) float64 {
	ke := 0.0
	for _, b := range bodies {
		ke += b.State().KineticEnergy()
	}
	return ke
}

// PotentialEnergy is -G*mi*mj/r summed over pairs. Coincident pairs are
// skipped as in the force loop.
func PotentialEnergy(bodies []Body) float64 {
	pe := 0.0
	for i := range bodies {
		a := bodies[i].State()
		for j := i + 1; j < len(bodies); j++ {
			b := bodies[j].State()
			r := a.Position.Distance(b.Position)
			if r == 0 {
				continue
			}
			pe -= dynamo.GravitationalConstant * a.Mass * b.Mass / r
		}
	}
	return pe
}

func TotalEnergy(bodies []Body) float64 {
	return KineticEnergy(bodies) + PotentialEnergy(bodies)
}

// CenterOfMass returns the mass-weighted mean position and velocity.
func CenterOfMass(bodies []Body) (position, velocity dynamo.Vector3d) {
	m := 0.0
	for _, b := range bodies {
		s := b.State()
		position = position.Add(s.Position.Scale(s.Mass))
		velocity = velocity.Add(s.Velocity.Scale(s.Mass))
		m += s.Mass
	}
	if m == 0 || math.IsNaN(m) {
		return dynamo.Zero, dynamo.Zero
	}
	return position.DivScalar(m), velocity.DivScalar(m)
}
