package physics

import (
	"fmt"

	"github.com/san-kum/orbitsim/internal/dynamo"
)

// Body is what the engine integrates. Implementations embed a MassBody and
// override the hooks they need.
type Body interface {
	// State returns the mutable kinematic state owned by the body.
	State() *MassBody
	// Initialize is called once after construction and after any parent
	// link has been set, before the first Simulate.
	Initialize()
	// UpdateTrajectory runs after every outer Simulate call.
	UpdateTrajectory()
	// UpdateState runs once per sub-step before the acceleration is formed.
	UpdateState(dt float64)
	// AdditionalForce is added to the gravitational force, in newtons.
	AdditionalForce() dynamo.Vector3d

	snapshot() snapshot
	restore(snapshot)
}

// snapshot is everything a sub-step may change on a body, so a rollback
// leaves nothing half-updated.
type snapshot struct {
	state    MassBody
	rotation float64
}

// MassBody is a point mass. SI units throughout.
type MassBody struct {
	Name string

	Position     dynamo.Vector3d
	Velocity     dynamo.Vector3d
	Acceleration dynamo.Vector3d

	Mass float64

	TotalGravitationalForce dynamo.Vector3d
}

func (b *MassBody) State() *MassBody                  { return b }
func (b *MassBody) Initialize()                       {}
func (b *MassBody) UpdateTrajectory()                 {}
func (b *MassBody) UpdateState(float64)               {}
func (b *MassBody) AdditionalForce() dynamo.Vector3d { return dynamo.Zero }

func (b *MassBody) snapshot() snapshot { return snapshot{state: *b} }
func (b *MassBody) restore(s snapshot) { *b = s.state }

// Momentum returns m*v.
func (b *MassBody) Momentum() dynamo.Vector3d { return b.Velocity.Scale(b.Mass) }

// KineticEnergy returns m*v^2/2.
func (b *MassBody) KineticEnergy() float64 { return 0.5 * b.Mass * b.Velocity.LengthSquared() }

func (b *MassBody) validate() error {
	switch {
	case !b.Position.IsFinite():
		return fmt.Errorf("%w: %s position %v", dynamo.ErrInvalidState, b.Name, b.Position)
	case !b.Velocity.IsFinite():
		return fmt.Errorf("%w: %s velocity %v", dynamo.ErrInvalidState, b.Name, b.Velocity)
	case !b.Acceleration.IsFinite():
		return fmt.Errorf("%w: %s acceleration %v", dynamo.ErrInvalidState, b.Name, b.Acceleration)
	case !(b.Mass > 0) || !isFinite(b.Mass):
		return fmt.Errorf("%w: %s mass %g must be positive", dynamo.ErrParameterBounds, b.Name, b.Mass)
	}
	return nil
}

func (b *MassBody) finite() bool {
	return b.Position.IsFinite() && b.Velocity.IsFinite() &&
		b.Acceleration.IsFinite() && b.TotalGravitationalForce.IsFinite()
}
