package scenario

import (
	"fmt"
	"math"

	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/physics"
)

// Entity is one row of a star system table. The first entity of a system is
// its host star and the rest orbit the latest star listed before them. Moons
// orbit their planet.
type Entity struct {
	Name     string
	Kind     physics.Kind
	Mass     float64 // kg
	Diameter float64 // m

	// Orbit around the parent. Distance is the semi-major axis in meters.
	Distance                 float64
	Eccentricity             float64
	Inclination              float64 // deg
	LongitudeOfAscendingNode float64 // deg
	ArgumentOfPeriapsis      float64 // deg

	AxialTilt      float64 // deg
	RotationPeriod float64 // hours, negative for retrograde

	Color string
	Rings []physics.Ring
	Moons []Entity

	// Tracker overrides the system-wide trail options when non-zero.
	Tracker physics.TrackerOptions
}

// FreeBody is placed from raw state vectors instead of an orbit.
type FreeBody struct {
	Entity
	Position dynamo.Vector3d
	Velocity dynamo.Vector3d
}

func (e Entity) body() *physics.CelestialBody {
	return &physics.CelestialBody{
		MassBody: physics.MassBody{
			Name: e.Name,
			Mass: e.Mass,
		},
		Kind:                     e.Kind,
		Radius:                   e.Diameter / 2,
		RotationSpeed:            physics.RotationSpeedFromPeriod(e.RotationPeriod),
		AxialTilt:                e.AxialTilt,
		OrbitRadius:              e.Distance,
		OrbitalEccentricity:      e.Eccentricity,
		OrbitalInclination:       e.Inclination,
		LongitudeOfAscendingNode: e.LongitudeOfAscendingNode,
		ArgumentOfPeriapsis:      e.ArgumentOfPeriapsis,
		Color:                    e.Color,
		Rings:                    e.Rings,
		TrackerOptions:           e.Tracker,
	}
}

func (e Entity) validate(orbiting bool) error {
	if e.Name == "" {
		return fmt.Errorf("%w: entity without a name", dynamo.ErrInvalidScenario)
	}
	if !(e.Mass > 0) || math.IsInf(e.Mass, 1) {
		return fmt.Errorf("%w: %s: mass %g must be positive and finite", dynamo.ErrInvalidScenario, e.Name, e.Mass)
	}
	if !(e.Diameter >= 0) || math.IsInf(e.Diameter, 1) {
		return fmt.Errorf("%w: %s: diameter %g must be finite and not negative", dynamo.ErrInvalidScenario, e.Name, e.Diameter)
	}
	if err := e.Tracker.Validate(); err != nil {
		return fmt.Errorf("%w: %s: %w", dynamo.ErrInvalidScenario, e.Name, err)
	}
	if !orbiting {
		return nil
	}
	if err := e.body().Elements().Validate(); err != nil {
		return fmt.Errorf("%w: %s: %w", dynamo.ErrInvalidScenario, e.Name, err)
	}
	return nil
}
