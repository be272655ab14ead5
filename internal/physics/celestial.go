package physics

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/orbit"
)

type Kind int

const (
	Star Kind = iota
	Planet
	Moon
)

func (k Kind) String() string {
	switch k {
	case Star:
		return "star"
	case Planet:
		return "planet"
	case Moon:
		return "moon"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ParseKind accepts "star", "planet" or "moon", case-insensitively.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "star":
		return Star, nil
	case "planet":
		return Planet, nil
	case "moon":
		return Moon, nil
	}
	return 0, fmt.Errorf("%w: unknown body kind %q", dynamo.ErrInvalidScenario, s)
}

// TrackerOptions tune the trail kept for a body. Zero fields take the
// defaults.
type TrackerOptions struct {
	MinimumAngleIncrement    float64 // deg
	MaxAngle                 float64 // deg
	MinimumDistanceIncrement float64 // m
	MaxEntries               int
}

const (
	DefaultMinimumAngleIncrement    = 1
	DefaultMaxAngle                 = 90
	DefaultMinimumDistanceIncrement = 1000
	DefaultMaxEntries               = 500
)

func DefaultTrackerOptions() TrackerOptions {
	return TrackerOptions{
		MinimumAngleIncrement:    DefaultMinimumAngleIncrement,
		MaxAngle:                 DefaultMaxAngle,
		MinimumDistanceIncrement: DefaultMinimumDistanceIncrement,
		MaxEntries:               DefaultMaxEntries,
	}
}

// Validate rejects options that would leave a trail unbounded. The angular
// window must stay below a full turn and above the minimum increment.
func (o TrackerOptions) Validate() error {
	for _, v := range []float64{o.MinimumAngleIncrement, o.MaxAngle, o.MinimumDistanceIncrement} {
		if v < 0 || !isFinite(v) {
			return fmt.Errorf("%w: tracker option %g must be finite and not negative", dynamo.ErrParameterBounds, v)
		}
	}
	if o.MaxEntries < 0 {
		return fmt.Errorf("%w: tracker max entries %d must not be negative", dynamo.ErrParameterBounds, o.MaxEntries)
	}
	d := o.withDefaults()
	if d.MaxAngle >= 360 {
		return fmt.Errorf("%w: tracker max angle %g must be below 360", dynamo.ErrParameterBounds, d.MaxAngle)
	}
	if d.MinimumAngleIncrement >= d.MaxAngle {
		return fmt.Errorf("%w: tracker min angle %g must be below max angle %g",
			dynamo.ErrParameterBounds, d.MinimumAngleIncrement, d.MaxAngle)
	}
	return nil
}

func (o TrackerOptions) withDefaults() TrackerOptions {
	d := DefaultTrackerOptions()
	if o.MinimumAngleIncrement > 0 {
		d.MinimumAngleIncrement = o.MinimumAngleIncrement
	}
	// A full turn or more never prunes.
	if o.MaxAngle > 0 && o.MaxAngle < 360 {
		d.MaxAngle = o.MaxAngle
	}
	if o.MinimumDistanceIncrement > 0 {
		d.MinimumDistanceIncrement = o.MinimumDistanceIncrement
	}
	if o.MaxEntries > 0 {
		d.MaxEntries = o.MaxEntries
	}
	return d
}

// Ring is a flat annulus around a body, measured from its centre.
type Ring struct {
	Name        string
	InnerRadius float64
	OuterRadius float64
	Color       string
}

// CelestialBody is a star, planet or moon.
type CelestialBody struct {
	MassBody

	Kind   Kind
	Radius float64 // m

	RotationSpeed float64 // deg/s, negative is retrograde
	Rotation      float64 // deg in [0, 360)
	AxialTilt     float64 // deg

	HasOrbit                 bool
	OrbitRadius              float64 // semi-major axis, m
	OrbitalEccentricity      float64
	OrbitalInclination       float64 // deg
	LongitudeOfAscendingNode float64 // deg
	ArgumentOfPeriapsis      float64 // deg

	// Parent is not owned; it must be registered with the same engine.
	Parent *CelestialBody

	Color string
	Rings []Ring

	TrackerOptions TrackerOptions
	Tracker        TrajectoryTracker
}

// Initialize creates the trail tracker and seeds it with the current state.
// An orbiting body with a parent gets an angular tracker, anything else a
// linear one.
func (c *CelestialBody) Initialize() {
	opts := c.TrackerOptions.withDefaults()
	if c.Parent != nil && c.HasOrbit {
		c.Tracker = &AngularTracker{
			MinimumAngleIncrement: opts.MinimumAngleIncrement,
			MaxAngle:              opts.MaxAngle,
		}
	} else {
		c.Tracker = &LinearTracker{
			MinimumDistanceIncrement: opts.MinimumDistanceIncrement,
			MaxEntries:               opts.MaxEntries,
		}
	}
	c.Tracker.UpdatePosition(c)
}

func (c *CelestialBody) UpdateTrajectory() {
	if c.Tracker != nil {
		c.Tracker.UpdatePosition(c)
	}
}

func (c *CelestialBody) snapshot() snapshot {
	return snapshot{state: c.MassBody, rotation: c.Rotation}
}

func (c *CelestialBody) restore(s snapshot) {
	c.MassBody = s.state
	c.Rotation = s.rotation
}

func (c *CelestialBody) UpdateState(dt float64) {
	c.MassBody.UpdateState(dt)
	c.Rotation = wrapDegrees(c.Rotation + c.RotationSpeed*dt)
}

// ParentPosition is the parent's current position, or the origin.
func (c *CelestialBody) ParentPosition() dynamo.Vector3d {
	if c.Parent == nil {
		return dynamo.Zero
	}
	return c.Parent.Position
}

// Elements returns the body's orbit as Kepler elements.
func (c *CelestialBody) Elements() orbit.Elements {
	return orbit.Elements{
		SemiMajorAxis:            c.OrbitRadius,
		Eccentricity:             c.OrbitalEccentricity,
		Inclination:              c.OrbitalInclination,
		LongitudeOfAscendingNode: c.LongitudeOfAscendingNode,
		ArgumentOfPeriapsis:      c.ArgumentOfPeriapsis,
	}
}

// PlaceOnOrbit sets position and velocity at periapsis around Parent.
func (c *CelestialBody) PlaceOnOrbit() error {
	if c.Parent == nil {
		return fmt.Errorf("%w: %s has no parent to orbit", dynamo.ErrInvalidScenario, c.Name)
	}
	pos, vel, err := orbit.Place(c.Elements(), orbit.Parent{
		Mass:     c.Parent.Mass,
		Position: c.Parent.Position,
		Velocity: c.Parent.Velocity,
	})
	if err != nil {
		return fmt.Errorf("place %s: %w", c.Name, err)
	}
	c.Position, c.Velocity = pos, vel
	c.HasOrbit = true
	return nil
}

// RotationSpeedFromPeriod converts a sidereal rotation period in hours to
// deg/s. A zero period means no rotation.
func RotationSpeedFromPeriod(hours float64) float64 {
	if hours == 0 {
		return 0
	}
	return 360 / (hours * dynamo.SecondsInHour)
}

func wrapDegrees(a float64) float64 {
	a = math.Mod(a, 360)
	if a < 0 {
		a += 360
	}
	if a >= 360 {
		a = 0
	}
	return a
}

func isFinite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }
