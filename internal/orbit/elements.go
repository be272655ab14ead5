package orbit

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/orbitsim/internal/dynamo"
)

// Elements describes a Keplerian orbit. Distances are meters, angles degrees.
type Elements struct {
	SemiMajorAxis            float64
	Eccentricity             float64
	Inclination              float64
	LongitudeOfAscendingNode float64
	ArgumentOfPeriapsis      float64
}

// Parent is the body an orbit is placed around.
type Parent struct {
	Mass     float64
	Position dynamo.Vector3d
	Velocity dynamo.Vector3d
}

// Validate reports whether the elements describe a bound ellipse.
func (e Elements) Validate() error {
	switch {
	case !(e.SemiMajorAxis > 0) || math.IsInf(e.SemiMajorAxis, 0):
		return fmt.Errorf("%w: semi-major axis %g must be positive", dynamo.ErrParameterBounds, e.SemiMajorAxis)
	case !(e.Eccentricity >= 0 && e.Eccentricity < 1):
		return fmt.Errorf("%w: eccentricity %g outside [0, 1)", dynamo.ErrParameterBounds, e.Eccentricity)
	}
	for _, a := range []float64{e.Inclination, e.LongitudeOfAscendingNode, e.ArgumentOfPeriapsis} {
		if math.IsNaN(a) || math.IsInf(a, 0) {
			return fmt.Errorf("%w: non-finite angle %g", dynamo.ErrParameterBounds, a)
		}
	}
	return nil
}

// PeriapsisDistance is a(1-e).
func (e Elements) PeriapsisDistance() float64 {
	return e.SemiMajorAxis * (1 - e.Eccentricity)
}

// ApoapsisDistance is a(1+e).
func (e Elements) ApoapsisDistance() float64 {
	return e.SemiMajorAxis * (1 + e.Eccentricity)
}

// SemiMinorAxis is a*sqrt(1-e^2).
func (e Elements) SemiMinorAxis() float64 {
	return e.SemiMajorAxis * math.Sqrt(1-e.Eccentricity*e.Eccentricity)
}

// Rotation returns Rz(node) * Rx(inclination) * Rz(periapsis argument), the
// matrix taking the orbital plane frame (periapsis on +X, motion towards +Y)
// into the world frame.
func Rotation(e Elements) mgl64.Mat3 {
	node := mgl64.Rotate3DZ(e.LongitudeOfAscendingNode * dynamo.Deg2Rad)
	incl := mgl64.Rotate3DX(e.Inclination * dynamo.Deg2Rad)
	peri := mgl64.Rotate3DZ(e.ArgumentOfPeriapsis * dynamo.Deg2Rad)
	return node.Mul3(incl).Mul3(peri)
}

// Axes returns the unit vectors towards periapsis (major) and along the
// direction of motion at periapsis (minor).
func Axes(e Elements) (major, minor dynamo.Vector3d) {
	r := Rotation(e)
	major = dynamo.FromVec(r.Mul3x1(mgl64.Vec3{1, 0, 0}))
	minor = dynamo.FromVec(r.Mul3x1(mgl64.Vec3{0, 1, 0}))
	return major, minor
}

// Place puts a body at periapsis of the given orbit around parent and gives
// it the vis-viva speed there. The result is in the world frame, parent
// position and velocity included.
func Place(e Elements, parent Parent) (position, velocity dynamo.Vector3d, err error) {
	if err := e.Validate(); err != nil {
		return dynamo.Zero, dynamo.Zero, err
	}
	if !(parent.Mass > 0) {
		return dynamo.Zero, dynamo.Zero, fmt.Errorf("%w: parent mass %g must be positive", dynamo.ErrParameterBounds, parent.Mass)
	}

	mu := dynamo.GravitationalConstant * parent.Mass
	rp := e.PeriapsisDistance()
	speed := math.Sqrt(mu * (2/rp - 1/e.SemiMajorAxis))

	major, minor := Axes(e)
	position = parent.Position.Add(major.Scale(rp))
	velocity = parent.Velocity.Add(minor.Scale(speed))
	return position, velocity, nil
}

// StateAt returns the parent-relative position and velocity at mean
// anomaly M (radians) for gravitational parameter mu.
func StateAt(e Elements, mu, meanAnomaly float64) (position, velocity dynamo.Vector3d, err error) {
	if err := e.Validate(); err != nil {
		return dynamo.Zero, dynamo.Zero, err
	}
	if !(mu > 0) {
		return dynamo.Zero, dynamo.Zero, fmt.Errorf("%w: gravitational parameter %g must be positive", dynamo.ErrParameterBounds, mu)
	}

	a, b, ecc := e.SemiMajorAxis, e.SemiMinorAxis(), e.Eccentricity
	E := SolveEccentricAnomaly(meanAnomaly, ecc)
	sinE, cosE := math.Sincos(E)
	n := math.Sqrt(mu / (a * a * a))
	denom := 1 - ecc*cosE

	major, minor := Axes(e)
	position = major.Scale(a * (cosE - ecc)).Add(minor.Scale(b * sinE))
	velocity = major.Scale(-a * n * sinE / denom).Add(minor.Scale(b * n * cosE / denom))
	return position, velocity, nil
}

// CircularSpeed is sqrt(mu/r).
func CircularSpeed(mu, r float64) float64 {
	return math.Sqrt(mu / r)
}

// Period is the orbital period 2*pi*sqrt(a^3/mu) in seconds.
func Period(mu, semiMajorAxis float64) float64 {
	return 2 * math.Pi * math.Sqrt(semiMajorAxis*semiMajorAxis*semiMajorAxis/mu)
}
