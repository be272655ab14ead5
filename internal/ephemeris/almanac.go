package ephemeris

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/orbit"
)

// Planet holds one planet's elements and position for the last Update.
type Planet struct {
	Name string

	MeanDistance             float64 // a, AU
	Eccentricity             float64
	LongitudeOfAscendingNode float64 // N, deg
	Inclination              float64 // i, deg
	ArgumentOfPerihelion     float64 // w, deg
	MeanAnomaly              float64 // M, deg

	// Heliocentric ecliptic, rectangular (AU) and spherical.
	X, Y, Z   float64
	Longitude float64 // deg, [0, 360)
	Latitude  float64 // deg
	Distance  float64 // AU

	elements elementsFunc
}

// Elements returns the osculating elements in SI units for orbit placement.
func (p *Planet) Elements() orbit.Elements {
	return orbit.Elements{
		SemiMajorAxis:            p.MeanDistance * dynamo.AstronomicalUnit,
		Eccentricity:             p.Eccentricity,
		Inclination:              p.Inclination,
		LongitudeOfAscendingNode: p.LongitudeOfAscendingNode,
		ArgumentOfPeriapsis:      p.ArgumentOfPerihelion,
	}
}

// StateVectors returns the heliocentric position (m) and velocity (m/s)
// for a central body with gravitational parameter mu. The position carries
// any applied perturbations; the velocity comes from the mean elements.
func (p *Planet) StateVectors(mu float64) (position, velocity dynamo.Vector3d, err error) {
	_, velocity, err = orbit.StateAt(p.Elements(), mu, p.MeanAnomaly*dynamo.Deg2Rad)
	if err != nil {
		return dynamo.Zero, dynamo.Zero, fmt.Errorf("%s: %w", p.Name, err)
	}
	position = dynamo.Vec(p.X, p.Y, p.Z).Scale(dynamo.AstronomicalUnit)
	return position, velocity, nil
}

func (p *Planet) update(d float64) {
	a, e, N, i, w, M := p.elements(d)
	p.MeanDistance = a
	p.Eccentricity = e
	p.LongitudeOfAscendingNode = rev(N)
	p.Inclination = i
	p.ArgumentOfPerihelion = rev(w)
	p.MeanAnomaly = rev(M)
	p.updateEcliptic()
}

func (p *Planet) updateEcliptic() {
	a, e := p.MeanDistance, p.Eccentricity
	N, i, w := p.LongitudeOfAscendingNode, p.Inclination, p.ArgumentOfPerihelion

	E := orbit.SolveEccentricAnomaly(p.MeanAnomaly*dynamo.Deg2Rad, e)
	x := a * (math.Cos(E) - e)
	y := a * math.Sqrt(1-e*e) * math.Sin(E)
	r := math.Hypot(x, y)
	v := atan2d(y, x)

	p.X = r * (cosd(N)*cosd(v+w) - sind(N)*sind(v+w)*cosd(i))
	p.Y = r * (sind(N)*cosd(v+w) + cosd(N)*sind(v+w)*cosd(i))
	p.Z = r * sind(v+w) * sind(i)

	p.Longitude = rev(atan2d(p.Y, p.X))
	p.Latitude = atan2d(p.Z, math.Hypot(p.X, p.Y))
	p.Distance = math.Sqrt(p.X*p.X + p.Y*p.Y + p.Z*p.Z)
}

// perturb shifts longitude and latitude and recomputes X, Y, Z to match.
func (p *Planet) perturb(dLon, dLat float64) {
	p.Longitude = rev(p.Longitude + dLon)
	p.Latitude += dLat
	r := p.Distance
	p.X = r * cosd(p.Longitude) * cosd(p.Latitude)
	p.Y = r * sind(p.Longitude) * cosd(p.Latitude)
	p.Z = r * sind(p.Latitude)
}

// Almanac tracks the planets Mercury through Neptune.
type Almanac struct {
	DayNumber float64

	Mercury, Venus, Earth, Mars      *Planet
	Jupiter, Saturn, Uranus, Neptune *Planet
}

func New() *Almanac {
	p := func(name string, f elementsFunc) *Planet { return &Planet{Name: name, elements: f} }
	a := &Almanac{
		Mercury: p("Mercury", mercury),
		Venus:   p("Venus", venus),
		Earth:   p("Earth", earth),
		Mars:    p("Mars", mars),
		Jupiter: p("Jupiter", jupiter),
		Saturn:  p("Saturn", saturn),
		Uranus:  p("Uranus", uranus),
		Neptune: p("Neptune", neptune),
	}
	a.Update(0, true)
	return a
}

// Planets returns the planets in order from the Sun.
func (a *Almanac) Planets() []*Planet {
	return []*Planet{a.Mercury, a.Venus, a.Earth, a.Mars, a.Jupiter, a.Saturn, a.Uranus, a.Neptune}
}

// Planet finds a planet by name, ignoring case.
func (a *Almanac) Planet(name string) (*Planet, error) {
	for _, p := range a.Planets() {
		if strings.EqualFold(p.Name, name) {
			return p, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", dynamo.ErrUnknownBody, name)
}

// UpdateTime is Update at the day number of t with perturbations.
func (a *Almanac) UpdateTime(t time.Time) {
	a.Update(DayNumber(t), true)
}

// Update recomputes every planet for day number d. Perturbations need the
// mean anomalies of Jupiter and Saturn, so they are applied last.
func (a *Almanac) Update(d float64, perturbations bool) {
	a.DayNumber = d
	for _, p := range a.Planets() {
		p.update(d)
	}
	if !perturbations {
		return
	}

	mj, ms, mu := a.Jupiter.MeanAnomaly, a.Saturn.MeanAnomaly, a.Uranus.MeanAnomaly
	a.Jupiter.perturb(jupiterPerturbation(mj, ms))
	a.Saturn.perturb(saturnPerturbation(mj, ms))
	a.Uranus.perturb(uranusPerturbation(mj, ms, mu))
}

func sind(x float64) float64     { return math.Sin(x * dynamo.Deg2Rad) }
func cosd(x float64) float64     { return math.Cos(x * dynamo.Deg2Rad) }
func atan2d(y, x float64) float64 { return math.Atan2(y, x) * dynamo.Rad2Deg }

// rev reduces an angle to [0, 360).
func rev(x float64) float64 {
	x = math.Mod(x, 360)
	if x < 0 {
		x += 360
	}
	return x
}
