package scenario

import (
	"fmt"
	"time"

	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/ephemeris"
	"github.com/san-kum/orbitsim/internal/physics"
)

// Almanac is the solar system with the planets where they actually were at
// date. Pluto and the Moon, which the almanac does not cover, start at
// periapsis.
func Almanac(date time.Time) (Scenario, error) {
	alm := ephemeris.New()
	alm.UpdateTime(date)

	return NewStarSystem(fmt.Sprintf("Solar system on %s", date.UTC().Format("2006-01-02")), solarSystemEntities(),
		WithPlacer(almanacPlacer(alm)),
	)
}

func almanacPlacer(alm *ephemeris.Almanac) Placer {
	return func(b *physics.CelestialBody) error {
		if b.Parent == nil || b.Parent.Kind != physics.Star {
			return Periapsis(b)
		}
		p, err := alm.Planet(b.Name)
		if err != nil {
			return Periapsis(b)
		}

		mu := dynamo.GravitationalConstant * b.Parent.Mass
		pos, vel, err := p.StateVectors(mu)
		if err != nil {
			return fmt.Errorf("place %s: %w", b.Name, err)
		}

		el := p.Elements()
		b.OrbitRadius = el.SemiMajorAxis
		b.OrbitalEccentricity = el.Eccentricity
		b.OrbitalInclination = el.Inclination
		b.LongitudeOfAscendingNode = el.LongitudeOfAscendingNode
		b.ArgumentOfPeriapsis = el.ArgumentOfPeriapsis
		b.Position = b.Parent.Position.Add(pos)
		b.Velocity = b.Parent.Velocity.Add(vel)
		b.HasOrbit = true
		return nil
	}
}
