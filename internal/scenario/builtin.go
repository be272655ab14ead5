package scenario

import (
	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/physics"
)

// Solar system figures are from the NASA planetary fact sheet.

var (
	sun = Entity{
		Name: "Sun", Kind: physics.Star,
		Mass: 1_988_550e24, Diameter: 1_392_700e3,
		AxialTilt: 7.25, RotationPeriod: 27 * 24,
		Color: "#FFFF00",
	}
	mercury = Entity{
		Name: "Mercury", Kind: physics.Planet,
		Mass: 0.330e24, Diameter: 4_879e3,
		Distance: 57.9e9, Eccentricity: 0.206, Inclination: 7.0,
		AxialTilt: 0.034, RotationPeriod: 1407.6,
		Color: "#8C8C8C",
	}
	venus = Entity{
		Name: "Venus", Kind: physics.Planet,
		Mass: 4.87e24, Diameter: 12_104e3,
		Distance: 108.2e9, Eccentricity: 0.007, Inclination: 3.4,
		AxialTilt: 177.4, RotationPeriod: -5832.5,
		Color: "#D9BD8C",
	}
	moon = Entity{
		Name: "Moon", Kind: physics.Moon,
		Mass: 0.073e24, Diameter: 3_475e3,
		Distance: 0.384e9, Eccentricity: 0.055, Inclination: 5.1,
		AxialTilt: 6.7, RotationPeriod: 655.7,
		Color: "#808080",
	}
	earth = Entity{
		Name: "Earth", Kind: physics.Planet,
		Mass: 5.97e24, Diameter: 12_756e3,
		Distance: 149.6e9, Eccentricity: 0.017, Inclination: 0,
		AxialTilt: 23.4, RotationPeriod: 23.9,
		Color: "#4580B2",
		Moons: []Entity{moon},
	}
	mars = Entity{
		Name: "Mars", Kind: physics.Planet,
		Mass: 0.642e24, Diameter: 6_792e3,
		Distance: 228.0e9, Eccentricity: 0.094, Inclination: 1.8,
		AxialTilt: 25.2, RotationPeriod: 24.6,
		Color: "#B03021",
	}
	jupiter = Entity{
		Name: "Jupiter", Kind: physics.Planet,
		Mass: 1_898e24, Diameter: 142_984e3,
		Distance: 778.5e9, Eccentricity: 0.049, Inclination: 1.3,
		AxialTilt: 3.1, RotationPeriod: 9.9,
		Color: "#CC9E73",
	}
	saturn = Entity{
		Name: "Saturn", Kind: physics.Planet,
		Mass: 568e24, Diameter: 120_536e3,
		Distance: 1_432.0e9, Eccentricity: 0.052, Inclination: 2.5,
		AxialTilt: 26.7, RotationPeriod: 10.7,
		Color: "#D9C4A1",
		Rings: []physics.Ring{
			{Name: "C", InnerRadius: 74_658e3, OuterRadius: 92_000e3, Color: "#8C7F6E"},
			{Name: "B", InnerRadius: 92_000e3, OuterRadius: 117_580e3, Color: "#D9C9A8"},
			{Name: "A", InnerRadius: 122_170e3, OuterRadius: 136_775e3, Color: "#BFB091"},
		},
	}
	uranus = Entity{
		Name: "Uranus", Kind: physics.Planet,
		Mass: 86.8e24, Diameter: 51_118e3,
		Distance: 2_867.0e9, Eccentricity: 0.047, Inclination: 0.8,
		AxialTilt: 97.8, RotationPeriod: -17.2,
		Color: "#8FC4E3",
	}
	neptune = Entity{
		Name: "Neptune", Kind: physics.Planet,
		Mass: 102e24, Diameter: 49_528e3,
		Distance: 4_515.0e9, Eccentricity: 0.010, Inclination: 1.8,
		AxialTilt: 28.3, RotationPeriod: 16.1,
		Color: "#4069E0",
	}
	pluto = Entity{
		Name: "Pluto", Kind: physics.Planet,
		Mass: 0.0130e24, Diameter: 2_376e3,
		Distance: 5_906.4e9, Eccentricity: 0.244, Inclination: 17.2,
		AxialTilt: 119.5, RotationPeriod: -153.3,
		Color: "#BFC7CC",
	}
)

func solarSystemEntities() []Entity {
	return []Entity{sun, mercury, venus, earth, mars, jupiter, saturn, uranus, neptune, pluto}
}

// SolarSystem is the Sun, the eight planets with the Moon, and Pluto, each
// starting at periapsis.
func SolarSystem() (Scenario, error) {
	return NewStarSystem("Solar system", solarSystemEntities())
}

func trappistPlanet(name string, mass, diameter, au float64, color string) Entity {
	return Entity{
		Name:     name,
		Kind:     physics.Planet,
		Mass:     mass * dynamo.MassOfEarth,
		Diameter: diameter * dynamo.DiameterOfEarth,
		Distance: au * dynamo.AstronomicalUnit,
		Color:    color,
	}
}

// Trappist1 is the TRAPPIST-1 system. Its planets are fast, so the speed
// range stops at five days per second and the step is never stretched.
func Trappist1() (Scenario, error) {
	const day = 24 * 3600
	return NewStarSystem("TRAPPIST-1", []Entity{
		{
			Name:           "TRAPPIST-1",
			Kind:           physics.Star,
			Mass:           0.0898 * dynamo.MassOfSun,
			Diameter:       0.1192 * dynamo.DiameterOfSun,
			RotationPeriod: 3.295,
			Color:          "#FF4500",
		},
		trappistPlanet("TRAPPIST-1b", 1.374, 1.116, 0.01154, "#87CEFA"),
		trappistPlanet("TRAPPIST-1c", 1.308, 1.097, 0.01580, "#F5F5DC"),
		trappistPlanet("TRAPPIST-1d", 0.388, 0.788, 0.02227, "#00008B"),
		trappistPlanet("TRAPPIST-1e", 0.692, 0.920, 0.02925, "#696969"),
		trappistPlanet("TRAPPIST-1f", 1.039, 1.045, 0.03849, "#F5F5F5"),
		trappistPlanet("TRAPPIST-1g", 1.321, 1.129, 0.04683, "#696969"),
		trappistPlanet("TRAPPIST-1h", 0.326, 0.755, 0.06189, "#F4A460"),
	},
		WithSpeedIntervals(0, 10, 100, 600, 3600, 6*3600, day, 2*day, 3*day, 4*day, 5*day),
		WithStepSettings(physics.StepSettings{MaxStep: 3600, MaxIterations: 0}),
	)
}

// BinaryStars is two Sun-like stars circling each other with an Earth-mass
// planet dropped between them. Nothing has a parent, so every trail is
// distance based.
func BinaryStars() (Scenario, error) {
	au := dynamo.AstronomicalUnit
	star := func(name, color string) Entity {
		return Entity{Name: name, Kind: physics.Star, Mass: dynamo.MassOfSun, Diameter: dynamo.DiameterOfSun, Color: color}
	}
	return NewStarSystem("Binary stars", nil,
		WithFreeBodies(
			FreeBody{
				Entity:   star("Star #1", "#FFFF00"),
				Position: dynamo.Vec(0, 0, -0.5*au),
				Velocity: dynamo.Vec(0, 20e3, 0),
			},
			FreeBody{
				Entity:   star("Star #2", "#FAFAD2"),
				Position: dynamo.Vec(0, 0, 0.5*au),
				Velocity: dynamo.Vec(0, -20e3, 0),
			},
			FreeBody{
				Entity: Entity{
					Name: "Planet #1", Kind: physics.Planet,
					Mass: dynamo.MassOfEarth, Diameter: dynamo.DiameterOfEarth,
					Color: "#FF0000",
				},
				Position: dynamo.Vec(0, 0.1*au, -0.1*au),
			},
		),
		WithCameraDistance(3*au),
	)
}
