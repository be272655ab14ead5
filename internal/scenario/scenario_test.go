package scenario

import (
	"math"
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/physics"
)

func setup(s Scenario, err error) *physics.Engine {
	Expect(err).NotTo(HaveOccurred())
	eng := physics.NewEngine()
	Expect(s.Setup(eng)).To(Succeed())
	return eng
}

func celestial(eng *physics.Engine, name string) *physics.CelestialBody {
	b, err := eng.Body(name)
	Expect(err).NotTo(HaveOccurred())
	c, ok := b.(*physics.CelestialBody)
	Expect(ok).To(BeTrue())
	return c
}

var _ = Describe("StarSystem", func() {
	It("requires the first entity to be a star", func() {
		_, err := NewStarSystem("bad", []Entity{earth, sun})
		Expect(err).To(MatchError(dynamo.ErrInvalidScenario))
		Expect(err.Error()).To(ContainSubstring("host must be a star"))
	})

	It("rejects duplicate names", func() {
		_, err := NewStarSystem("dup", []Entity{sun, earth, earth})
		Expect(err).To(MatchError(dynamo.ErrInvalidScenario))
	})

	It("rejects unbound orbits at construction", func() {
		comet := mercury
		comet.Name = "Comet"
		comet.Eccentricity = 1.1
		_, err := NewStarSystem("hyperbolic", []Entity{sun, comet})
		Expect(err).To(MatchError(dynamo.ErrInvalidScenario))
		Expect(err).To(MatchError(dynamo.ErrParameterBounds))
	})

	It("rejects a planet without distance", func() {
		lost := mars
		lost.Distance = 0
		_, err := NewStarSystem("lost", []Entity{sun, lost})
		Expect(err).To(MatchError(dynamo.ErrInvalidScenario))
	})

	It("rejects an infinite mass at construction", func() {
		heavy := mars
		heavy.Name = "Heavy"
		heavy.Mass = math.Inf(1)
		_, err := NewStarSystem("heavy", []Entity{sun, heavy})
		Expect(err).To(MatchError(dynamo.ErrInvalidScenario))
	})

	It("rejects a trail window of a full turn or more", func() {
		_, err := NewStarSystem("wide", []Entity{sun, earth}, WithTracker(physics.TrackerOptions{MaxAngle: 360}))
		Expect(err).To(MatchError(dynamo.ErrInvalidScenario))
		Expect(err).To(MatchError(dynamo.ErrParameterBounds))

		wide := earth
		wide.Tracker = physics.TrackerOptions{MaxAngle: 400}
		_, err = NewStarSystem("wide", []Entity{sun, wide})
		Expect(err).To(MatchError(dynamo.ErrParameterBounds))
	})

	It("hands the entities after a second star to that star", func() {
		companion := Entity{
			Name:     "Companion",
			Kind:     physics.Star,
			Mass:     dynamo.MassOfSun / 2,
			Diameter: dynamo.DiameterOfSun / 2,
			Distance: 50 * dynamo.AstronomicalUnit,
		}
		far := mars
		far.Name = "Far"
		eng := setup(NewStarSystem("pair", []Entity{sun, earth, companion, far}))

		host := celestial(eng, "Sun")
		Expect(celestial(eng, "Earth").Parent).To(BeIdenticalTo(host))
		second := celestial(eng, "Companion")
		Expect(second.Parent).To(BeIdenticalTo(host))
		Expect(second.Position.Length()).To(BeNumerically("~", 50*dynamo.AstronomicalUnit, 1))

		planet := celestial(eng, "Far")
		Expect(planet.Parent).To(BeIdenticalTo(second))
		Expect(planet.Position.Distance(second.Position)).To(BeNumerically("~", mars.Distance*(1-mars.Eccentricity), 1))
	})

	It("accepts an empty table", func() {
		s, err := NewStarSystem("nothing", nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(s.DefaultView()).To(BeEmpty())
	})
})

var _ = Describe("SolarSystem", func() {
	var eng *physics.Engine

	BeforeEach(func() {
		eng = setup(SolarSystem())
	})

	It("registers the Sun, ten orbiting bodies and the Moon", func() {
		Expect(eng.Len()).To(Equal(11))
		Expect(eng.Bodies()[0].State().Name).To(Equal("Sun"))
	})

	It("places Earth at periapsis around a resting Sun", func() {
		sun := celestial(eng, "Sun")
		Expect(sun.Position).To(Equal(dynamo.Zero))
		Expect(sun.Tracker).To(BeAssignableToTypeOf(&physics.LinearTracker{}))

		earth := celestial(eng, "Earth")
		Expect(earth.Parent).To(BeIdenticalTo(sun))
		Expect(earth.Position.Length()).To(BeNumerically("~", 149.6e9*(1-0.017), 1))
		Expect(earth.Tracker).To(BeAssignableToTypeOf(&physics.AngularTracker{}))
	})

	It("places the Moon around Earth", func() {
		earth := celestial(eng, "Earth")
		moon := celestial(eng, "Moon")
		Expect(moon.Parent).To(BeIdenticalTo(earth))
		Expect(moon.Kind).To(Equal(physics.Moon))
		Expect(moon.Position.Distance(earth.Position)).To(BeNumerically("~", 0.384e9*(1-0.055), 1))
		Expect(moon.Velocity.Sub(earth.Velocity).Length()).To(BeNumerically("~", 1.07e3, 50))
	})

	It("spins Venus backwards", func() {
		Expect(celestial(eng, "Venus").RotationSpeed).To(BeNumerically("<", 0))
	})

	It("gives Saturn rings", func() {
		Expect(celestial(eng, "Saturn").Rings).To(HaveLen(3))
	})

	It("keeps the Moon bound to Earth over a month", func() {
		for i := 0; i < 30; i++ {
			Expect(eng.Simulate(dynamo.SecondsInDay)).To(Succeed())
		}
		d := celestial(eng, "Moon").Position.Distance(celestial(eng, "Earth").Position)
		Expect(d).To(BeNumerically(">", 0.3e9))
		Expect(d).To(BeNumerically("<", 0.45e9))
	})

	It("centres on the Sun by default and uses the default speeds", func() {
		s, _ := SolarSystem()
		Expect(s.DefaultView()).To(Equal("Sun"))
		Expect(SpeedIntervals(s)).To(Equal(DefaultSpeedIntervals))
		_, ok := s.StepSettings()
		Expect(ok).To(BeFalse())
	})
})

var _ = Describe("Trappist1", func() {
	It("has seven planets, its own speeds and no step stretching", func() {
		s, err := Trappist1()
		Expect(err).NotTo(HaveOccurred())
		eng := setup(s, nil)
		Expect(eng.Len()).To(Equal(8))

		Expect(s.SpeedIntervals()).To(HaveLen(11))
		Expect(s.SpeedIntervals()[10]).To(Equal(5 * 24 * 3600))

		step, ok := s.StepSettings()
		Expect(ok).To(BeTrue())
		Expect(step).To(Equal(physics.StepSettings{MaxStep: 3600, MaxIterations: 0}))
		Expect(step.StepFor(5 * 24 * 3600)).To(Equal(3600.0))

		b := celestial(eng, "TRAPPIST-1b")
		Expect(b.Position.Length()).To(BeNumerically("~", 0.01154*dynamo.AstronomicalUnit, 1))
	})
})

var _ = Describe("BinaryStars", func() {
	It("uses raw state vectors and distance trails", func() {
		s, err := BinaryStars()
		Expect(err).NotTo(HaveOccurred())
		eng := setup(s, nil)
		Expect(eng.Len()).To(Equal(3))

		for _, b := range eng.Bodies() {
			c := b.(*physics.CelestialBody)
			Expect(c.Parent).To(BeNil())
			Expect(c.HasOrbit).To(BeFalse())
			Expect(c.Tracker).To(BeAssignableToTypeOf(&physics.LinearTracker{}))
		}
		Expect(celestial(eng, "Star #2").Velocity).To(Equal(dynamo.Vec(0, -20e3, 0)))

		Expect(s.DefaultView()).To(BeEmpty())
		d, ok := s.DefaultCameraDistance()
		Expect(ok).To(BeTrue())
		Expect(d).To(BeNumerically(">", 0))
	})

	It("has zero net momentum from the stars", func() {
		eng := setup(BinaryStars())
		p := physics.TotalMomentum(eng.Bodies())
		Expect(p.Length()).To(BeNumerically("<", 1))
	})
})

var _ = Describe("EmptySpace", func() {
	It("adds nothing", func() {
		eng := setup(EmptySpace(), nil)
		Expect(eng.Len()).To(BeZero())
		Expect(eng.Simulate(3600)).To(Succeed())
	})
})

var _ = Describe("Retrack", func() {
	It("overrides every trail", func() {
		s, err := SolarSystem()
		Expect(err).NotTo(HaveOccurred())
		r, err := Retrack(s, physics.TrackerOptions{MaxAngle: 30})
		Expect(err).NotTo(HaveOccurred())
		eng := setup(r, nil)

		tracker, ok := celestial(eng, "Earth").Tracker.(*physics.AngularTracker)
		Expect(ok).To(BeTrue())
		Expect(tracker.MaxAngle).To(Equal(30.0))
		Expect(tracker.MinimumAngleIncrement).To(Equal(float64(physics.DefaultMinimumAngleIncrement)))
		Expect(celestial(eng, "Sun").Tracker.Len()).To(Equal(1))
	})

	It("leaves the scenario alone without options", func() {
		s, err := SolarSystem()
		Expect(err).NotTo(HaveOccurred())
		Expect(Retrack(s, physics.TrackerOptions{})).To(BeIdenticalTo(s))
	})

	It("refuses a window of a full turn or more", func() {
		s, err := SolarSystem()
		Expect(err).NotTo(HaveOccurred())
		_, err = Retrack(s, physics.TrackerOptions{MaxAngle: 400})
		Expect(err).To(MatchError(dynamo.ErrParameterBounds))
	})
})

var _ = Describe("Almanac", func() {
	It("seeds planets from the ephemeris", func() {
		date := time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)
		s, err := Almanac(date)
		Expect(err).NotTo(HaveOccurred())
		Expect(s.Name()).To(ContainSubstring("2024-01-03"))
		eng := setup(s, nil)
		Expect(eng.Len()).To(Equal(11))

		earth := celestial(eng, "Earth")
		Expect(earth.Position.Length() / dynamo.AstronomicalUnit).To(BeNumerically("~", 0.9833, 0.001))
		Expect(earth.OrbitRadius).To(BeNumerically("~", dynamo.AstronomicalUnit, 1))

		moon := celestial(eng, "Moon")
		Expect(moon.Position.Distance(earth.Position)).To(BeNumerically("~", 0.384e9*(1-0.055), 1))

		pluto := celestial(eng, "Pluto")
		Expect(pluto.Position.Length()).To(BeNumerically("~", 5906.4e9*(1-0.244), 1e3))
	})
})

var _ = Describe("Registry", func() {
	var r *Registry

	BeforeEach(func() {
		r = NewRegistry(nil)
	})

	It("lists the built-ins", func() {
		Expect(r.List()).To(ContainElements("solar-system", "trappist-1", "binary-stars", "empty", "almanac", "solar-system-long-trails"))
	})

	It("builds the long trail variant with a 270 degree window", func() {
		s, err := r.Get("solar-system-long-trails")
		Expect(err).NotTo(HaveOccurred())
		eng := setup(s, nil)
		tr := celestial(eng, "Earth").Tracker.(*physics.AngularTracker)
		Expect(tr.MaxAngle).To(Equal(270.0))
	})

	It("fails on unknown names", func() {
		_, err := r.Get("andromeda")
		Expect(err).To(MatchError(dynamo.ErrInvalidScenario))
	})

	It("loads YAML files by path", func() {
		path := filepath.Join(GinkgoT().TempDir(), "kepler.yaml")
		Expect(os.WriteFile(path, []byte(keplerYAML), 0o644)).To(Succeed())

		s, err := r.Get(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(s.Name()).To(Equal("Kepler-16"))
	})
})

const keplerYAML = `
name: Kepler-16
view: ""
camera_distance: 1.5e11
speed_intervals: [0, 3600, 86400]
step:
  max_step: 1800
  max_iterations: 50
tracker:
  max_angle: 180
bodies:
  - name: Kepler-16A
    kind: star
    mass: 1.36e30
    diameter: 9.05e8
  - name: Kepler-16b
    kind: planet
    mass: 6.3e26
    diameter: 1.1e8
    distance_au: 0.7048
    eccentricity: 0.0069
    inclination: 0.3
    moons:
      - name: Kepler-16b I
        kind: moon
        mass: 1e22
        diameter: 3e6
        distance: 1e9
free_bodies:
  - name: Rogue
    kind: planet
    mass: 6e24
    diameter: 1.2e7
    position: [3e11, 0, 0]
    velocity: [0, -1e3, 0]
`

var _ = Describe("Parse", func() {
	It("reads every section of a scenario file", func() {
		s, err := Parse([]byte(keplerYAML))
		Expect(err).NotTo(HaveOccurred())

		Expect(s.DefaultView()).To(BeEmpty())
		d, ok := s.DefaultCameraDistance()
		Expect(ok).To(BeTrue())
		Expect(d).To(Equal(1.5e11))
		Expect(s.SpeedIntervals()).To(Equal([]int{0, 3600, 86400}))
		step, ok := s.StepSettings()
		Expect(ok).To(BeTrue())
		Expect(step.MaxIterations).To(Equal(50))

		eng := setup(s, nil)
		Expect(eng.Len()).To(Equal(4))

		planet := celestial(eng, "Kepler-16b")
		Expect(planet.OrbitRadius).To(BeNumerically("~", 0.7048*dynamo.AstronomicalUnit, 1))
		Expect(planet.Tracker.(*physics.AngularTracker).MaxAngle).To(Equal(180.0))

		rogue := celestial(eng, "Rogue")
		Expect(rogue.Position).To(Equal(dynamo.Vec(3e11, 0, 0)))
		Expect(rogue.Tracker).To(BeAssignableToTypeOf(&physics.LinearTracker{}))
	})

	It("rejects unknown kinds", func() {
		_, err := Parse([]byte("name: x\nbodies:\n  - name: a\n    kind: nebula\n    mass: 1\n"))
		Expect(err).To(MatchError(dynamo.ErrInvalidScenario))
	})

	It("rejects a tracker window of 400 degrees", func() {
		_, err := Parse([]byte("name: x\ntracker:\n  max_angle: 400\nbodies:\n  - name: a\n    kind: star\n    mass: 1\n"))
		Expect(err).To(MatchError(dynamo.ErrParameterBounds))
	})

	It("rejects an infinite mass", func() {
		_, err := Parse([]byte("name: x\nbodies:\n  - name: a\n    kind: star\n    mass: .inf\n"))
		Expect(err).To(MatchError(dynamo.ErrInvalidScenario))
	})

	It("rejects malformed YAML", func() {
		_, err := Parse([]byte("bodies: [unclosed"))
		Expect(err).To(MatchError(dynamo.ErrInvalidScenario))
	})
})

var _ = DescribeTable("InterpolateSpeed",
	func(slider, want float64) {
		Expect(InterpolateSpeed(DefaultSpeedIntervals, slider)).To(BeNumerically("~", want, 1e-9))
	},
	Entry("paused", 0.0, 0.0),
	Entry("one second", 1.0, 1.0),
	Entry("between 1 and 10", 1.5, 5.5),
	Entry("a day", 7.0, 86400.0),
	Entry("clamped high", 99.0, 100*86400.0),
	Entry("clamped low", -3.0, 0.0),
	Entry("NaN", math.NaN(), 0.0),
)

var _ = Describe("SliderFor", func() {
	It("inverts InterpolateSpeed", func() {
		for _, slider := range []float64{0, 0.25, 1, 3.5, 7, 9.9, 10} {
			speed := InterpolateSpeed(DefaultSpeedIntervals, slider)
			Expect(SliderFor(DefaultSpeedIntervals, speed)).To(BeNumerically("~", slider, 1e-9))
		}
	})
})
