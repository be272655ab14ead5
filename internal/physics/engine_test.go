package physics

import (
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/orbit"
)

// thruster is a body with a constant extra force.
type thruster struct {
	MassBody
	force dynamo.Vector3d
}

func (t *thruster) AdditionalForce() dynamo.Vector3d { return t.force }

func sunAndPlanet(a, e float64) (*CelestialBody, *CelestialBody) {
	sun := &CelestialBody{MassBody: MassBody{Name: "Sun", Mass: dynamo.MassOfSun}, Kind: Star}
	planet := &CelestialBody{
		MassBody:            MassBody{Name: "Earth", Mass: dynamo.MassOfEarth},
		Kind:                Planet,
		Parent:              sun,
		OrbitRadius:         a,
		OrbitalEccentricity: e,
	}
	Expect(planet.PlaceOnOrbit()).To(Succeed())
	sun.Initialize()
	planet.Initialize()
	return sun, planet
}

var _ = Describe("Engine", func() {
	var eng *Engine

	BeforeEach(func() {
		eng = NewEngine()
	})

	Describe("AddBody", func() {
		It("rejects non-finite state", func() {
			b := &MassBody{Name: "bad", Mass: 1, Velocity: dynamo.Vec(math.NaN(), 0, 0)}
			Expect(eng.AddBody(b)).To(MatchError(dynamo.ErrInvalidState))
			Expect(eng.Len()).To(BeZero())
		})

		It("rejects non-positive mass", func() {
			Expect(eng.AddBody(&MassBody{Name: "ghost"})).To(MatchError(dynamo.ErrParameterBounds))
		})

		It("rejects duplicate names", func() {
			Expect(eng.AddBody(&MassBody{Name: "a", Mass: 1})).To(Succeed())
			Expect(eng.AddBody(&MassBody{Name: "a", Mass: 2})).To(MatchError(dynamo.ErrDuplicateBody))
		})

		It("looks bodies up by name", func() {
			Expect(eng.AddBody(&MassBody{Name: "a", Mass: 1})).To(Succeed())
			b, err := eng.Body("a")
			Expect(err).NotTo(HaveOccurred())
			Expect(b.State().Name).To(Equal("a"))

			_, err = eng.Body("nope")
			Expect(err).To(MatchError(dynamo.ErrUnknownBody))
		})
	})

	Describe("Simulate", func() {
		It("splits the interval into sub-steps no longer than the max step", func() {
			Expect(eng.AddBody(&MassBody{Name: "a", Mass: 1})).To(Succeed())
			Expect(eng.SetMaxSimulationTimeStep(1000)).To(Succeed())

			Expect(eng.Simulate(3500)).To(Succeed())
			Expect(eng.Steps()).To(Equal(4))
			Expect(eng.SimulationTime()).To(BeNumerically("~", 3500, 1e-9))
		})

		It("rejects a negative interval", func() {
			Expect(eng.Simulate(-1)).To(MatchError(dynamo.ErrParameterBounds))
		})

		It("updates trails once per call, not per sub-step", func() {
			_, planet := sunAndPlanet(dynamo.AstronomicalUnit, 0)
			Expect(eng.AddBody(planet.Parent)).To(Succeed())
			Expect(eng.AddBody(planet)).To(Succeed())
			Expect(eng.SetMaxSimulationTimeStep(60)).To(Succeed())

			// ~10 degrees of arc in one call
			Expect(eng.Simulate(10 * dynamo.SecondsInDay)).To(Succeed())
			Expect(planet.Tracker.Len()).To(Equal(2))
		})

		It("applies additional forces", func() {
			b := &thruster{MassBody: MassBody{Name: "probe", Mass: 2}, force: dynamo.Vec(4, 0, 0)}
			Expect(eng.AddBody(b)).To(Succeed())
			Expect(eng.Simulate(1)).To(Succeed())
			Expect(b.Acceleration).To(Equal(dynamo.Vec(2, 0, 0)))
			Expect(b.Velocity).To(Equal(dynamo.Vec(2, 0, 0)))
			Expect(b.Position).To(Equal(dynamo.Vec(2, 0, 0)))
		})

		It("notifies observers after each call", func() {
			var times []float64
			eng.AddObserver(ObserverFunc(func(t float64, bodies []Body) {
				times = append(times, t)
				Expect(bodies).To(HaveLen(1))
			}))
			Expect(eng.AddBody(&MassBody{Name: "a", Mass: 1})).To(Succeed())
			Expect(eng.Simulate(7200)).To(Succeed())
			Expect(eng.Simulate(3600)).To(Succeed())
			Expect(times).To(Equal([]float64{7200, 10800}))
		})
	})

	Describe("invariant policy", func() {
		It("rolls back a body that turns non-finite and keeps the rest moving", func() {
			bad := &thruster{MassBody: MassBody{Name: "bad", Mass: 1, Position: dynamo.Vec(1e6, 0, 0)}, force: dynamo.Vec(math.Inf(1), 0, 0)}
			good := &MassBody{Name: "good", Mass: 1, Velocity: dynamo.Vec(0, 1, 0)}
			Expect(eng.AddBody(bad)).To(Succeed())
			Expect(eng.AddBody(good)).To(Succeed())

			err := eng.Simulate(10)

			Expect(err).To(MatchError(dynamo.ErrInvalidState))
			var se *dynamo.SimulationError
			Expect(errors.As(err, &se)).To(BeTrue())
			Expect(se.Body).To(Equal("bad"))

			Expect(bad.Position).To(Equal(dynamo.Vec(1e6, 0, 0)))
			Expect(bad.Velocity.IsFinite()).To(BeTrue())
			Expect(good.Position.Y).To(BeNumerically("~", 10, 1e-9))
		})

		It("restores rotation along with the kinematic state", func() {
			b := &CelestialBody{
				MassBody:      MassBody{Name: "runaway", Mass: 1, Velocity: dynamo.Vec(math.MaxFloat64, 0, 0)},
				Kind:          Planet,
				RotationSpeed: 1,
				Rotation:      45,
			}
			Expect(eng.AddBody(b)).To(Succeed())

			Expect(eng.Simulate(10)).To(MatchError(dynamo.ErrInvalidState))
			Expect(b.Position).To(Equal(dynamo.Zero))
			Expect(b.Velocity).To(Equal(dynamo.Vec(math.MaxFloat64, 0, 0)))
			Expect(b.Rotation).To(Equal(45.0))
		})

		It("ignores a coincident pair instead of producing NaN", func() {
			Expect(eng.AddBody(&MassBody{Name: "a", Mass: 1e20})).To(Succeed())
			Expect(eng.AddBody(&MassBody{Name: "b", Mass: 1e20})).To(Succeed())
			Expect(eng.Simulate(100)).To(Succeed())
			for _, b := range eng.Bodies() {
				Expect(b.State().Position).To(Equal(dynamo.Zero))
				Expect(b.State().TotalGravitationalForce).To(Equal(dynamo.Zero))
			}
		})
	})

	Describe("Newton's third law", func() {
		It("accumulates exactly opposite forces for a pair", func() {
			a := &MassBody{Name: "a", Mass: 3e24, Position: dynamo.Vec(1.3e9, -2e8, 7e7)}
			b := &MassBody{Name: "b", Mass: 7e22, Position: dynamo.Vec(-4e8, 9e8, 1e6)}
			Expect(eng.AddBody(a)).To(Succeed())
			Expect(eng.AddBody(b)).To(Succeed())

			eng.accumulateForces()

			Expect(a.TotalGravitationalForce).To(Equal(b.TotalGravitationalForce.Neg()))
			Expect(a.TotalGravitationalForce.Length()).To(BeNumerically(">", 0))
		})

		It("points the force from one body towards the other", func() {
			a := &MassBody{Name: "a", Mass: 1, Position: dynamo.Zero}
			b := &MassBody{Name: "b", Mass: 1, Position: dynamo.Vec(2, 0, 0)}
			f := pairForce(a, b)
			Expect(f.X).To(BeNumerically("~", dynamo.GravitationalConstant/4, 1e-25))
			Expect(f.Y).To(BeZero())
		})
	})

	Describe("momentum", func() {
		It("is conserved for an isolated system", func() {
			bodies := []*MassBody{
				{Name: "a", Mass: 2e30, Position: dynamo.Vec(0, 0, 0), Velocity: dynamo.Vec(0, 1e3, 0)},
				{Name: "b", Mass: 6e24, Position: dynamo.Vec(1.5e11, 0, 0), Velocity: dynamo.Vec(0, 3e4, 0)},
				{Name: "c", Mass: 1e27, Position: dynamo.Vec(0, 7e11, 1e10), Velocity: dynamo.Vec(-1.3e4, 0, 5e2)},
			}
			scale := 0.0
			for _, b := range bodies {
				Expect(eng.AddBody(b)).To(Succeed())
				scale += b.Momentum().Length()
			}

			before := TotalMomentum(eng.Bodies())
			for i := 0; i < 200; i++ {
				Expect(eng.Simulate(6 * 3600)).To(Succeed())
			}
			after := TotalMomentum(eng.Bodies())

			Expect(after.Sub(before).Length() / scale).To(BeNumerically("<", 1e-12))
		})
	})

	Describe("two-body orbit", func() {
		DescribeTable("returns to its start after one period",
			func(maxStep float64) {
				sun, planet := sunAndPlanet(dynamo.AstronomicalUnit, 0)
				Expect(eng.AddBody(sun)).To(Succeed())
				Expect(eng.AddBody(planet)).To(Succeed())
				Expect(eng.SetMaxSimulationTimeStep(maxStep)).To(Succeed())

				start := planet.Position
				period := orbit.Period(dynamo.GravitationalConstant*sun.Mass, dynamo.AstronomicalUnit)
				Expect(eng.Simulate(period)).To(Succeed())

				Expect(planet.Position.Distance(start) / dynamo.AstronomicalUnit).To(BeNumerically("<", 1e-3))
			},
			Entry("ten minute steps", 600.0),
			Entry("hourly steps", 3600.0),
			Entry("six hour steps", 6*3600.0),
		)

		DescribeTable("Sun and Earth period",
			func(scheme Scheme) {
				eng.SetScheme(scheme)
				sun, earth := sunAndPlanet(1.496e11, 0.017)
				Expect(eng.AddBody(sun)).To(Succeed())
				Expect(eng.AddBody(earth)).To(Succeed())

				angle := func() float64 {
					rel := earth.Position.Sub(sun.Position)
					return math.Atan2(rel.Y, rel.X)
				}

				swept, prev := 0.0, angle()
				var period float64
				for i := 0; i < 2*366*24 && period == 0; i++ {
					t0 := eng.SimulationTime()
					Expect(eng.Simulate(3600)).To(Succeed())
					cur := angle()
					d := cur - prev
					if d < -math.Pi {
						d += 2 * math.Pi
					}
					if swept+d >= 2*math.Pi {
						period = t0 + 3600*(2*math.Pi-swept)/d
					}
					swept += d
					prev = cur
				}

				days := period / dynamo.SecondsInDay
				Expect(math.Abs(days-365.25) / 365.25).To(BeNumerically("<", 0.01))
			},
			Entry("semi-implicit Euler", SemiImplicitEuler),
			Entry("leapfrog", Leapfrog),
		)
	})

	Describe("leapfrog", func() {
		It("holds energy tighter than semi-implicit Euler on an eccentric orbit", func() {
			drift := func(s Scheme) float64 {
				e := NewEngine()
				e.SetScheme(s)
				sun, planet := sunAndPlanet(dynamo.AstronomicalUnit, 0.5)
				Expect(e.AddBody(sun)).To(Succeed())
				Expect(e.AddBody(planet)).To(Succeed())
				Expect(e.SetMaxSimulationTimeStep(6 * 3600)).To(Succeed())
				e0 := TotalEnergy(e.Bodies())
				maxDrift := 0.0
				for i := 0; i < 365; i++ {
					Expect(e.Simulate(dynamo.SecondsInDay)).To(Succeed())
					maxDrift = math.Max(maxDrift, math.Abs((TotalEnergy(e.Bodies())-e0)/e0))
				}
				return maxDrift
			}
			Expect(drift(Leapfrog)).To(BeNumerically("<", drift(SemiImplicitEuler)))
		})
	})

	Describe("SetMaxSimulationStep", func() {
		It("stretches the step to cap sub-steps per call", func() {
			Expect(eng.SetMaxSimulationStep(100*dynamo.SecondsInDay, DefaultStepSettings())).To(Succeed())
			Expect(eng.MaxSimulationTimeStep()).To(Equal(dynamo.SecondsInDay))

			Expect(eng.SetMaxSimulationStep(60, DefaultStepSettings())).To(Succeed())
			Expect(eng.MaxSimulationTimeStep()).To(Equal(3600.0))

			Expect(eng.SetMaxSimulationStep(60, StepSettings{})).To(MatchError(dynamo.ErrParameterBounds))
		})
	})

	Describe("Reset", func() {
		It("clears bodies and the clock", func() {
			Expect(eng.AddBody(&MassBody{Name: "a", Mass: 1})).To(Succeed())
			Expect(eng.Simulate(10)).To(Succeed())
			eng.Reset()
			Expect(eng.Len()).To(BeZero())
			Expect(eng.SimulationTime()).To(BeZero())
			Expect(eng.AddBody(&MassBody{Name: "a", Mass: 1})).To(Succeed())
		})
	})
})
