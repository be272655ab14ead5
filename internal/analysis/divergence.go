package analysis

import (
	"fmt"
	"math"

	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/physics"
)

// Builder returns a freshly set-up engine. It is called once per run so
// that runs do not share state.
type Builder func() (*physics.Engine, error)

// Divergence estimates the largest Lyapunov exponent (1/s) by running two
// copies of a system, the second with body displaced by perturbation meters
// along X. After every step the separation is measured over all bodies and
// the copy is pulled back to the initial distance.
func Divergence(build Builder, body string, perturbation, step, duration float64) (float64, error) {
	if !(perturbation > 0) || !(step > 0) || !(duration >= step) {
		return 0, fmt.Errorf("%w: perturbation, step and duration must be positive", dynamo.ErrParameterBounds)
	}

	ref, err := build()
	if err != nil {
		return 0, err
	}
	pert, err := build()
	if err != nil {
		return 0, err
	}
	if ref.Len() != pert.Len() {
		return 0, fmt.Errorf("%w: builder is not deterministic", dynamo.ErrInvalidScenario)
	}

	b, err := pert.Body(body)
	if err != nil {
		return 0, err
	}
	b.State().Position.X += perturbation

	d0 := perturbation
	sumLog := 0.0
	t := 0.0

	for t+step <= duration {
		if err := ref.Simulate(step); err != nil {
			return 0, err
		}
		if err := pert.Simulate(step); err != nil {
			return 0, err
		}
		t += step

		sep := separation(ref.Bodies(), pert.Bodies())
		if sep > 0 {
			sumLog += math.Log(sep / d0)
			renormalize(ref.Bodies(), pert.Bodies(), d0/sep)
		}
	}

	if t == 0 {
		return 0, nil
	}
	return sumLog / t, nil
}

// separation is the phase-space distance between two copies, counting
// positions only.
func separation(a, b []physics.Body) float64 {
	sum := 0.0
	for i := range a {
		sum += a[i].State().Position.Sub(b[i].State().Position).LengthSquared()
	}
	return math.Sqrt(sum)
}

func renormalize(ref, pert []physics.Body, scale float64) {
	for i := range ref {
		r, p := ref[i].State(), pert[i].State()
		p.Position = r.Position.Add(p.Position.Sub(r.Position).Scale(scale))
		p.Velocity = r.Velocity.Add(p.Velocity.Sub(r.Velocity).Scale(scale))
	}
}
