package metrics

import "github.com/san-kum/orbitsim/internal/physics"

// Metric accumulates a scalar over the observed states of a run.
type Metric interface {
	Name() string
	Observe(t float64, bodies []physics.Body)
	Value() float64
	Reset()
}

// Set fans engine notifications out to a list of metrics. It implements
// physics.Observer.
type Set []Metric

func (s Set) OnStep(t float64, bodies []physics.Body) {
	for _, m := range s {
		m.Observe(t, bodies)
	}
}

// Values returns the current value of every metric by name.
func (s Set) Values() map[string]float64 {
	out := make(map[string]float64, len(s))
	for _, m := range s {
		out[m.Name()] = m.Value()
	}
	return out
}

func (s Set) Reset() {
	for _, m := range s {
		m.Reset()
	}
}

// Standard is the metric set recorded for every run.
func Standard() Set {
	return Set{
		NewEnergyDrift(),
		NewMomentumDrift(),
		NewAngularMomentumDrift(),
		NewBound(0),
		NewThrustEffort(),
	}
}
