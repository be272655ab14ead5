package metrics

import (
	"math"

	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/physics"
)

// vectorDrift tracks the largest deviation of a conserved vector from its
// first sample, relative to a scale taken from the first sample.
type vectorDrift struct {
	name     string
	measure  func([]physics.Body) (v dynamo.Vector3d, scale float64)
	initial  dynamo.Vector3d
	scale    float64
	maxDrift float64
	samples  int
}

func (d *vectorDrift) Name() string { return d.name }

func (d *vectorDrift) Observe(t float64, bodies []physics.Body) {
	v, scale := d.measure(bodies)
	if d.samples == 0 {
		d.initial, d.scale = v, scale
	}
	d.samples++
	if d.scale > 0 {
		d.maxDrift = math.Max(d.maxDrift, v.Distance(d.initial)/d.scale)
	}
}

func (d *vectorDrift) Value() float64 { return d.maxDrift }

func (d *vectorDrift) Reset() {
	d.initial = dynamo.Zero
	d.scale = 0
	d.maxDrift = 0
	d.samples = 0
}

// MomentumDrift compares total momentum against the sum of the momentum
// magnitudes, so a system at rest in its barycentre still has a scale.
type MomentumDrift struct{ vectorDrift }

func NewMomentumDrift() *MomentumDrift {
	return &MomentumDrift{vectorDrift{
		name: "momentum_drift",
		measure: func(bodies []physics.Body) (dynamo.Vector3d, float64) {
			scale := 0.0
			for _, b := range bodies {
				scale += b.State().Momentum().Length()
			}
			return physics.TotalMomentum(bodies), scale
		},
	}}
}

type AngularMomentumDrift struct{ vectorDrift }

func NewAngularMomentumDrift() *AngularMomentumDrift {
	return &AngularMomentumDrift{vectorDrift{
		name: "angular_momentum_drift",
		measure: func(bodies []physics.Body) (dynamo.Vector3d, float64) {
			l := physics.TotalAngularMomentum(bodies)
			return l, l.Length()
		},
	}}
}
