package metrics

import (
	"github.com/san-kum/orbitsim/internal/physics"
)

// Bound is the fraction of samples in which every body stayed within radius
// of the centre of mass. A zero radius is taken as ten times the largest
// distance seen in the first sample.
type Bound struct {
	name       string
	radius     float64
	violations int
	samples    int
}

func NewBound(radius float64) *Bound {
	return &Bound{
		name:   "bound",
		radius: radius,
	}
}

func (b *Bound) Name() string {
	return b.name
}

func (b *Bound) Observe(t float64, bodies []physics.Body) {
	com, _ := physics.CenterOfMass(bodies)
	farthest := 0.0
	for _, body := range bodies {
		farthest = max(farthest, body.State().Position.Distance(com))
	}
	if b.radius == 0 {
		b.radius = 10 * farthest
	}

	b.samples++
	if farthest > b.radius {
		b.violations++
	}
}

func (b *Bound) Value() float64 {
	if b.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(b.violations)/float64(b.samples)
}

func (b *Bound) Reset() {
	b.violations = 0
	b.samples = 0
}
