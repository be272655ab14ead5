package metrics

import (
	"github.com/san-kum/orbitsim/internal/physics"
)

// ThrustEffort is the mean magnitude of non-gravitational force per sample,
// summed over bodies, in newtons.
type ThrustEffort struct {
	name    string
	sum     float64
	samples int
}

func NewThrustEffort() *ThrustEffort {
	return &ThrustEffort{
		name: "thrust_effort",
	}
}

func (c *ThrustEffort) Name() string {
	return c.name
}

func (c *ThrustEffort) Observe(t float64, bodies []physics.Body) {
	for _, b := range bodies {
		c.sum += b.AdditionalForce().Length()
	}
	c.samples++
}

func (c *ThrustEffort) Value() float64 {
	if c.samples == 0 {
		return 0
	}
	return c.sum / float64(c.samples)
}

func (c *ThrustEffort) Reset() {
	c.sum = 0
	c.samples = 0
}
