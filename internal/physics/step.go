package physics

import (
	"fmt"

	"github.com/san-kum/orbitsim/internal/dynamo"
)

const (
	DefaultMaxSimulationTimeStep = 3600 // s
	DefaultMaxIterations         = 100
)

// StepSettings bound the work done per Simulate call. When the requested
// speed would need more than MaxIterations sub-steps of MaxStep, the step is
// stretched to speed/MaxIterations instead. MaxIterations <= 0 disables
// stretching.
type StepSettings struct {
	MaxStep       float64
	MaxIterations int
}

func DefaultStepSettings() StepSettings {
	return StepSettings{MaxStep: DefaultMaxSimulationTimeStep, MaxIterations: DefaultMaxIterations}
}

// StepFor returns the sub-step to use for speed simulated seconds per call.
func (s StepSettings) StepFor(speed float64) float64 {
	if s.MaxIterations > 0 && speed > s.MaxStep*float64(s.MaxIterations) {
		return speed / float64(s.MaxIterations)
	}
	return s.MaxStep
}

func (s StepSettings) Validate() error {
	if !(s.MaxStep > 0) || !isFinite(s.MaxStep) {
		return fmt.Errorf("%w: max step %g must be positive", dynamo.ErrParameterBounds, s.MaxStep)
	}
	if s.MaxIterations < 0 {
		return fmt.Errorf("%w: max iterations %d must not be negative", dynamo.ErrParameterBounds, s.MaxIterations)
	}
	return nil
}

// Scheme selects the update rule of a sub-step.
type Scheme int

const (
	// SemiImplicitEuler updates velocity then position. It reproduces the
	// reference runs and drifts slightly in energy over long runs.
	SemiImplicitEuler Scheme = iota
	// Leapfrog is kick-drift-kick; symplectic and second order.
	Leapfrog
)

func (s Scheme) String() string {
	switch s {
	case SemiImplicitEuler:
		return "euler"
	case Leapfrog:
		return "leapfrog"
	}
	return fmt.Sprintf("scheme(%d)", int(s))
}

func ParseScheme(name string) (Scheme, error) {
	switch name {
	case "", "euler", "semi-implicit-euler":
		return SemiImplicitEuler, nil
	case "leapfrog", "kdk":
		return Leapfrog, nil
	}
	return 0, fmt.Errorf("%w: unknown scheme %q", dynamo.ErrParameterBounds, name)
}
