package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for simulation operations.
var (
	// ErrInvalidState indicates a NaN or infinite position, velocity,
	// acceleration or force.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrParameterBounds indicates a parameter value is outside valid range.
	ErrParameterBounds = errors.New("dynamo: parameter out of valid bounds")

	// ErrInvalidScenario indicates a scenario definition that cannot be built.
	ErrInvalidScenario = errors.New("dynamo: invalid scenario")

	// ErrUnknownBody indicates a lookup of a body that is not registered.
	ErrUnknownBody = errors.New("dynamo: unknown body")

	// ErrDuplicateBody indicates a second body registered under a taken name.
	ErrDuplicateBody = errors.New("dynamo: duplicate body name")

	// ErrNotConverged indicates an iterative solver hit its iteration cap.
	ErrNotConverged = errors.New("dynamo: solver did not converge")
)

// SimulationError wraps an error with simulation context.
type SimulationError struct {
	Step    int
	Time    float64
	Body    string
	Wrapped error
}

func (e *SimulationError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("step %d (t=%.1fs): %v", e.Step, e.Time, e.Wrapped)
	}
	return fmt.Sprintf("step %d (t=%.1fs) body %s: %v", e.Step, e.Time, e.Body, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
