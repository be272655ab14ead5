package sim

import (
	"fmt"
	"time"

	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/physics"
	"github.com/san-kum/orbitsim/internal/storage"
)

// Config describes one headless run. Frame is the simulated time handed to
// each Simulate call; observers see the engine once per frame.
type Config struct {
	Duration    float64
	Frame       float64
	Settings    physics.StepSettings
	Scheme      physics.Scheme
	SampleEvery int
}

func (c Config) validate() error {
	if !(c.Duration > 0) {
		return fmt.Errorf("%w: duration must be positive, got %g", dynamo.ErrParameterBounds, c.Duration)
	}
	if !(c.Frame > 0) {
		return fmt.Errorf("%w: frame must be positive, got %g", dynamo.ErrParameterBounds, c.Frame)
	}
	if c.SampleEvery < 0 {
		return fmt.Errorf("%w: sample every %d", dynamo.ErrParameterBounds, c.SampleEvery)
	}
	return c.Settings.Validate()
}

// Outcome is what a finished run produced.
type Outcome struct {
	Result         *storage.Result
	SimulationTime float64
	Steps          int
	Frames         int
	Elapsed        time.Duration
	// Errors holds one entry per rolled back body per frame.
	Errors []error
}
