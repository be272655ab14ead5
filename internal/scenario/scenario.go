// Package scenario builds ready-to-run star systems for the physics engine.
package scenario

import (
	"github.com/san-kum/orbitsim/internal/physics"
)

// Scenario populates an engine and carries presentation hints for it.
type Scenario interface {
	Name() string
	// Setup adds the scenario's bodies to eng, already initialized.
	Setup(eng *physics.Engine) error
	// DefaultView names the body to centre on, or "" for none.
	DefaultView() string
	// DefaultCameraDistance is used when there is no default view, in meters.
	DefaultCameraDistance() (float64, bool)
	// SpeedIntervals are simulated seconds per real second for each slider
	// stop; nil means DefaultSpeedIntervals.
	SpeedIntervals() []int
	// StepSettings override the engine's sub-step policy when ok is true.
	StepSettings() (settings physics.StepSettings, ok bool)
}

// Empty is a scenario with no bodies.
type Empty struct{}

func EmptySpace() Scenario { return Empty{} }

func (Empty) Name() string                               { return "Empty space" }
func (Empty) Setup(*physics.Engine) error                { return nil }
func (Empty) DefaultView() string                        { return "" }
func (Empty) DefaultCameraDistance() (float64, bool)     { return 0, false }
func (Empty) SpeedIntervals() []int                      { return nil }
func (Empty) StepSettings() (physics.StepSettings, bool) { return physics.StepSettings{}, false }

// Retrack wraps s so that every celestial body it sets up uses opts for its
// trail. Zero options return s unchanged.
func Retrack(s Scenario, opts physics.TrackerOptions) (Scenario, error) {
	if opts == (physics.TrackerOptions{}) {
		return s, nil
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return retracked{Scenario: s, opts: opts}, nil
}

type retracked struct {
	Scenario
	opts physics.TrackerOptions
}

func (r retracked) Setup(eng *physics.Engine) error {
	if err := r.Scenario.Setup(eng); err != nil {
		return err
	}
	for _, b := range eng.Bodies() {
		if cb, ok := b.(*physics.CelestialBody); ok {
			cb.TrackerOptions = r.opts
			cb.Initialize()
		}
	}
	return nil
}
