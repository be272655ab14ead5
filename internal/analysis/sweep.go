package analysis

import (
	"github.com/san-kum/orbitsim/internal/metrics"
)

// SweepPoint is the outcome of one run of a step sweep.
type SweepPoint struct {
	MaxStep     float64
	EnergyDrift float64
	Steps       int
}

// sweepFrames is how many times energy is sampled per run.
const sweepFrames = 100

// StepSweep runs a fresh system for each maximum time step and records the
// largest relative energy drift over duration.
func StepSweep(build Builder, steps []float64, duration float64) ([]SweepPoint, error) {
	results := make([]SweepPoint, 0, len(steps))

	for _, step := range steps {
		eng, err := build()
		if err != nil {
			return nil, err
		}
		if err := eng.SetMaxSimulationTimeStep(step); err != nil {
			return nil, err
		}

		drift := metrics.NewEnergyDrift()
		drift.Observe(eng.SimulationTime(), eng.Bodies())
		eng.AddObserver(metrics.Set{drift})

		frame := duration / sweepFrames
		for i := 0; i < sweepFrames; i++ {
			if err := eng.Simulate(frame); err != nil {
				return nil, err
			}
		}

		results = append(results, SweepPoint{
			MaxStep:     step,
			EnergyDrift: drift.Value(),
			Steps:       eng.Steps(),
		})
	}

	return results, nil
}
