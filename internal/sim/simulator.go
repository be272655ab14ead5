package sim

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/metrics"
	"github.com/san-kum/orbitsim/internal/physics"
	"github.com/san-kum/orbitsim/internal/scenario"
	"github.com/san-kum/orbitsim/internal/storage"
)

// Simulator runs a scenario headless, recording samples and metrics.
type Simulator struct {
	scn       scenario.Scenario
	metrics   metrics.Set
	observers []physics.Observer
}

func New(scn scenario.Scenario) *Simulator {
	return &Simulator{scn: scn}
}

func (s *Simulator) AddMetric(m metrics.Metric)      { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o physics.Observer) { s.observers = append(s.observers, o) }

// Run builds a fresh engine and advances it frame by frame until
// cfg.Duration. On cancellation it returns what was recorded so far along
// with ctx.Err().
func (s *Simulator) Run(ctx context.Context, cfg Config) (*Outcome, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	eng := physics.NewEngine()
	eng.SetScheme(cfg.Scheme)
	if err := eng.SetMaxSimulationStep(cfg.Frame, cfg.Settings); err != nil {
		return nil, err
	}

	s.metrics.Reset()
	rec := storage.NewRecorder(cfg.SampleEvery)
	eng.AddObserver(s.metrics)
	eng.AddObserver(rec)
	for _, o := range s.observers {
		eng.AddObserver(o)
	}

	if err := s.scn.Setup(eng); err != nil {
		return nil, fmt.Errorf("setting up %s: %w", s.scn.Name(), err)
	}
	rec.Record(0, eng.Bodies())

	out := &Outcome{}
	start := time.Now()
	finish := func() *Outcome {
		out.Result = rec.Finish(eng.Bodies(), s.metrics.Values())
		out.SimulationTime = eng.SimulationTime()
		out.Steps = eng.Steps()
		out.Elapsed = time.Since(start)
		return out
	}

	eps := cfg.Duration * 1e-12
	for {
		remaining := cfg.Duration - eng.SimulationTime()
		if remaining <= eps {
			break
		}

		select {
		case <-ctx.Done():
			return finish(), ctx.Err()
		default:
		}

		if err := eng.Simulate(math.Min(cfg.Frame, remaining)); err != nil {
			out.Errors = append(out.Errors, unjoin(err)...)
		}
		out.Frames++
	}

	return finish(), nil
}

func unjoin(err error) []error {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		return joined.Unwrap()
	}
	return []error{err}
}

// Rollbacks counts the errors that are rolled back bodies.
func (o *Outcome) Rollbacks() int {
	n := 0
	for _, err := range o.Errors {
		var se *dynamo.SimulationError
		if errors.As(err, &se) {
			n++
		}
	}
	return n
}
