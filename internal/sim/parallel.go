package sim

import (
	"context"
	"sync"

	"github.com/san-kum/orbitsim/internal/metrics"
	"github.com/san-kum/orbitsim/internal/scenario"
)

// Ensemble runs one scenario under several configurations at once, e.g.
// to compare integration schemes. Every run gets its own engine and its
// own metric set from newMetrics.
type Ensemble struct {
	scn        scenario.Scenario
	newMetrics func() metrics.Set
}

func NewEnsemble(scn scenario.Scenario, newMetrics func() metrics.Set) *Ensemble {
	return &Ensemble{scn: scn, newMetrics: newMetrics}
}

// Run returns one outcome per configuration, in order.
func (e *Ensemble) Run(ctx context.Context, configs ...Config) ([]*Outcome, error) {
	results := make([]*Outcome, len(configs))
	errs := make([]error, len(configs))

	var wg sync.WaitGroup
	for i, cfg := range configs {
		wg.Add(1)
		go func(idx int, cfg Config) {
			defer wg.Done()

			s := New(e.scn)
			if e.newMetrics != nil {
				for _, m := range e.newMetrics() {
					s.AddMetric(m)
				}
			}

			results[idx], errs[idx] = s.Run(ctx, cfg)
		}(i, cfg)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}
