package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/san-kum/orbitsim/internal/physics"
)

// Collector exports engine state as Prometheus metrics. It implements
// physics.Observer.
type Collector struct {
	simulationTime *prometheus.GaugeVec
	bodies         *prometheus.GaugeVec
	totalEnergy    *prometheus.GaugeVec
	energyDrift    *prometheus.GaugeVec
	parentDistance *prometheus.GaugeVec
	trailEntries   *prometheus.GaugeVec
	frameDuration  *prometheus.HistogramVec
	errorsTotal    *prometheus.CounterVec

	scenario string
	drift    *EnergyDrift
}

// NewCollector registers the collectors with reg; a nil reg uses the
// default registerer.
func NewCollector(reg prometheus.Registerer, scenario string) *Collector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	c := &Collector{
		simulationTime: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "orbitsim_simulation_time_seconds",
				Help: "Simulated time since the start of the run.",
			},
			[]string{"scenario"},
		),
		bodies: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "orbitsim_bodies",
				Help: "Number of bodies in the engine.",
			},
			[]string{"scenario"},
		),
		totalEnergy: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "orbitsim_total_energy_joules",
				Help: "Kinetic plus potential energy of the system.",
			},
			[]string{"scenario"},
		),
		energyDrift: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "orbitsim_energy_drift_ratio",
				Help: "Relative deviation of total energy from the start of the run.",
			},
			[]string{"scenario"},
		),
		parentDistance: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "orbitsim_parent_distance_meters",
				Help: "Distance of each orbiting body from its parent.",
			},
			[]string{"scenario", "body"},
		),
		trailEntries: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "orbitsim_trail_entries",
				Help: "Number of points held by each body's trajectory tracker.",
			},
			[]string{"scenario", "body"},
		),
		frameDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "orbitsim_frame_duration_seconds",
				Help:    "Wall time spent simulating one frame.",
				Buckets: prometheus.ExponentialBuckets(1e-5, 4, 10),
			},
			[]string{"scenario"},
		),
		errorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "orbitsim_simulation_errors_total",
				Help: "Bodies rolled back after a non-finite update.",
			},
			[]string{"scenario"},
		),
		scenario: scenario,
		drift:    NewEnergyDrift(),
	}

	reg.MustRegister(
		c.simulationTime,
		c.bodies,
		c.totalEnergy,
		c.energyDrift,
		c.parentDistance,
		c.trailEntries,
		c.frameDuration,
		c.errorsTotal,
	)
	return c
}

func (c *Collector) OnStep(t float64, bodies []physics.Body) {
	c.drift.Observe(t, bodies)

	c.simulationTime.WithLabelValues(c.scenario).Set(t)
	c.bodies.WithLabelValues(c.scenario).Set(float64(len(bodies)))
	c.totalEnergy.WithLabelValues(c.scenario).Set(c.drift.currentEnergy)
	c.energyDrift.WithLabelValues(c.scenario).Set(c.drift.Current())

	for _, b := range bodies {
		cb, ok := b.(*physics.CelestialBody)
		if !ok {
			continue
		}
		if cb.Parent != nil {
			c.parentDistance.WithLabelValues(c.scenario, cb.Name).Set(cb.Position.Distance(cb.Parent.Position))
		}
		if cb.Tracker != nil {
			c.trailEntries.WithLabelValues(c.scenario, cb.Name).Set(float64(cb.Tracker.Len()))
		}
	}
}

// ObserveFrame records the wall time of one Simulate call and the number of
// bodies it rolled back.
func (c *Collector) ObserveFrame(d time.Duration, rolledBack int) {
	c.frameDuration.WithLabelValues(c.scenario).Observe(d.Seconds())
	if rolledBack > 0 {
		c.errorsTotal.WithLabelValues(c.scenario).Add(float64(rolledBack))
	}
}

// Handler serves the metrics gathered by g; nil means the default gatherer.
func Handler(g prometheus.Gatherer) http.Handler {
	if g == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
