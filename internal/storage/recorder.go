package storage

import (
	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/physics"
)

// Sample is the state of one body at one instant.
type Sample struct {
	Time           float64
	Body           string
	Parent         string
	Position       dynamo.Vector3d
	Velocity       dynamo.Vector3d
	ParentPosition dynamo.Vector3d
}

// Relative is the position relative to the parent, or the absolute
// position for bodies without one.
func (s Sample) Relative() dynamo.Vector3d {
	return s.Position.Sub(s.ParentPosition)
}

// Result is everything a run leaves behind.
type Result struct {
	Bodies  []string
	Samples []Sample
	Trails  map[string][]dynamo.Vector3d
	Metrics map[string]float64
}

// Series returns the times and parent-relative positions recorded for body.
func (r *Result) Series(body string) (times []float64, rel []dynamo.Vector3d) {
	return Series(r.Samples, body)
}

func Series(samples []Sample, body string) (times []float64, rel []dynamo.Vector3d) {
	for _, s := range samples {
		if s.Body != body {
			continue
		}
		times = append(times, s.Time)
		rel = append(rel, s.Relative())
	}
	return times, rel
}

// Recorder samples engine state every n notifications. It implements
// physics.Observer.
type Recorder struct {
	every  int
	count  int
	result Result
}

func NewRecorder(every int) *Recorder {
	if every < 1 {
		every = 1
	}
	return &Recorder{every: every}
}

func (r *Recorder) OnStep(t float64, bodies []physics.Body) {
	if r.count%r.every == 0 {
		r.Record(t, bodies)
	}
	r.count++
}

// Record appends one sample per body unconditionally.
func (r *Recorder) Record(t float64, bodies []physics.Body) {
	if r.result.Bodies == nil {
		for _, b := range bodies {
			r.result.Bodies = append(r.result.Bodies, b.State().Name)
		}
	}
	for _, b := range bodies {
		s := b.State()
		sample := Sample{
			Time:           t,
			Body:           s.Name,
			Position:       s.Position,
			Velocity:       s.Velocity,
			ParentPosition: dynamo.Zero,
		}
		if cb, ok := b.(*physics.CelestialBody); ok && cb.Parent != nil {
			sample.Parent = cb.Parent.Name
			sample.ParentPosition = cb.Parent.Position
		}
		r.result.Samples = append(r.result.Samples, sample)
	}
}

// Finish captures the final trails and returns the result.
func (r *Recorder) Finish(bodies []physics.Body, metrics map[string]float64) *Result {
	r.result.Trails = make(map[string][]dynamo.Vector3d)
	for _, b := range bodies {
		if cb, ok := b.(*physics.CelestialBody); ok {
			r.result.Trails[cb.Name] = physics.Trail(cb)
		}
	}
	r.result.Metrics = metrics
	return &r.result
}
