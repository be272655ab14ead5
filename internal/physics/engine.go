package physics

import (
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/orbitsim/internal/dynamo"
)

// Observer is notified after every Simulate call with the post-step state.
// Observers must not mutate the bodies.
type Observer interface {
	OnStep(t float64, bodies []Body)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(t float64, bodies []Body)

func (f ObserverFunc) OnStep(t float64, bodies []Body) { f(t, bodies) }

// Engine integrates a set of bodies under mutual gravity.
type Engine struct {
	time    float64
	maxStep float64
	scheme  Scheme
	steps   int

	bodies    []Body
	byName    map[string]Body
	observers []Observer

	// scratch for rollback, one per body
	saved  []snapshot
	primed bool
}

func NewEngine() *Engine {
	return &Engine{
		maxStep: DefaultMaxSimulationTimeStep,
		byName:  make(map[string]Body),
	}
}

// SimulationTime is the simulated seconds since start.
func (e *Engine) SimulationTime() float64 { return e.time }

// SetSimulationTime moves the clock without integrating, e.g. when a
// scenario is seeded at an epoch.
func (e *Engine) SetSimulationTime(t float64) { e.time = t }

func (e *Engine) MaxSimulationTimeStep() float64 { return e.maxStep }

func (e *Engine) SetMaxSimulationTimeStep(dt float64) error {
	if !(dt > 0) || !isFinite(dt) {
		return fmt.Errorf("%w: max time step %g must be positive", dynamo.ErrParameterBounds, dt)
	}
	e.maxStep = dt
	return nil
}

// SetMaxSimulationStep picks the sub-step for a speed of speed simulated
// seconds per Simulate call.
func (e *Engine) SetMaxSimulationStep(speed float64, settings StepSettings) error {
	if err := settings.Validate(); err != nil {
		return err
	}
	return e.SetMaxSimulationTimeStep(settings.StepFor(speed))
}

func (e *Engine) Scheme() Scheme { return e.scheme }

func (e *Engine) SetScheme(s Scheme) {
	e.scheme = s
	e.primed = false
}

// Steps is the number of sub-steps run so far.
func (e *Engine) Steps() int { return e.steps }

func (e *Engine) AddObserver(o Observer) { e.observers = append(e.observers, o) }

// AddBody registers b. The body must already be initialized; its state must
// be finite, its mass positive and its name unique.
func (e *Engine) AddBody(b Body) error {
	s := b.State()
	if err := s.validate(); err != nil {
		return err
	}
	if _, dup := e.byName[s.Name]; dup {
		return fmt.Errorf("%w: %q", dynamo.ErrDuplicateBody, s.Name)
	}
	e.bodies = append(e.bodies, b)
	e.byName[s.Name] = b
	e.saved = append(e.saved, snapshot{})
	e.primed = false
	return nil
}

// Bodies returns the registered bodies in registration order. The slice is
// shared; callers must not modify it.
func (e *Engine) Bodies() []Body { return e.bodies }

func (e *Engine) Len() int { return len(e.bodies) }

// Body looks up a body by name.
func (e *Engine) Body(name string) (Body, error) {
	b, ok := e.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", dynamo.ErrUnknownBody, name)
	}
	return b, nil
}

// Reset removes every body and rewinds the clock. Observers stay attached.
func (e *Engine) Reset() {
	e.bodies = nil
	e.byName = make(map[string]Body)
	e.saved = nil
	e.time = 0
	e.steps = 0
	e.primed = false
}

// Simulate advances time by timeDelta seconds in sub-steps no longer than
// the max time step, then updates every trail once.
//
// A body whose update turns non-finite is rolled back to its state before
// that sub-step and a *dynamo.SimulationError is returned; the other bodies
// keep going.
func (e *Engine) Simulate(timeDelta float64) error {
	if timeDelta < 0 || !isFinite(timeDelta) {
		return fmt.Errorf("%w: time delta %g", dynamo.ErrParameterBounds, timeDelta)
	}

	var errs []error
	failed := make(map[string]bool)

	remaining := timeDelta
	// Rounding can leave a sliver; don't spend a sub-step on it.
	eps := timeDelta * 1e-12
	for remaining > eps {
		dt := min(remaining, e.maxStep)
		for _, se := range e.runSimulationStep(dt) {
			if failed[se.Body] {
				continue
			}
			failed[se.Body] = true
			errs = append(errs, se)
		}
		remaining -= dt
	}

	for _, b := range e.bodies {
		b.UpdateTrajectory()
	}
	for _, o := range e.observers {
		o.OnStep(e.time, e.bodies)
	}
	return errors.Join(errs...)
}

func (e *Engine) runSimulationStep(dt float64) []*dynamo.SimulationError {
	for i, b := range e.bodies {
		e.saved[i] = b.snapshot()
	}

	switch e.scheme {
	case Leapfrog:
		e.leapfrog(dt)
	default:
		e.semiImplicitEuler(dt)
	}

	e.time += dt
	e.steps++

	var errs []*dynamo.SimulationError
	for i, b := range e.bodies {
		s := b.State()
		if s.finite() {
			continue
		}
		b.restore(e.saved[i])
		e.primed = false
		errs = append(errs, &dynamo.SimulationError{
			Step:    e.steps,
			Time:    e.time,
			Body:    s.Name,
			Wrapped: dynamo.ErrInvalidState,
		})
	}
	return errs
}

func (e *Engine) semiImplicitEuler(dt float64) {
	e.accumulateForces()
	for _, b := range e.bodies {
		b.UpdateState(dt)
		s := b.State()
		s.Acceleration = s.TotalGravitationalForce.Add(b.AdditionalForce()).DivScalar(s.Mass)
		s.Velocity = s.Velocity.Add(s.Acceleration.Scale(dt))
		s.Position = s.Position.Add(s.Velocity.Scale(dt))
	}
}

func (e *Engine) leapfrog(dt float64) {
	if !e.primed {
		e.accumulateForces()
		e.updateAccelerations()
		e.primed = true
	}
	half := dt / 2
	for _, b := range e.bodies {
		b.UpdateState(dt)
		s := b.State()
		s.Velocity = s.Velocity.Add(s.Acceleration.Scale(half))
		s.Position = s.Position.Add(s.Velocity.Scale(dt))
	}
	e.accumulateForces()
	e.updateAccelerations()
	for _, b := range e.bodies {
		s := b.State()
		s.Velocity = s.Velocity.Add(s.Acceleration.Scale(half))
	}
}

func (e *Engine) updateAccelerations() {
	for _, b := range e.bodies {
		s := b.State()
		s.Acceleration = s.TotalGravitationalForce.Add(b.AdditionalForce()).DivScalar(s.Mass)
	}
}

// accumulateForces sets TotalGravitationalForce on every body. Each pair is
// visited once and the same vector is added to one body and subtracted from
// the other.
func (e *Engine) accumulateForces() {
	for _, b := range e.bodies {
		b.State().TotalGravitationalForce = dynamo.Zero
	}
	n := len(e.bodies)
	for i := 0; i < n; i++ {
		a := e.bodies[i].State()
		for j := i + 1; j < n; j++ {
			b := e.bodies[j].State()
			f := pairForce(a, b)
			a.TotalGravitationalForce = a.TotalGravitationalForce.Add(f)
			b.TotalGravitationalForce = b.TotalGravitationalForce.Sub(f)
		}
	}
}

// pairForce is the gravitational force on a due to b. Coincident bodies
// exert no force on each other.
func pairForce(a, b *MassBody) dynamo.Vector3d {
	d := b.Position.Sub(a.Position)
	distSq := d.LengthSquared()
	if distSq == 0 {
		return dynamo.Zero
	}
	dir := d.DivScalar(math.Sqrt(distSq))
	return dir.Scale(dynamo.GravitationalConstant * a.Mass * b.Mass / distSq)
}
