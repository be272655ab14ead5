package scenario

import (
	"fmt"

	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/physics"
)

// Placer sets the initial position and velocity of an orbiting body whose
// Parent is already placed.
type Placer func(b *physics.CelestialBody) error

// Periapsis is the default Placer.
func Periapsis(b *physics.CelestialBody) error { return b.PlaceOnOrbit() }

// StarSystem is a host star with planets and moons placed on their orbits,
// plus optional free bodies given by state vectors.
type StarSystem struct {
	name     string
	entities []Entity
	free     []FreeBody

	view    string
	hasView bool
	camera  float64
	speeds  []int
	step    physics.StepSettings
	hasStep bool
	tracker physics.TrackerOptions
	placer  Placer
}

type Option func(*StarSystem)

func WithSpeedIntervals(speeds ...int) Option {
	return func(s *StarSystem) { s.speeds = speeds }
}

func WithStepSettings(settings physics.StepSettings) Option {
	return func(s *StarSystem) { s.step, s.hasStep = settings, true }
}

// WithDefaultView centres the view on the named body; "" disables it.
func WithDefaultView(name string) Option {
	return func(s *StarSystem) { s.view, s.hasView = name, true }
}

// WithCameraDistance sets the camera distance in meters for systems without
// a default view.
func WithCameraDistance(d float64) Option {
	return func(s *StarSystem) { s.camera = d }
}

// WithTracker sets trail options for every body that does not set its own.
func WithTracker(opts physics.TrackerOptions) Option {
	return func(s *StarSystem) { s.tracker = opts }
}

func WithFreeBodies(bodies ...FreeBody) Option {
	return func(s *StarSystem) { s.free = append(s.free, bodies...) }
}

func WithPlacer(p Placer) Option {
	return func(s *StarSystem) { s.placer = p }
}

// NewStarSystem validates the table. The first entity, if any, must be a
// star.
func NewStarSystem(name string, entities []Entity, opts ...Option) (*StarSystem, error) {
	s := &StarSystem{name: name, entities: entities, placer: Periapsis}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.validate(); err != nil {
		return nil, fmt.Errorf("scenario %q: %w", name, err)
	}
	return s, nil
}

func (s *StarSystem) validate() error {
	if err := s.tracker.Validate(); err != nil {
		return fmt.Errorf("%w: %w", dynamo.ErrInvalidScenario, err)
	}

	seen := make(map[string]bool)
	unique := func(name string) error {
		if seen[name] {
			return fmt.Errorf("%w: duplicate body %q", dynamo.ErrInvalidScenario, name)
		}
		seen[name] = true
		return nil
	}

	for i, e := range s.entities {
		if i == 0 && e.Kind != physics.Star {
			return fmt.Errorf("%w: first entity %q is a %s, the host must be a star", dynamo.ErrInvalidScenario, e.Name, e.Kind)
		}
		if err := e.validate(i > 0); err != nil {
			return err
		}
		if err := unique(e.Name); err != nil {
			return err
		}
		for _, m := range e.Moons {
			if err := m.validate(true); err != nil {
				return err
			}
			if err := unique(m.Name); err != nil {
				return err
			}
		}
	}
	for _, f := range s.free {
		if err := f.validate(false); err != nil {
			return err
		}
		if !f.Position.IsFinite() || !f.Velocity.IsFinite() {
			return fmt.Errorf("%w: %s: non-finite state", dynamo.ErrInvalidScenario, f.Name)
		}
		if err := unique(f.Name); err != nil {
			return err
		}
	}
	if s.hasStep {
		if err := s.step.Validate(); err != nil {
			return fmt.Errorf("%w: %w", dynamo.ErrInvalidScenario, err)
		}
	}
	return nil
}

func (s *StarSystem) Name() string { return s.name }

// Entities returns the system's table.
func (s *StarSystem) Entities() []Entity { return s.entities }

func (s *StarSystem) DefaultView() string {
	if s.hasView {
		return s.view
	}
	if len(s.entities) > 0 {
		return s.entities[0].Name
	}
	return ""
}

func (s *StarSystem) DefaultCameraDistance() (float64, bool) {
	return s.camera, s.camera > 0
}

func (s *StarSystem) SpeedIntervals() []int { return s.speeds }

func (s *StarSystem) StepSettings() (physics.StepSettings, bool) { return s.step, s.hasStep }

// Setup places the host at the origin, then each planet followed by its
// moons, then the free bodies. A later star orbits the current host and
// becomes the host of the entities after it.
func (s *StarSystem) Setup(eng *physics.Engine) error {
	var host *physics.CelestialBody

	add := func(b *physics.CelestialBody) error {
		if b.TrackerOptions == (physics.TrackerOptions{}) {
			b.TrackerOptions = s.tracker
		}
		b.Initialize()
		if err := eng.AddBody(b); err != nil {
			return fmt.Errorf("scenario %q: %w", s.name, err)
		}
		return nil
	}

	for _, e := range s.entities {
		b := e.body()
		if host != nil {
			b.Parent = host
			if err := s.placer(b); err != nil {
				return fmt.Errorf("scenario %q: %w", s.name, err)
			}
		}
		if err := add(b); err != nil {
			return err
		}
		if e.Kind == physics.Star {
			host = b
		}

		for _, m := range e.Moons {
			moon := m.body()
			moon.Parent = b
			if err := s.placer(moon); err != nil {
				return fmt.Errorf("scenario %q: %w", s.name, err)
			}
			if err := add(moon); err != nil {
				return err
			}
		}
	}

	for _, f := range s.free {
		b := f.body()
		b.Position, b.Velocity = f.Position, f.Velocity
		if err := add(b); err != nil {
			return err
		}
	}
	return nil
}
