package scenario

import (
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/physics"
)

// File is the YAML form of a star system. Distances are meters unless the
// entity gives distance_au.
type File struct {
	Name           string       `yaml:"name"`
	View           *string      `yaml:"view,omitempty"`
	CameraDistance float64      `yaml:"camera_distance,omitempty"`
	SpeedIntervals []int        `yaml:"speed_intervals,omitempty"`
	Step           *StepFile    `yaml:"step,omitempty"`
	Tracker        TrackerFile  `yaml:"tracker,omitempty"`
	Bodies         []EntityFile `yaml:"bodies"`
	FreeBodies     []FreeFile   `yaml:"free_bodies,omitempty"`
}

type StepFile struct {
	MaxStep       float64 `yaml:"max_step"`
	MaxIterations int     `yaml:"max_iterations"`
}

type TrackerFile struct {
	MinAngle    float64 `yaml:"min_angle,omitempty"`
	MaxAngle    float64 `yaml:"max_angle,omitempty"`
	MinDistance float64 `yaml:"min_distance,omitempty"`
	MaxEntries  int     `yaml:"max_entries,omitempty"`
}

type EntityFile struct {
	Name           string       `yaml:"name"`
	Kind           string       `yaml:"kind"`
	Mass           float64      `yaml:"mass"`
	Diameter       float64      `yaml:"diameter"`
	Distance       float64      `yaml:"distance,omitempty"`
	DistanceAU     float64      `yaml:"distance_au,omitempty"`
	Eccentricity   float64      `yaml:"eccentricity,omitempty"`
	Inclination    float64      `yaml:"inclination,omitempty"`
	Node           float64      `yaml:"node,omitempty"`
	Periapsis      float64      `yaml:"periapsis,omitempty"`
	AxialTilt      float64      `yaml:"axial_tilt,omitempty"`
	RotationPeriod float64      `yaml:"rotation_period,omitempty"`
	Color          string       `yaml:"color,omitempty"`
	Tracker        TrackerFile  `yaml:"tracker,omitempty"`
	Moons          []EntityFile `yaml:"moons,omitempty"`
}

type FreeFile struct {
	EntityFile `yaml:",inline"`
	Position   [3]float64 `yaml:"position"`
	Velocity   [3]float64 `yaml:"velocity"`
}

// LoadFile reads a scenario from a YAML file.
func LoadFile(path string, log *slog.Logger) (Scenario, error) {
	if log == nil {
		log = slog.Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	log.Info("scenario loaded", "path", path, "name", s.Name(), "bodies", len(s.entities)+len(s.free))
	return s, nil
}

// Parse builds a star system from YAML.
func Parse(data []byte) (*StarSystem, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %w", dynamo.ErrInvalidScenario, err)
	}
	return f.StarSystem()
}

func (f *File) StarSystem() (*StarSystem, error) {
	entities := make([]Entity, 0, len(f.Bodies))
	for _, ef := range f.Bodies {
		e, err := ef.entity()
		if err != nil {
			return nil, err
		}
		entities = append(entities, e)
	}

	opts := []Option{WithTracker(f.Tracker.options())}
	if f.View != nil {
		opts = append(opts, WithDefaultView(*f.View))
	}
	if f.CameraDistance > 0 {
		opts = append(opts, WithCameraDistance(f.CameraDistance))
	}
	if len(f.SpeedIntervals) > 0 {
		opts = append(opts, WithSpeedIntervals(f.SpeedIntervals...))
	}
	if f.Step != nil {
		opts = append(opts, WithStepSettings(physics.StepSettings{MaxStep: f.Step.MaxStep, MaxIterations: f.Step.MaxIterations}))
	}
	for _, ff := range f.FreeBodies {
		e, err := ff.entity()
		if err != nil {
			return nil, err
		}
		opts = append(opts, WithFreeBodies(FreeBody{
			Entity:   e,
			Position: dynamo.Vec(ff.Position[0], ff.Position[1], ff.Position[2]),
			Velocity: dynamo.Vec(ff.Velocity[0], ff.Velocity[1], ff.Velocity[2]),
		}))
	}

	name := f.Name
	if name == "" {
		name = "Custom"
	}
	return NewStarSystem(name, entities, opts...)
}

func (ef EntityFile) entity() (Entity, error) {
	kind, err := physics.ParseKind(ef.Kind)
	if err != nil {
		return Entity{}, fmt.Errorf("%s: %w", ef.Name, err)
	}
	distance := ef.Distance
	if ef.DistanceAU != 0 {
		distance = ef.DistanceAU * dynamo.AstronomicalUnit
	}

	e := Entity{
		Name:                     ef.Name,
		Kind:                     kind,
		Mass:                     ef.Mass,
		Diameter:                 ef.Diameter,
		Distance:                 distance,
		Eccentricity:             ef.Eccentricity,
		Inclination:              ef.Inclination,
		LongitudeOfAscendingNode: ef.Node,
		ArgumentOfPeriapsis:      ef.Periapsis,
		AxialTilt:                ef.AxialTilt,
		RotationPeriod:           ef.RotationPeriod,
		Color:                    ef.Color,
		Tracker:                  ef.Tracker.options(),
	}
	for _, mf := range ef.Moons {
		m, err := mf.entity()
		if err != nil {
			return Entity{}, err
		}
		e.Moons = append(e.Moons, m)
	}
	return e, nil
}

func (t TrackerFile) options() physics.TrackerOptions {
	return physics.TrackerOptions{
		MinimumAngleIncrement:    t.MinAngle,
		MaxAngle:                 t.MaxAngle,
		MinimumDistanceIncrement: t.MinDistance,
		MaxEntries:               t.MaxEntries,
	}
}
