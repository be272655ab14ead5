package scenario

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/physics"
)

type Factory func() (Scenario, error)

// Registry maps short names to scenario constructors.
type Registry struct {
	factories map[string]Factory
	log       *slog.Logger
}

// NewRegistry returns a registry holding the built-in scenarios.
func NewRegistry(log *slog.Logger) *Registry {
	if log == nil {
		log = slog.Default()
	}
	r := &Registry{
		factories: make(map[string]Factory),
		log:       log,
	}

	r.Register("solar-system", SolarSystem)
	r.Register("solar-system-long-trails", func() (Scenario, error) {
		return NewStarSystem("Solar system (long trails)", solarSystemEntities(),
			WithTracker(physics.TrackerOptions{MaxAngle: 270}))
	})
	r.Register("trappist-1", Trappist1)
	r.Register("binary-stars", BinaryStars)
	r.Register("empty", func() (Scenario, error) { return EmptySpace(), nil })
	r.Register("almanac", func() (Scenario, error) { return Almanac(time.Now()) })

	return r
}

// Register adds or replaces a scenario.
func (r *Registry) Register(name string, f Factory) {
	r.factories[name] = f
}

// Get builds the named scenario. Names ending in .yaml or .yml are loaded
// from disk.
func (r *Registry) Get(name string) (Scenario, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return LoadFile(name, r.log)
	}

	f, ok := r.factories[name]
	if !ok {
		return nil, fmt.Errorf("%w: unknown scenario %q (have %s)", dynamo.ErrInvalidScenario, name, strings.Join(r.List(), ", "))
	}
	s, err := f()
	if err != nil {
		return nil, err
	}
	r.log.Debug("scenario built", "name", name, "title", s.Name())
	return s, nil
}

// List returns the registered names, sorted.
func (r *Registry) List() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
