package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/physics"
)

const (
	DefaultScenario    = "solar-system"
	DefaultSpeed       = dynamo.SecondsInDay // one simulated day per second
	DefaultDuration    = 365 * dynamo.SecondsInDay
	DefaultFPS         = 30
	DefaultSampleEvery = 1
	DefaultStreamAddr  = ":8080"
	DefaultStreamFPS   = 20
)

type Config struct {
	Scenario      string        `yaml:"scenario"`
	Speed         float64       `yaml:"speed"`
	Duration      float64       `yaml:"duration"`
	FPS           int           `yaml:"fps"`
	MaxStep       float64       `yaml:"max_step"`
	MaxIterations int           `yaml:"max_iterations"`
	Scheme        string        `yaml:"scheme"`
	SampleEvery   int           `yaml:"sample_every"`
	Tracker       TrackerConfig `yaml:"tracker"`
	Stream        StreamConfig  `yaml:"stream"`
}

// TrackerConfig overrides trail options; zero fields keep the defaults.
type TrackerConfig struct {
	MinAngle    float64 `yaml:"min_angle,omitempty"`
	MaxAngle    float64 `yaml:"max_angle,omitempty"`
	MinDistance float64 `yaml:"min_distance,omitempty"`
	MaxEntries  int     `yaml:"max_entries,omitempty"`
}

type StreamConfig struct {
	Addr string `yaml:"addr"`
	FPS  int    `yaml:"fps"`
}

func DefaultConfig() *Config {
	return &Config{
		Scenario:      DefaultScenario,
		Speed:         DefaultSpeed,
		Duration:      DefaultDuration,
		FPS:           DefaultFPS,
		MaxStep:       physics.DefaultMaxSimulationTimeStep,
		MaxIterations: physics.DefaultMaxIterations,
		Scheme:        physics.SemiImplicitEuler.String(),
		SampleEvery:   DefaultSampleEvery,
		Stream: StreamConfig{
			Addr: DefaultStreamAddr,
			FPS:  DefaultStreamFPS,
		},
	}
}

// Read parses a config file as is. Fields the file leaves out stay zero so
// the result can be merged over another config.
func Read(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return &cfg, nil
}

// Load reads path over the defaults and validates the result.
func Load(path string) (*Config, error) {
	file, err := Read(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	cfg.Merge(file)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if c.Scenario == "" {
		return fmt.Errorf("%w: scenario is required", dynamo.ErrParameterBounds)
	}
	if !(c.Speed >= 0) {
		return fmt.Errorf("%w: speed %g must not be negative", dynamo.ErrParameterBounds, c.Speed)
	}
	if !(c.Duration >= 0) {
		return fmt.Errorf("%w: duration %g must not be negative", dynamo.ErrParameterBounds, c.Duration)
	}
	if c.FPS <= 0 {
		return fmt.Errorf("%w: fps %d must be positive", dynamo.ErrParameterBounds, c.FPS)
	}
	if c.SampleEvery <= 0 {
		return fmt.Errorf("%w: sample_every %d must be positive", dynamo.ErrParameterBounds, c.SampleEvery)
	}
	if c.Stream.FPS <= 0 {
		return fmt.Errorf("%w: stream fps %d must be positive", dynamo.ErrParameterBounds, c.Stream.FPS)
	}
	if _, err := physics.ParseScheme(c.Scheme); err != nil {
		return err
	}
	if err := c.TrackerOptions().Validate(); err != nil {
		return err
	}
	return c.StepSettings().Validate()
}

func (c *Config) StepSettings() physics.StepSettings {
	return physics.StepSettings{MaxStep: c.MaxStep, MaxIterations: c.MaxIterations}
}

// FrameTime is the simulated time covered by one frame at the configured
// speed and frame rate.
func (c *Config) FrameTime() float64 {
	return c.Speed / float64(c.FPS)
}

func (c *Config) TrackerOptions() physics.TrackerOptions {
	return physics.TrackerOptions{
		MinimumAngleIncrement:    c.Tracker.MinAngle,
		MaxAngle:                 c.Tracker.MaxAngle,
		MinimumDistanceIncrement: c.Tracker.MinDistance,
		MaxEntries:               c.Tracker.MaxEntries,
	}
}

// Merge copies the non-zero fields of o over c.
func (c *Config) Merge(o *Config) {
	if o == nil {
		return
	}
	if o.Scenario != "" {
		c.Scenario = o.Scenario
	}
	if o.Speed > 0 {
		c.Speed = o.Speed
	}
	if o.Duration > 0 {
		c.Duration = o.Duration
	}
	if o.FPS > 0 {
		c.FPS = o.FPS
	}
	if o.MaxStep > 0 {
		c.MaxStep = o.MaxStep
	}
	if o.MaxIterations > 0 {
		c.MaxIterations = o.MaxIterations
	}
	if o.Scheme != "" {
		c.Scheme = o.Scheme
	}
	if o.SampleEvery > 0 {
		c.SampleEvery = o.SampleEvery
	}
	if o.Tracker != (TrackerConfig{}) {
		c.Tracker = o.Tracker
	}
	if o.Stream.Addr != "" {
		c.Stream.Addr = o.Stream.Addr
	}
	if o.Stream.FPS > 0 {
		c.Stream.FPS = o.Stream.FPS
	}
}
