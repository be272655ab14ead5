package config

import (
	"sort"

	"github.com/san-kum/orbitsim/internal/dynamo"
)

const (
	day  = dynamo.SecondsInDay
	year = 365 * day
)

// Presets are named speed/duration pairs. Speed is in simulated seconds per
// real second.
var Presets = map[string]*Config{
	"realtime": {
		Speed: 1, Duration: dynamo.SecondsInHour,
	},
	"day-per-second": {
		Speed: day, Duration: year,
	},
	"month-per-second": {
		Speed: 30 * day, Duration: 12 * year, SampleEvery: 4,
	},
	"hundred-days": {
		Speed: 100 * day, Duration: 165 * year, SampleEvery: 10,
		MaxIterations: 100,
	},
	"long-trails": {
		Speed: 7 * day, Duration: 12 * year,
		Tracker: TrackerConfig{MaxAngle: 270},
	},
}

func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
