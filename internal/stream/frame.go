package stream

import (
	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/physics"
)

// Vec is a position or velocity as [x, y, z] in SI units.
type Vec [3]float64

func toVec(v dynamo.Vector3d) Vec { return Vec{v.X, v.Y, v.Z} }

// Metadata is the first message on every connection.
type Metadata struct {
	Type           string   `json:"type"`
	Scenario       string   `json:"scenario"`
	Bodies         []string `json:"bodies"`
	DefaultView    string   `json:"default_view,omitempty"`
	SpeedIntervals []int    `json:"speed_intervals"`
	FPS            int      `json:"fps"`
}

// BodyState is one body in a Frame.
type BodyState struct {
	Name     string  `json:"name"`
	Kind     string  `json:"kind,omitempty"`
	Parent   string  `json:"parent,omitempty"`
	Position Vec     `json:"position"`
	Velocity Vec     `json:"velocity"`
	Radius   float64 `json:"radius,omitempty"`
	Color    string  `json:"color,omitempty"`
	Trail    []Vec   `json:"trail,omitempty"`
}

// Frame is a snapshot of the engine after one Simulate call.
type Frame struct {
	Type    string      `json:"type"`
	Time    float64     `json:"time"`
	Steps   int         `json:"steps"`
	Speed   float64     `json:"speed"`
	Running bool        `json:"running"`
	Bodies  []BodyState `json:"bodies"`
}

// Snapshot copies the engine state into a Frame. Trails are included when
// trails is set.
func Snapshot(eng *physics.Engine, speed float64, running, trails bool) Frame {
	f := Frame{
		Type:    "frame",
		Time:    eng.SimulationTime(),
		Steps:   eng.Steps(),
		Speed:   speed,
		Running: running,
		Bodies:  make([]BodyState, 0, eng.Len()),
	}
	for _, b := range eng.Bodies() {
		st := b.State()
		bs := BodyState{
			Name:     st.Name,
			Position: toVec(st.Position),
			Velocity: toVec(st.Velocity),
		}
		if cb, ok := b.(*physics.CelestialBody); ok {
			bs.Kind = cb.Kind.String()
			bs.Radius = cb.Radius
			bs.Color = cb.Color
			if cb.Parent != nil {
				bs.Parent = cb.Parent.Name
			}
			if trails {
				for _, p := range physics.Trail(cb) {
					bs.Trail = append(bs.Trail, toVec(p))
				}
			}
		}
		f.Bodies = append(f.Bodies, bs)
	}
	return f
}
