package viz

import (
	"math"
	"testing"

	"github.com/san-kum/orbitsim/internal/dynamo"
)

func TestCamera_Project(t *testing.T) {
	const r = 1000.0
	tests := []struct {
		name       string
		yaw, pitch float64
		p          dynamo.Vector3d
		x, y       int
		visible    bool
	}{
		{"target at centre", 0, 0, dynamo.Zero, 50, 50, true},
		{"east", 0, 0, dynamo.Vec(r/2, 0, 0), 75, 50, true},
		{"north is up", 0, 0, dynamo.Vec(0, r/2, 0), 50, 25, true},
		{"turned a quarter", math.Pi / 2, 0, dynamo.Vec(r/2, 0, 0), 50, 25, true},
		{"off screen", 0, 0, dynamo.Vec(3*r, 0, 0), 0, 0, false},
		{"behind the eye", 0, 0, dynamo.Vec(0, 0, 3*r), 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCamera(r)
			c.Yaw, c.Pitch = tt.yaw, tt.pitch
			x, y, _, ok := c.Project(tt.p, 100, 100)
			if ok != tt.visible {
				t.Fatalf("visible = %v, want %v", ok, tt.visible)
			}
			if !ok {
				return
			}
			if absInt(x-tt.x) > 1 || absInt(y-tt.y) > 1 {
				t.Errorf("Project() = (%d, %d), want (%d, %d)", x, y, tt.x, tt.y)
			}
		})
	}
}

func TestCamera_Depth(t *testing.T) {
	c := NewCamera(1000)
	c.Pitch = 0
	_, _, near, _ := c.Project(dynamo.Vec(0, 0, 100), 100, 100)
	_, _, far, _ := c.Project(dynamo.Vec(0, 0, -100), 100, 100)
	if !(near > far) {
		t.Errorf("depth near %g should exceed far %g", near, far)
	}
}

func TestCamera_Controls(t *testing.T) {
	c := NewCamera(1000)
	c.ZoomIn()
	if got := c.ViewRadius(); math.Abs(got-800) > 1e-9 {
		t.Errorf("ViewRadius() = %g after zoom in, want 800", got)
	}
	c.ZoomOut()
	c.ZoomOut()
	if c.ViewRadius() <= 1000 {
		t.Errorf("ViewRadius() = %g after zooming out, want > 1000", c.ViewRadius())
	}

	for i := 0; i < 100; i++ {
		c.RotatePitch(0.1)
	}
	if c.Pitch != math.Pi/2 {
		t.Errorf("Pitch = %g, want clamped to pi/2", c.Pitch)
	}
}
