package viz

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/orbitsim/internal/dynamo"
)

const (
	minZoom = 1e-3
	maxZoom = 1e4
)

// Camera looks at Target from Distance meters away. Yaw turns around the
// world Z (north) axis, Pitch tilts the view away from straight down.
type Camera struct {
	Target     dynamo.Vector3d
	Distance   float64
	Yaw, Pitch float64
	Zoom       float64
}

func NewCamera(distance float64) *Camera {
	return &Camera{Distance: distance, Pitch: -0.5, Zoom: 1}
}

func (c *Camera) RotateYaw(a float64) { c.Yaw += a }

func (c *Camera) RotatePitch(a float64) {
	c.Pitch = mgl64.Clamp(c.Pitch+a, -math.Pi/2, math.Pi/2)
}

func (c *Camera) ZoomIn()  { c.Zoom = math.Min(maxZoom, c.Zoom*1.25) }
func (c *Camera) ZoomOut() { c.Zoom = math.Max(minZoom, c.Zoom/1.25) }

// ViewRadius is the world distance from the target to the nearest screen
// edge.
func (c *Camera) ViewRadius() float64 { return c.Distance / c.Zoom }

func (c *Camera) rotation() mgl64.Mat3 {
	return mgl64.Rotate3DX(c.Pitch).Mul3(mgl64.Rotate3DZ(c.Yaw))
}

// Project maps a world point to dot coordinates on a sw x sh canvas.
// It returns the depth towards the viewer and whether the point is in front
// of the eye and on screen.
func (c *Camera) Project(p dynamo.Vector3d, sw, sh int) (int, int, float64, bool) {
	radius := c.ViewRadius()
	if !(radius > 0) {
		return 0, 0, 0, false
	}
	rot := dynamo.FromVec(c.rotation().Mul3x1(p.Sub(c.Target).Vec()))

	// eye sits at twice the view radius along +Z
	eye := 2 * radius
	if rot.Z >= eye*0.95 {
		return 0, 0, 0, false
	}
	scale := eye / (eye - rot.Z)
	pScale := float64(min(sw, sh)) / 2 / radius

	fx := rot.X*scale*pScale + float64(sw)/2
	fy := -rot.Y*scale*pScale + float64(sh)/2
	if math.IsNaN(fx) || math.IsNaN(fy) || math.Abs(fx) > 1e9 || math.Abs(fy) > 1e9 {
		return 0, 0, 0, false
	}
	sx, sy := int(math.Floor(fx)), int(math.Floor(fy))
	return sx, sy, rot.Z, sx >= 0 && sx < sw && sy >= 0 && sy < sh
}
