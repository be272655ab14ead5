package dynamo

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Vector3d is a three-dimensional vector with float64 components.
type Vector3d struct {
	X, Y, Z float64
}

var (
	Zero  = Vector3d{}
	One   = Vector3d{1, 1, 1}
	UnitX = Vector3d{1, 0, 0}
	UnitY = Vector3d{0, 1, 0}
	UnitZ = Vector3d{0, 0, 1}
)

func Vec(x, y, z float64) Vector3d { return Vector3d{x, y, z} }

// FromVec converts a mathgl vector.
func FromVec(v mgl64.Vec3) Vector3d { return Vector3d{v[0], v[1], v[2]} }

// Vec converts to a mathgl vector.
func (v Vector3d) Vec() mgl64.Vec3 { return mgl64.Vec3{v.X, v.Y, v.Z} }

func (v Vector3d) Add(o Vector3d) Vector3d { return Vector3d{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vector3d) Sub(o Vector3d) Vector3d { return Vector3d{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }
func (v Vector3d) Mul(o Vector3d) Vector3d { return Vector3d{v.X * o.X, v.Y * o.Y, v.Z * o.Z} }
func (v Vector3d) Div(o Vector3d) Vector3d { return Vector3d{v.X / o.X, v.Y / o.Y, v.Z / o.Z} }
func (v Vector3d) Scale(s float64) Vector3d {
	return Vector3d{v.X * s, v.Y * s, v.Z * s}
}
func (v Vector3d) DivScalar(s float64) Vector3d {
	return Vector3d{v.X / s, v.Y / s, v.Z / s}
}
func (v Vector3d) Neg() Vector3d { return Vector3d{-v.X, -v.Y, -v.Z} }

func (v Vector3d) Dot(o Vector3d) float64 { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }

func (v Vector3d) Cross(o Vector3d) Vector3d {
	return Vector3d{
		v.Y*o.Z - v.Z*o.Y,
		v.Z*o.X - v.X*o.Z,
		v.X*o.Y - v.Y*o.X,
	}
}

func (v Vector3d) LengthSquared() float64 { return v.Dot(v) }
func (v Vector3d) Length() float64        { return math.Sqrt(v.LengthSquared()) }

// Normalize returns the unit vector in the direction of v. A zero vector
// yields NaN components; callers that can see coincident points must check
// the length first.
func (v Vector3d) Normalize() Vector3d { return v.DivScalar(v.Length()) }

// IsFinite reports whether no component is NaN or infinite.
func (v Vector3d) IsFinite() bool {
	return isFinite(v.X) && isFinite(v.Y) && isFinite(v.Z)
}

func isFinite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }

// Distance returns |v - o|.
func (v Vector3d) Distance(o Vector3d) float64 { return v.Sub(o).Length() }
