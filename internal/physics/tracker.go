package physics

import (
	"math"

	"github.com/san-kum/orbitsim/internal/dynamo"
)

// TrajectoryEntry is one trail sample together with where the parent was at
// the same instant.
type TrajectoryEntry struct {
	Position       dynamo.Vector3d
	ParentPosition dynamo.Vector3d
}

// TrajectoryTracker keeps a bounded trail. Only *AngularTracker and
// *LinearTracker implement it.
type TrajectoryTracker interface {
	UpdatePosition(b *CelestialBody)
	// TrajectoryData returns a copy, oldest entry first.
	TrajectoryData() []TrajectoryEntry
	Len() int

	sealed()
}

// AngularTracker keeps an angular window of a body's path around its
// parent.
type AngularTracker struct {
	MinimumAngleIncrement float64 // deg
	MaxAngle              float64 // deg

	axis    dynamo.Vector3d
	hasAxis bool
	entries entryQueue
}

func (t *AngularTracker) sealed() {}

func (t *AngularTracker) Len() int { return t.entries.len() }

func (t *AngularTracker) TrajectoryData() []TrajectoryEntry { return t.entries.snapshot() }

// RevolutionAxis is the orbit normal inferred on the first update.
func (t *AngularTracker) RevolutionAxis() (dynamo.Vector3d, bool) { return t.axis, t.hasAxis }

func (t *AngularTracker) UpdatePosition(b *CelestialBody) {
	entry := TrajectoryEntry{Position: b.Position, ParentPosition: b.ParentPosition()}

	if !t.hasAxis {
		t.axis = revolutionAxis(b)
		t.hasAxis = true
	}

	if t.entries.len() > 0 {
		if signedAngle(t.entries.back(), entry, t.axis) < t.MinimumAngleIncrement {
			return
		}
	}

	t.entries.push(entry)

	for t.entries.len() > 1 {
		if signedAngle(t.entries.front(), entry, t.axis) <= t.MaxAngle {
			break
		}
		t.entries.popFront()
	}
}

// revolutionAxis infers the orbit normal from the relative position and
// velocity. Without a parent, or when the two are parallel, it is world up.
func revolutionAxis(b *CelestialBody) dynamo.Vector3d {
	up := dynamo.UnitY
	if b.Parent == nil {
		return up
	}
	rel := b.Position.Sub(b.Parent.Position)
	if rel.LengthSquared() == 0 || b.Velocity.LengthSquared() == 0 {
		return up
	}
	axis := rel.Normalize().Cross(b.Velocity.Normalize())
	if axis.LengthSquared() == 0 || !axis.IsFinite() {
		return up
	}
	return axis
}

// signedAngle returns the angle in degrees, in [0, 360), swept from a to b
// around their parents in the sense of axis. Coincident body and parent
// give 0.
func signedAngle(a, b TrajectoryEntry, axis dynamo.Vector3d) float64 {
	v1 := a.Position.Sub(a.ParentPosition)
	v2 := b.Position.Sub(b.ParentPosition)

	l1, l2 := v1.Length(), v2.Length()
	if l1 == 0 || l2 == 0 {
		return 0
	}
	v1 = v1.DivScalar(l1)
	v2 = v2.DivScalar(l2)

	dot := math.Max(-1, math.Min(1, v1.Dot(v2)))
	angle := math.Acos(dot) * dynamo.Rad2Deg

	if cross := v1.Cross(v2); cross.LengthSquared() > 0 {
		if cross.Normalize().Dot(axis) < 0 {
			angle = 360 - angle
		}
	}
	return angle
}

// LinearTracker keeps the last MaxEntries positions that are at least
// MinimumDistanceIncrement apart.
type LinearTracker struct {
	MinimumDistanceIncrement float64 // m
	MaxEntries               int

	entries entryQueue
}

func (t *LinearTracker) sealed() {}

func (t *LinearTracker) Len() int { return t.entries.len() }

func (t *LinearTracker) TrajectoryData() []TrajectoryEntry { return t.entries.snapshot() }

func (t *LinearTracker) UpdatePosition(b *CelestialBody) {
	entry := TrajectoryEntry{Position: b.Position, ParentPosition: b.ParentPosition()}

	if t.entries.len() > 0 {
		if t.entries.back().Position.Distance(entry.Position) < t.MinimumDistanceIncrement {
			return
		}
	}

	t.entries.push(entry)
	for t.entries.len() > max(t.MaxEntries, 1) {
		t.entries.popFront()
	}
}

// Trail returns render-ready trail points for b: each stored sample is
// re-anchored to where the parent is now, and the body's current position
// is appended so the trail always touches the body.
func Trail(b *CelestialBody) []dynamo.Vector3d {
	if b.Tracker == nil {
		return nil
	}
	data := b.Tracker.TrajectoryData()
	parent := b.ParentPosition()

	points := make([]dynamo.Vector3d, 0, len(data)+1)
	for _, e := range data {
		points = append(points, parent.Add(e.Position.Sub(e.ParentPosition)))
	}
	return append(points, b.Position)
}
