package analysis

import (
	"fmt"
	"math"

	"github.com/san-kum/orbitsim/internal/dynamo"
)

// PeriodByReturn returns the time a body takes to sweep 360 degrees around
// its parent. rel holds parent-relative positions sampled at times. The
// crossing is interpolated linearly between samples.
func PeriodByReturn(times []float64, rel []dynamo.Vector3d) (float64, error) {
	if len(times) != len(rel) {
		return 0, fmt.Errorf("%w: %d times for %d positions", dynamo.ErrParameterBounds, len(times), len(rel))
	}
	if len(rel) < 3 {
		return 0, fmt.Errorf("%w: need at least 3 samples", dynamo.ErrNotConverged)
	}

	axis := dynamo.Zero
	for i := 1; i < len(rel); i++ {
		axis = axis.Add(rel[i-1].Cross(rel[i]))
	}
	if axis.LengthSquared() == 0 || !axis.IsFinite() {
		return 0, fmt.Errorf("%w: no revolution in samples", dynamo.ErrNotConverged)
	}
	axis = axis.Normalize()

	swept := 0.0
	for i := 1; i < len(rel); i++ {
		a, b := rel[i-1], rel[i]
		step := math.Atan2(axis.Dot(a.Cross(b)), a.Dot(b))
		if swept+step >= 2*math.Pi {
			frac := (2*math.Pi - swept) / step
			return times[i-1] + frac*(times[i]-times[i-1]) - times[0], nil
		}
		swept += step
	}
	return 0, fmt.Errorf("%w: swept %.1f of 360 degrees", dynamo.ErrNotConverged, swept*dynamo.Rad2Deg)
}

// Apsides returns the smallest and largest length in rel.
func Apsides(rel []dynamo.Vector3d) (periapsis, apoapsis float64) {
	if len(rel) == 0 {
		return 0, 0
	}
	periapsis = math.Inf(1)
	for _, r := range rel {
		d := r.Length()
		periapsis = math.Min(periapsis, d)
		apoapsis = math.Max(apoapsis, d)
	}
	return periapsis, apoapsis
}

// Eccentricity estimates e from the apsides.
func Eccentricity(periapsis, apoapsis float64) float64 {
	if periapsis+apoapsis == 0 {
		return 0
	}
	return (apoapsis - periapsis) / (apoapsis + periapsis)
}
