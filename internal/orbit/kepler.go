package orbit

import (
	"math"

	"github.com/san-kum/orbitsim/internal/dynamo"
)

const (
	// MaxKeplerIterations caps Newton-Raphson; near-parabolic inputs can
	// otherwise oscillate for a long time.
	MaxKeplerIterations = 100

	// KeplerTolerance is 1e-6 degrees, in radians.
	KeplerTolerance = 1e-6 * dynamo.Deg2Rad
)

// SolveEccentricAnomaly solves M = E - e*sin(E) for E. M and the result are
// in radians. If the iteration cap is hit the best estimate is returned.
func SolveEccentricAnomaly(meanAnomaly, eccentricity float64) float64 {
	E, _, _ := SolveEccentricAnomalyN(meanAnomaly, eccentricity)
	return E
}

// SolveEccentricAnomalyN is SolveEccentricAnomaly that also reports the
// number of iterations used and whether the tolerance was reached.
func SolveEccentricAnomalyN(meanAnomaly, eccentricity float64) (E float64, iterations int, converged bool) {
	M, e := meanAnomaly, eccentricity
	if e == 0 {
		return M, 0, true
	}

	E = M
	if e > 0.8 {
		// Starting at M overshoots badly for elongated orbits.
		E = math.Pi + 2*math.Pi*math.Floor(M/(2*math.Pi))
	}

	for iterations < MaxKeplerIterations {
		iterations++
		sinE, cosE := math.Sincos(E)
		next := (M - e*(E*cosE-sinE)) / (1 - e*cosE)
		diff := math.Abs(next - E)
		E = next
		if diff < KeplerTolerance {
			return E, iterations, true
		}
	}
	return E, iterations, false
}

// KeplerResidual returns |M - (E - e*sin(E))|.
func KeplerResidual(meanAnomaly, eccentricity, E float64) float64 {
	return math.Abs(meanAnomaly - (E - eccentricity*math.Sin(E)))
}

// TrueAnomaly converts an eccentric anomaly (radians) to the true anomaly.
func TrueAnomaly(E, eccentricity float64) float64 {
	sinE, cosE := math.Sincos(E)
	return math.Atan2(math.Sqrt(1-eccentricity*eccentricity)*sinE, cosE-eccentricity)
}
