package orbit

import (
	"math"
	"testing"
)

func TestSolveEccentricAnomaly_Converges(t *testing.T) {
	for _, e := range []float64{0, 0.017, 0.1, 0.3, 0.5, 0.7, 0.85, 0.9} {
		for i := 0; i < 64; i++ {
			M := 2 * math.Pi * float64(i) / 64
			E, iters, ok := SolveEccentricAnomalyN(M, e)
			if !ok {
				t.Fatalf("e=%v M=%v: not converged after %d iterations", e, M, iters)
			}
			if iters > MaxKeplerIterations {
				t.Fatalf("e=%v M=%v: %d iterations exceeds cap", e, M, iters)
			}
			if r := KeplerResidual(M, e, E); r > KeplerTolerance {
				t.Errorf("e=%v M=%v: residual %g > %g", e, M, r, KeplerTolerance)
			}
		}
	}
}

func TestSolveEccentricAnomaly_Circular(t *testing.T) {
	E, iters, ok := SolveEccentricAnomalyN(1.234, 0)
	if E != 1.234 || iters != 0 || !ok {
		t.Errorf("circular orbit: got E=%v iters=%d ok=%v", E, iters, ok)
	}
}

func TestSolveEccentricAnomaly_KnownValue(t *testing.T) {
	// Vallado example 2-1: M = 235.4 deg, e = 0.4 gives E = 220.512074767522 deg.
	M := 235.4 * math.Pi / 180
	E := SolveEccentricAnomaly(M, 0.4) * 180 / math.Pi
	if math.Abs(E-220.512074767522) > 1e-6 {
		t.Errorf("E = %.9f deg, want 220.512074768", E)
	}
}

func TestSolveEccentricAnomaly_BeyondOneTurn(t *testing.T) {
	M := 1.0
	base := SolveEccentricAnomaly(M, 0.9)
	shifted := SolveEccentricAnomaly(M+4*math.Pi, 0.9)
	if math.Abs(shifted-4*math.Pi-base) > 1e-9 {
		t.Errorf("shifted solution %v does not match %v + 4pi", shifted, base)
	}
}

func TestTrueAnomaly(t *testing.T) {
	tests := []struct {
		name string
		E, e float64
		want float64
	}{
		{"periapsis", 0, 0.5, 0},
		{"apoapsis", math.Pi, 0.5, math.Pi},
		{"circular quarter", math.Pi / 2, 0, math.Pi / 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TrueAnomaly(tt.E, tt.e); math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("TrueAnomaly(%v, %v) = %v, want %v", tt.E, tt.e, got, tt.want)
			}
		})
	}
}
