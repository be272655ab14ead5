package analysis

import (
	"fmt"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"

	"github.com/san-kum/orbitsim/internal/dynamo"
)

// Spectrum returns the amplitude spectrum of values with the mean removed,
// up to the Nyquist bin. Any length is accepted.
func Spectrum(values []float64) []float64 {
	n := len(values)
	if n == 0 {
		return nil
	}

	mean := 0.0
	for _, v := range values {
		mean += v
	}
	mean /= float64(n)

	centred := make([]float64, n)
	for i, v := range values {
		centred[i] = v - mean
	}

	coeffs := fft.FFTReal(centred)
	ps := make([]float64, n/2+1)
	for i := range ps {
		ps[i] = cmplx.Abs(coeffs[i])
	}
	return ps
}

// DominantPeriod returns the period of the strongest non-constant component
// of values sampled every dt seconds.
func DominantPeriod(values []float64, dt float64) (float64, error) {
	ps := Spectrum(values)
	best := 0
	for k := 1; k < len(ps); k++ {
		if ps[k] > ps[best] || best == 0 {
			best = k
		}
	}
	if best == 0 || ps[best] == 0 {
		return 0, fmt.Errorf("%w: flat signal", dynamo.ErrNotConverged)
	}
	return float64(len(values)) * dt / float64(best), nil
}
