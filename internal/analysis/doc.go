// Package analysis extracts orbital characteristics from recorded or live
// runs.
//
//   - [PeriodByReturn]: time for a body to sweep a full revolution around
//     its parent
//   - [DominantPeriod]: strongest period in a sampled signal, via FFT
//   - [Apsides]: closest and farthest parent distance
//   - [Divergence]: largest Lyapunov exponent estimate by trajectory
//     separation
//   - [StepSweep]: energy drift as a function of the maximum time step
//   - [PathToASCII]: top-down projection of a path
//
// A positive divergence indicates chaotic dynamics:
//
//	lambda, err := analysis.Divergence(build, "Planet #1", 1e3, 86400, year)
//	if lambda > 0 {
//	    // trajectories separate exponentially
//	}
package analysis
