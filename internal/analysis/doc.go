// Package analysis provides trajectory diagnostics.
//
// The package characterizes computed trajectories after the fact:
//
//   - [PowerSpectrum] and [DominantFrequency]: frequency content of a
//     state component
//   - [LyapunovExponent]: largest Lyapunov exponent via trajectory
//     separation
//
// A positive largest Lyapunov exponent indicates chaotic dynamics.
package analysis
