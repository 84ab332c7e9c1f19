// Package ode provides the core types for single-step time integration.
//
// The package defines the fundamental contracts shared by the stepping
// machinery:
//
//   - [State]: real state vector
//   - [ComplexState]: complex state vector (stiff complex-mode runs)
//   - [VectorField]: the right-hand side du/dt = f(t, u)
//   - [Residualer]: optional closed-form implicit residual fast path
//
// Schemes never retain a State across calls except through their own
// roundoff accumulator; states are passed by value and a new state is
// returned from each step.
package ode
