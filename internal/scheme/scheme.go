// Package scheme implements pluggable single-step advance rules for
// ODE/DAE integration.
//
// A Scheme turns (t, u) into (t+h, u1). Implicit schemes build a
// residual closure per step, hand it to a root finder (quasi-Newton
// first, classical Newton as fallback) and reconstruct the state
// increment from the root. The default Step accumulates increments
// with compensated summation so that long runs do not lose the low
// order bits of small increments added to a large state.
package scheme

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/san-kum/odestep/internal/newton"
	"github.com/san-kum/odestep/internal/ode"
)

// DefaultStepsize is used when a scheme is initialized without an
// explicit step size.
const DefaultStepsize = 0.01

// Scheme advances a state vector by one time step. Initialize must be
// called exactly once per run, after the vector field and initial
// state are known; Step is then invoked repeatedly by the outer loop.
type Scheme interface {
	Initialize(t0 float64, u0 ode.State) error
	Step(t float64, u0 ode.State) (float64, ode.State, error)

	// IncrementStepsize adjusts the step size from the latest error
	// estimate. It is a no-op on non-adaptive schemes.
	IncrementStepsize()

	Stepsize() float64
	SetStepsize(h float64)
}

// residualScheme is the hook set an implicit scheme provides to the
// shared delta machinery.
type residualScheme interface {
	// Guess supplies the root finder's starting point.
	Guess(t float64, u0 ode.State, h float64) ode.State

	// Residual builds the closure whose root defines the update. Pure
	// function of its argument; captured (t, u0, h) only.
	Residual(t float64, u0 ode.State, h float64) newton.Func

	// Reconstruct maps a solved root back into a state increment.
	Reconstruct(u0, root ode.State) ode.State
}

// Base carries the state shared by all schemes: the vector field, the
// step size and the roundoff accumulator. The accumulator is reset
// exactly once, in Initialize.
type Base struct {
	field    ode.VectorField
	h        float64
	roundoff ode.State
	logger   *slog.Logger

	// Direct and Fallback construct the two root-finding strategies.
	// They default to the quasi-Newton solver and classical Newton;
	// tests and callers with special residuals may inject their own.
	Direct   func(newton.Func) newton.Solver
	Fallback func(newton.Func) newton.Solver
}

func newBase(field ode.VectorField, h float64) Base {
	return Base{
		field:  field,
		h:      h,
		logger: slog.Default(),
		Direct: func(f newton.Func) newton.Solver {
			return newton.NewFSolve(f)
		},
		Fallback: func(f newton.Func) newton.Solver {
			return newton.NewNewton(f)
		},
	}
}

func (b *Base) Stepsize() float64 { return b.h }

func (b *Base) SetStepsize(h float64) { b.h = h }

// IncrementStepsize is a no-op; adaptive schemes override it.
func (b *Base) IncrementStepsize() {}

func (b *Base) Field() ode.VectorField { return b.field }

func (b *Base) SetLogger(l *slog.Logger) {
	if l != nil {
		b.logger = l
	}
}

func (b *Base) Initialize(t0 float64, u0 ode.State) error {
	if b.field != nil && b.field.Dim() != len(u0) {
		return fmt.Errorf("scheme: field dimension %d, state dimension %d: %w",
			b.field.Dim(), len(u0), ode.ErrDimensionMismatch)
	}
	if b.h == 0 {
		b.h = DefaultStepsize
	}
	b.roundoff = u0.Zeros()
	return nil
}

func (b *Base) initialized() bool { return b.roundoff != nil }

// Guess is the default root-finder starting point: the additive
// identity sized like the state.
func (b *Base) Guess(t float64, u0 ode.State, h float64) ode.State {
	return u0.Zeros()
}

// Reconstruct is the default identity: the root already is delta u.
func (b *Base) Reconstruct(u0, root ode.State) ode.State {
	return root
}

// delta computes the difference between the current and next state:
// guess, residual, direct solve with Newton fallback, reconstruct.
func (b *Base) delta(rs residualScheme, t float64, u0 ode.State, h float64) (float64, ode.State, error) {
	residual := rs.Residual(t, u0, h)
	guess := rs.Guess(t, u0, h)

	root, err := b.Direct(residual).Run(guess)
	if err != nil {
		if !errors.Is(err, newton.ErrDidNotConverge) {
			return 0, nil, fmt.Errorf("scheme: direct solve: %w", err)
		}
		b.logger.Info("switching nonlinear solver", "t", t, "err", err)
		root, err = b.Fallback(residual).Run(guess)
		if err != nil {
			return 0, nil, fmt.Errorf("scheme: root finding failed: %w", err)
		}
	}

	return t + h, rs.Reconstruct(u0, root), nil
}

// stepCompensated is the default Step body: delta followed by the
// compensated summation of Hairer, Lubich, Wanner, Geometric Numerical
// Integration, §VIII.5.
func (b *Base) stepCompensated(rs residualScheme, t float64, u0 ode.State) (float64, ode.State, error) {
	if !b.initialized() {
		return 0, nil, ode.ErrNotInitialized
	}
	t1, du, err := b.delta(rs, t, u0, b.h)
	if err != nil {
		return 0, nil, err
	}
	return t1, b.accumulate(u0, du), nil
}

// accumulate adds du to u0 through the roundoff accumulator, keeping
// the bits that a naive u0+du would discard.
func (b *Base) accumulate(u0, du ode.State) ode.State {
	b.roundoff.AddInPlace(du)
	u1 := u0.Add(b.roundoff)
	b.roundoff.AddInPlace(u0.Sub(u1))
	return u1
}
