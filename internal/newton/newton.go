package newton

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/odestep/internal/ode"
)

// Func is a residual: it maps a candidate vector to a vector that must
// vanish at the solution. Implementations must be pure functions of
// their argument.
type Func func(ode.State) ode.State

// Solver finds a root of a residual fixed at construction.
type Solver interface {
	Run(guess ode.State) (ode.State, error)
}

const (
	// DefaultTol is the convergence tolerance on the residual max norm.
	DefaultTol = 1e-10

	// DefaultMaxIter bounds the Newton iteration count.
	DefaultMaxIter = 50

	// fdScale is the forward-difference perturbation used for the
	// numerically estimated Jacobian.
	fdScale = 1e-7
)

// Newton is the classical Newton iteration: at each step it solves the
// linearized residual J dx = -r using a finite-difference Jacobian.
type Newton struct {
	F       Func
	Tol     float64
	MaxIter int

	// Jacobian, if non-nil, replaces the finite-difference estimate.
	Jacobian func(x ode.State) *mat.Dense
}

// NewNewton returns a Newton solver for the residual f with default
// tolerance and iteration budget.
func NewNewton(f Func) *Newton {
	return &Newton{F: f, Tol: DefaultTol, MaxIter: DefaultMaxIter}
}

func (n *Newton) Run(guess ode.State) (ode.State, error) {
	x := guess.Clone()
	r := n.F(x)
	if len(r) != len(x) {
		return nil, fmt.Errorf("newton: residual dimension %d does not match guess dimension %d: %w",
			len(r), len(x), ode.ErrDimensionMismatch)
	}

	for iter := 0; iter < n.MaxIter; iter++ {
		if r.MaxNorm() <= n.Tol {
			return x, nil
		}

		var jac *mat.Dense
		if n.Jacobian != nil {
			jac = n.Jacobian(x)
		} else {
			jac = fdJacobian(n.F, x, r)
		}

		dx, err := solveLinear(jac, r)
		if err != nil {
			return nil, fmt.Errorf("newton: iteration %d: %w", iter, err)
		}

		for i := range x {
			x[i] -= dx[i]
		}
		r = n.F(x)
		if !r.IsValid() {
			return nil, fmt.Errorf("newton: residual diverged at iteration %d: %w", iter, ErrDidNotConverge)
		}
	}

	if r.MaxNorm() <= n.Tol {
		return x, nil
	}
	return nil, fmt.Errorf("newton: no convergence after %d iterations (residual %.3e): %w",
		n.MaxIter, r.MaxNorm(), ErrDidNotConverge)
}

// fdJacobian estimates the Jacobian of f at x by forward differences.
// r0 is f(x), reused to save one evaluation per column.
func fdJacobian(f Func, x ode.State, r0 ode.State) *mat.Dense {
	n := len(x)
	jac := mat.NewDense(n, n, nil)
	xp := x.Clone()

	for j := 0; j < n; j++ {
		h := fdScale * (1 + abs(x[j]))
		xp[j] = x[j] + h
		rp := f(xp)
		xp[j] = x[j]

		for i := 0; i < n; i++ {
			jac.Set(i, j, (rp[i]-r0[i])/h)
		}
	}
	return jac
}

// solveLinear solves J dx = r. A singular linearization is reported as
// non-convergence so the caller's fallback policy stays coarse-grained.
func solveLinear(jac *mat.Dense, r ode.State) (ode.State, error) {
	n := len(r)
	b := mat.NewVecDense(n, r)
	var sol mat.VecDense
	if err := sol.SolveVec(jac, b); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSingularJacobian, ErrDidNotConverge)
	}

	dx := make(ode.State, n)
	for i := 0; i < n; i++ {
		dx[i] = sol.AtVec(i)
	}
	return dx, nil
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
