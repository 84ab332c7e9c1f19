package newton

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/odestep/internal/ode"
)

// DefaultFSolveMaxIter bounds the quasi-Newton iteration count. The
// rank-one updates are cheap, so the budget is larger than Newton's.
const DefaultFSolveMaxIter = 300

// FSolve is a quasi-Newton black-box solver using Broyden's good
// method: a finite-difference Jacobian is built once and then corrected
// by rank-one updates from the observed residual changes. It is fast
// when it converges but may fail on poorly scaled or stiff residuals;
// callers are expected to fall back to [Newton] on ErrDidNotConverge.
type FSolve struct {
	F       Func
	Tol     float64
	MaxIter int
}

// NewFSolve returns a quasi-Newton solver for the residual f with
// default tolerance and iteration budget.
func NewFSolve(f Func) *FSolve {
	return &FSolve{F: f, Tol: DefaultTol, MaxIter: DefaultFSolveMaxIter}
}

func (s *FSolve) Run(guess ode.State) (ode.State, error) {
	x := guess.Clone()
	r := s.F(x)
	if len(r) != len(x) {
		return nil, fmt.Errorf("fsolve: residual dimension %d does not match guess dimension %d: %w",
			len(r), len(x), ode.ErrDimensionMismatch)
	}
	n := len(x)

	if r.MaxNorm() <= s.Tol {
		return x, nil
	}

	jac := fdJacobian(s.F, x, r)

	for iter := 0; iter < s.MaxIter; iter++ {
		dx, err := solveLinear(jac, r)
		if err != nil {
			return nil, fmt.Errorf("fsolve: iteration %d: %w", iter, err)
		}
		for i := range dx {
			dx[i] = -dx[i]
		}

		xNew := x.Add(dx)
		rNew := s.F(xNew)
		if !rNew.IsValid() {
			return nil, fmt.Errorf("fsolve: residual diverged at iteration %d: %w", iter, ErrDidNotConverge)
		}

		if rNew.MaxNorm() <= s.Tol {
			return xNew, nil
		}

		// Broyden good update: J += (dr - J dx) dxT / (dxT dx).
		dr := rNew.Sub(r)
		broydenUpdate(jac, dx, dr, n)

		x, r = xNew, rNew
	}

	return nil, fmt.Errorf("fsolve: no convergence after %d iterations (residual %.3e): %w",
		s.MaxIter, r.MaxNorm(), ErrDidNotConverge)
}

func broydenUpdate(jac *mat.Dense, dx, dr ode.State, n int) {
	dd := 0.0
	for _, v := range dx {
		dd += v * v
	}
	if dd == 0 {
		return
	}

	jdx := make([]float64, n)
	for i := 0; i < n; i++ {
		sum := 0.0
		for j := 0; j < n; j++ {
			sum += jac.At(i, j) * dx[j]
		}
		jdx[i] = sum
	}

	for i := 0; i < n; i++ {
		c := (dr[i] - jdx[i]) / dd
		for j := 0; j < n; j++ {
			jac.Set(i, j, jac.At(i, j)+c*dx[j])
		}
	}
}
