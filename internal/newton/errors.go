package newton

import "errors"

var (
	// ErrDidNotConverge indicates the iteration budget was exhausted
	// without driving the residual below tolerance. The scheme layer
	// treats any solver failure uniformly: try the quasi-Newton solver,
	// else classical Newton, else fail the step.
	ErrDidNotConverge = errors.New("newton: did not converge")

	// ErrSingularJacobian indicates the linearized residual could not
	// be solved. Errors carrying it also carry ErrDidNotConverge, so
	// callers need only test for non-convergence.
	ErrSingularJacobian = errors.New("newton: singular jacobian")
)
