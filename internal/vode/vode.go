package vode

import (
	"math"
	"math/cmplx"
)

// Scalar is the element type of a stepper state: real mode (float64)
// or complex mode (complex128).
type Scalar interface {
	float64 | complex128
}

// bdf holds the history coefficients and corrector weight for one
// order of the backward differentiation formula
//
//	y_n = sum_i a_i y_{n-i} + beta h f(t_n, y_n)
type bdf struct {
	a    []float64
	beta float64
}

var bdfTable = [5]bdf{
	{[]float64{1}, 1},
	{[]float64{4.0 / 3.0, -1.0 / 3.0}, 2.0 / 3.0},
	{[]float64{18.0 / 11.0, -9.0 / 11.0, 2.0 / 11.0}, 6.0 / 11.0},
	{[]float64{48.0 / 25.0, -36.0 / 25.0, 16.0 / 25.0, -3.0 / 25.0}, 12.0 / 25.0},
	{[]float64{300.0 / 137.0, -300.0 / 137.0, 200.0 / 137.0, -75.0 / 137.0, 12.0 / 137.0}, 60.0 / 137.0},
}

const (
	defaultMaxSteps      = 3000
	defaultMaxOrder      = 5
	defaultTol           = 1e-8
	defaultInternalSteps = 200

	correctorMaxIter = 6
	minStepFraction  = 1e-12
)

// Stepper advances a system y' = f(t, y) through time with a
// variable-order BDF corrector. It is an imperative sequential
// resource: call SetInitialValue once, then Integrate with
// monotonically increasing targets. After a failed Integrate the
// stepper still holds its best-known (t, y); Successful reports the
// failure until the next SetInitialValue.
type Stepper[T Scalar] struct {
	F func(t float64, y []T) []T

	MaxSteps int
	MaxOrder int
	Tol      float64

	// InternalSteps is the subdivision each Integrate span starts
	// from; corrector failures halve the step further.
	InternalSteps int

	t    float64
	y    []T
	h    float64
	ok   bool
	hist [][]T // most recent first, hist[0] == y
}

// New returns a stepper for f with the default budget and tolerance.
func New[T Scalar](f func(t float64, y []T) []T) *Stepper[T] {
	return &Stepper[T]{
		F:             f,
		MaxSteps:      defaultMaxSteps,
		MaxOrder:      defaultMaxOrder,
		Tol:           defaultTol,
		InternalSteps: defaultInternalSteps,
		ok:            true,
	}
}

func (s *Stepper[T]) SetInitialValue(y []T, t float64) {
	s.y = append([]T(nil), y...)
	s.t = t
	s.h = 0
	s.ok = true
	s.hist = [][]T{s.y}
}

func (s *Stepper[T]) Successful() bool { return s.ok }

func (s *Stepper[T]) T() float64 { return s.t }

func (s *Stepper[T]) Y() []T {
	return append([]T(nil), s.y...)
}

// Integrate advances the state to target. On internal failure it stops
// early, latches Successful() == false and leaves (t, y) at the last
// completed internal step.
func (s *Stepper[T]) Integrate(target float64) {
	if !s.ok || target <= s.t {
		return
	}

	span := target - s.t
	s.h = span / float64(s.InternalSteps)
	minStep := span * minStepFraction

	// The BDF history assumes equally spaced steps, so each span
	// starts over from first order and ramps up as steps accumulate.
	s.hist = [][]T{s.y}

	for steps := 0; s.t < target; steps++ {
		if steps >= s.MaxSteps {
			s.ok = false
			return
		}

		h := s.h
		if s.t+h > target {
			h = target - s.t
		}

		order := len(s.hist)
		if order > s.MaxOrder {
			order = s.MaxOrder
		}

		yNew, converged := s.corrector(h, order)
		if !converged {
			s.h /= 2
			s.hist = [][]T{s.y}
			if s.h < minStep {
				s.ok = false
				return
			}
			continue
		}

		s.t += h
		s.y = yNew
		s.hist = append([][]T{yNew}, s.hist...)
		if len(s.hist) > s.MaxOrder {
			s.hist = s.hist[:s.MaxOrder]
		}
	}
}

// corrector solves the implicit BDF equation at t+h by a damped Newton
// iteration with a finite-difference Jacobian.
func (s *Stepper[T]) corrector(h float64, order int) ([]T, bool) {
	c := bdfTable[order-1]
	n := len(s.y)

	sum := make([]T, n)
	for k := 0; k < order; k++ {
		ak := scalar[T](c.a[k])
		for i := 0; i < n; i++ {
			sum[i] += ak * s.hist[k][i]
		}
	}

	bh := scalar[T](c.beta * h)
	tNew := s.t + h

	residual := func(y []T) []T {
		fy := s.F(tNew, y)
		r := make([]T, n)
		for i := 0; i < n; i++ {
			r[i] = y[i] - sum[i] - bh*fy[i]
		}
		return r
	}

	y := append([]T(nil), s.y...)
	for iter := 0; iter < correctorMaxIter; iter++ {
		r := residual(y)
		if !valid(r) {
			return nil, false
		}
		if maxAbs(r) <= s.Tol {
			return y, true
		}

		jac := fdJacobian(residual, y, r)
		dy, ok := solve(jac, r)
		if !ok {
			return nil, false
		}
		for i := 0; i < n; i++ {
			y[i] -= dy[i]
		}
	}

	r := residual(y)
	if valid(r) && maxAbs(r) <= s.Tol {
		return y, true
	}
	return nil, false
}

func fdJacobian[T Scalar](f func([]T) []T, y []T, r0 []T) [][]T {
	n := len(y)
	jac := make([][]T, n)
	for i := range jac {
		jac[i] = make([]T, n)
	}

	yp := append([]T(nil), y...)
	for j := 0; j < n; j++ {
		d := scalar[T](1e-7 * (1 + abs(y[j])))
		yp[j] = y[j] + d
		rp := f(yp)
		yp[j] = y[j]
		for i := 0; i < n; i++ {
			jac[i][j] = (rp[i] - r0[i]) / d
		}
	}
	return jac
}

// solve performs Gaussian elimination with partial pivoting (by
// modulus) on a copy of jac. Returns false for a singular system.
func solve[T Scalar](jac [][]T, b []T) ([]T, bool) {
	n := len(b)
	a := make([][]T, n)
	for i := range a {
		a[i] = append([]T(nil), jac[i]...)
		a[i] = append(a[i], b[i])
	}

	for col := 0; col < n; col++ {
		pivot := col
		for row := col + 1; row < n; row++ {
			if abs(a[row][col]) > abs(a[pivot][col]) {
				pivot = row
			}
		}
		if abs(a[pivot][col]) == 0 {
			return nil, false
		}
		a[col], a[pivot] = a[pivot], a[col]

		for row := col + 1; row < n; row++ {
			factor := a[row][col] / a[col][col]
			for k := col; k <= n; k++ {
				a[row][k] -= factor * a[col][k]
			}
		}
	}

	x := make([]T, n)
	for i := n - 1; i >= 0; i-- {
		acc := a[i][n]
		for j := i + 1; j < n; j++ {
			acc -= a[i][j] * x[j]
		}
		x[i] = acc / a[i][i]
	}
	return x, true
}

func scalar[T Scalar](v float64) T {
	var zero T
	switch any(zero).(type) {
	case complex128:
		return any(complex(v, 0)).(T)
	default:
		return any(v).(T)
	}
}

func abs[T Scalar](v T) float64 {
	switch x := any(v).(type) {
	case float64:
		return math.Abs(x)
	case complex128:
		return cmplx.Abs(x)
	}
	return 0
}

func maxAbs[T Scalar](v []T) float64 {
	m := 0.0
	for _, x := range v {
		if a := abs(x); a > m {
			m = a
		}
	}
	return m
}

func valid[T Scalar](v []T) bool {
	for _, x := range v {
		if math.IsNaN(abs(x)) || math.IsInf(abs(x), 0) {
			return false
		}
	}
	return true
}
