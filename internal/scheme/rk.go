package scheme

import (
	"math"

	"github.com/san-kum/odestep/internal/ode"
)

// RK4 is the classical explicit Runge-Kutta method of order four.
type RK4 struct {
	Base
}

func NewRK4(field ode.VectorField, h float64) *RK4 {
	return &RK4{Base: newBase(field, h)}
}

func (s *RK4) Step(t float64, u0 ode.State) (float64, ode.State, error) {
	if !s.initialized() {
		return 0, nil, ode.ErrNotInitialized
	}
	h := s.h
	f := s.field

	k1 := f.Eval(t, u0)
	k2 := f.Eval(t+h/2, u0.Add(k1.Scale(h/2)))
	k3 := f.Eval(t+h/2, u0.Add(k2.Scale(h/2)))
	k4 := f.Eval(t+h, u0.Add(k3.Scale(h)))

	du := make(ode.State, len(u0))
	for i := range du {
		du[i] = h / 6 * (k1[i] + 2*k2[i] + 2*k3[i] + k4[i])
	}
	return t + h, u0.Add(du), nil
}

// RK34ErrorOrder is the order the step-size update divides by.
const RK34ErrorOrder = 4

// DefaultRK34Tol is the target local error for adaptive stepping.
const DefaultRK34Tol = 1e-6

// RK34 is the classical fourth order method with an embedded third
// order estimate. Each Step records a local error estimate which
// IncrementStepsize consumes to rewrite h for the next call.
type RK34 struct {
	Base
	Tol float64

	err float64
}

func NewRK34(field ode.VectorField, h float64) *RK34 {
	return &RK34{Base: newBase(field, h), Tol: DefaultRK34Tol}
}

// ErrorEstimate returns the local error recorded by the latest Step.
// It is meaningful only immediately after a Step call.
func (s *RK34) ErrorEstimate() float64 { return s.err }

// SetErrorEstimate overrides the recorded estimate. Exposed for the
// outer loop and for exercising the step-size policy directly.
func (s *RK34) SetErrorEstimate(e float64) { s.err = e }

// IncrementStepsize rewrites h from the ratio of the target tolerance
// to the latest error estimate. A numerically zero estimate resets
// h to 1 instead of dividing by it.
func (s *RK34) IncrementStepsize() {
	if s.err > 1e-15 {
		s.h *= math.Pow(s.Tol/s.err, 1.0/RK34ErrorOrder)
	} else {
		s.h = 1
	}
}

func (s *RK34) Step(t float64, u0 ode.State) (float64, ode.State, error) {
	if !s.initialized() {
		return 0, nil, ode.ErrNotInitialized
	}
	h := s.h
	f := s.field

	k1 := f.Eval(t, u0)
	k2 := f.Eval(t+h/2, u0.Add(k1.Scale(h/2)))
	k3 := f.Eval(t+h/2, u0.Add(k2.Scale(h/2)))
	z3 := f.Eval(t+h, u0.Sub(k1.Scale(h)).Add(k2.Scale(2*h)))
	k4 := f.Eval(t+h, u0.Add(k3.Scale(h)))

	est := make(ode.State, len(u0))
	du := make(ode.State, len(u0))
	for i := range u0 {
		est[i] = h / 6 * (2*k2[i] + z3[i] - 2*k3[i] - k4[i])
		du[i] = h / 6 * (k1[i] + 2*k2[i] + 2*k3[i] + k4[i])
	}
	s.err = est.Norm()

	return t + h, u0.Add(du), nil
}
