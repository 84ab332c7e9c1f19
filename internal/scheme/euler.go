package scheme

import (
	"github.com/san-kum/odestep/internal/newton"
	"github.com/san-kum/odestep/internal/ode"
)

// ExplicitEuler advances with u1 = u + h f(t, u). Closed form, no
// root finding, no error control.
type ExplicitEuler struct {
	Base
}

func NewExplicitEuler(field ode.VectorField, h float64) *ExplicitEuler {
	return &ExplicitEuler{Base: newBase(field, h)}
}

func (s *ExplicitEuler) Step(t float64, u0 ode.State) (float64, ode.State, error) {
	if !s.initialized() {
		return 0, nil, ode.ErrNotInitialized
	}
	du := s.field.Eval(t, u0).Scale(s.h)
	return t + s.h, u0.Add(du), nil
}

// ImplicitEuler solves the backward Euler residual
//
//	r(u1) = u1 - u - h f(t+h, u1)
//
// for the next state, with a forward Euler predictor as the root
// finder's starting point.
type ImplicitEuler struct {
	Base
}

func NewImplicitEuler(field ode.VectorField, h float64) *ImplicitEuler {
	return &ImplicitEuler{Base: newBase(field, h)}
}

func (s *ImplicitEuler) Guess(t float64, u0 ode.State, h float64) ode.State {
	return u0.Add(s.field.Eval(t, u0).Scale(h))
}

func (s *ImplicitEuler) Residual(t float64, u0 ode.State, h float64) newton.Func {
	if r, ok := s.field.(ode.Residualer); ok {
		return func(u1 ode.State) ode.State {
			return r.Residual(u1, t, h)
		}
	}
	return func(u1 ode.State) ode.State {
		return u1.Sub(u0).Sub(s.field.Eval(t+h, u1).Scale(h))
	}
}

// Reconstruct subtracts u0: the root is the next state itself, not
// the increment.
func (s *ImplicitEuler) Reconstruct(u0, root ode.State) ode.State {
	return root.Sub(u0)
}

func (s *ImplicitEuler) Step(t float64, u0 ode.State) (float64, ode.State, error) {
	return s.stepCompensated(s, t, u0)
}

// Trapezoidal is the explicit trapezoidal rule (Heun's method): a
// forward Euler predictor averaged with the corrector slope.
type Trapezoidal struct {
	Base
}

func NewTrapezoidal(field ode.VectorField, h float64) *Trapezoidal {
	return &Trapezoidal{Base: newBase(field, h)}
}

func (s *Trapezoidal) Step(t float64, u0 ode.State) (float64, ode.State, error) {
	if !s.initialized() {
		return 0, nil, ode.ErrNotInitialized
	}
	h := s.h
	k1 := s.field.Eval(t, u0)
	u1 := u0.Add(k1.Scale(h))
	k2 := s.field.Eval(t+h, u1)

	du := k1.Add(k2).Scale(h / 2)
	return t + h, u0.Add(du), nil
}
