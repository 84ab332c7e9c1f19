package ode

import (
	"math"
	"math/cmplx"
)

type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s State) Norm() float64 {
	sum := 0.0
	for _, v := range s {
		sum += v * v
	}
	return math.Sqrt(sum)
}

// MaxNorm returns the infinity norm, used for convergence checks.
func (s State) MaxNorm() float64 {
	m := 0.0
	for _, v := range s {
		if a := math.Abs(v); a > m {
			m = a
		}
	}
	return m
}

func (s State) Add(other State) State {
	result := make(State, len(s))
	for i := range s {
		if i < len(other) {
			result[i] = s[i] + other[i]
		} else {
			result[i] = s[i]
		}
	}
	return result
}

func (s State) Sub(other State) State {
	result := make(State, len(s))
	for i := range s {
		if i < len(other) {
			result[i] = s[i] - other[i]
		} else {
			result[i] = s[i]
		}
	}
	return result
}

func (s State) Scale(factor float64) State {
	result := make(State, len(s))
	for i := range s {
		result[i] = s[i] * factor
	}
	return result
}

// AddInPlace accumulates other into s without allocating. Both slices
// must have the same length.
func (s State) AddInPlace(other State) {
	for i := range s {
		s[i] += other[i]
	}
}

// Zeros returns the additive identity with the same dimension as s.
func (s State) Zeros() State {
	return make(State, len(s))
}

type ComplexState []complex128

func (s ComplexState) Clone() ComplexState {
	c := make(ComplexState, len(s))
	copy(c, s)
	return c
}

func (s ComplexState) IsValid() bool {
	for _, v := range s {
		if cmplx.IsNaN(v) || cmplx.IsInf(v) {
			return false
		}
	}
	return true
}

func (s ComplexState) Norm() float64 {
	sum := 0.0
	for _, v := range s {
		sum += real(v)*real(v) + imag(v)*imag(v)
	}
	return math.Sqrt(sum)
}

// VectorField is the right-hand side of an ODE: du/dt = f(t, u).
type VectorField interface {
	Dim() int
	Eval(t float64, u State) State
}

// Residualer is an optional fast path for fields that can supply their
// own closed-form implicit residual instead of the generic
// backward-Euler construction.
type Residualer interface {
	Residual(u1 State, t, h float64) State
}

// ComplexVectorField marks a field whose state is complex-valued. The
// real Eval is still required (for schemes that cannot handle complex
// states); EvalComplex is the authoritative dynamics.
type ComplexVectorField interface {
	VectorField
	EvalComplex(t float64, u ComplexState) ComplexState
}

// Pack flattens a complex state into interleaved (re, im) pairs. A
// ComplexVectorField's Dim reports the packed length, 2n.
func Pack(u ComplexState) State {
	s := make(State, 2*len(u))
	for i, v := range u {
		s[2*i] = real(v)
		s[2*i+1] = imag(v)
	}
	return s
}

// Unpack is the inverse of Pack.
func Unpack(s State) ComplexState {
	u := make(ComplexState, len(s)/2)
	for i := range u {
		u[i] = complex(s[2*i], s[2*i+1])
	}
	return u
}

// Func adapts a plain function to the VectorField interface.
type Func struct {
	N int
	F func(t float64, u State) State
}

func (f Func) Dim() int                      { return f.N }
func (f Func) Eval(t float64, u State) State { return f.F(t, u) }
