package ode

import (
	"math"
	"testing"
)

func TestStateArithmetic(t *testing.T) {
	a := State{1, 2, 3}
	b := State{0.5, -1, 2}

	sum := a.Add(b)
	if sum[0] != 1.5 || sum[1] != 1 || sum[2] != 5 {
		t.Errorf("unexpected sum: %v", sum)
	}

	diff := a.Sub(b)
	if diff[0] != 0.5 || diff[1] != 3 || diff[2] != 1 {
		t.Errorf("unexpected diff: %v", diff)
	}

	scaled := a.Scale(2)
	if scaled[0] != 2 || scaled[1] != 4 || scaled[2] != 6 {
		t.Errorf("unexpected scale: %v", scaled)
	}
}

func TestStateCloneIndependence(t *testing.T) {
	a := State{1, 2}
	c := a.Clone()
	c[0] = 99

	if a[0] != 1 {
		t.Error("clone aliases original")
	}
}

func TestStateNorms(t *testing.T) {
	s := State{3, -4}

	if math.Abs(s.Norm()-5) > 1e-15 {
		t.Errorf("expected norm 5, got %f", s.Norm())
	}
	if s.MaxNorm() != 4 {
		t.Errorf("expected max norm 4, got %f", s.MaxNorm())
	}
}

func TestStateIsValid(t *testing.T) {
	if !(State{1, 2}).IsValid() {
		t.Error("finite state reported invalid")
	}
	if (State{1, math.NaN()}).IsValid() {
		t.Error("NaN state reported valid")
	}
	if (State{math.Inf(1)}).IsValid() {
		t.Error("Inf state reported valid")
	}
}

func TestComplexStateNorm(t *testing.T) {
	s := ComplexState{3 + 4i}
	if math.Abs(s.Norm()-5) > 1e-15 {
		t.Errorf("expected norm 5, got %f", s.Norm())
	}
}

func TestFuncAdapter(t *testing.T) {
	f := Func{N: 1, F: func(t float64, u State) State {
		return State{-u[0]}
	}}

	if f.Dim() != 1 {
		t.Errorf("expected dim 1, got %d", f.Dim())
	}
	du := f.Eval(0, State{2})
	if du[0] != -2 {
		t.Errorf("expected -2, got %f", du[0])
	}
}
