package scheme

import (
	"math"
	"testing"

	"github.com/san-kum/odestep/internal/ode"
)

func integrateDecay(t *testing.T, s Scheme, h float64) float64 {
	t.Helper()
	if err := s.Initialize(0, ode.State{1}); err != nil {
		t.Fatal(err)
	}
	u := ode.State{1}
	tm := 0.0
	for tm < 1-h/2 {
		var err error
		tm, u, err = s.Step(tm, u)
		if err != nil {
			t.Fatal(err)
		}
	}
	return math.Abs(u[0] - math.Exp(-1))
}

func TestRK4FourthOrderConvergence(t *testing.T) {
	e1 := integrateDecay(t, NewRK4(decayField(), 0.1), 0.1)
	e2 := integrateDecay(t, NewRK4(decayField(), 0.05), 0.05)

	ratio := e1 / e2
	if ratio < 12 || ratio > 20 {
		t.Errorf("expected ~16x error reduction on halved step, got %.2f", ratio)
	}
}

func TestRK4Accuracy(t *testing.T) {
	e := integrateDecay(t, NewRK4(decayField(), 0.1), 0.1)
	if e > 1e-6 {
		t.Errorf("RK4 error too large: %e", e)
	}
}

func TestRK34MatchesRK4Update(t *testing.T) {
	// The embedded scheme's fourth order update is the RK4 update.
	h := 0.1
	rk4 := NewRK4(decayField(), h)
	rk34 := NewRK34(decayField(), h)
	if err := rk4.Initialize(0, ode.State{1}); err != nil {
		t.Fatal(err)
	}
	if err := rk34.Initialize(0, ode.State{1}); err != nil {
		t.Fatal(err)
	}

	_, u4, err := rk4.Step(0, ode.State{1})
	if err != nil {
		t.Fatal(err)
	}
	_, u34, err := rk34.Step(0, ode.State{1})
	if err != nil {
		t.Fatal(err)
	}

	if math.Abs(u4[0]-u34[0]) > 1e-15 {
		t.Errorf("updates differ: %v vs %v", u4[0], u34[0])
	}
}

func TestRK34RecordsErrorEstimate(t *testing.T) {
	s := NewRK34(decayField(), 0.1)
	if err := s.Initialize(0, ode.State{1}); err != nil {
		t.Fatal(err)
	}

	_, _, err := s.Step(0, ode.State{1})
	if err != nil {
		t.Fatal(err)
	}
	if s.ErrorEstimate() <= 0 {
		t.Errorf("expected positive error estimate, got %v", s.ErrorEstimate())
	}
}

func TestIncrementStepsizeShrinksOnLargeError(t *testing.T) {
	s := NewRK34(decayField(), 0.1)
	if err := s.Initialize(0, ode.State{1}); err != nil {
		t.Fatal(err)
	}

	s.SetErrorEstimate(1.0) // far above Tol
	s.IncrementStepsize()
	if s.Stepsize() >= 0.1 {
		t.Errorf("large error must shrink h, got %v", s.Stepsize())
	}
}

func TestIncrementStepsizeGrowsOnSmallError(t *testing.T) {
	s := NewRK34(decayField(), 0.1)
	if err := s.Initialize(0, ode.State{1}); err != nil {
		t.Fatal(err)
	}

	s.SetErrorEstimate(1e-9) // below Tol, above the zero cutoff
	s.IncrementStepsize()
	if s.Stepsize() <= 0.1 {
		t.Errorf("small error must grow h, got %v", s.Stepsize())
	}
}

func TestIncrementStepsizeZeroErrorResetsToOne(t *testing.T) {
	s := NewRK34(decayField(), 0.1)
	if err := s.Initialize(0, ode.State{1}); err != nil {
		t.Fatal(err)
	}

	s.SetErrorEstimate(1e-16)
	s.IncrementStepsize()
	if s.Stepsize() != 1 {
		t.Errorf("near-zero error must reset h to 1, got %v", s.Stepsize())
	}
}

func TestRK34AdaptiveRunConverges(t *testing.T) {
	s := NewRK34(decayField(), 0.1)
	s.Tol = 1e-8
	if err := s.Initialize(0, ode.State{1}); err != nil {
		t.Fatal(err)
	}

	u := ode.State{1}
	tm := 0.0
	for steps := 0; tm < 1 && steps < 10000; steps++ {
		if tm+s.Stepsize() > 1 {
			s.SetStepsize(1 - tm)
		}
		var err error
		tm, u, err = s.Step(tm, u)
		if err != nil {
			t.Fatal(err)
		}
		s.IncrementStepsize()
	}

	if math.Abs(u[0]-math.Exp(-1)) > 1e-5 {
		t.Errorf("adaptive run missed the solution: %v", u[0])
	}
}
