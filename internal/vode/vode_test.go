package vode

import (
	"math"
	"math/cmplx"
	"testing"
)

func TestRealDecay(t *testing.T) {
	s := New(func(_ float64, y []float64) []float64 {
		return []float64{-y[0]}
	})
	s.SetInitialValue([]float64{1}, 0)
	s.Integrate(1)

	if !s.Successful() {
		t.Fatal("integration failed")
	}
	got := s.Y()[0]
	want := math.Exp(-1)
	if math.Abs(got-want) > 1e-4 {
		t.Errorf("expected %.6f, got %.6f", want, got)
	}
}

func TestStiffDecayStable(t *testing.T) {
	// lambda = -1000 is hopeless for an explicit method at this span;
	// the implicit corrector must stay bounded and land near zero.
	s := New(func(_ float64, y []float64) []float64 {
		return []float64{-1000 * y[0]}
	})
	s.SetInitialValue([]float64{1}, 0)
	s.Integrate(1)

	if !s.Successful() {
		t.Fatal("integration failed")
	}
	if math.Abs(s.Y()[0]) > 1e-3 {
		t.Errorf("stiff decay not damped: %v", s.Y()[0])
	}
}

func TestComplexRotation(t *testing.T) {
	// y' = i y rotates on the unit circle.
	s := New(func(_ float64, y []complex128) []complex128 {
		return []complex128{1i * y[0]}
	})
	s.SetInitialValue([]complex128{1}, 0)
	s.Integrate(math.Pi / 2)

	if !s.Successful() {
		t.Fatal("integration failed")
	}
	got := s.Y()[0]
	if cmplx.Abs(got-1i) > 1e-3 {
		t.Errorf("expected i, got %v", got)
	}
}

func TestStepBudgetExhaustion(t *testing.T) {
	s := New(func(_ float64, y []float64) []float64 {
		return []float64{-y[0]}
	})
	s.MaxSteps = 3
	s.SetInitialValue([]float64{1}, 0)
	s.Integrate(1)

	if s.Successful() {
		t.Error("expected failure with a 3-step budget")
	}
	// Best-known state is still held.
	if s.T() < 0 || s.T() > 1 {
		t.Errorf("unexpected time %v", s.T())
	}
	if len(s.Y()) != 1 {
		t.Error("state lost after failure")
	}
}

func TestFailureLatchesUntilReset(t *testing.T) {
	s := New(func(_ float64, y []float64) []float64 {
		return []float64{-y[0]}
	})
	s.MaxSteps = 1
	s.SetInitialValue([]float64{1}, 0)
	s.Integrate(1)
	if s.Successful() {
		t.Fatal("expected failure")
	}

	// Further Integrate calls are no-ops while failed.
	tBefore := s.T()
	s.Integrate(2)
	if s.T() != tBefore {
		t.Error("failed stepper advanced")
	}

	s.MaxSteps = 3000
	s.SetInitialValue([]float64{1}, 0)
	if !s.Successful() {
		t.Error("reset did not clear failure")
	}
}

func TestMonotonicTargets(t *testing.T) {
	s := New(func(tm float64, y []float64) []float64 {
		return []float64{math.Cos(tm)}
	})
	s.SetInitialValue([]float64{0}, 0)

	for _, target := range []float64{0.25, 0.5, 0.75, 1.0} {
		s.Integrate(target)
		if !s.Successful() {
			t.Fatalf("failed at target %v", target)
		}
	}

	want := math.Sin(1)
	if math.Abs(s.Y()[0]-want) > 1e-3 {
		t.Errorf("expected %.6f, got %.6f", want, s.Y()[0])
	}
}
