package scheme

import (
	"github.com/san-kum/odestep/internal/ode"
	"github.com/san-kum/odestep/internal/vode"
)

// Stiff delegates the whole step to an external variable-order BDF
// stepper. The stepper variant (real or complex mode) is selected
// once, at Initialize, from the vector field's type: fields
// implementing [ode.ComplexVectorField] get the complex stepper and
// their state travels packed as interleaved (re, im) pairs.
//
// A stepper that reports an unsuccessful internal step is a reported,
// non-fatal condition: Step still returns the stepper's best-known
// (t, y) and leaves the resume-or-abort decision to the caller, but
// the stall is logged and visible through Stalled.
type Stiff struct {
	Base

	// MaxSteps overrides the stepper's internal step budget when
	// positive. Applied at Initialize.
	MaxSteps int

	real    *vode.Stepper[float64]
	cplx    *vode.Stepper[complex128]
	stalled bool
}

func NewStiff(field ode.VectorField, h float64) *Stiff {
	return &Stiff{Base: newBase(field, h)}
}

func (s *Stiff) Initialize(t0 float64, u0 ode.State) error {
	if err := s.Base.Initialize(t0, u0); err != nil {
		return err
	}

	if cf, ok := s.field.(ode.ComplexVectorField); ok {
		s.cplx = vode.New(func(t float64, y []complex128) []complex128 {
			return cf.EvalComplex(t, y)
		})
		if s.MaxSteps > 0 {
			s.cplx.MaxSteps = s.MaxSteps
		}
		s.cplx.SetInitialValue(ode.Unpack(u0), t0)
		return nil
	}

	s.real = vode.New(func(t float64, y []float64) []float64 {
		return s.field.Eval(t, y)
	})
	if s.MaxSteps > 0 {
		s.real.MaxSteps = s.MaxSteps
	}
	s.real.SetInitialValue(u0, t0)
	return nil
}

// ComplexMode reports which stepper variant Initialize selected.
func (s *Stiff) ComplexMode() bool { return s.cplx != nil }

// Stalled reports whether the latest Step's external stepper did not
// complete successfully. Valid immediately after a Step call.
func (s *Stiff) Stalled() bool { return s.stalled }

func (s *Stiff) Step(t float64, u0 ode.State) (float64, ode.State, error) {
	if s.real == nil && s.cplx == nil {
		return 0, nil, ode.ErrNotInitialized
	}

	if s.cplx != nil {
		s.cplx.Integrate(s.cplx.T() + s.h)
		s.stalled = !s.cplx.Successful()
		if s.stalled {
			s.logger.Warn("stiff stepper did not complete", "t", s.cplx.T())
		}
		return s.cplx.T(), ode.Pack(s.cplx.Y()), nil
	}

	s.real.Integrate(s.real.T() + s.h)
	s.stalled = !s.real.Successful()
	if s.stalled {
		s.logger.Warn("stiff stepper did not complete", "t", s.real.T())
	}
	return s.real.T(), ode.State(s.real.Y()), nil
}
