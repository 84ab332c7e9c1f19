// Package solver drives a scheme through an integration run: it owns
// the (t, u) pair, invokes one step at a time, records the trajectory
// and surfaces step failures with their context.
package solver

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/san-kum/odestep/internal/ode"
	"github.com/san-kum/odestep/internal/scheme"
)

// Metric observes states along a run and reduces them to one number.
type Metric interface {
	Name() string
	Observe(t float64, u ode.State)
	Value() float64
	Reset()
}

// Observer is notified of every accepted step.
type Observer interface {
	OnStep(t float64, u ode.State)
}

type Config struct {
	// Time is the integration horizon measured from t0.
	Time float64

	// MaxSteps bounds the run regardless of horizon; 0 means the
	// default.
	MaxSteps int

	// Adaptive calls IncrementStepsize after every accepted step.
	Adaptive bool
}

const defaultMaxSteps = 1_000_000

type Result struct {
	Times      []float64
	States     []ode.State
	Metrics    map[string]float64
	StepsTaken int
}

// Final returns the last recorded (t, u).
func (r *Result) Final() (float64, ode.State) {
	n := len(r.Times)
	return r.Times[n-1], r.States[n-1]
}

type Solver struct {
	sch       scheme.Scheme
	metrics   []Metric
	observers []Observer
	logger    *slog.Logger
}

func New(sch scheme.Scheme) *Solver {
	return &Solver{sch: sch, logger: slog.Default()}
}

func (s *Solver) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Solver) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *Solver) SetLogger(l *slog.Logger) {
	if l != nil {
		s.logger = l
	}
}

// Run integrates from (t0, u0) until the horizon is reached. The
// scheme is initialized exactly once, at the start of the run.
func (s *Solver) Run(ctx context.Context, t0 float64, u0 ode.State, cfg Config) (*Result, error) {
	if cfg.Time <= 0 {
		return nil, fmt.Errorf("solver: horizon must be positive, got %v", cfg.Time)
	}
	maxSteps := cfg.MaxSteps
	if maxSteps == 0 {
		maxSteps = defaultMaxSteps
	}

	if err := s.sch.Initialize(t0, u0); err != nil {
		return nil, fmt.Errorf("solver: initialize: %w", err)
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	result := &Result{
		Times:   []float64{t0},
		States:  []ode.State{u0.Clone()},
		Metrics: make(map[string]float64),
	}

	t := t0
	u := u0.Clone()
	s.observe(t, u)

	end := t0 + cfg.Time
	for step := 0; t < end; step++ {
		if step >= maxSteps {
			s.logger.Warn("step budget exhausted", "t", t, "steps", step)
			break
		}

		select {
		case <-ctx.Done():
			s.finish(result)
			return result, ctx.Err()
		default:
		}

		if t+s.sch.Stepsize() > end {
			s.sch.SetStepsize(end - t)
		}

		t1, u1, err := s.sch.Step(t, u)
		if err != nil {
			s.finish(result)
			return result, &ode.StepError{Step: step, Time: t, Wrapped: err}
		}
		if !u1.IsValid() {
			s.finish(result)
			return result, &ode.StepError{Step: step, Time: t, Wrapped: ode.ErrInvalidState}
		}

		t, u = t1, u1
		result.Times = append(result.Times, t)
		result.States = append(result.States, u.Clone())
		result.StepsTaken++

		s.observe(t, u)

		if cfg.Adaptive {
			s.sch.IncrementStepsize()
		}
	}

	s.finish(result)
	return result, nil
}

func (s *Solver) observe(t float64, u ode.State) {
	for _, m := range s.metrics {
		m.Observe(t, u)
	}
	for _, o := range s.observers {
		o.OnStep(t, u)
	}
}

func (s *Solver) finish(result *Result) {
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}
