package config

import (
	"fmt"

	"github.com/san-kum/odestep/internal/metrics"
	"github.com/san-kum/odestep/internal/models"
	"github.com/san-kum/odestep/internal/ode"
	"github.com/san-kum/odestep/internal/scheme"
	"github.com/san-kum/odestep/internal/solver"
	"github.com/san-kum/odestep/internal/system"
)

// Registry resolves the model and scheme names used in configuration
// files into live instances.
type Registry struct {
	models  map[string]func(*Config) (ode.VectorField, ode.State)
	schemes map[string]func(ode.VectorField, *Config) scheme.Scheme
}

func NewRegistry() *Registry {
	r := &Registry{
		models:  make(map[string]func(*Config) (ode.VectorField, ode.State)),
		schemes: make(map[string]func(ode.VectorField, *Config) scheme.Scheme),
	}

	r.models["harmonic"] = func(cfg *Config) (ode.VectorField, ode.State) {
		return models.NewHarmonic(), ode.State{1, 0}
	}
	r.models["decay"] = func(cfg *Config) (ode.VectorField, ode.State) {
		return models.NewDecay(cfg.Params.Lambda), ode.State{1}
	}
	r.models["vanderpol"] = func(cfg *Config) (ode.VectorField, ode.State) {
		return models.NewVanDerPol(cfg.Params.Mu), ode.State{2, 0}
	}
	r.models["phasor"] = func(cfg *Config) (ode.VectorField, ode.State) {
		return models.NewPhasor(cfg.Params.Omega), ode.State{1, 0}
	}
	r.models["oscillator"] = func(cfg *Config) (ode.VectorField, ode.State) {
		osc := models.NewContactOscillator(cfg.Params.Epsilon)
		u0 := osc.Initial(cfg.Init.Z0, cfg.Init.Energy, cfg.Init.Z0Dot)
		return system.NewField(osc), u0
	}
	r.models["disk"] = func(cfg *Config) (ode.VectorField, ode.State) {
		disk := models.NewVerticalRollingDisk()
		// Start on the exact rolling circle so the constraint holds.
		u0 := disk.Exact(0, ode.State{0, 0, 0.3, 0, 0, 0, 1.2, 0.8, 0, 0})
		return system.NewField(disk), u0
	}

	r.schemes["explicit_euler"] = func(f ode.VectorField, cfg *Config) scheme.Scheme {
		return scheme.NewExplicitEuler(f, cfg.Stepsize)
	}
	r.schemes["implicit_euler"] = func(f ode.VectorField, cfg *Config) scheme.Scheme {
		return scheme.NewImplicitEuler(f, cfg.Stepsize)
	}
	r.schemes["trapezoidal"] = func(f ode.VectorField, cfg *Config) scheme.Scheme {
		return scheme.NewTrapezoidal(f, cfg.Stepsize)
	}
	r.schemes["rk4"] = func(f ode.VectorField, cfg *Config) scheme.Scheme {
		return scheme.NewRK4(f, cfg.Stepsize)
	}
	r.schemes["rk34"] = func(f ode.VectorField, cfg *Config) scheme.Scheme {
		s := scheme.NewRK34(f, cfg.Stepsize)
		if cfg.Tol > 0 {
			s.Tol = cfg.Tol
		}
		return s
	}
	r.schemes["stiff"] = func(f ode.VectorField, cfg *Config) scheme.Scheme {
		return scheme.NewStiff(f, cfg.Stepsize)
	}

	return r
}

// GetModel builds the configured vector field and its initial state.
// An explicit init_state.u in the config overrides the constructed
// initial condition.
func (r *Registry) GetModel(cfg *Config) (ode.VectorField, ode.State, error) {
	fn, ok := r.models[cfg.Model]
	if !ok {
		return nil, nil, fmt.Errorf("unknown model: %s", cfg.Model)
	}
	field, u0 := fn(cfg)
	if len(cfg.Init.U) > 0 {
		if len(cfg.Init.U) != field.Dim() {
			return nil, nil, fmt.Errorf("init state has %d components, model %s needs %d",
				len(cfg.Init.U), cfg.Model, field.Dim())
		}
		u0 = ode.State(cfg.Init.U).Clone()
	}
	return field, u0, nil
}

func (r *Registry) GetScheme(field ode.VectorField, cfg *Config) (scheme.Scheme, error) {
	fn, ok := r.schemes[cfg.Scheme]
	if !ok {
		return nil, fmt.Errorf("unknown scheme: %s", cfg.Scheme)
	}
	return fn(field, cfg), nil
}

func (r *Registry) ListModels() []string {
	names := make([]string, 0, len(r.models))
	for name := range r.models {
		names = append(names, name)
	}
	return names
}

func (r *Registry) ListSchemes() []string {
	names := make([]string, 0, len(r.schemes))
	for name := range r.schemes {
		names = append(names, name)
	}
	return names
}

// DefaultMetrics picks the diagnostics the field supports: energy
// drift when the field exposes an energy, constraint residual when it
// wraps a constrained system.
func (r *Registry) DefaultMetrics(field ode.VectorField) []solver.Metric {
	var ms []solver.Metric
	if e, ok := field.(metrics.Energier); ok {
		ms = append(ms, metrics.NewEnergyDrift(e))
	}
	if sf, ok := field.(*system.Field); ok {
		ms = append(ms, metrics.NewConstraintResidual(sf.System()))
	}
	return ms
}
