package config

import (
	"testing"

	"github.com/san-kum/odestep/internal/scheme"
	"github.com/san-kum/odestep/internal/system"
)

func TestRegistryResolvesEveryPreset(t *testing.T) {
	r := NewRegistry()

	for model, presets := range Presets {
		for name, cfg := range presets {
			field, u0, err := r.GetModel(cfg)
			if err != nil {
				t.Fatalf("%s/%s: model: %v", model, name, err)
			}
			if len(u0) != field.Dim() {
				t.Errorf("%s/%s: initial state has %d components, field dim %d",
					model, name, len(u0), field.Dim())
			}
			if _, err := r.GetScheme(field, cfg); err != nil {
				t.Errorf("%s/%s: scheme: %v", model, name, err)
			}
		}
	}
}

func TestRegistryUnknownNames(t *testing.T) {
	r := NewRegistry()

	cfg := DefaultConfig()
	cfg.Model = "orrery"
	if _, _, err := r.GetModel(cfg); err == nil {
		t.Error("expected error for unknown model")
	}

	cfg = DefaultConfig()
	cfg.Scheme = "leapfrog"
	field, _, err := r.GetModel(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := r.GetScheme(field, cfg); err == nil {
		t.Error("expected error for unknown scheme")
	}
}

func TestRegistryInitStateOverride(t *testing.T) {
	r := NewRegistry()

	cfg := DefaultConfig()
	cfg.Init.U = []float64{0.5, -0.5}
	_, u0, err := r.GetModel(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if u0[0] != 0.5 || u0[1] != -0.5 {
		t.Errorf("expected override state, got %v", u0)
	}

	cfg.Init.U = []float64{1}
	if _, _, err := r.GetModel(cfg); err == nil {
		t.Error("expected dimension error for short init state")
	}
}

func TestRegistryTolReachesAdaptiveScheme(t *testing.T) {
	r := NewRegistry()

	cfg := DefaultConfig()
	cfg.Scheme = "rk34"
	cfg.Tol = 1e-9
	field, _, err := r.GetModel(cfg)
	if err != nil {
		t.Fatal(err)
	}
	s, err := r.GetScheme(field, cfg)
	if err != nil {
		t.Fatal(err)
	}
	rk, ok := s.(*scheme.RK34)
	if !ok {
		t.Fatalf("expected RK34, got %T", s)
	}
	if rk.Tol != 1e-9 {
		t.Errorf("expected tol 1e-9, got %g", rk.Tol)
	}
}

func TestRegistryDefaultMetrics(t *testing.T) {
	r := NewRegistry()

	cfg := DefaultConfig()
	cfg.Model = "oscillator"
	field, _, err := r.GetModel(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := field.(*system.Field); !ok {
		t.Fatalf("expected constrained field, got %T", field)
	}
	ms := r.DefaultMetrics(field)
	if len(ms) != 2 {
		t.Errorf("expected energy and constraint metrics, got %d", len(ms))
	}

	cfg = DefaultConfig()
	cfg.Model = "decay"
	field, _, err = r.GetModel(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if ms := r.DefaultMetrics(field); len(ms) != 0 {
		t.Errorf("expected no metrics for decay, got %d", len(ms))
	}
}
