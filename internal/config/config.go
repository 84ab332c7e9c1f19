package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultStepsize = 0.01
	DefaultTime     = 10.0
	DefaultTol      = 1e-6
	DefaultLambda   = 1.0
	DefaultMu       = 2.0
	DefaultOmega    = 1.0
	DefaultEpsilon  = 0.5
	DefaultZ0       = 0.3
	DefaultEnergy   = 1.5
)

type Config struct {
	Model    string          `yaml:"model"`
	Scheme   string          `yaml:"scheme"`
	Stepsize float64         `yaml:"stepsize"`
	Tol      float64         `yaml:"tol"`
	Time     float64         `yaml:"time"`
	MaxSteps int             `yaml:"max_steps"`
	Adaptive bool            `yaml:"adaptive"`
	Init     InitStateConfig `yaml:"init_state"`
	Params   ParamConfig     `yaml:"params"`
}

type InitStateConfig struct {
	// U overrides the model's constructed initial state when set.
	U []float64 `yaml:"u,omitempty"`

	// Contact oscillator initial condition inputs.
	Z0     float64 `yaml:"z0"`
	Energy float64 `yaml:"energy"`
	Z0Dot  float64 `yaml:"z0dot"`
}

type ParamConfig struct {
	Epsilon float64 `yaml:"epsilon"`
	Lambda  float64 `yaml:"lambda"`
	Mu      float64 `yaml:"mu"`
	Omega   float64 `yaml:"omega"`
}

func DefaultConfig() *Config {
	return &Config{
		Model:    "harmonic",
		Scheme:   "rk4",
		Stepsize: DefaultStepsize,
		Tol:      DefaultTol,
		Time:     DefaultTime,
		Init: InitStateConfig{
			Z0:     DefaultZ0,
			Energy: DefaultEnergy,
		},
		Params: ParamConfig{
			Epsilon: DefaultEpsilon,
			Lambda:  DefaultLambda,
			Mu:      DefaultMu,
			Omega:   DefaultOmega,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
