package config

var Presets = map[string]map[string]*Config{
	"harmonic": {
		"default": {
			Model: "harmonic", Scheme: "rk4", Stepsize: 0.01, Time: 20.0,
			Init: InitStateConfig{U: []float64{1, 0}},
		},
		"adaptive": {
			Model: "harmonic", Scheme: "rk34", Stepsize: 0.1, Tol: 1e-8, Time: 20.0,
			Adaptive: true,
			Init:     InitStateConfig{U: []float64{1, 0}},
		},
	},
	"decay": {
		"slow": {
			Model: "decay", Scheme: "rk4", Stepsize: 0.01, Time: 5.0,
			Params: ParamConfig{Lambda: 1},
			Init:   InitStateConfig{U: []float64{1}},
		},
		"stiff": {
			Model: "decay", Scheme: "stiff", Stepsize: 0.1, Time: 1.0,
			Params: ParamConfig{Lambda: 1000},
			Init:   InitStateConfig{U: []float64{1}},
		},
	},
	"vanderpol": {
		"mild": {
			Model: "vanderpol", Scheme: "rk4", Stepsize: 0.01, Time: 20.0,
			Params: ParamConfig{Mu: 1},
			Init:   InitStateConfig{U: []float64{2, 0}},
		},
		"relaxation": {
			Model: "vanderpol", Scheme: "stiff", Stepsize: 0.05, Time: 40.0,
			Params: ParamConfig{Mu: 50},
			Init:   InitStateConfig{U: []float64{2, 0}},
		},
	},
	"phasor": {
		"rotation": {
			Model: "phasor", Scheme: "stiff", Stepsize: 0.05, Time: 6.3,
			Params: ParamConfig{Omega: 1},
			Init:   InitStateConfig{U: []float64{1, 0}},
		},
	},
	"oscillator": {
		"contact": {
			Model: "oscillator", Scheme: "implicit_euler", Stepsize: 0.05, Time: 10.0,
			Params: ParamConfig{Epsilon: 0.5},
			Init:   InitStateConfig{Z0: 0.3, Energy: 1.5},
		},
		"free": {
			Model: "oscillator", Scheme: "implicit_euler", Stepsize: 0.05, Time: 10.0,
			Params: ParamConfig{Epsilon: 0},
			Init:   InitStateConfig{Z0: 0.2, Energy: 1.2, Z0Dot: 0.1},
		},
	},
	"disk": {
		"circle": {
			Model: "disk", Scheme: "trapezoidal", Stepsize: 0.01, Time: 10.0,
		},
	},
}

func GetPreset(model, preset string) *Config {
	modelPresets, ok := Presets[model]
	if !ok {
		return nil
	}
	cfg, ok := modelPresets[preset]
	if !ok {
		return nil
	}
	return cfg
}

func ListPresets(model string) []string {
	modelPresets, ok := Presets[model]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(modelPresets))
	for name := range modelPresets {
		names = append(names, name)
	}
	return names
}
