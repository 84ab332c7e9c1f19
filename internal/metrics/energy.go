package metrics

import (
	"math"

	"github.com/san-kum/odestep/internal/ode"
)

// Energier is implemented by fields and systems that can report a
// conserved energy for a state.
type Energier interface {
	Energy(u ode.State) float64
}

// EnergyDrift tracks the worst relative deviation of the energy from
// its value at the first observed state.
type EnergyDrift struct {
	name    string
	src     Energier
	initial float64
	max     float64
	samples int
}

func NewEnergyDrift(src Energier) *EnergyDrift {
	return &EnergyDrift{name: "energy_drift", src: src}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(t float64, u ode.State) {
	energy := e.src.Energy(u)
	if e.samples == 0 {
		e.initial = energy
	}
	e.samples++

	if e.initial != 0 {
		drift := math.Abs(energy-e.initial) / math.Abs(e.initial)
		e.max = math.Max(e.max, drift)
	}
}

func (e *EnergyDrift) Value() float64 {
	return e.max
}

func (e *EnergyDrift) Reset() {
	e.initial = 0
	e.max = 0
	e.samples = 0
}
