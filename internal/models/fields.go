package models

import (
	"math"

	"github.com/san-kum/odestep/internal/ode"
)

// Harmonic is the undamped harmonic oscillator x'' = -omega^2 x,
// state (x, v).
type Harmonic struct {
	Omega float64
}

func NewHarmonic() *Harmonic {
	return &Harmonic{Omega: 1}
}

func (h *Harmonic) Dim() int { return 2 }

func (h *Harmonic) Eval(t float64, u ode.State) ode.State {
	return ode.State{u[1], -h.Omega * h.Omega * u[0]}
}

func (h *Harmonic) Energy(u ode.State) float64 {
	return 0.5 * (u[1]*u[1] + h.Omega*h.Omega*u[0]*u[0])
}

// Decay is the scalar test problem u' = -lambda u with a known
// exponential solution. Large lambda makes it stiff.
type Decay struct {
	Lambda float64
}

func NewDecay(lambda float64) *Decay {
	return &Decay{Lambda: lambda}
}

func (d *Decay) Dim() int { return 1 }

func (d *Decay) Eval(t float64, u ode.State) ode.State {
	return ode.State{-d.Lambda * u[0]}
}

// VanDerPol is the Van der Pol oscillator; stiff for large Mu.
type VanDerPol struct {
	Mu float64
}

func NewVanDerPol(mu float64) *VanDerPol {
	return &VanDerPol{Mu: mu}
}

func (v *VanDerPol) Dim() int { return 2 }

func (v *VanDerPol) Eval(t float64, u ode.State) ode.State {
	return ode.State{
		u[1],
		v.Mu*(1-u[0]*u[0])*u[1] - u[0],
	}
}

// Phasor is the complex rotation u' = i omega u, stored packed as
// (re, im). It exercises the complex-mode stiff path.
type Phasor struct {
	Omega float64
}

func NewPhasor(omega float64) *Phasor {
	return &Phasor{Omega: omega}
}

func (p *Phasor) Dim() int { return 2 }

func (p *Phasor) Eval(t float64, u ode.State) ode.State {
	return ode.State{-p.Omega * u[1], p.Omega * u[0]}
}

func (p *Phasor) EvalComplex(t float64, u ode.ComplexState) ode.ComplexState {
	out := make(ode.ComplexState, len(u))
	for i, v := range u {
		out[i] = complex(0, p.Omega) * v
	}
	return out
}

func (p *Phasor) Energy(u ode.State) float64 {
	return math.Sqrt(u[0]*u[0] + u[1]*u[1])
}
