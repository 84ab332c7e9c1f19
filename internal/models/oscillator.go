package models

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/odestep/internal/ode"
)

// ContactOscillator is a nonlinear perturbation of the contact
// oscillator, a nonholonomic system with a single velocity constraint
// (McLachlan, Perlmutter, Integrators for Nonholonomic Mechanical
// Systems, J. Nonlinear Sci. 16, 2006, example 5.2).
//
// The state stacks 3 positions, 3 velocities and 1 multiplier.
type ContactOscillator struct {
	Epsilon float64
}

func NewContactOscillator(epsilon float64) *ContactOscillator {
	return &ContactOscillator{Epsilon: epsilon}
}

// Size is the full state dimension: 3 + 3 + 1.
func (c *ContactOscillator) Size() int { return 7 }

func (c *ContactOscillator) Position(u ode.State) ode.State { return u[:3] }
func (c *ContactOscillator) Velocity(u ode.State) ode.State { return u[3:6] }
func (c *ContactOscillator) Lag(u ode.State) ode.State      { return u[6:7] }

func (c *ContactOscillator) Assemble(q, v, l ode.State) ode.State {
	u := make(ode.State, 0, len(q)+len(v)+len(l))
	u = append(u, q...)
	u = append(u, v...)
	u = append(u, l...)
	return u
}

func (c *ContactOscillator) Force(u ode.State) ode.State {
	q := c.Position(u)
	return ode.State{
		-q[0] - c.Epsilon*q[2]*q[0]*q[2],
		-q[1],
		-q[2] - c.Epsilon*q[2]*q[0]*q[0],
	}
}

func (c *ContactOscillator) Codistribution(u ode.State) *mat.Dense {
	q := c.Position(u)
	return mat.NewDense(1, 3, []float64{1, 0, q[1]})
}

func (c *ContactOscillator) Energy(u ode.State) float64 {
	q := c.Position(u)
	v := c.Velocity(u)
	return 0.5 * (v[0]*v[0] + v[1]*v[1] + v[2]*v[2] +
		q[0]*q[0] + q[1]*q[1] + q[2]*q[2] +
		c.Epsilon*q[0]*q[0]*q[2]*q[2])
}

// Initial builds an energy-consistent initial condition from a height
// z0, target energy e0 and vertical velocity z0dot. The multiplier is
// chosen so the constraint is satisfied at t = 0.
func (c *ContactOscillator) Initial(z0, e0, z0dot float64) ode.State {
	x0 := math.Sqrt((2*e0 - 2*z0dot*z0dot - z0*z0 - 1) / (1 + c.Epsilon*z0*z0))
	q := ode.State{x0, 1, z0}
	v := ode.State{-z0dot, 0, z0dot}
	l := (q[0] + q[1]*q[2] - v[1]*v[2] +
		c.Epsilon*(q[0]*q[2]*q[2]+q[0]*q[0]*q[1]*q[2])) / (1 + q[1]*q[1])
	return c.Assemble(q, v, ode.State{l})
}

// TimeStep returns the step size that resolves one oscillation period
// in N steps.
func (c *ContactOscillator) TimeStep(n int) float64 {
	return 2 * math.Sin(math.Pi/float64(n))
}
