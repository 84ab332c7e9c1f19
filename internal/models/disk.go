package models

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/odestep/internal/ode"
)

// VerticalRollingDisk is a disk rolling upright without slipping: SE(2)
// coordinates plus a rotation angle, two velocity constraints tying
// the contact point to the rolling rate. The state stacks 4 positions,
// 4 velocities and 2 multipliers.
type VerticalRollingDisk struct {
	Mass   float64
	Radius float64
	Iflip  float64 // inertia around the flip axis
	Irot   float64 // inertia around the rotation symmetry axis
}

func NewVerticalRollingDisk() *VerticalRollingDisk {
	return &VerticalRollingDisk{Mass: 1, Radius: 1, Iflip: 1, Irot: 1}
}

// Size is the full state dimension: 4 + 4 + 2.
func (d *VerticalRollingDisk) Size() int { return 10 }

func (d *VerticalRollingDisk) Position(u ode.State) ode.State { return u[:4] }
func (d *VerticalRollingDisk) Velocity(u ode.State) ode.State { return u[4:8] }
func (d *VerticalRollingDisk) Lag(u ode.State) ode.State      { return u[8:10] }

func (d *VerticalRollingDisk) Assemble(q, v, l ode.State) ode.State {
	u := make(ode.State, 0, len(q)+len(v)+len(l))
	u = append(u, q...)
	u = append(u, v...)
	u = append(u, l...)
	return u
}

// Force is zero: the disk moves under constraint reaction alone.
func (d *VerticalRollingDisk) Force(u ode.State) ode.State {
	return make(ode.State, 4)
}

func (d *VerticalRollingDisk) Codistribution(u ode.State) *mat.Dense {
	phi := u[2]
	r := d.Radius
	return mat.NewDense(2, 4, []float64{
		1, 0, 0, -r * math.Cos(phi),
		0, 1, 0, -r * math.Sin(phi),
	})
}

func (d *VerticalRollingDisk) Energy(u ode.State) float64 {
	return 0.5 * (d.Mass*(u[4]*u[4]+u[5]*u[5]) +
		d.Iflip*u[6]*u[6] + d.Irot*u[7]*u[7])
}

// Exact evaluates the closed-form solution at time t for the initial
// condition u0. The disk rolls along a circle of radius
// R omega_theta / omega_phi.
func (d *VerticalRollingDisk) Exact(t float64, u0 ode.State) ode.State {
	x0, y0, phi0, theta0 := u0[0], u0[1], u0[2], u0[3]
	ohmPhi, ohmTheta := u0[6], u0[7]
	r := d.Radius
	rho := ohmTheta * r / ohmPhi
	phi := ohmPhi*t + phi0

	return ode.State{
		rho*(math.Sin(phi)-math.Sin(phi0)) + x0,
		-rho*(math.Cos(phi)-math.Cos(phi0)) + y0,
		phi,
		ohmTheta*t + theta0,
		r * math.Cos(phi) * ohmTheta,
		r * math.Sin(phi) * ohmTheta,
		ohmPhi,
		ohmTheta,
		-d.Mass * ohmPhi * r * ohmTheta * math.Sin(phi),
		d.Mass * ohmPhi * r * ohmTheta * math.Cos(phi),
	}
}
