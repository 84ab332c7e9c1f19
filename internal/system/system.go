// Package system expresses constrained mechanical systems as material
// for partitioned (Spark-style) integrators.
//
// A nonholonomic system carries velocity-level constraints encoded by
// a codistribution: contracting it with the velocity yields the
// constraint residual that must vanish, contracting its transpose
// with the Lagrange multiplier yields the reaction force acting back
// on the dynamics.
package system

import (
	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/odestep/internal/ode"
)

// NonHolonomic is the contract a constrained mechanical system must
// satisfy. The full state u stacks position, velocity and Lagrange
// multiplier blocks; Assemble is the inverse of the three accessors.
type NonHolonomic interface {
	Position(u ode.State) ode.State
	Velocity(u ode.State) ode.State
	Force(u ode.State) ode.State

	// Codistribution returns the m x n matrix of constraint directions
	// at the configuration in u, for m constraints on n position
	// coordinates.
	Codistribution(u ode.State) *mat.Dense

	// Lag returns the Lagrange multiplier block.
	Lag(u ode.State) ode.State

	Assemble(q, v, l ode.State) ode.State
	Energy(u ode.State) float64
}

// Constraint contracts the codistribution with the velocity. The
// result must vanish along any admissible trajectory.
func Constraint(sys NonHolonomic, u ode.State) ode.State {
	cd := sys.Codistribution(u)
	v := sys.Velocity(u)
	m, _ := cd.Dims()

	var res mat.VecDense
	res.MulVec(cd, mat.NewVecDense(len(v), v))

	out := make(ode.State, m)
	for i := 0; i < m; i++ {
		out[i] = res.AtVec(i)
	}
	return out
}

// ReactionForce contracts the transposed codistribution with the
// multiplier, giving the constraint's back-reaction on the dynamics.
func ReactionForce(sys NonHolonomic, u ode.State) ode.State {
	cd := sys.Codistribution(u)
	l := sys.Lag(u)
	_, n := cd.Dims()

	var res mat.VecDense
	res.MulVec(cd.T(), mat.NewVecDense(len(l), l))

	out := make(ode.State, n)
	for i := 0; i < n; i++ {
		out[i] = res.AtVec(i)
	}
	return out
}

// Part tags one additive contribution of the split dynamics.
type Part int

const (
	// Kinematic carries the velocity into the position slot.
	Kinematic Part = iota

	// Dynamic carries external force plus constraint reaction into
	// the velocity slot.
	Dynamic
)

func (p Part) String() string {
	switch p {
	case Kinematic:
		return "kinematic"
	case Dynamic:
		return "dynamic"
	}
	return "unknown"
}

// MultiDynamics splits the Lagrange-d'Alembert equations into two
// vector field contributions over the augmented (position, velocity)
// state:
//
//	f1 = [v, 0]
//	f2 = [0, force + reaction]
//
// Summing the nonzero halves reconstructs the second order dynamics
// with constraint reaction. Each part is evaluable from u alone, so a
// partitioned integrator may sample them at different stage times.
func MultiDynamics(sys NonHolonomic, u ode.State) map[Part]ode.State {
	v := sys.Velocity(u)
	zero := v.Zeros()

	accel := sys.Force(u).Add(ReactionForce(sys, u))

	return map[Part]ode.State{
		Kinematic: append(v.Clone(), zero...),
		Dynamic:   append(zero.Clone(), accel...),
	}
}
