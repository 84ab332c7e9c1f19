package metrics

import (
	"math"

	"github.com/san-kum/odestep/internal/ode"
	"github.com/san-kum/odestep/internal/system"
)

// ConstraintResidual tracks the worst violation of a nonholonomic
// system's velocity constraints along a run.
type ConstraintResidual struct {
	name string
	sys  system.NonHolonomic
	max  float64
}

func NewConstraintResidual(sys system.NonHolonomic) *ConstraintResidual {
	return &ConstraintResidual{name: "constraint_residual", sys: sys}
}

func (c *ConstraintResidual) Name() string { return c.name }

func (c *ConstraintResidual) Observe(t float64, u ode.State) {
	c.max = math.Max(c.max, system.Constraint(c.sys, u).MaxNorm())
}

func (c *ConstraintResidual) Value() float64 {
	return c.max
}

func (c *ConstraintResidual) Reset() {
	c.max = 0
}
