package system

import "github.com/san-kum/odestep/internal/ode"

// Sized is a nonholonomic system that knows its full state dimension.
type Sized interface {
	NonHolonomic
	Size() int
}

// Field drives a constrained system as a plain first order vector
// field: the split parts are summed and the multiplier block is held
// fixed over a step. Energy delegates to the wrapped system so energy
// based diagnostics keep working through the adapter.
type Field struct {
	sys Sized
}

func NewField(sys Sized) *Field { return &Field{sys: sys} }

// System returns the wrapped constrained system.
func (f *Field) System() NonHolonomic { return f.sys }

func (f *Field) Dim() int { return f.sys.Size() }

func (f *Field) Eval(t float64, u ode.State) ode.State {
	parts := MultiDynamics(f.sys, u)
	du := parts[Kinematic].Add(parts[Dynamic])

	out := make(ode.State, f.sys.Size())
	copy(out, du)
	return out
}

func (f *Field) Energy(u ode.State) float64 { return f.sys.Energy(u) }
