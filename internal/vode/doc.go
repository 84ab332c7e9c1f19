// Package vode implements a minimal variable-order BDF stepper for
// stiff systems, in real and complex modes via one generic type.
//
// It exists to satisfy the external stiff-solver contract consumed by
// the scheme layer: SetInitialValue, Integrate, Successful, T, Y. The
// stepper owns its internal integration state and must be advanced
// monotonically from one call site at a time.
package vode
