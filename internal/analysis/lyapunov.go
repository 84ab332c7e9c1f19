package analysis

import (
	"math"

	"github.com/san-kum/odestep/internal/ode"
	"github.com/san-kum/odestep/internal/scheme"
)

// LyapunovExponent estimates the largest Lyapunov exponent by the
// trajectory separation method: a reference and a perturbed
// trajectory are stepped side by side, the separation is logged and
// renormalized after every step. A positive value indicates chaos.
//
// newScheme must build a fresh scheme per call so the two
// trajectories do not share internal accumulator state.
func LyapunovExponent(newScheme func() scheme.Scheme, u0 ode.State, duration, perturbation float64) (float64, error) {
	if len(u0) == 0 || perturbation <= 0 || duration <= 0 {
		return 0, nil
	}

	ref := newScheme()
	pert := newScheme()

	u0p := u0.Clone()
	u0p[0] += perturbation

	if err := ref.Initialize(0, u0); err != nil {
		return 0, err
	}
	if err := pert.Initialize(0, u0p); err != nil {
		return 0, err
	}

	t := 0.0
	u := u0.Clone()
	up := u0p.Clone()

	sumLog := 0.0
	elapsed := 0.0

	for t < duration {
		t1, u1, err := ref.Step(t, u)
		if err != nil {
			return 0, err
		}
		_, up1, err := pert.Step(t, up)
		if err != nil {
			return 0, err
		}

		sep := up1.Sub(u1).Norm()
		if sep > 0 {
			sumLog += math.Log(sep / perturbation)
			elapsed += t1 - t

			// Renormalize so the separation stays infinitesimal.
			scale := perturbation / sep
			up1 = u1.Add(up1.Sub(u1).Scale(scale))
		}

		t, u, up = t1, u1, up1
	}

	if elapsed == 0 {
		return 0, nil
	}
	return sumLog / elapsed, nil
}
