package biquad

import (
	"math"
	"math/cmplx"
)

// stabilityMargin keeps pole radii strictly inside the unit circle so that
// rounding cannot turn a marginal design into a growing one.
const stabilityMargin = 1e-9

// Poles returns the z-plane poles of the section denominator:
//
//	1 + A1*z^-1 + A2*z^-2 = 0
func (c *Coefficients) Poles() [2]complex128 {
	return quadraticRoots(1, c.A1, c.A2)
}

// MaxPoleRadius returns the largest pole magnitude of the section.
func (c *Coefficients) MaxPoleRadius() float64 {
	p := c.Poles()
	return math.Max(cmplx.Abs(p[0]), cmplx.Abs(p[1]))
}

// IsFinite reports whether every coefficient is a finite number.
func (c *Coefficients) IsFinite() bool {
	for _, v := range [...]float64{c.B0, c.B1, c.B2, c.A1, c.A2} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// IsStable reports whether the coefficients are finite and every pole lies
// strictly inside the unit circle.
func (c *Coefficients) IsStable() bool {
	if !c.IsFinite() {
		return false
	}

	// Stability triangle for 1 + a1 z^-1 + a2 z^-2.
	a1, a2 := c.A1, c.A2
	limit := 1 - stabilityMargin
	if math.Abs(a2) >= limit {
		return false
	}

	return math.Abs(a1) < 1+a2-stabilityMargin
}

func quadraticRoots(a, b, c float64) [2]complex128 {
	if a == 0 {
		if b == 0 {
			return [2]complex128{}
		}
		return [2]complex128{complex(-c/b, 0), 0}
	}

	discriminant := complex(b*b-4*a*c, 0)
	sqrtDiscriminant := cmplx.Sqrt(discriminant)
	den := complex(2*a, 0)
	return [2]complex128{
		(-complex(b, 0) + sqrtDiscriminant) / den,
		(-complex(b, 0) - sqrtDiscriminant) / den,
	}
}
