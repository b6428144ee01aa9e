package biquad

import (
	"math"
	"math/cmplx"
	"testing"
)

func TestCoefficientsPoles_SecondOrder(t *testing.T) {
	p1 := complex(0.72, 0.19)
	p2 := cmplx.Conj(p1)

	c := Coefficients{
		B0: 2.3,
		B1: -0.4,
		B2: 0.1,
		A1: -real(p1 + p2),
		A2: real(p1 * p2),
	}

	if got := c.Poles(); !unorderedRootsClose(got, p1, p2, 1e-12) {
		t.Fatalf("unexpected poles: got=%v want={%v,%v}", got, p1, p2)
	}
	if r := c.MaxPoleRadius(); math.Abs(r-cmplx.Abs(p1)) > 1e-12 {
		t.Fatalf("MaxPoleRadius() = %v, want %v", r, cmplx.Abs(p1))
	}
}

func TestCoefficientsPoles_FirstOrder(t *testing.T) {
	c := Coefficients{B0: 1, B1: -0.3, A1: -0.8}

	if got := c.Poles(); !unorderedRootsClose(got, complex(0.8, 0), 0, 1e-12) {
		t.Fatalf("unexpected first-order poles: %v", got)
	}
	if r := c.MaxPoleRadius(); math.Abs(r-0.8) > 1e-12 {
		t.Fatalf("MaxPoleRadius() = %v, want 0.8", r)
	}
	id := Identity()
	if r := id.MaxPoleRadius(); r != 0 {
		t.Fatalf("identity pole radius = %v, want 0", r)
	}
}

func TestIsStable(t *testing.T) {
	tests := []struct {
		name   string
		coeffs Coefficients
		want   bool
	}{
		{name: "identity", coeffs: Identity(), want: true},
		{name: "lowpass", coeffs: Coefficients{B0: 0.25, B1: 0.5, B2: 0.25, A1: -0.2, A2: 0.04}, want: true},
		{name: "complex-poles-inside", coeffs: Coefficients{B0: 1, A1: -1.4, A2: 0.53}, want: true},
		{name: "pole-on-circle", coeffs: Coefficients{B0: 1, A1: -2, A2: 1}, want: false},
		{name: "real-pole-outside", coeffs: Coefficients{B0: 1, A1: -1.5}, want: false},
		{name: "nan", coeffs: Coefficients{B0: math.NaN()}, want: false},
		{name: "inf-feedback", coeffs: Coefficients{B0: 1, A1: math.Inf(1)}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.coeffs.IsStable(); got != tt.want {
				t.Fatalf("IsStable() = %v, want %v", got, tt.want)
			}
			if tt.want && tt.coeffs.MaxPoleRadius() >= 1 {
				t.Fatalf("stable set has pole radius %v", tt.coeffs.MaxPoleRadius())
			}
		})
	}
}

func unorderedRootsClose(got [2]complex128, want1, want2 complex128, tol float64) bool {
	return (rootsClose(got[0], want1, tol) && rootsClose(got[1], want2, tol)) ||
		(rootsClose(got[0], want2, tol) && rootsClose(got[1], want1, tol))
}

func rootsClose(a, b complex128, tol float64) bool {
	return cmplx.Abs(a-b) <= tol
}
