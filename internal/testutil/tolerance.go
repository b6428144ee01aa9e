package testutil

import (
	"math"
	"testing"
)

// MaxAbsDiff returns the largest absolute difference between a and b over
// their common length and the index where it occurs, or -1 if there is no
// overlap. A NaN difference is returned as soon as it is found.
func MaxAbsDiff(a, b []float64) (float64, int) {
	n := min(len(a), len(b))
	var m float64
	at := -1
	for i := 0; i < n; i++ {
		d := math.Abs(a[i] - b[i])
		if math.IsNaN(d) {
			return d, i
		}
		if at < 0 || d > m {
			m, at = d, i
		}
	}
	return m, at
}

// RequireSliceNearlyEqual fails t unless got and want have the same length
// and no sample pair differs by more than eps.
func RequireSliceNearlyEqual(t testing.TB, got, want []float64, eps float64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("length mismatch: got %d, want %d", len(got), len(want))
		return
	}
	if d, at := MaxAbsDiff(got, want); !(d <= eps) {
		t.Fatalf("sample %d: got %v, want %v (diff %g > %g)", at, got[at], want[at], d, eps)
	}
}

// RequireFinite fails t at the first NaN or infinite sample.
func RequireFinite(t testing.TB, x []float64) {
	t.Helper()
	for i, v := range x {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("sample %d: non-finite value %v", i, v)
			return
		}
	}
}
