package design

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/cwbudde/simpleeq/dsp/filter/biquad"
)

const tol = 1e-9

func almostEqual(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}

func TestBiquadDesigners_BasicResponseShape(t *testing.T) {
	sr := 48000.0
	f := 1000.0
	q := 1 / math.Sqrt2

	lp := Lowpass(f, q, sr)
	if !(mag(lp, 100, sr) > mag(lp, 10000, sr)) {
		t.Fatal("lowpass shape check failed")
	}
	if !almostEqual(mag(lp, 1, sr), 1, 1e-4) {
		t.Fatalf("lowpass DC gain = %v, want ~1", mag(lp, 1, sr))
	}

	hp := Highpass(f, q, sr)
	if !(mag(hp, 10000, sr) > mag(hp, 100, sr)) {
		t.Fatal("highpass shape check failed")
	}
	if !almostEqual(mag(hp, sr/2-1, sr), 1, 1e-4) {
		t.Fatalf("highpass Nyquist gain = %v, want ~1", mag(hp, sr/2-1, sr))
	}
}

func TestPeak_GainAtCenter(t *testing.T) {
	for _, sr := range []float64{44100, 48000, 96000} {
		for _, gain := range []float64{-24, -6, -0.5, 0.5, 6, 24} {
			for _, q := range []float64{0.1, 1, 10} {
				c := Peak(1000, gain, q, sr)
				got := c.MagnitudeDB(1000, sr)
				if !almostEqual(got, gain, 1e-6) {
					t.Fatalf("sr=%v gain=%v q=%v: center=%.9f dB", sr, gain, q, got)
				}
				assertFiniteCoefficients(t, c)
				assertStableSection(t, c)
			}
		}
	}
}

func TestPeak_UnityAwayFromCenter(t *testing.T) {
	sr := 44100.0
	c := Peak(1000, 6, 1, sr)

	for _, freq := range []float64{20, 20000} {
		if db := c.MagnitudeDB(freq, sr); math.Abs(db) > 0.1 {
			t.Fatalf("%v Hz: %.3f dB, want ~0", freq, db)
		}
	}
}

func TestPeak_ZeroGainIsPassThrough(t *testing.T) {
	c := Peak(1234, 0, 2.5, 48000)
	if c.B0 != 1 || c.B1 != c.A1 || c.B2 != c.A2 {
		t.Fatalf("0 dB peak numerator differs from denominator: %+v", c)
	}

	s := biquad.NewSection(c)
	for i, x := range []float64{1, -0.5, 0.25, 0.75, 0, -1} {
		if y := s.ProcessSample(x); y != x {
			t.Fatalf("sample %d: got %v, want %v", i, y, x)
		}
	}
}

func TestSafeMaxFrequency(t *testing.T) {
	if got := SafeMaxFrequency(44100); !almostEqual(got, 21609, 1e-9) {
		t.Fatalf("SafeMaxFrequency(44100) = %v", got)
	}

	c := Lowpass(SafeMaxFrequency(22050), 0.707, 22050)
	if c == (biquad.Coefficients{}) {
		t.Fatal("designer rejected the safe maximum frequency")
	}
	assertStableSection(t, c)
}

func TestInvalidInputs(t *testing.T) {
	if got := Lowpass(1000, 0.707, 0); got != (biquad.Coefficients{}) {
		t.Fatalf("expected zero coefficients for invalid sample rate, got %#v", got)
	}
	if got := Highpass(0, 0.707, 48000); got != (biquad.Coefficients{}) {
		t.Fatalf("expected zero coefficients for invalid frequency, got %#v", got)
	}
	if got := Peak(24000, 3, 1, 48000); got != (biquad.Coefficients{}) {
		t.Fatalf("expected zero coefficients at Nyquist, got %#v", got)
	}
	if got := Peak(math.NaN(), 3, 1, 48000); got != (biquad.Coefficients{}) {
		t.Fatalf("expected zero coefficients for NaN frequency, got %#v", got)
	}

	// q<=0 falls back to the default Q.
	if Peak(1000, 3, 0, 48000) != Peak(1000, 3, defaultQ, 48000) {
		t.Fatal("q<=0 did not use the default Q")
	}
}

func mag(c biquad.Coefficients, freq, sr float64) float64 {
	h := c.Response(freq, sr)
	return cmplx.Abs(h)
}

func assertFiniteCoefficients(t *testing.T, c biquad.Coefficients) {
	t.Helper()
	if !c.IsFinite() {
		t.Fatalf("non-finite coefficients: %#v", c)
	}
}

func assertStableSection(t *testing.T, c biquad.Coefficients) {
	t.Helper()
	if r := c.MaxPoleRadius(); r >= 1+tol {
		t.Fatalf("unstable poles: radius=%v coeff=%#v", r, c)
	}
}
