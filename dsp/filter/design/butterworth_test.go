package design

import (
	"math"
	"testing"

	"github.com/cwbudde/simpleeq/dsp/filter/biquad"
)

const maxSections = 4

func lowpassCascade(freq float64, order int, sr float64) []biquad.Coefficients {
	var dst [maxSections]biquad.Coefficients
	n := ButterworthLPInto(dst[:], freq, order, sr)
	return dst[:n]
}

func highpassCascade(freq float64, order int, sr float64) []biquad.Coefficients {
	var dst [maxSections]biquad.Coefficients
	n := ButterworthHPInto(dst[:], freq, order, sr)
	return dst[:n]
}

func TestButterworth_SectionCount(t *testing.T) {
	sr := 48000.0
	for order := 1; order <= 8; order++ {
		want := 0
		if order%2 == 0 {
			want = order / 2
		}
		if got := lowpassCascade(1000, order, sr); len(got) != want {
			t.Fatalf("LP order %d: sections=%d, want %d", order, len(got), want)
		}
		if got := highpassCascade(1000, order, sr); len(got) != want {
			t.Fatalf("HP order %d: sections=%d, want %d", order, len(got), want)
		}
		if SectionCount(order) != want {
			t.Fatalf("SectionCount(%d) = %d, want %d", order, SectionCount(order), want)
		}
	}
}

func TestButterworth_SectionsAreSecondOrder(t *testing.T) {
	sr := 48000.0
	for _, order := range []int{2, 4, 6, 8} {
		for _, sections := range [][]biquad.Coefficients{
			lowpassCascade(1000, order, sr),
			highpassCascade(1000, order, sr),
		} {
			for i, c := range sections {
				if c.B2 == 0 || c.A2 == 0 {
					t.Fatalf("order %d: section %d is not second-order: %+v", order, i, c)
				}
			}
		}
	}
}

func TestButterworth_QRisesAlongCascade(t *testing.T) {
	hp := highpassCascade(1000, 8, 48000)
	for i := 1; i < len(hp); i++ {
		if hp[i].MaxPoleRadius() <= hp[i-1].MaxPoleRadius() {
			t.Fatalf("section %d pole radius %.6f not above section %d (%.6f)",
				i, hp[i].MaxPoleRadius(), i-1, hp[i-1].MaxPoleRadius())
		}
	}
}

func TestButterworth_Minus3dBAtCutoff(t *testing.T) {
	sr := 48000.0
	for _, order := range []int{2, 4, 6, 8} {
		lp := biquad.CascadeMagnitudeDB(lowpassCascade(1000, order, sr), 1000, sr)
		if !almostEqual(lp, -3.01, 0.1) {
			t.Fatalf("LP order %d: cutoff magnitude=%.2f dB, want ~-3.01 dB", order, lp)
		}
		hp := biquad.CascadeMagnitudeDB(highpassCascade(1000, order, sr), 1000, sr)
		if !almostEqual(hp, -3.01, 0.1) {
			t.Fatalf("HP order %d: cutoff magnitude=%.2f dB, want ~-3.01 dB", order, hp)
		}
	}
}

func TestButterworth_HigherOrderSteeperRolloff(t *testing.T) {
	sr := 48000.0
	prevLP, prevHP := 0.0, 0.0
	for _, order := range []int{2, 4, 6, 8} {
		lp := -biquad.CascadeMagnitudeDB(lowpassCascade(1000, order, sr), 10000, sr)
		hp := -biquad.CascadeMagnitudeDB(highpassCascade(1000, order, sr), 100, sr)
		if lp <= prevLP || hp <= prevHP {
			t.Fatalf("order %d: attenuation LP=%.1f HP=%.1f not above previous LP=%.1f HP=%.1f",
				order, lp, hp, prevLP, prevHP)
		}
		prevLP, prevHP = lp, hp
	}
}

func TestButterworthHP_TwoOctavesBelowCutoff(t *testing.T) {
	// 12 dB/oct per second-order section: 1 to 4 sections for orders 2 to 8.
	sr := 44100.0
	for order, want := range map[int]float64{2: 24, 4: 48, 6: 72, 8: 96} {
		got := -biquad.CascadeMagnitudeDB(highpassCascade(1000, order, sr), 250, sr)
		if math.Abs(got-want) > 1 {
			t.Fatalf("order %d: attenuation at 250 Hz = %.2f dB, want ~%.0f", order, got, want)
		}
	}
}

func TestButterworth_AllSectionsStable(t *testing.T) {
	for _, sr := range []float64{22050, 44100, 48000, 96000, 192000} {
		for _, freq := range []float64{20, 1000, SafeMaxFrequency(sr)} {
			for _, order := range []int{2, 4, 6, 8} {
				for _, sections := range [][]biquad.Coefficients{
					lowpassCascade(freq, order, sr),
					highpassCascade(freq, order, sr),
				} {
					for _, c := range sections {
						assertFiniteCoefficients(t, c)
						assertStableSection(t, c)
					}
				}
			}
		}
	}
}

func TestButterworthInto_RejectsInvalidInputs(t *testing.T) {
	var dst [maxSections]biquad.Coefficients

	if n := ButterworthLPInto(dst[:2], 500, 8, 44100); n != 0 {
		t.Fatalf("short dst: n = %d, want 0", n)
	}
	if n := ButterworthHPInto(dst[:], 500, 3, 44100); n != 0 {
		t.Fatalf("odd order: n = %d, want 0", n)
	}
	if n := ButterworthHPInto(dst[:], 500, 0, 44100); n != 0 {
		t.Fatalf("zero order: n = %d, want 0", n)
	}
	if dst != ([maxSections]biquad.Coefficients{}) {
		t.Fatalf("rejected design wrote into dst: %+v", dst)
	}

	for _, c := range lowpassCascade(25000, 4, 48000) {
		if c != (biquad.Coefficients{}) {
			t.Fatalf("expected zero sections above Nyquist, got %#v", c)
		}
	}
}

func TestButterworthQ_KnownValues(t *testing.T) {
	tests := []struct {
		order, index int
		want         float64
	}{
		{order: 2, index: 0, want: 1 / math.Sqrt2},
		{order: 4, index: 0, want: 1 / (2 * math.Sin(math.Pi/8))},
		{order: 4, index: 1, want: 1 / (2 * math.Sin(3*math.Pi/8))},
	}

	for _, tt := range tests {
		if got := ButterworthQ(tt.order, tt.index); !almostEqual(got, tt.want, 1e-12) {
			t.Fatalf("order=%d index=%d: Q=%.10f, want %.10f", tt.order, tt.index, got, tt.want)
		}
	}
}
