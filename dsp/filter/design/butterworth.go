package design

import (
	"math"

	"github.com/cwbudde/simpleeq/dsp/filter/biquad"
)

// ButterworthLPInto writes a lowpass Butterworth cascade of the given even
// order into dst and returns the number of sections written. It writes
// nothing if the order is odd or not positive, or if dst is too short.
func ButterworthLPInto(dst []biquad.Coefficients, freq float64, order int, sampleRate float64) int {
	return butterworthInto(dst, freq, order, sampleRate, Lowpass)
}

// ButterworthHPInto is the highpass counterpart of ButterworthLPInto.
func ButterworthHPInto(dst []biquad.Coefficients, freq float64, order int, sampleRate float64) int {
	return butterworthInto(dst, freq, order, sampleRate, Highpass)
}

// SectionCount returns the number of biquad sections a Butterworth design
// of the given order occupies, or 0 if the order is not designable here.
func SectionCount(order int) int {
	if order <= 0 || order%2 != 0 {
		return 0
	}
	return order / 2
}

func butterworthInto(
	dst []biquad.Coefficients,
	freq float64,
	order int,
	sampleRate float64,
	second func(freq, q, sampleRate float64) biquad.Coefficients,
) int {
	n := SectionCount(order)
	if n == 0 || len(dst) < n {
		return 0
	}

	// Sections run from the lowest to the highest Q.
	for k := range n {
		dst[k] = second(freq, ButterworthQ(order, n-1-k), sampleRate)
	}
	return n
}

// ButterworthQ returns the quality factor of section index of a Butterworth
// filter of the given order. index ranges from 0 to order/2-1.
func ButterworthQ(order, index int) float64 {
	theta := math.Pi * float64(2*index+1) / (2 * float64(order))

	s := math.Sin(theta)
	if s == 0 {
		return defaultQ
	}

	return 1 / (2 * s)
}
