package eq

import (
	"math"

	"github.com/cwbudde/simpleeq/dsp/core"
	"github.com/cwbudde/simpleeq/dsp/filter/biquad"
	"github.com/cwbudde/simpleeq/dsp/filter/design"
)

// CutCoefficients is the design of one cut band: Active Butterworth
// sections followed by identity sections up to MaxStages.
type CutCoefficients struct {
	Sections [MaxStages]biquad.Coefficients
	Active   int
}

// IdentityCut returns a cut band that passes audio unchanged.
func IdentityCut() CutCoefficients {
	var c CutCoefficients
	for i := range c.Sections {
		c.Sections[i] = biquad.Identity()
	}
	return c
}

// usable reports whether every active section is finite, stable and not the
// zero set a designer returns for out-of-range input, and every section past
// Active is identity.
func (c *CutCoefficients) usable() bool {
	if c.Active < 1 || c.Active > MaxStages {
		return false
	}
	for i := range c.Sections {
		if i >= c.Active {
			if !c.Sections[i].IsIdentity() {
				return false
			}
			continue
		}
		if !usableSection(c.Sections[i]) {
			return false
		}
	}
	return true
}

// MagnitudeDB returns the analytic response of the band.
func (c *CutCoefficients) MagnitudeDB(freqHz, sampleRate float64) float64 {
	return biquad.CascadeMagnitudeDB(c.Sections[:], freqHz, sampleRate)
}

// ChainCoefficients holds every coefficient a channel chain needs.
type ChainCoefficients struct {
	LowCut  CutCoefficients
	Peak    biquad.Coefficients
	HighCut CutCoefficients
}

// IdentityChain returns coefficients that leave the signal untouched.
func IdentityChain() ChainCoefficients {
	return ChainCoefficients{
		LowCut:  IdentityCut(),
		Peak:    biquad.Identity(),
		HighCut: IdentityCut(),
	}
}

// MagnitudeDB returns the analytic response of the whole chain.
func (c *ChainCoefficients) MagnitudeDB(freqHz, sampleRate float64) float64 {
	return c.LowCut.MagnitudeDB(freqHz, sampleRate) +
		c.Peak.MagnitudeDB(freqHz, sampleRate) +
		c.HighCut.MagnitudeDB(freqHz, sampleRate)
}

// PeakCoefficients designs the peak band. Frequency, Q and gain are clamped
// into their ranges first; the frequency also stays below 0.49 of the
// sample rate.
func PeakCoefficients(sampleRate, centerFreq, q, gainDB float64) biquad.Coefficients {
	f := clampFrequency(centerFreq, sampleRate, DefaultPeakFreq)
	q = core.ClampOr(q, MinQuality, MaxQuality, DefaultPeakQuality)
	gainDB = core.ClampOr(gainDB, MinGainDB, MaxGainDB, DefaultPeakGainDB)

	return design.Peak(f, gainDB, q, sampleRate)
}

// LowCutCoefficients designs a Butterworth high-pass of order 2*stages.
func LowCutCoefficients(sampleRate, cutoff float64, slope Slope) CutCoefficients {
	f := clampFrequency(cutoff, sampleRate, DefaultLowCutFreq)

	c := IdentityCut()
	c.Active = design.ButterworthHPInto(c.Sections[:], f, slope.Order(), sampleRate)
	return c
}

// HighCutCoefficients designs a Butterworth low-pass of order 2*stages.
func HighCutCoefficients(sampleRate, cutoff float64, slope Slope) CutCoefficients {
	f := clampFrequency(cutoff, sampleRate, DefaultHighCutFreq)

	c := IdentityCut()
	c.Active = design.ButterworthLPInto(c.Sections[:], f, slope.Order(), sampleRate)
	return c
}

// ComputeCoefficients designs all three bands for p. The boolean is false if
// any band had to be replaced by identity because its design was not finite
// or not stable.
func ComputeCoefficients(p Parameters, sampleRate float64) (ChainCoefficients, bool) {
	return ComputeCoefficientsFrom(IdentityChain(), p, sampleRate)
}

// ComputeCoefficientsFrom is ComputeCoefficients with a fallback: a band
// whose new design is rejected keeps its coefficients from prev.
func ComputeCoefficientsFrom(prev ChainCoefficients, p Parameters, sampleRate float64) (ChainCoefficients, bool) {
	out := prev
	ok := true

	if low := LowCutCoefficients(sampleRate, p.LowCutFreq, p.LowCutSlope); low.usable() {
		out.LowCut = low
	} else {
		ok = false
	}

	if peak := PeakCoefficients(sampleRate, p.PeakFreq, p.PeakQuality, p.PeakGainDB); usableSection(peak) {
		out.Peak = peak
	} else {
		ok = false
	}

	if high := HighCutCoefficients(sampleRate, p.HighCutFreq, p.HighCutSlope); high.usable() {
		out.HighCut = high
	} else {
		ok = false
	}

	return out, ok
}

func usableSection(c biquad.Coefficients) bool {
	return c != (biquad.Coefficients{}) && c.IsStable()
}

func clampFrequency(f, sampleRate, fallback float64) float64 {
	upper := math.Min(MaxFrequency, design.SafeMaxFrequency(sampleRate))
	return core.ClampOr(f, MinFrequency, upper, fallback)
}
