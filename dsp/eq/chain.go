package eq

import "github.com/cwbudde/simpleeq/dsp/filter/biquad"

// ChannelChain is the per-channel signal path:
// low-cut cascade, peak section, high-cut cascade.
type ChannelChain struct {
	lowCut  Cascade
	peak    biquad.Section
	highCut Cascade
}

// NewChannelChain returns a chain that passes audio unchanged until
// coefficients are applied.
func NewChannelChain() *ChannelChain {
	c := &ChannelChain{}
	c.init()
	return c
}

func (c *ChannelChain) init() {
	c.lowCut.init()
	c.highCut.init()
	c.peak.SetCoefficients(biquad.Identity())
	c.peak.Reset()
}

// Apply swaps in new coefficients for all three bands. Filter state is
// kept, so the output continues smoothly from the previous block.
func (c *ChannelChain) Apply(cc ChainCoefficients) {
	c.lowCut.Configure(cc.LowCut)
	c.peak.SetCoefficients(cc.Peak)
	c.highCut.Configure(cc.HighCut)
}

// Coefficients returns the installed coefficients.
func (c *ChannelChain) Coefficients() ChainCoefficients {
	return ChainCoefficients{
		LowCut:  c.lowCut.Coefficients(),
		Peak:    c.peak.Coefficients,
		HighCut: c.highCut.Coefficients(),
	}
}

// Reconfigure designs coefficients for p and applies them. Bands whose
// design is rejected keep their current coefficients; the result reports
// whether every band was accepted.
func (c *ChannelChain) Reconfigure(p Parameters, sampleRate float64) bool {
	cc, ok := ComputeCoefficientsFrom(c.Coefficients(), p, sampleRate)
	c.Apply(cc)
	return ok
}

// LowCut returns the low-cut band.
func (c *ChannelChain) LowCut() *Cascade { return &c.lowCut }

// HighCut returns the high-cut band.
func (c *ChannelChain) HighCut() *Cascade { return &c.highCut }

// ProcessSample runs one sample through the chain.
func (c *ChannelChain) ProcessSample(x float64) float64 {
	x = c.lowCut.ProcessSample(x)
	x = c.peak.ProcessSample(x)
	return c.highCut.ProcessSample(x)
}

// ProcessBlock filters buf in place.
func (c *ChannelChain) ProcessBlock(buf []float64) {
	c.lowCut.ProcessBlock(buf)
	c.peak.ProcessBlock(buf)
	c.highCut.ProcessBlock(buf)
}

// Reset clears all filter state. Coefficients are kept.
func (c *ChannelChain) Reset() {
	c.lowCut.Reset()
	c.peak.Reset()
	c.highCut.Reset()
}

// MagnitudeDB returns the analytic response of the installed coefficients.
func (c *ChannelChain) MagnitudeDB(freqHz, sampleRate float64) float64 {
	return c.lowCut.MagnitudeDB(freqHz, sampleRate) +
		c.peak.MagnitudeDB(freqHz, sampleRate) +
		c.highCut.MagnitudeDB(freqHz, sampleRate)
}
