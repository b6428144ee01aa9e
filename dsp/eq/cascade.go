package eq

import "github.com/cwbudde/simpleeq/dsp/filter/biquad"

// Cascade is a cut band: a fixed run of MaxStages biquad sections. Stages
// beyond the active count hold identity coefficients and still run, so a
// slope change never changes the shape of the processing loop.
type Cascade struct {
	stages [MaxStages]biquad.Section
	active int
}

// NewCascade returns a cascade with every stage bypassed.
func NewCascade() *Cascade {
	c := &Cascade{}
	c.init()
	return c
}

func (c *Cascade) init() {
	c.Configure(IdentityCut())
	c.Reset()
}

// Configure installs cut into the stages. Stages that stay active keep
// their state. Stages that drop out are cleared so their pass-through output
// carries no leftover delay line.
func (c *Cascade) Configure(cut CutCoefficients) {
	for i := range c.stages {
		c.stages[i].SetCoefficients(cut.Sections[i])
		if i >= cut.Active && i < c.active {
			c.stages[i].Reset()
		}
	}
	c.active = cut.Active
}

// ActiveStages returns the number of non-bypassed stages.
func (c *Cascade) ActiveStages() int {
	return c.active
}

// Coefficients returns the installed design.
func (c *Cascade) Coefficients() CutCoefficients {
	var cut CutCoefficients
	for i := range c.stages {
		cut.Sections[i] = c.stages[i].Coefficients
	}
	cut.Active = c.active
	return cut
}

// ProcessSample runs x through all stages in order.
func (c *Cascade) ProcessSample(x float64) float64 {
	for i := range c.stages {
		x = c.stages[i].ProcessSample(x)
	}
	return x
}

// ProcessBlock filters buf in place through all stages.
func (c *Cascade) ProcessBlock(buf []float64) {
	for i := range c.stages {
		c.stages[i].ProcessBlock(buf)
	}
}

// Reset clears every stage's delay line.
func (c *Cascade) Reset() {
	for i := range c.stages {
		c.stages[i].Reset()
	}
}

// MagnitudeDB returns the analytic response of the installed design.
func (c *Cascade) MagnitudeDB(freqHz, sampleRate float64) float64 {
	var db float64
	for i := range c.stages {
		db += c.stages[i].MagnitudeDB(freqHz, sampleRate)
	}
	return db
}
