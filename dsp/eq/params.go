package eq

import "github.com/cwbudde/simpleeq/dsp/core"

// Parameter ranges.
const (
	MinFrequency = 20.0
	MaxFrequency = 20000.0
	MinGainDB    = -24.0
	MaxGainDB    = 24.0
	MinQuality   = 0.1
	MaxQuality   = 10.0
)

// Parameter defaults.
const (
	DefaultLowCutFreq  = 20.0
	DefaultHighCutFreq = 20000.0
	DefaultPeakFreq    = 1000.0
	DefaultPeakGainDB  = 0.0
	DefaultPeakQuality = 1.0
)

// Parameters is one complete snapshot of the equalizer controls. It is a
// plain value: the control thread builds a new one for every change.
type Parameters struct {
	LowCutFreq   float64 `yaml:"low_cut_freq"`
	HighCutFreq  float64 `yaml:"high_cut_freq"`
	PeakFreq     float64 `yaml:"peak_freq"`
	PeakGainDB   float64 `yaml:"peak_gain_db"`
	PeakQuality  float64 `yaml:"peak_quality"`
	LowCutSlope  Slope   `yaml:"low_cut_slope"`
	HighCutSlope Slope   `yaml:"high_cut_slope"`
}

// DefaultParameters returns the initial control values: cut bands wide open
// at 12 dB/oct and a flat peak at 1 kHz.
func DefaultParameters() Parameters {
	return Parameters{
		LowCutFreq:   DefaultLowCutFreq,
		HighCutFreq:  DefaultHighCutFreq,
		PeakFreq:     DefaultPeakFreq,
		PeakGainDB:   DefaultPeakGainDB,
		PeakQuality:  DefaultPeakQuality,
		LowCutSlope:  Slope12,
		HighCutSlope: Slope12,
	}
}

// Sanitize clamps every field into its range. NaN falls back to the default.
func (p Parameters) Sanitize() Parameters {
	return Parameters{
		LowCutFreq:   core.ClampOr(p.LowCutFreq, MinFrequency, MaxFrequency, DefaultLowCutFreq),
		HighCutFreq:  core.ClampOr(p.HighCutFreq, MinFrequency, MaxFrequency, DefaultHighCutFreq),
		PeakFreq:     core.ClampOr(p.PeakFreq, MinFrequency, MaxFrequency, DefaultPeakFreq),
		PeakGainDB:   core.ClampOr(p.PeakGainDB, MinGainDB, MaxGainDB, DefaultPeakGainDB),
		PeakQuality:  core.ClampOr(p.PeakQuality, MinQuality, MaxQuality, DefaultPeakQuality),
		LowCutSlope:  p.LowCutSlope.Clamped(),
		HighCutSlope: p.HighCutSlope.Clamped(),
	}
}

// IsFlat reports whether the peak band is at 0 dB.
func (p Parameters) IsFlat() bool {
	return p.PeakGainDB == 0
}
