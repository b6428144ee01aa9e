package eq

import (
	"fmt"
	"math"
	"strconv"

	"github.com/cwbudde/simpleeq/dsp/core"
)

// Parameter IDs. They are stable across versions and key the saved state.
const (
	IDLowCutFreq   = "LowCut Frequency"
	IDHighCutFreq  = "HighCut Frequency"
	IDPeakFreq     = "Peak (1) Frequency"
	IDPeakGain     = "Peak (1) Gain"
	IDPeakQuality  = "Peak (1) Tightness"
	IDLowCutSlope  = "LowCut Slope"
	IDHighCutSlope = "HighCut Slope"
)

// ParamKind distinguishes continuous parameters from choice lists.
type ParamKind int

const (
	KindFloat ParamKind = iota
	KindChoice
)

// ParamSpec describes one automatable parameter as a host sees it.
type ParamSpec struct {
	ID      string
	Unit    string
	Kind    ParamKind
	Min     float64
	Max     float64
	Step    float64
	Default float64
	Choices []string
}

var layout = []ParamSpec{
	{ID: IDLowCutFreq, Unit: "Hz", Min: MinFrequency, Max: MaxFrequency, Step: 1, Default: DefaultLowCutFreq},
	{ID: IDHighCutFreq, Unit: "Hz", Min: MinFrequency, Max: MaxFrequency, Step: 1, Default: DefaultHighCutFreq},
	{ID: IDPeakFreq, Unit: "Hz", Min: MinFrequency, Max: MaxFrequency, Step: 1, Default: DefaultPeakFreq},
	{ID: IDPeakGain, Unit: "dB", Min: MinGainDB, Max: MaxGainDB, Step: 0.5, Default: DefaultPeakGainDB},
	{ID: IDPeakQuality, Min: MinQuality, Max: MaxQuality, Step: 0.05, Default: DefaultPeakQuality},
	{ID: IDLowCutSlope, Kind: KindChoice, Min: 0, Max: MaxStages - 1, Step: 1, Default: float64(Slope12), Choices: slopeLabels[:]},
	{ID: IDHighCutSlope, Kind: KindChoice, Min: 0, Max: MaxStages - 1, Step: 1, Default: float64(Slope12), Choices: slopeLabels[:]},
}

// Layout returns the parameter definitions in host order.
func Layout() []ParamSpec {
	out := make([]ParamSpec, len(layout))
	copy(out, layout)
	return out
}

// LookupParam returns the definition for id.
func LookupParam(id string) (ParamSpec, bool) {
	for _, spec := range layout {
		if spec.ID == id {
			return spec, true
		}
	}
	return ParamSpec{}, false
}

// Clamp limits v to the range; NaN becomes the default.
func (s ParamSpec) Clamp(v float64) float64 {
	return core.ClampOr(v, s.Min, s.Max, s.Default)
}

// Snap rounds v to the nearest step from Min and clamps the result.
func (s ParamSpec) Snap(v float64) float64 {
	v = s.Clamp(v)
	if s.Step <= 0 {
		return v
	}
	return s.Clamp(s.Min + math.Round((v-s.Min)/s.Step)*s.Step)
}

// Normalize maps a plain value to [0, 1].
func (s ParamSpec) Normalize(v float64) float64 {
	if s.Max == s.Min {
		return 0
	}
	return (s.Clamp(v) - s.Min) / (s.Max - s.Min)
}

// Denormalize maps a [0, 1] value back to the plain range. Choice
// parameters are rounded to an index.
func (s ParamSpec) Denormalize(n float64) float64 {
	n = core.ClampOr(n, 0, 1, s.Normalize(s.Default))
	v := s.Min + n*(s.Max-s.Min)
	if s.Kind == KindChoice {
		return math.Round(v)
	}
	return v
}

// Format renders v for display.
func (s ParamSpec) Format(v float64) string {
	v = s.Clamp(v)
	if s.Kind == KindChoice {
		return s.Choices[int(math.Round(v))]
	}

	prec := 0
	switch {
	case s.Step < 0.1:
		prec = 2
	case s.Step < 1:
		prec = 1
	}

	text := strconv.FormatFloat(v, 'f', prec, 64)
	if s.Unit != "" {
		text += " " + s.Unit
	}
	return text
}

// Value returns the plain value of the parameter id. Slopes are reported as
// their choice index.
func (p Parameters) Value(id string) (float64, bool) {
	switch id {
	case IDLowCutFreq:
		return p.LowCutFreq, true
	case IDHighCutFreq:
		return p.HighCutFreq, true
	case IDPeakFreq:
		return p.PeakFreq, true
	case IDPeakGain:
		return p.PeakGainDB, true
	case IDPeakQuality:
		return p.PeakQuality, true
	case IDLowCutSlope:
		return float64(p.LowCutSlope), true
	case IDHighCutSlope:
		return float64(p.HighCutSlope), true
	default:
		return 0, false
	}
}

// SetValue assigns a plain value to the parameter id after clamping it into
// the parameter's range.
func (p *Parameters) SetValue(id string, v float64) error {
	spec, ok := LookupParam(id)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownParameter, id)
	}
	v = spec.Clamp(v)

	switch id {
	case IDLowCutFreq:
		p.LowCutFreq = v
	case IDHighCutFreq:
		p.HighCutFreq = v
	case IDPeakFreq:
		p.PeakFreq = v
	case IDPeakGain:
		p.PeakGainDB = v
	case IDPeakQuality:
		p.PeakQuality = v
	case IDLowCutSlope:
		p.LowCutSlope = Slope(math.Round(v))
	case IDHighCutSlope:
		p.HighCutSlope = Slope(math.Round(v))
	}
	return nil
}

// Values returns every parameter keyed by ID.
func (p Parameters) Values() map[string]float64 {
	out := make(map[string]float64, len(layout))
	for _, spec := range layout {
		v, _ := p.Value(spec.ID)
		out[spec.ID] = v
	}
	return out
}

// ParametersFromValues builds parameters from an ID-keyed map. Missing IDs
// keep their defaults; unknown IDs are ignored.
func ParametersFromValues(values map[string]float64) Parameters {
	p := DefaultParameters()
	for _, spec := range layout {
		if v, ok := values[spec.ID]; ok {
			_ = p.SetValue(spec.ID, v)
		}
	}
	return p
}
