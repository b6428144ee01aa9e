package eq

import (
	"fmt"
	"strconv"
	"strings"
)

// Slope selects the steepness of a cut band. Each step adds one
// second-order section, i.e. 12 dB per octave.
type Slope int

const (
	Slope12 Slope = iota
	Slope24
	Slope36
	Slope48
)

// MaxStages is the number of biquad sections reserved per cut band.
const MaxStages = 4

var slopeLabels = [...]string{"12 dB/Oct", "24 dB/Oct", "36 dB/Oct", "48 dB/Oct"}

// SlopeLabels returns the display labels in index order.
func SlopeLabels() []string {
	return append([]string(nil), slopeLabels[:]...)
}

// Valid reports whether s is one of the four defined slopes.
func (s Slope) Valid() bool {
	return s >= Slope12 && s <= Slope48
}

// Clamped returns s limited to the defined range.
func (s Slope) Clamped() Slope {
	switch {
	case s < Slope12:
		return Slope12
	case s > Slope48:
		return Slope48
	default:
		return s
	}
}

// Stages returns the number of active second-order sections.
func (s Slope) Stages() int {
	return int(s.Clamped()) + 1
}

// Order returns the Butterworth order realised by the slope.
func (s Slope) Order() int {
	return 2 * s.Stages()
}

// DBPerOctave returns the asymptotic attenuation rate.
func (s Slope) DBPerOctave() int {
	return 12 * s.Stages()
}

func (s Slope) String() string {
	if !s.Valid() {
		return fmt.Sprintf("Slope(%d)", int(s))
	}
	return slopeLabels[s]
}

// MarshalText encodes the slope as its display label.
func (s Slope) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSlope, int(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText accepts anything ParseSlope accepts.
func (s *Slope) UnmarshalText(text []byte) error {
	v, err := ParseSlope(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// ParseSlope accepts a display label ("24 dB/Oct"), a rate in dB per octave
// ("24", "24dB") or a choice index ("1").
func ParseSlope(text string) (Slope, error) {
	t := strings.TrimSpace(text)
	for i, label := range slopeLabels {
		if strings.EqualFold(t, label) {
			return Slope(i), nil
		}
	}

	num := strings.TrimSpace(strings.TrimSuffix(strings.ToLower(t), "db/oct"))
	num = strings.TrimSpace(strings.TrimSuffix(num, "db"))
	n, err := strconv.Atoi(num)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSlope, text)
	}

	if s, err := SlopeFromDBPerOctave(n); err == nil {
		return s, nil
	}
	if s := Slope(n); s.Valid() {
		return s, nil
	}

	return 0, fmt.Errorf("%w: %q", ErrInvalidSlope, text)
}

// SlopeFromDBPerOctave maps 12, 24, 36 or 48 to a Slope.
func SlopeFromDBPerOctave(db int) (Slope, error) {
	if db <= 0 || db%12 != 0 {
		return 0, fmt.Errorf("%w: %d dB/oct", ErrInvalidSlope, db)
	}
	s := Slope(db/12 - 1)
	if !s.Valid() {
		return 0, fmt.Errorf("%w: %d dB/oct", ErrInvalidSlope, db)
	}
	return s, nil
}
