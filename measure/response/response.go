package response

import (
	"errors"
	"fmt"
	"math"
	"math/bits"
	"math/cmplx"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"
	"github.com/cwbudde/simpleeq/dsp/core"
	"github.com/cwbudde/simpleeq/dsp/signal"
)

// Errors returned by the response functions.
var (
	ErrEmptyIR           = errors.New("response: impulse response is empty")
	ErrInvalidSampleRate = errors.New("response: sample rate must be positive")
	ErrInvalidFFTSize    = errors.New("response: fft size must be at least 2")
	ErrInvalidRange      = errors.New("response: invalid frequency range")
	ErrInvalidDuration   = errors.New("response: duration too short")
	ErrInvalidSegments   = errors.New("response: at least one segment is required")
)

// floorDB is reported for bins with zero magnitude.
const floorDB = -300.0

// Point is one sample of a magnitude response.
type Point struct {
	FreqHz      float64 `yaml:"freq_hz"`
	MagnitudeDB float64 `yaml:"magnitude_db"`
}

// MagnitudeFunc evaluates a filter's magnitude in dB at a frequency.
type MagnitudeFunc func(freqHz, sampleRate float64) float64

// BlockFunc filters a block in place, carrying state between calls.
type BlockFunc func(buf []float64)

// LogFrequencies returns n frequencies spaced evenly on a log axis from lo to
// hi inclusive.
func LogFrequencies(lo, hi float64, n int) ([]float64, error) {
	if n < 2 || !(lo > 0) || !(hi > lo) || math.IsInf(hi, 0) {
		return nil, fmt.Errorf("%w: [%g, %g] with %d points", ErrInvalidRange, lo, hi, n)
	}

	out := make([]float64, n)
	ratio := math.Log(hi / lo)
	for i := range out {
		out[i] = lo * math.Exp(ratio*float64(i)/float64(n-1))
	}
	out[n-1] = hi
	return out, nil
}

// Analytic evaluates fn at every frequency.
func Analytic(fn MagnitudeFunc, freqs []float64, sampleRate float64) []Point {
	out := make([]Point, len(freqs))
	for i, f := range freqs {
		out[i] = Point{FreqHz: f, MagnitudeDB: fn(f, sampleRate)}
	}
	return out
}

// ImpulseResponse runs a unit impulse of the given length through process.
func ImpulseResponse(process BlockFunc, sampleRate float64, length int) ([]float64, error) {
	if !(sampleRate > 0) {
		return nil, ErrInvalidSampleRate
	}
	g := signal.NewGenerator(core.WithSampleRate(sampleRate))
	ir, err := g.Impulse(1, length)
	if err != nil {
		return nil, fmt.Errorf("response: %w", err)
	}
	process(ir)
	return ir, nil
}

// Measured returns the magnitude of the FFT of ir for bins 0 through
// fftSize/2. The response is zero-padded or truncated to fftSize; a
// non-positive fftSize selects the next power of two that holds ir.
func Measured(ir []float64, sampleRate float64, fftSize int) ([]Point, error) {
	if len(ir) == 0 {
		return nil, ErrEmptyIR
	}
	if !(sampleRate > 0) || math.IsInf(sampleRate, 0) {
		return nil, ErrInvalidSampleRate
	}
	if fftSize <= 0 {
		fftSize = nextPow2(len(ir))
	}
	if fftSize < 2 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidFFTSize, fftSize)
	}

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, fmt.Errorf("response: fft plan: %w", err)
	}
	in := make([]complex128, fftSize)
	spec := make([]complex128, fftSize)
	if err := forward(plan, spec, in, ir); err != nil {
		return nil, err
	}

	bins := fftSize/2 + 1
	re := make([]float64, bins)
	im := make([]float64, bins)
	for k := range bins {
		re[k] = real(spec[k])
		im[k] = imag(spec[k])
	}
	mag := make([]float64, bins)
	vecmath.Magnitude(mag, re, im)

	return toPoints(mag, sampleRate/float64(fftSize)), nil
}

// NoiseTransfer drives process with seeded white noise and estimates the
// magnitude response from the averaged cross spectrum,
// |sum Y*conj(X)| / sum |X|^2, over segments of fftSize samples. A leading
// segment lets the filter settle and is not analysed.
func NoiseTransfer(process BlockFunc, sampleRate float64, fftSize, segments int, seed int64) ([]Point, error) {
	if !(sampleRate > 0) || math.IsInf(sampleRate, 0) {
		return nil, ErrInvalidSampleRate
	}
	if fftSize < 2 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidFFTSize, fftSize)
	}
	if segments < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSegments, segments)
	}

	g := signal.NewGeneratorWithOptions(
		[]core.ProcessorOption{core.WithSampleRate(sampleRate)},
		signal.WithSeed(seed),
	)
	x, err := g.WhiteNoise(1, (segments+1)*fftSize)
	if err != nil {
		return nil, fmt.Errorf("response: %w", err)
	}
	y := append([]float64(nil), x...)
	process(y)

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, fmt.Errorf("response: fft plan: %w", err)
	}

	bins := fftSize/2 + 1
	in := make([]complex128, fftSize)
	xs := make([]complex128, fftSize)
	ys := make([]complex128, fftSize)
	re := make([]float64, bins)
	im := make([]float64, bins)
	power := make([]float64, bins)

	for s := 1; s <= segments; s++ {
		seg := s * fftSize
		if err := forward(plan, xs, in, x[seg:seg+fftSize]); err != nil {
			return nil, err
		}
		if err := forward(plan, ys, in, y[seg:seg+fftSize]); err != nil {
			return nil, err
		}
		for k := range bins {
			cross := ys[k] * cmplx.Conj(xs[k])
			re[k] += real(cross)
			im[k] += imag(cross)
			power[k] += real(xs[k])*real(xs[k]) + imag(xs[k])*imag(xs[k])
		}
	}

	mag := make([]float64, bins)
	vecmath.Magnitude(mag, re, im)
	for k := range mag {
		if power[k] > 0 {
			mag[k] /= power[k]
		} else {
			mag[k] = 0
		}
	}

	return toPoints(mag, sampleRate/float64(len(in))), nil
}

// forward transforms src, zero-padded or truncated to len(in), into dst.
func forward(plan *algofft.Plan[complex128], dst, in []complex128, src []float64) error {
	for i := range in {
		if i < len(src) {
			in[i] = complex(src[i], 0)
		} else {
			in[i] = 0
		}
	}
	if err := plan.Forward(dst, in); err != nil {
		return fmt.Errorf("response: fft: %w", err)
	}
	return nil
}

func toPoints(mag []float64, binHz float64) []Point {
	out := make([]Point, len(mag))
	for k, m := range mag {
		db := floorDB
		if m > 0 {
			db = math.Max(20*math.Log10(m), floorDB)
		}
		out[k] = Point{FreqHz: float64(k) * binHz, MagnitudeDB: db}
	}
	return out
}

// Interpolate returns the magnitude at freqHz by linear interpolation
// between the neighbouring points, which must be sorted by frequency.
// Frequencies outside the range take the nearest end point.
func Interpolate(points []Point, freqHz float64) float64 {
	switch {
	case len(points) == 0:
		return math.NaN()
	case freqHz <= points[0].FreqHz:
		return points[0].MagnitudeDB
	case freqHz >= points[len(points)-1].FreqHz:
		return points[len(points)-1].MagnitudeDB
	}

	lo, hi := 0, len(points)-1
	for hi-lo > 1 {
		mid := (lo + hi) / 2
		if points[mid].FreqHz <= freqHz {
			lo = mid
		} else {
			hi = mid
		}
	}

	a, b := points[lo], points[hi]
	t := (freqHz - a.FreqHz) / (b.FreqHz - a.FreqHz)
	return a.MagnitudeDB + t*(b.MagnitudeDB-a.MagnitudeDB)
}

// ToneGainDB feeds a sine of freqHz through process for the given duration
// and returns the output level relative to the input, measured over the
// second half so the filter transient is excluded.
func ToneGainDB(process BlockFunc, freqHz, sampleRate, seconds float64) (float64, error) {
	if !(sampleRate > 0) || math.IsInf(sampleRate, 0) {
		return 0, ErrInvalidSampleRate
	}
	n := int(seconds * sampleRate)
	if n < 4 {
		return 0, fmt.Errorf("%w: %g s", ErrInvalidDuration, seconds)
	}

	g := signal.NewGenerator(core.WithSampleRate(sampleRate))
	in, err := g.Sine(freqHz, 0.5, n)
	if err != nil {
		return 0, fmt.Errorf("response: %w", err)
	}
	out := append([]float64(nil), in...)
	process(out)

	skip := n / 2
	return core.LinearToDB(rms(out[skip:]) / rms(in[skip:])), nil
}

func rms(x []float64) float64 {
	var sum float64
	for _, v := range x {
		sum += v * v
	}
	return math.Sqrt(sum / float64(len(x)))
}

func nextPow2(n int) int {
	if n <= 1 {
		return 2
	}
	return 1 << bits.Len(uint(n-1))
}
