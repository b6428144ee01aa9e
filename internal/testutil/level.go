package testutil

import "math"

// RMS returns the root-mean-square level of x.
func RMS(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	var sum float64
	for _, v := range x {
		sum += v * v
	}
	return math.Sqrt(sum / float64(len(x)))
}

// GainDB returns the level ratio of out to in, in dB, ignoring the first
// skip samples of both so filter transients do not count.
func GainDB(in, out []float64, skip int) float64 {
	n := min(len(in), len(out))
	if skip >= n {
		return math.NaN()
	}
	return 20 * math.Log10(RMS(out[skip:n])/RMS(in[skip:n]))
}

// MaxStep returns the largest absolute difference between neighbouring
// samples of x in [from, to).
func MaxStep(x []float64, from, to int) float64 {
	from = max(from, 1)
	to = min(to, len(x))
	var m float64
	for i := from; i < to; i++ {
		m = math.Max(m, math.Abs(x[i]-x[i-1]))
	}
	return m
}
