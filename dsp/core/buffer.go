package core

// EnsureLen returns a slice with the requested length, reusing buf capacity if possible.
func EnsureLen(buf []float64, n int) []float64 {
	if n <= 0 {
		return buf[:0]
	}
	if cap(buf) >= n {
		return buf[:n]
	}
	return make([]float64, n)
}

// Zero sets all values in buf to 0.
func Zero(buf []float64) {
	for i := range buf {
		buf[i] = 0
	}
}

// Zero32 sets all values in buf to 0.
func Zero32(buf []float32) {
	for i := range buf {
		buf[i] = 0
	}
}

// Widen converts float32 samples into dst and returns the number converted.
// Non-finite samples become 0.
func Widen(dst []float64, src []float32) int {
	n := min(len(dst), len(src))
	for i := 0; i < n; i++ {
		dst[i] = SanitizeSample(float64(src[i]))
	}
	return n
}

// Narrow converts float64 samples into dst and returns the number converted.
func Narrow(dst []float32, src []float64) int {
	n := min(len(dst), len(src))
	for i := 0; i < n; i++ {
		dst[i] = float32(src[i])
	}
	return n
}

// Deinterleave splits frames of numChannels interleaved samples into dst
// channel slices. Each dst slice must hold at least len(src)/numChannels values.
func Deinterleave(dst [][]float64, src []float32, numChannels int) {
	frames := len(src) / numChannels
	for ch := 0; ch < numChannels && ch < len(dst); ch++ {
		out := dst[ch]
		for i := 0; i < frames; i++ {
			out[i] = SanitizeSample(float64(src[i*numChannels+ch]))
		}
	}
}

// Interleave writes channel slices back into an interleaved buffer.
func Interleave(dst []float32, src [][]float64, numChannels int) {
	frames := len(dst) / numChannels
	for ch := 0; ch < numChannels && ch < len(src); ch++ {
		in := src[ch]
		for i := 0; i < frames; i++ {
			dst[i*numChannels+ch] = float32(in[i])
		}
	}
}
