// Package playback streams a clip through an equalizer processor as
// little-endian float32 PCM for real-time output.
package playback

import (
	"encoding/binary"
	"io"
	"math"
	"sync"

	"github.com/cwbudde/simpleeq/dsp/eq"
	"github.com/cwbudde/simpleeq/internal/audiofile"
)

// Source plays a clip through a prepared processor.
type Source struct {
	proc     *eq.Processor
	samples  []float32
	channels int
	pos      int
}

// NewSource returns a source reading clip from the start. proc must be
// prepared for the clip's sample rate.
func NewSource(clip *audiofile.Clip, proc *eq.Processor) *Source {
	return &Source{
		proc:     proc,
		samples:  clip.Samples,
		channels: clip.Channels,
	}
}

// Channels returns the number of interleaved channels produced.
func (s *Source) Channels() int { return s.channels }

// Process fills dst with the next processed frames. Past the end of the
// clip dst is padded with silence. It returns the number of clip frames
// written.
func (s *Source) Process(dst []float32) int {
	frames := len(dst) / s.channels
	dst = dst[:frames*s.channels]

	n := copy(dst, s.samples[s.pos:])
	for i := n; i < len(dst); i++ {
		dst[i] = 0
	}
	s.pos += n

	s.proc.ProcessInterleaved(dst, s.channels)
	return n / s.channels
}

// Finished reports whether the whole clip has been produced.
func (s *Source) Finished() bool {
	return s.pos >= len(s.samples)
}

// Position returns the number of frames produced so far.
func (s *Source) Position() int {
	return s.pos / s.channels
}

// StreamReader encodes a Source as little-endian float32 bytes.
type StreamReader struct {
	mu  sync.Mutex
	src *Source
	buf []float32
}

// NewStreamReader wraps src.
func NewStreamReader(src *Source) *StreamReader {
	return &StreamReader{src: src}
}

// Read fills p with whole frames. It returns io.EOF together with the last
// frames of the clip.
func (r *StreamReader) Read(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.src.Finished() {
		return 0, io.EOF
	}

	frameBytes := 4 * r.src.channels
	frames := len(p) / frameBytes
	if frames == 0 {
		return 0, nil
	}

	need := frames * r.src.channels
	if cap(r.buf) < need {
		r.buf = make([]float32, need)
	}
	r.buf = r.buf[:need]

	got := r.src.Process(r.buf)
	for i, v := range r.buf[:got*r.src.channels] {
		binary.LittleEndian.PutUint32(p[4*i:], math.Float32bits(v))
	}

	n := got * frameBytes
	if r.src.Finished() {
		return n, io.EOF
	}
	return n, nil
}
