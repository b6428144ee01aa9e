// Package audiofile reads WAV and FLAC files into interleaved float32
// samples and writes processed audio back as PCM WAV.
package audiofile

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/mewkiz/flac"
)

var (
	// ErrUnsupportedFormat is returned for unknown file extensions and
	// invalid containers.
	ErrUnsupportedFormat = errors.New("audiofile: unsupported format")

	// ErrUnsupportedBitDepth is returned for PCM depths other than 16, 24
	// and 32 bits.
	ErrUnsupportedBitDepth = errors.New("audiofile: unsupported bit depth")

	// ErrInvalidClip is returned when a clip cannot be written.
	ErrInvalidClip = errors.New("audiofile: invalid clip")
)

// Clip is decoded audio with samples interleaved by frame and scaled to
// [-1, 1).
type Clip struct {
	SampleRate int
	Channels   int
	BitDepth   int
	Samples    []float32
}

// Frames returns the number of sample frames.
func (c *Clip) Frames() int {
	if c.Channels <= 0 {
		return 0
	}
	return len(c.Samples) / c.Channels
}

// Read decodes the file at path, choosing the decoder by extension.
func Read(path string) (*Clip, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("audiofile: %w", err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav", ".wave":
		return ReadWAV(f)
	case ".flac":
		return ReadFLAC(f)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// ReadWAV decodes a PCM WAV stream.
func ReadWAV(r io.ReadSeeker) (*Clip, error) {
	dec := wav.NewDecoder(r)
	dec.ReadInfo()
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("%w: not a valid WAV stream", ErrUnsupportedFormat)
	}

	depth := int(dec.BitDepth)
	scale, err := fullScale(depth)
	if err != nil {
		return nil, err
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("audiofile: decode wav: %w", err)
	}

	clip := &Clip{
		SampleRate: int(dec.SampleRate),
		Channels:   int(dec.NumChans),
		BitDepth:   depth,
		Samples:    make([]float32, len(buf.Data)),
	}
	for i, v := range buf.Data {
		clip.Samples[i] = float32(float64(v) / scale)
	}
	return clip, nil
}

// ReadFLAC decodes a FLAC stream.
func ReadFLAC(r io.Reader) (*Clip, error) {
	stream, err := flac.New(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnsupportedFormat, err)
	}
	defer stream.Close()

	info := stream.Info
	depth := int(info.BitsPerSample)
	scale, err := fullScale(depth)
	if err != nil {
		return nil, err
	}

	channels := int(info.NChannels)
	clip := &Clip{
		SampleRate: int(info.SampleRate),
		Channels:   channels,
		BitDepth:   depth,
		Samples:    make([]float32, 0, int(info.NSamples)*channels),
	}

	for {
		frame, err := stream.ParseNext()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("audiofile: decode flac: %w", err)
		}

		n := int(frame.BlockSize)
		for i := 0; i < n; i++ {
			for ch := 0; ch < channels; ch++ {
				clip.Samples = append(clip.Samples, float32(float64(frame.Subframes[ch].Samples[i])/scale))
			}
		}
	}
	return clip, nil
}

// Write encodes clip as PCM WAV at path with the given bit depth.
func Write(path string, clip *Clip, bitDepth int) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("audiofile: %w", err)
	}
	if err := WriteWAV(f, clip, bitDepth); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// WriteWAV encodes clip as PCM WAV. Samples outside [-1, 1] are clipped.
func WriteWAV(w io.WriteSeeker, clip *Clip, bitDepth int) error {
	if clip == nil || clip.SampleRate <= 0 || clip.Channels <= 0 {
		return ErrInvalidClip
	}
	scale, err := fullScale(bitDepth)
	if err != nil {
		return err
	}

	data := make([]int, len(clip.Samples))
	for i, s := range clip.Samples {
		data[i] = quantize(float64(s), scale)
	}

	enc := wav.NewEncoder(w, clip.SampleRate, bitDepth, clip.Channels, 1)
	buf := &audio.IntBuffer{
		Data:           data,
		Format:         &audio.Format{SampleRate: clip.SampleRate, NumChannels: clip.Channels},
		SourceBitDepth: bitDepth,
	}
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("audiofile: encode wav: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("audiofile: finalize wav: %w", err)
	}
	return nil
}

// fullScale returns 2^(bitDepth-1), the magnitude that maps to 1.0.
func fullScale(bitDepth int) (float64, error) {
	switch bitDepth {
	case 16, 24, 32:
		return math.Ldexp(1, bitDepth-1), nil
	default:
		return 0, fmt.Errorf("%w: %d", ErrUnsupportedBitDepth, bitDepth)
	}
}

func quantize(x, scale float64) int {
	if math.IsNaN(x) {
		return 0
	}
	v := math.Round(x * scale)
	return int(math.Max(-scale, math.Min(scale-1, v)))
}
