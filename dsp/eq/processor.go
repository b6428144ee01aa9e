package eq

import (
	"fmt"
	"math"
	"sync/atomic"

	"github.com/cwbudde/simpleeq/dsp/core"
	"github.com/cwbudde/simpleeq/dsp/filter/biquad"
	"github.com/rs/zerolog"
)

// Name is the processor's display name.
const Name = "SimpleEq"

// Option configures a Processor.
type Option func(*Processor)

// WithLogger sets the logger used by Prepare. The block methods never log.
func WithLogger(logger zerolog.Logger) Option {
	return func(p *Processor) {
		p.logger = logger
	}
}

// WithStore makes the processor read parameters from an existing store.
func WithStore(store *ParameterStore) Option {
	return func(p *Processor) {
		if store != nil {
			p.store = store
		}
	}
}

// WithParameters sets the initial parameters of the processor's own store.
func WithParameters(params Parameters) Option {
	return func(p *Processor) {
		p.store.Store(params)
	}
}

// Processor is the host-facing block processor. Prepare runs on the control
// side; the Process methods run on the audio thread and must not be called
// concurrently with each other or with Prepare.
type Processor struct {
	store  *ParameterStore
	stereo StereoCore
	logger zerolog.Logger

	prepared    bool
	dirty       bool
	lastVersion uint64
	coeffs      ChainCoefficients
	scratch     [2][]float64

	sampleRate   atomic.Uint64
	maxBlockSize atomic.Int64
	rejected     atomic.Uint64
}

// NewProcessor returns an unprepared processor. Until Prepare succeeds the
// Process methods pass audio through.
func NewProcessor(opts ...Option) *Processor {
	p := &Processor{
		store:  NewParameterStore(DefaultParameters()),
		logger: zerolog.Nop(),
		coeffs: IdentityChain(),
	}
	p.stereo.init()

	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	return p
}

// Parameters returns the store the processor reads from.
func (p *Processor) Parameters() *ParameterStore {
	return p.store
}

// Prepare configures the processor for a stream. It allocates scratch
// buffers, clears all filter state and schedules a coefficient update for
// the next block. A failed Prepare leaves the previous configuration in
// place.
func (p *Processor) Prepare(sampleRate float64, maxBlockSize int) error {
	if err := p.stereo.Prepare(sampleRate, maxBlockSize); err != nil {
		p.logger.Error().Err(err).
			Float64("sample_rate", sampleRate).
			Int("max_block_size", maxBlockSize).
			Msg("prepare failed")
		return err
	}

	for i := range p.scratch {
		p.scratch[i] = core.EnsureLen(p.scratch[i], maxBlockSize)
	}

	p.coeffs = IdentityChain()
	p.stereo.Apply(p.coeffs)
	p.dirty = true
	p.prepared = true
	p.sampleRate.Store(math.Float64bits(sampleRate))
	p.maxBlockSize.Store(int64(maxBlockSize))
	p.updateCoefficients()

	p.logger.Debug().
		Float64("sample_rate", sampleRate).
		Int("max_block_size", maxBlockSize).
		Str("kernel", biquad.KernelName()).
		Uint64("rejected_updates", p.rejected.Load()).
		Msg("processor prepared")
	return nil
}

// Reset clears filter state without touching coefficients.
func (p *Processor) Reset() {
	p.stereo.Reset()
}

// SampleRate returns the prepared sample rate, or 0. Safe from any goroutine.
func (p *Processor) SampleRate() float64 {
	return math.Float64frombits(p.sampleRate.Load())
}

// MaxBlockSize returns the prepared block size, or 0. Safe from any goroutine.
func (p *Processor) MaxBlockSize() int {
	return int(p.maxBlockSize.Load())
}

// RejectedUpdates counts parameter snapshots for which at least one band
// kept its previous coefficients. Safe from any goroutine.
func (p *Processor) RejectedUpdates() uint64 {
	return p.rejected.Load()
}

// Coefficients returns the coefficients currently installed. Audio thread
// only.
func (p *Processor) Coefficients() ChainCoefficients {
	return p.coeffs
}

// MagnitudeDB returns the analytic response of the installed coefficients.
// Audio thread only.
func (p *Processor) MagnitudeDB(freqHz float64) float64 {
	return p.coeffs.MagnitudeDB(freqHz, p.stereo.SampleRate())
}

// SupportsLayout reports whether a bus layout can be processed: mono or
// stereo, with matching input and output channel counts.
func (p *Processor) SupportsLayout(inputs, outputs int) bool {
	return (outputs == 1 || outputs == 2) && inputs == outputs
}

// TailLengthSeconds reports how long output continues after input stops.
func (p *Processor) TailLengthSeconds() float64 { return 0 }

// LatencySamples reports the processing delay beyond the filters' own
// group delay.
func (p *Processor) LatencySamples() int { return 0 }

// AcceptsMidi reports whether the processor consumes MIDI.
func (p *Processor) AcceptsMidi() bool { return false }

// Name returns the display name.
func (p *Processor) Name() string { return Name }

// ProcessBlock filters host buffers in place. Channel 0 goes through the
// left chain and channel 1 through the right chain if it carries input.
// Channels at or beyond inputChannels are cleared. Blocks longer than the
// prepared maximum are processed in chunks.
func (p *Processor) ProcessBlock(channels [][]float32, inputChannels int) {
	for ch := max(inputChannels, 0); ch < len(channels); ch++ {
		core.Zero32(channels[ch])
	}
	if !p.prepared {
		return
	}

	p.updateCoefficients()

	chains := [2]*ChannelChain{&p.stereo.left, &p.stereo.right}
	for ch := 0; ch < len(chains) && ch < inputChannels && ch < len(channels); ch++ {
		p.processFloat32(chains[ch], channels[ch], p.scratch[ch])
	}
}

// ProcessBlock64 is ProcessBlock for double-precision host buffers.
func (p *Processor) ProcessBlock64(channels [][]float64, inputChannels int) {
	for ch := max(inputChannels, 0); ch < len(channels); ch++ {
		core.Zero(channels[ch])
	}
	if !p.prepared {
		return
	}

	p.updateCoefficients()

	chains := [2]*ChannelChain{&p.stereo.left, &p.stereo.right}
	for ch := 0; ch < len(chains) && ch < inputChannels && ch < len(channels); ch++ {
		buf := channels[ch]
		for i, x := range buf {
			buf[i] = core.SanitizeSample(x)
		}
		chains[ch].ProcessBlock(buf)
	}
}

// ProcessInterleaved filters interleaved frames of numChannels samples in
// place. Channels beyond the first two are left untouched.
func (p *Processor) ProcessInterleaved(samples []float32, numChannels int) {
	if !p.prepared || numChannels <= 0 {
		return
	}

	p.updateCoefficients()

	active := min(numChannels, 2)
	block := len(p.scratch[0])
	frames := len(samples) / numChannels

	for start := 0; start < frames; start += block {
		n := min(block, frames-start)
		chunk := samples[start*numChannels : (start+n)*numChannels]

		bufs := [2][]float64{p.scratch[0][:n], p.scratch[1][:n]}
		core.Deinterleave(bufs[:active], chunk, numChannels)
		if active == 2 {
			p.stereo.Process(bufs[0], bufs[1])
		} else {
			p.stereo.Process(bufs[0], nil)
		}
		core.Interleave(chunk, bufs[:active], numChannels)
	}
}

func (p *Processor) processFloat32(chain *ChannelChain, samples []float32, scratch []float64) {
	block := len(scratch)
	for start := 0; start < len(samples); start += block {
		n := min(block, len(samples)-start)
		chunk := samples[start : start+n]
		buf := scratch[:n]

		core.Widen(buf, chunk)
		chain.ProcessBlock(buf)
		core.Narrow(chunk, buf)
	}
}

// updateCoefficients picks up a new parameter snapshot, if any, and swaps
// the designed coefficients into both chains.
func (p *Processor) updateCoefficients() {
	params, version := p.store.Snapshot()
	if !p.dirty && version == p.lastVersion {
		return
	}
	p.lastVersion = version
	p.dirty = false

	cc, ok := ComputeCoefficientsFrom(p.coeffs, params, p.stereo.SampleRate())
	if !ok {
		p.rejected.Add(1)
	}
	p.coeffs = cc
	p.stereo.Apply(cc)
}

// String describes the processor configuration.
func (p *Processor) String() string {
	return fmt.Sprintf("%s(%.0f Hz, %d frames)", Name, p.SampleRate(), p.MaxBlockSize())
}
