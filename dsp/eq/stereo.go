package eq

import (
	"fmt"

	"github.com/cwbudde/simpleeq/dsp/core"
	"github.com/cwbudde/simpleeq/dsp/filter/design"
)

// StereoCore owns the left and right channel chains. The chains share
// coefficients but never state.
type StereoCore struct {
	left  ChannelChain
	right ChannelChain
	cfg   core.ProcessorConfig
}

// NewStereoCore returns an unprepared core with pass-through chains.
func NewStereoCore() *StereoCore {
	s := &StereoCore{}
	s.init()
	return s
}

func (s *StereoCore) init() {
	s.left.init()
	s.right.init()
}

// Prepare validates the stream settings and clears both chains. A sample
// rate too low to place any band above MinFrequency is rejected.
func (s *StereoCore) Prepare(sampleRate float64, maxBlockSize int) error {
	cfg := core.ProcessorConfig{SampleRate: sampleRate, BlockSize: maxBlockSize}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("eq: prepare: %w", err)
	}
	if design.SafeMaxFrequency(sampleRate) <= MinFrequency {
		return fmt.Errorf("eq: prepare: %w: %v Hz leaves no band above %v Hz",
			ErrInvalidSampleRate, sampleRate, MinFrequency)
	}

	s.cfg = cfg
	s.Reset()
	return nil
}

// SampleRate returns the rate passed to the last successful Prepare.
func (s *StereoCore) SampleRate() float64 { return s.cfg.SampleRate }

// Apply installs the same coefficients in both chains.
func (s *StereoCore) Apply(cc ChainCoefficients) {
	s.left.Apply(cc)
	s.right.Apply(cc)
}

// Process filters left and right in place. right may be nil for mono.
func (s *StereoCore) Process(left, right []float64) {
	s.left.ProcessBlock(left)
	if right != nil {
		s.right.ProcessBlock(right)
	}
}

// Left returns the left channel chain.
func (s *StereoCore) Left() *ChannelChain { return &s.left }

// Right returns the right channel chain.
func (s *StereoCore) Right() *ChannelChain { return &s.right }

// Reset clears the state of both chains.
func (s *StereoCore) Reset() {
	s.left.Reset()
	s.right.Reset()
}
