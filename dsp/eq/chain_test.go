package eq

import (
	"math"
	"testing"

	"github.com/cwbudde/simpleeq/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func peakOnly(sr, freq, q, gainDB float64) ChainCoefficients {
	cc := IdentityChain()
	cc.Peak = PeakCoefficients(sr, freq, q, gainDB)
	return cc
}

func TestChannelChainFlatPeakIsIdentity(t *testing.T) {
	c := NewChannelChain()
	c.Apply(peakOnly(48000, 1000, 1, 0))

	in := testutil.DeterministicNoise(11, 1, 4096)
	out := append([]float64(nil), in...)
	c.ProcessBlock(out)

	testutil.RequireSliceNearlyEqual(t, out, in, 1e-15)
}

func TestChannelChainSampleMatchesBlock(t *testing.T) {
	p := Parameters{
		LowCutFreq: 80, HighCutFreq: 8000, PeakFreq: 600, PeakGainDB: 9, PeakQuality: 0.7,
		LowCutSlope: Slope24, HighCutSlope: Slope48,
	}

	a := NewChannelChain()
	require.True(t, a.Reconfigure(p, 44100))
	b := NewChannelChain()
	require.True(t, b.Reconfigure(p, 44100))

	in := testutil.DeterministicNoise(2, 1, 777)
	block := append([]float64(nil), in...)
	a.ProcessBlock(block)

	for i, x := range in {
		assert.InDelta(t, b.ProcessSample(x), block[i], 1e-12, "sample %d", i)
	}
}

func TestChannelChainCoefficientSwapIsClickFree(t *testing.T) {
	const (
		sr   = 48000.0
		n    = 9600
		swap = 4812 // positive peak of the 1 kHz input
	)
	in := testutil.DeterministicSine(1000, sr, 0.5, n)
	before := peakOnly(sr, 1000, 1, 6)
	after := peakOnly(sr, 1000, 1, -6)

	run := func(reset bool) []float64 {
		c := NewChannelChain()
		c.Apply(before)
		out := append([]float64(nil), in...)
		c.ProcessBlock(out[:swap])
		c.Apply(after)
		if reset {
			c.Reset()
		}
		c.ProcessBlock(out[swap:])
		return out
	}

	kept := run(false)
	cleared := run(true)

	steady := testutil.MaxStep(kept, n/4, swap)
	assert.LessOrEqual(t, testutil.MaxStep(kept, swap, swap+96), 1.25*steady)
	// Clearing the state at the same point produces an audible step.
	assert.Greater(t, testutil.MaxStep(cleared, swap, swap+96), 2*steady)

	// After the swap the chain settles to the new gain.
	assert.InDelta(t, -6.0, testutil.GainDB(in[n-2400:], kept[n-2400:], 0), 0.05)
}

func TestChannelChainSlopeReductionStep(t *testing.T) {
	const (
		sr   = 48000.0
		n    = 9600
		swap = 4800
	)
	in := testutil.DeterministicSine(1000, sr, 0.5, n)
	steep := DefaultParameters()
	steep.LowCutFreq = 800
	steep.LowCutSlope = Slope48
	gentle := steep
	gentle.LowCutSlope = Slope12

	c := NewChannelChain()
	require.True(t, c.Reconfigure(steep, sr))
	out := append([]float64(nil), in...)
	c.ProcessBlock(out[:swap])
	require.True(t, c.Reconfigure(gentle, sr))
	c.ProcessBlock(out[swap:])

	// The same swap with the dropped stages still holding their delay lines.
	stale := NewChannelChain()
	require.True(t, stale.Reconfigure(steep, sr))
	staleOut := append([]float64(nil), in...)
	stale.ProcessBlock(staleOut[:swap])
	cut := LowCutCoefficients(sr, 800, Slope12)
	for i := range stale.lowCut.stages {
		stale.lowCut.stages[i].SetCoefficients(cut.Sections[i])
	}
	stale.ProcessBlock(staleOut[swap:])

	steady := testutil.MaxStep(out, n/4, swap)
	step := testutil.MaxStep(out, swap, swap+96)
	assert.Less(t, step, 10*steady)
	assert.Less(t, step, 0.6*testutil.MaxStep(staleOut, swap, swap+96))
	assert.Equal(t, 1, c.LowCut().ActiveStages())
}

func TestChannelChainReconfigureKeepsBandsOnRejection(t *testing.T) {
	c := NewChannelChain()
	require.True(t, c.Reconfigure(DefaultParameters(), 48000))
	before := c.Coefficients()

	assert.False(t, c.Reconfigure(DefaultParameters(), math.Inf(1)))
	assert.Equal(t, before, c.Coefficients())
}

func TestChannelChainStability(t *testing.T) {
	const sr = 44100.0
	p := Parameters{
		LowCutFreq: 20, HighCutFreq: 20000, PeakFreq: 20, PeakGainDB: 24, PeakQuality: 10,
		LowCutSlope: Slope48, HighCutSlope: Slope48,
	}
	c := NewChannelChain()
	require.True(t, c.Reconfigure(p, sr))

	ir := testutil.Impulse(5*int(sr), 0)
	c.ProcessBlock(ir)

	testutil.RequireFinite(t, ir)
	var tail float64
	for _, v := range ir[len(ir)-4410:] {
		tail = math.Max(tail, math.Abs(v))
	}
	assert.Less(t, tail, 1e-9)
}

func TestChannelChainMagnitudeDB(t *testing.T) {
	c := NewChannelChain()
	c.Apply(peakOnly(44100, 1000, 1, 6))

	assert.InDelta(t, 6.0, c.MagnitudeDB(1000, 44100), 1e-6)
	assert.Same(t, c.LowCut(), c.LowCut())
	assert.Equal(t, 0, c.HighCut().ActiveStages())
}
