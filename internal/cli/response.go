package cli

import (
	"fmt"
	"io"
	"math"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cwbudde/simpleeq/dsp/eq"
	"github.com/cwbudde/simpleeq/measure/response"
)

type responseOptions struct {
	points     int
	minHz      float64
	maxHz      float64
	measured   bool
	excitation string
	segments   int
	fftSize    int
	poles      bool
}

func newResponseCommand(a *app) *cobra.Command {
	var opts responseOptions

	cmd := &cobra.Command{
		Use:   "response",
		Short: "Print the magnitude response of the configured equalizer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.response(cmd.OutOrStdout(), opts)
		},
	}

	f := cmd.Flags()
	f.IntVar(&opts.points, "points", 31, "number of log-spaced frequencies")
	f.Float64Var(&opts.minHz, "min", 20, "lowest frequency in Hz")
	f.Float64Var(&opts.maxHz, "max", 20000, "highest frequency in Hz")
	f.BoolVar(&opts.measured, "measured", false, "also measure the response from the impulse response")
	f.StringVar(&opts.excitation, "excitation", "impulse", "signal for --measured: impulse or noise")
	f.IntVar(&opts.segments, "segments", 16, "averaged segments for --excitation noise")
	f.IntVar(&opts.fftSize, "fft-size", 65536, "analysis length for --measured")
	f.BoolVar(&opts.poles, "poles", false, "print the pole radius of every active stage instead")
	return cmd
}

func (a *app) response(w io.Writer, opts responseOptions) error {
	sr := a.cfg.Audio.SampleRate
	params, err := a.parameters()
	if err != nil {
		return err
	}

	chain := eq.NewChannelChain()
	if !chain.Reconfigure(params, sr) {
		a.logger.Warn().Float64("sample_rate", sr).Msg("some bands cannot be designed at this rate and are bypassed")
	}

	if opts.poles {
		return writePoles(w, chain)
	}

	freqs, err := response.LogFrequencies(opts.minHz, math.Min(opts.maxHz, 0.499*sr), opts.points)
	if err != nil {
		return err
	}
	analytic := response.Analytic(chain.MagnitudeDB, freqs, sr)

	var measured []response.Point
	if opts.measured {
		if measured, err = measure(chain, sr, opts); err != nil {
			return err
		}
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	if measured != nil {
		fmt.Fprintln(tw, "Hz\tanalytic dB\tmeasured dB\t")
	} else {
		fmt.Fprintln(tw, "Hz\tanalytic dB\t")
	}
	for _, p := range analytic {
		if measured != nil {
			fmt.Fprintf(tw, "%.1f\t%.2f\t%.2f\t\n", p.FreqHz, p.MagnitudeDB, response.Interpolate(measured, p.FreqHz))
		} else {
			fmt.Fprintf(tw, "%.1f\t%.2f\t\n", p.FreqHz, p.MagnitudeDB)
		}
	}
	return tw.Flush()
}

func measure(chain *eq.ChannelChain, sr float64, opts responseOptions) ([]response.Point, error) {
	switch opts.excitation {
	case "impulse":
		ir, err := response.ImpulseResponse(chain.ProcessBlock, sr, opts.fftSize)
		if err != nil {
			return nil, err
		}
		return response.Measured(ir, sr, opts.fftSize)
	case "noise":
		return response.NoiseTransfer(chain.ProcessBlock, sr, opts.fftSize, opts.segments, 1)
	default:
		return nil, fmt.Errorf("unknown excitation %q: want impulse or noise", opts.excitation)
	}
}

func writePoles(w io.Writer, chain *eq.ChannelChain) error {
	cc := chain.Coefficients()

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "band\tstage\tpole radius\t")
	for i := range cc.LowCut.Active {
		fmt.Fprintf(tw, "low cut\t%d\t%.6f\t\n", i+1, cc.LowCut.Sections[i].MaxPoleRadius())
	}
	fmt.Fprintf(tw, "peak\t1\t%.6f\t\n", cc.Peak.MaxPoleRadius())
	for i := range cc.HighCut.Active {
		fmt.Fprintf(tw, "high cut\t%d\t%.6f\t\n", i+1, cc.HighCut.Sections[i].MaxPoleRadius())
	}
	return tw.Flush()
}
