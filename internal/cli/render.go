package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cwbudde/simpleeq/dsp/core"
	"github.com/cwbudde/simpleeq/dsp/signal"
	"github.com/cwbudde/simpleeq/internal/audiofile"
)

func newRenderCommand(a *app) *cobra.Command {
	var normalize float64

	cmd := &cobra.Command{
		Use:   "render <in.wav|in.flac> <out.wav>",
		Short: "Filter an audio file offline",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := 0.0
			if cmd.Flags().Changed("normalize") {
				target = core.DBToLinear(normalize)
			}
			return a.render(args[0], args[1], target)
		},
	}

	cmd.Flags().Int("bit-depth", 16, "output bit depth: 16, 24 or 32")
	cmd.Flags().Float64Var(&normalize, "normalize", -1, "scale the output to this peak level in dBFS")
	return cmd
}

func (a *app) render(inPath, outPath string, targetPeak float64) error {
	clip, err := audiofile.Read(inPath)
	if err != nil {
		return err
	}

	proc, err := a.newProcessor(float64(clip.SampleRate))
	if err != nil {
		return err
	}

	block := a.cfg.Audio.BlockSize * clip.Channels
	for start := 0; start < len(clip.Samples); start += block {
		end := min(start+block, len(clip.Samples))
		proc.ProcessInterleaved(clip.Samples[start:end], clip.Channels)
	}

	wide := make([]float64, len(clip.Samples))
	core.Widen(wide, clip.Samples)

	if targetPeak > 0 && len(wide) > 0 {
		scaled, err := signal.Normalize(wide, targetPeak)
		if err != nil {
			return fmt.Errorf("normalize: %w", err)
		}
		core.Narrow(clip.Samples, scaled)
		wide = scaled
	}

	peak := signal.Peak(wide)
	if peak > 1 {
		a.logger.Warn().Float64("peak", peak).Msg("output clips; use --normalize or lower the peak gain")
	}

	if err := audiofile.Write(outPath, clip, a.cfg.Audio.BitDepth); err != nil {
		return err
	}

	a.logger.Info().
		Str("in", inPath).
		Str("out", outPath).
		Int("frames", clip.Frames()).
		Int("channels", clip.Channels).
		Int("sample_rate", clip.SampleRate).
		Msg("rendered")
	return nil
}
