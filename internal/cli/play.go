package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/cwbudde/simpleeq/dsp/eq"
	"github.com/cwbudde/simpleeq/internal/audiofile"
	"github.com/cwbudde/simpleeq/internal/playback"
	"github.com/cwbudde/simpleeq/internal/playback/device"
)

func newPlayCommand(a *app) *cobra.Command {
	var (
		buffer time.Duration
		watch  bool
	)

	cmd := &cobra.Command{
		Use:   "play <in.wav|in.flac>",
		Short: "Play an audio file through the equalizer",
		Long: "Play an audio file through the equalizer. With --watch, edits to the\n" +
			"configuration file are applied while playing.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return a.play(ctx, args[0], buffer, watch)
		},
	}

	cmd.Flags().DurationVar(&buffer, "buffer", 50*time.Millisecond, "output device buffer")
	cmd.Flags().BoolVar(&watch, "watch", true, "apply configuration file changes while playing")
	return cmd
}

func (a *app) play(ctx context.Context, path string, buffer time.Duration, watch bool) error {
	clip, err := audiofile.Read(path)
	if err != nil {
		return err
	}
	proc, err := a.newProcessor(float64(clip.SampleRate))
	if err != nil {
		return err
	}
	if !proc.SupportsLayout(clip.Channels, clip.Channels) {
		return fmt.Errorf("play: %d channels not supported", clip.Channels)
	}

	if watch && a.cfg.File() != "" {
		store := proc.Parameters()
		a.cfg.Watch(func(p eq.Parameters) {
			store.Store(p)
			a.logger.Info().
				Float64("peak_gain_db", p.PeakGainDB).
				Float64("peak_freq", p.PeakFreq).
				Msg("parameters reloaded")
		}, func(err error) {
			a.logger.Warn().Err(err).Msg("configuration reload rejected")
		})
	}

	a.logger.Info().
		Str("file", path).
		Int("sample_rate", clip.SampleRate).
		Int("channels", clip.Channels).
		Dur("duration", time.Duration(clip.Frames())*time.Second/time.Duration(clip.SampleRate)).
		Msg("playing")

	src := playback.NewSource(clip, proc)
	err = device.Play(ctx, playback.NewStreamReader(src), clip.SampleRate, clip.Channels, buffer)
	if errors.Is(err, context.Canceled) {
		a.logger.Info().Int("frames", src.Position()).Msg("stopped")
		return nil
	}
	return err
}
