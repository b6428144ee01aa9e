// Package cli implements the simpleeq command line tool.
package cli

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/cwbudde/simpleeq/dsp/eq"
	"github.com/cwbudde/simpleeq/internal/config"
	"github.com/cwbudde/simpleeq/internal/logging"
)

// app carries the state shared by all sub-commands once the root command
// has loaded the configuration.
type app struct {
	configPath string
	presetPath string

	cfg    *config.Config
	logger zerolog.Logger
}

// NewRootCommand builds the command tree.
func NewRootCommand() *cobra.Command {
	a := &app{logger: zerolog.Nop()}

	root := &cobra.Command{
		Use:           "simpleeq",
		Short:         "Three-band equalizer: low cut, peak and high cut",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "configuration file (default ./simpleeq.yaml)")
	flags.StringVar(&a.presetPath, "preset", "", "binary parameter state saved with 'params --save'")
	flags.String("log-level", "info", "log level: trace, debug, info, warn, error")
	flags.Float64("sample-rate", 48000, "sample rate for analysis commands")
	flags.Int("block-size", 512, "maximum block size in frames")

	root.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		return a.setup(cmd)
	}

	root.AddCommand(
		newRenderCommand(a),
		newPlayCommand(a),
		newResponseCommand(a),
		newParamsCommand(a),
	)
	return root
}

// Execute runs the root command with os.Args.
func Execute() int {
	root := NewRootCommand()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(root.ErrOrStderr(), "simpleeq:", err)
		return 1
	}
	return 0
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}

	bindings := map[string]string{
		"log.level":         "log-level",
		"audio.sample_rate": "sample-rate",
		"audio.block_size":  "block-size",
		"audio.bit_depth":   "bit-depth",
	}
	for key, name := range bindings {
		if f := cmd.Flags().Lookup(name); f != nil {
			if err := cfg.BindFlag(key, f); err != nil {
				return err
			}
		}
	}
	if err := cfg.Reload(); err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = logging.New(cmd.ErrOrStderr(), cfg.Log)
	a.logger.Debug().Str("config", cfg.File()).Msg("configuration loaded")
	return nil
}

// parameters returns the configured parameters, replaced by the preset
// file when one was given.
func (a *app) parameters() (eq.Parameters, error) {
	if a.presetPath == "" {
		return a.cfg.Parameters(), nil
	}

	data, err := os.ReadFile(a.presetPath)
	if err != nil {
		return eq.Parameters{}, fmt.Errorf("read preset: %w", err)
	}
	var p eq.Parameters
	if err := p.UnmarshalBinary(data); err != nil {
		return eq.Parameters{}, fmt.Errorf("load preset %s: %w", a.presetPath, err)
	}
	return p, nil
}

// newProcessor returns a processor prepared for sampleRate with the
// configured parameters.
func (a *app) newProcessor(sampleRate float64) (*eq.Processor, error) {
	params, err := a.parameters()
	if err != nil {
		return nil, err
	}

	proc := eq.NewProcessor(eq.WithParameters(params), eq.WithLogger(a.logger))
	if err := proc.Prepare(sampleRate, a.cfg.Audio.BlockSize); err != nil {
		return nil, err
	}
	if n := proc.RejectedUpdates(); n > 0 {
		a.logger.Warn().Float64("sample_rate", sampleRate).Msg("some bands cannot be designed at this rate and are bypassed")
	}
	return proc, nil
}
