package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/cwbudde/simpleeq/dsp/eq"
)

// paramDoc is the YAML view of one layout entry.
type paramDoc struct {
	ID      string   `yaml:"id"`
	Unit    string   `yaml:"unit,omitempty"`
	Min     float64  `yaml:"min"`
	Max     float64  `yaml:"max"`
	Default float64  `yaml:"default"`
	Value   string   `yaml:"value"`
	Choices []string `yaml:"choices,omitempty"`
}

type paramsDoc struct {
	Parameters eq.Parameters `yaml:"parameters"`
	Layout     []paramDoc    `yaml:"layout"`
}

func newParamsCommand(a *app) *cobra.Command {
	var savePath string

	cmd := &cobra.Command{
		Use:   "params",
		Short: "Print the parameter layout and current values as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.params(cmd.OutOrStdout(), savePath)
		},
	}

	cmd.Flags().StringVar(&savePath, "save", "", "also write the parameters as a binary preset")
	return cmd
}

func (a *app) params(w io.Writer, savePath string) error {
	p, err := a.parameters()
	if err != nil {
		return err
	}

	doc := paramsDoc{Parameters: p}
	for _, spec := range eq.Layout() {
		v, _ := p.Value(spec.ID)
		doc.Layout = append(doc.Layout, paramDoc{
			ID:      spec.ID,
			Unit:    spec.Unit,
			Min:     spec.Min,
			Max:     spec.Max,
			Default: spec.Default,
			Value:   spec.Format(v),
			Choices: spec.Choices,
		})
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode params: %w", err)
	}
	if err := enc.Close(); err != nil {
		return err
	}

	if savePath == "" {
		return nil
	}
	blob, err := p.MarshalBinary()
	if err != nil {
		return err
	}
	if err := os.WriteFile(savePath, blob, 0o644); err != nil {
		return fmt.Errorf("save preset: %w", err)
	}
	a.logger.Info().Str("path", savePath).Int("bytes", len(blob)).Msg("preset saved")
	return nil
}
