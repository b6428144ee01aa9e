// Package config loads command line settings from a YAML file, SIMPLEEQ_
// environment variables and flags, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/cwbudde/simpleeq/dsp/eq"
	"github.com/cwbudde/simpleeq/internal/logging"
)

// EnvPrefix prefixes every environment override, e.g.
// SIMPLEEQ_EQ_PEAK_GAIN_DB.
const EnvPrefix = "SIMPLEEQ"

// ErrInvalid is returned when a loaded value cannot be used.
var ErrInvalid = errors.New("config: invalid value")

// Config is the full command line configuration.
type Config struct {
	Audio AudioConfig    `mapstructure:"audio"`
	EQ    EQConfig       `mapstructure:"eq"`
	Log   logging.Config `mapstructure:"log"`

	v  *viper.Viper
	mu sync.Mutex
}

// AudioConfig describes the stream the processor is prepared for.
type AudioConfig struct {
	SampleRate float64 `mapstructure:"sample_rate"`
	BlockSize  int     `mapstructure:"block_size"`
	BitDepth   int     `mapstructure:"bit_depth"`
}

// EQConfig mirrors eq.Parameters. Slopes are given in dB per octave
// ("24") or as display labels ("24 dB/Oct").
type EQConfig struct {
	LowCutFreq   float64 `mapstructure:"low_cut_freq"`
	LowCutSlope  string  `mapstructure:"low_cut_slope"`
	HighCutFreq  float64 `mapstructure:"high_cut_freq"`
	HighCutSlope string  `mapstructure:"high_cut_slope"`
	PeakFreq     float64 `mapstructure:"peak_freq"`
	PeakGainDB   float64 `mapstructure:"peak_gain_db"`
	PeakQuality  float64 `mapstructure:"peak_quality"`
}

// New returns a configuration holding defaults and environment overrides.
func New() *Config {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return &Config{v: v}
}

// Load reads path, or searches for simpleeq.yaml in the working directory
// and $HOME/.config/simpleeq when path is empty. A missing file is not an
// error in search mode.
func Load(path string) (*Config, error) {
	c := New()

	if path != "" {
		c.v.SetConfigFile(path)
	} else {
		c.v.SetConfigName("simpleeq")
		c.v.SetConfigType("yaml")
		c.v.AddConfigPath(".")
		c.v.AddConfigPath("$HOME/.config/simpleeq")
	}

	if err := c.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: read: %w", err)
		}
	}

	if err := c.Reload(); err != nil {
		return nil, err
	}
	return c, nil
}

func setDefaults(v *viper.Viper) {
	d := eq.DefaultParameters()

	v.SetDefault("audio.sample_rate", 48000.0)
	v.SetDefault("audio.block_size", 512)
	v.SetDefault("audio.bit_depth", 16)

	v.SetDefault("eq.low_cut_freq", d.LowCutFreq)
	v.SetDefault("eq.low_cut_slope", fmt.Sprint(d.LowCutSlope.DBPerOctave()))
	v.SetDefault("eq.high_cut_freq", d.HighCutFreq)
	v.SetDefault("eq.high_cut_slope", fmt.Sprint(d.HighCutSlope.DBPerOctave()))
	v.SetDefault("eq.peak_freq", d.PeakFreq)
	v.SetDefault("eq.peak_gain_db", d.PeakGainDB)
	v.SetDefault("eq.peak_quality", d.PeakQuality)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.json", false)
	v.SetDefault("log.caller", false)
}

// BindFlag lets a command line flag override key when it is set.
func (c *Config) BindFlag(key string, flag *pflag.Flag) error {
	if flag == nil {
		return fmt.Errorf("config: no flag for %q", key)
	}
	return c.v.BindPFlag(key, flag)
}

// Set overrides key for the rest of the run.
func (c *Config) Set(key string, value any) {
	c.v.Set(key, value)
}

// File returns the configuration file in use, or "".
func (c *Config) File() string {
	return c.v.ConfigFileUsed()
}

// Reload decodes the current file, environment and flag values into c.
func (c *Config) Reload() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var next Config
	if err := c.v.Unmarshal(&next); err != nil {
		return fmt.Errorf("config: decode: %w", err)
	}
	if err := next.validate(); err != nil {
		return err
	}

	c.Audio, c.EQ, c.Log = next.Audio, next.EQ, next.Log
	return nil
}

func (c *Config) validate() error {
	if !(c.Audio.SampleRate > 0) {
		return fmt.Errorf("%w: audio.sample_rate %v", ErrInvalid, c.Audio.SampleRate)
	}
	if c.Audio.BlockSize <= 0 {
		return fmt.Errorf("%w: audio.block_size %d", ErrInvalid, c.Audio.BlockSize)
	}
	switch c.Audio.BitDepth {
	case 16, 24, 32:
	default:
		return fmt.Errorf("%w: audio.bit_depth %d", ErrInvalid, c.Audio.BitDepth)
	}
	if _, err := c.EQ.Parameters(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}

// Parameters converts the section into a sanitized parameter snapshot.
func (e EQConfig) Parameters() (eq.Parameters, error) {
	low, err := eq.ParseSlope(e.LowCutSlope)
	if err != nil {
		return eq.Parameters{}, fmt.Errorf("eq.low_cut_slope: %w", err)
	}
	high, err := eq.ParseSlope(e.HighCutSlope)
	if err != nil {
		return eq.Parameters{}, fmt.Errorf("eq.high_cut_slope: %w", err)
	}

	return eq.Parameters{
		LowCutFreq:   e.LowCutFreq,
		HighCutFreq:  e.HighCutFreq,
		PeakFreq:     e.PeakFreq,
		PeakGainDB:   e.PeakGainDB,
		PeakQuality:  e.PeakQuality,
		LowCutSlope:  low,
		HighCutSlope: high,
	}.Sanitize(), nil
}

// Parameters returns the loaded equalizer settings.
func (c *Config) Parameters() eq.Parameters {
	c.mu.Lock()
	defer c.mu.Unlock()

	p, err := c.EQ.Parameters()
	if err != nil {
		return eq.DefaultParameters()
	}
	return p
}

// Watch reloads the file whenever it changes and passes the new equalizer
// settings to onChange. Failed reloads go to onError and keep the previous
// values. Callbacks run on the watcher goroutine.
func (c *Config) Watch(onChange func(eq.Parameters), onError func(error)) {
	c.v.OnConfigChange(func(fsnotify.Event) {
		if err := c.Reload(); err != nil {
			if onError != nil {
				onError(err)
			}
			return
		}
		if onChange != nil {
			onChange(c.Parameters())
		}
	})
	c.v.WatchConfig()
}
