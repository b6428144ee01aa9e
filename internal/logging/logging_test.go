package logging

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]zerolog.Level{
		"debug":   zerolog.DebugLevel,
		" WARN ":  zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"trace":   zerolog.TraceLevel,
		"":        zerolog.InfoLevel,
		"verbose": zerolog.InfoLevel,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), "%q", in)
	}
}

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, Config{Level: "warn", JSON: true})

	log.Info().Msg("hidden")
	assert.Empty(t, buf.String())

	log.Warn().Str("file", "in.wav").Msg("clipped")
	assert.Contains(t, buf.String(), `"level":"warn"`)
	assert.Contains(t, buf.String(), `"file":"in.wav"`)
	assert.Contains(t, buf.String(), `"message":"clipped"`)
}

func TestNewConsole(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, DefaultConfig())

	log.Debug().Msg("hidden")
	log.Info().Int("frames", 512).Msg("rendered")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "INFO")
	assert.Contains(t, out, "rendered")
	assert.Contains(t, out, "frames=512")
}
