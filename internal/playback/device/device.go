// Package device plays float32 streams on the default audio output.
package device

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
)

var (
	contextOnce sync.Once
	otoContext  *oto.Context
	contextErr  error
	contextRate int
	contextChs  int
)

// sharedContext returns the process-wide output context. oto allows only
// one, so later calls must ask for the same format.
func sharedContext(sampleRate, channels int, buffer time.Duration) (*oto.Context, error) {
	contextOnce.Do(func() {
		contextRate, contextChs = sampleRate, channels

		var ready chan struct{}
		otoContext, ready, contextErr = oto.NewContext(&oto.NewContextOptions{
			SampleRate:   sampleRate,
			ChannelCount: channels,
			Format:       oto.FormatFloat32LE,
			BufferSize:   buffer,
		})
		if contextErr == nil {
			<-ready
		}
	})
	if contextErr != nil {
		return nil, fmt.Errorf("device: open output: %w", contextErr)
	}
	if contextRate != sampleRate || contextChs != channels {
		return nil, fmt.Errorf("device: output already open at %d Hz/%d ch (requested %d Hz/%d ch)",
			contextRate, contextChs, sampleRate, channels)
	}
	return otoContext, nil
}

// Play streams r until it is exhausted or ctx is cancelled. buffer sets the
// device buffer length; zero picks the driver default.
func Play(ctx context.Context, r io.Reader, sampleRate, channels int, buffer time.Duration) error {
	c, err := sharedContext(sampleRate, channels, buffer)
	if err != nil {
		return err
	}

	player := c.NewPlayer(r)
	defer player.Close()
	player.Play()

	ticker := time.NewTicker(20 * time.Millisecond)
	defer ticker.Stop()

	for player.IsPlaying() {
		select {
		case <-ctx.Done():
			player.Pause()
			return ctx.Err()
		case <-ticker.C:
		}
	}
	if err := player.Err(); err != nil {
		return fmt.Errorf("device: playback: %w", err)
	}
	return nil
}
