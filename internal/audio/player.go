package audio

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/gen2brain/beeep"

	"github.com/verte-zerg/strokebot/internal/model"
)

// Player starts playback and returns immediately.
type Player interface {
	// Play loops tones for the given duration, then stops.
	Play(ctx context.Context, tones []model.Tone, loopFor time.Duration)
}

// MutePlayer discards every request.
type MutePlayer struct{}

// Play implements Player.
func (MutePlayer) Play(context.Context, []model.Tone, time.Duration) {}

// BeepPlayer plays tones through the host speaker. A newer request cuts off
// the one still playing.
type BeepPlayer struct {
	logger *slog.Logger
	beep   func(freq float64, durationMs int) error

	mu     sync.Mutex
	cancel context.CancelFunc
}

// NewBeepPlayer returns a player backed by beeep.
func NewBeepPlayer(logger *slog.Logger) *BeepPlayer {
	return &BeepPlayer{logger: logger, beep: beeep.Beep}
}

// Play implements Player.
func (p *BeepPlayer) Play(ctx context.Context, tones []model.Tone, loopFor time.Duration) {
	if len(tones) == 0 || Length(tones) <= 0 || loopFor <= 0 {
		return
	}
	playCtx, cancel := context.WithTimeout(ctx, loopFor)
	p.mu.Lock()
	if p.cancel != nil {
		p.cancel()
	}
	p.cancel = cancel
	p.mu.Unlock()

	go p.loop(playCtx, tones)
}

func (p *BeepPlayer) loop(ctx context.Context, tones []model.Tone) {
	for {
		for _, t := range tones {
			start := time.Now()
			if t.Freq > 0 {
				if err := p.beep(t.Freq, int(t.Duration/time.Millisecond)); err != nil {
					if p.logger != nil {
						p.logger.Debug("beep failed", "err", err)
					}
					return
				}
			}
			// Pace by the tone length even when the backend returns early.
			if rest := t.Duration - time.Since(start); rest > 0 {
				select {
				case <-ctx.Done():
					return
				case <-time.After(rest):
				}
			}
			if ctx.Err() != nil {
				return
			}
		}
	}
}
