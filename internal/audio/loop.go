package audio

import (
	"context"
	"time"

	"github.com/verte-zerg/strokebot/internal/model"
)

// Loop timing.
const (
	CheckInterval   = 500 * time.Millisecond
	StimulationPlay = time.Second
	CelebrationPlay = 5 * time.Second
	chimePlay       = time.Second
)

// AudioFlag is the audio half of the presentation flags.
type AudioFlag interface {
	TakeAudio() bool
}

// PhaseReader exposes the published session phase.
type PhaseReader interface {
	Phase() model.Phase
}

// Loop is the audio consumer.
type Loop struct {
	player      Player
	flag        AudioFlag
	phase       PhaseReader
	normal      []model.Tone
	celebration []model.Tone
}

// NewLoop builds the consumer with the stock phrases.
func NewLoop(player Player, flag AudioFlag, phase PhaseReader) *Loop {
	voice := DefaultVoice()
	return &Loop{
		player:      player,
		flag:        flag,
		phase:       phase,
		normal:      voice.Synthesize(NormalPhrase),
		celebration: voice.Synthesize(CelebrationPhrase),
	}
}

// Step checks the flag and phase once, starts playback when needed and
// returns how long the loop should stay quiet afterwards.
func (l *Loop) Step(ctx context.Context) time.Duration {
	if l.flag.TakeAudio() {
		l.player.Play(ctx, l.normal, StimulationPlay)
		return StimulationPlay
	}
	if l.phase.Phase() == model.PhaseSuccess {
		l.player.Play(ctx, l.celebration, CelebrationPlay)
		return CelebrationPlay
	}
	return 0
}

// Chime plays both phrases once, as a power-on check.
func (l *Loop) Chime(ctx context.Context) {
	l.player.Play(ctx, l.normal, chimePlay)
	if !sleep(ctx, chimePlay) {
		return
	}
	l.player.Play(ctx, l.celebration, chimePlay)
	sleep(ctx, chimePlay)
}

// Run chimes and then polls until ctx is done.
func (l *Loop) Run(ctx context.Context) {
	l.Chime(ctx)
	for {
		if !sleep(ctx, CheckInterval) {
			return
		}
		if wait := l.Step(ctx); wait > 0 {
			if !sleep(ctx, wait) {
				return
			}
		}
	}
}

func sleep(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
