package audio

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/strokebot/internal/model"
	"github.com/verte-zerg/strokebot/internal/session"
)

type play struct {
	tones   []model.Tone
	loopFor time.Duration
}

type recordingPlayer struct {
	plays []play
}

func (r *recordingPlayer) Play(_ context.Context, tones []model.Tone, loopFor time.Duration) {
	r.plays = append(r.plays, play{tones: tones, loopFor: loopFor})
}

type stubPhase model.Phase

func (p stubPhase) Phase() model.Phase { return model.Phase(p) }

func TestFrequency(t *testing.T) {
	assert.Equal(t, 0.0, Frequency(' '))
	assert.Equal(t, 50.0+52*20, Frequency('4'))
}

func TestSynthesize(t *testing.T) {
	tones := DefaultVoice().Synthesize(NormalPhrase)
	// Five characters with four gaps between them.
	require.Len(t, tones, 9)
	assert.Equal(t, model.Tone{Freq: Frequency('4'), Duration: 125 * time.Millisecond}, tones[0])
	assert.Equal(t, model.Tone{Duration: 62500 * time.Microsecond}, tones[1])
	assert.Equal(t, model.Tone{Freq: Frequency('8'), Duration: 250 * time.Millisecond}, tones[2])
	assert.Equal(t, 0.0, tones[8].Freq, "trailing space is silent")
	assert.Equal(t, 62500*time.Microsecond, tones[8].Duration)
	assert.Equal(t, 937500*time.Microsecond, Length(tones))
}

func TestSynthesize_CyclesDurations(t *testing.T) {
	v := Voice{CharSamples: []int{800, 1600}}
	tones := v.Synthesize("abc")
	require.Len(t, tones, 3)
	assert.Equal(t, 100*time.Millisecond, tones[0].Duration)
	assert.Equal(t, 200*time.Millisecond, tones[1].Duration)
	assert.Equal(t, 100*time.Millisecond, tones[2].Duration)
}

func TestLoopStep_Stimulation(t *testing.T) {
	p := &recordingPlayer{}
	flags := &session.Flags{}
	l := NewLoop(p, flags, stubPhase(model.PhaseActive))

	assert.Equal(t, time.Duration(0), l.Step(context.Background()))
	assert.Empty(t, p.plays)

	flags.Raise()
	assert.Equal(t, StimulationPlay, l.Step(context.Background()))
	require.Len(t, p.plays, 1)
	assert.Equal(t, StimulationPlay, p.plays[0].loopFor)
	assert.True(t, flags.PeekImage(), "audio never touches the image flag")
	assert.False(t, flags.PeekAudio())
}

func TestLoopStep_Celebration(t *testing.T) {
	p := &recordingPlayer{}
	l := NewLoop(p, &session.Flags{}, stubPhase(model.PhaseSuccess))
	assert.Equal(t, CelebrationPlay, l.Step(context.Background()))
	require.Len(t, p.plays, 1)
	assert.Equal(t, DefaultVoice().Synthesize(CelebrationPhrase), p.plays[0].tones)

	l = NewLoop(p, &session.Flags{}, stubPhase(model.PhaseCooldown))
	assert.Equal(t, time.Duration(0), l.Step(context.Background()), "cooldown is quiet")
}

func TestBeepPlayer_FireAndForget(t *testing.T) {
	var mu sync.Mutex
	var freqs []float64
	p := &BeepPlayer{beep: func(freq float64, _ int) error {
		mu.Lock()
		defer mu.Unlock()
		freqs = append(freqs, freq)
		return nil
	}}
	tones := []model.Tone{
		{Freq: 440, Duration: 5 * time.Millisecond},
		{Duration: 5 * time.Millisecond},
	}

	start := time.Now()
	p.Play(context.Background(), tones, 50*time.Millisecond)
	assert.Less(t, time.Since(start), 20*time.Millisecond, "Play does not wait for playback")

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(freqs) >= 2
	}, time.Second, 5*time.Millisecond, "tones loop until the duration elapses")
}

func TestBeepPlayer_StopsOnError(t *testing.T) {
	var calls atomic.Int32
	p := &BeepPlayer{beep: func(float64, int) error {
		calls.Add(1)
		return errors.New("no speaker")
	}}
	p.Play(context.Background(), []model.Tone{{Freq: 440, Duration: time.Millisecond}}, time.Second)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())
}

func TestMutePlayer(t *testing.T) {
	MutePlayer{}.Play(context.Background(), DefaultVoice().Synthesize(NormalPhrase), time.Second)
}
