// Package audio synthesizes the bot's robot phrases and plays them on demand.
package audio

import (
	"time"

	"github.com/verte-zerg/strokebot/internal/model"
)

// SampleRate is the rate the duration tables are expressed in.
const SampleRate = 8000

// Stock phrases.
const (
	NormalPhrase      = "484; "
	CelebrationPhrase = "56987"
)

// Voice describes how characters become tones.
type Voice struct {
	// CharSamples is the tone length per character position, cycled when the
	// phrase is longer.
	CharSamples []int
	// GapSamples is the silence between consecutive characters.
	GapSamples int
}

// DefaultVoice returns the stock robot voice.
func DefaultVoice() Voice {
	return Voice{
		CharSamples: []int{1000, 2000, 1000, 1000, 500, 500},
		GapSamples:  500,
	}
}

// Frequency returns the tone frequency for a character. Spaces are silent.
func Frequency(c rune) float64 {
	if c == ' ' {
		return 0
	}
	return 50 + float64(c)*20
}

// Synthesize turns phrase into a tone sequence.
func (v Voice) Synthesize(phrase string) []model.Tone {
	runes := []rune(phrase)
	tones := make([]model.Tone, 0, 2*len(runes))
	for i, c := range runes {
		samples := SampleRate / 10
		if len(v.CharSamples) > 0 {
			samples = v.CharSamples[i%len(v.CharSamples)]
		}
		tones = append(tones, model.Tone{Freq: Frequency(c), Duration: samplesToDuration(samples)})
		if i < len(runes)-1 && v.GapSamples > 0 {
			tones = append(tones, model.Tone{Duration: samplesToDuration(v.GapSamples)})
		}
	}
	return tones
}

// Length returns the total duration of tones.
func Length(tones []model.Tone) time.Duration {
	var total time.Duration
	for _, t := range tones {
		total += t.Duration
	}
	return total
}

func samplesToDuration(samples int) time.Duration {
	return time.Duration(samples) * time.Second / SampleRate
}
