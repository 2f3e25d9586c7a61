// Package generator builds randomized press scripts.
package generator

import (
	"math/rand"
	"time"

	"github.com/verte-zerg/strokebot/internal/model"
)

// Options shapes a generated script.
type Options struct {
	// Strokes is the number of stroke attempts.
	Strokes int
	Start   time.Time
	// PressGap is the typical gap between presses inside a stroke.
	PressGap time.Duration
	// StrokeGap is the typical pause between strokes.
	StrokeGap time.Duration
	// RepeatPct is the probability that a press bounces and repeats.
	RepeatPct float64
	// SlowPct is the probability that a stroke misses the velocity goal.
	SlowPct float64
	// NoisePct is the probability of a stray press between strokes.
	NoisePct float64
	// Jitter scales random variation of every gap (0-1).
	Jitter float64
	// VelocityGoal is used to size slow strokes.
	VelocityGoal time.Duration
}

// DefaultOptions returns a plausible human stroking rhythm.
func DefaultOptions(start time.Time, strokes int) Options {
	return Options{
		Strokes:      strokes,
		Start:        start,
		PressGap:     200 * time.Millisecond,
		StrokeGap:    600 * time.Millisecond,
		RepeatPct:    0.1,
		SlowPct:      0.05,
		NoisePct:     0.05,
		Jitter:       0.3,
		VelocityGoal: model.DefaultSettings().VelocityGoal,
	}
}

// Generator produces randomized press scripts.
type Generator struct {
	rnd *rand.Rand
}

// New returns a Generator seeded with the current time.
func New() *Generator {
	return NewSeeded(time.Now().UnixNano())
}

// NewSeeded returns a deterministic Generator.
func NewSeeded(seed int64) *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(seed))}
}

// Script generates presses in non-decreasing time order.
func (g *Generator) Script(opts Options) []model.PressEvent {
	events := make([]model.PressEvent, 0, opts.Strokes*4)
	at := opts.Start
	for i := 0; i < opts.Strokes; i++ {
		gap := opts.PressGap
		if g.chance(opts.SlowPct) {
			// Spread the three presses across more than the velocity goal.
			gap = opts.VelocityGoal/2 + opts.PressGap
		}
		for role := model.RoleFirst; role <= model.RoleThird; role++ {
			if role != model.RoleFirst {
				at = at.Add(g.jitter(gap, opts.Jitter))
			}
			events = append(events, model.PressEvent{Role: role, At: at})
			if g.chance(opts.RepeatPct) {
				at = at.Add(g.jitter(opts.PressGap/4, opts.Jitter))
				events = append(events, model.PressEvent{Role: role, At: at})
			}
		}
		at = at.Add(g.jitter(opts.StrokeGap, opts.Jitter))
		if g.chance(opts.NoisePct) {
			events = append(events, model.PressEvent{Role: model.Role(g.rnd.Intn(model.PatternLen)), At: at})
			at = at.Add(g.jitter(opts.StrokeGap, opts.Jitter))
		}
	}
	return events
}

func (g *Generator) chance(pct float64) bool {
	if pct <= 0 {
		return false
	}
	return g.rnd.Float64() < pct
}

func (g *Generator) jitter(d time.Duration, amount float64) time.Duration {
	if amount <= 0 || d <= 0 {
		return d
	}
	if amount > 1 {
		amount = 1
	}
	scale := 1 + amount*(2*g.rnd.Float64()-1)
	return time.Duration(float64(d) * scale)
}
