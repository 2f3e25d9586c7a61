// Package engine drives the stroke session at a fixed cadence.
//
// The Engine goroutine is the only owner of the Session. Input watchers hand
// presses over a shared channel and consumers read published snapshots, so the
// session itself needs no locks.
package engine

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/verte-zerg/strokebot/internal/model"
	"github.com/verte-zerg/strokebot/internal/session"
)

// TickInterval is the cadence of the detector and state machine pass.
const TickInterval = 500 * time.Millisecond

const pressBuffer = 64

// Journal stores finished sessions.
type Journal interface {
	InsertSession(ctx context.Context, rec model.SessionRecord) error
}

// Options configures an Engine. Zero values select defaults.
type Options struct {
	Clock   Clock
	Journal Journal
	Logger  *slog.Logger
	// CheckOrder enables the debug check that log timestamps never decrease.
	CheckOrder bool
	// NewID generates session record ids.
	NewID func() string
}

// Engine runs the detector and state machine.
type Engine struct {
	session    *session.Session
	presses    chan model.PressEvent
	clock      Clock
	journal    Journal
	logger     *slog.Logger
	checkOrder bool
	newID      func() string

	snapshot atomic.Pointer[model.Snapshot]
	current  *model.SessionRecord
}

// New wraps sess. The engine takes exclusive ownership of it.
func New(sess *session.Session, opts Options) *Engine {
	e := &Engine{
		session:    sess,
		presses:    make(chan model.PressEvent, pressBuffer),
		clock:      opts.Clock,
		journal:    opts.Journal,
		logger:     opts.Logger,
		checkOrder: opts.CheckOrder,
		newID:      opts.NewID,
	}
	if e.clock == nil {
		e.clock = SystemClock()
	}
	if e.logger == nil {
		e.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if e.newID == nil {
		e.newID = func() string { return uuid.New().String() }
	}
	e.publish(e.clock.Now())
	return e
}

// Presses returns the channel input watchers send on.
func (e *Engine) Presses() chan<- model.PressEvent {
	return e.presses
}

// Clock returns the engine clock.
func (e *Engine) Clock() Clock {
	return e.clock
}

// Flags returns the presentation flags for Display and Audio.
func (e *Engine) Flags() *session.Flags {
	return e.session.Flags()
}

// Snapshot returns the state published after the latest tick or press.
func (e *Engine) Snapshot() model.Snapshot {
	return *e.snapshot.Load()
}

// Phase returns the published phase.
func (e *Engine) Phase() model.Phase {
	return e.snapshot.Load().Phase
}

// Run processes presses and ticks until ctx is done.
func (e *Engine) Run(ctx context.Context) error {
	ticker := time.NewTicker(TickInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-e.presses:
			e.Ingest(ev)
		case <-ticker.C:
			e.Step(ctx, e.clock.Now())
		}
	}
}

// Ingest appends a press to the session log. Only the owner may call it.
func (e *Engine) Ingest(ev model.PressEvent) {
	e.session.Append(ev)
	e.publish(ev.At)
}

// Step runs one detector pass followed by one state machine update.
// Only the owner may call it.
func (e *Engine) Step(ctx context.Context, now time.Time) (session.Transition, bool) {
	if e.checkOrder {
		if idx := e.session.Log().CheckOrder(); idx >= 0 {
			e.logger.Warn("press log out of order", "index", idx, "len", e.session.Log().Len())
		}
	}
	// The success sequence suspends detection until the session returns to idle.
	if !e.session.Phase().Celebrating() {
		res := e.session.DetectStroke()
		if res.Credited {
			e.logger.Debug("stroke", "count", e.session.StrokeCount(), "elapsed", res.Elapsed, "progress", e.session.Progress().String())
		}
		if res.Compacted {
			e.logger.Debug("press log compacted")
		}
	}

	tr, changed := e.session.Update(now)
	if changed {
		e.logger.Info("phase", "from", tr.From.String(), "to", tr.To.String(), "strokes", tr.Strokes)
		e.record(ctx, tr)
	}
	e.logger.Debug("tick", "strokes", e.session.StrokeCount(), "phase", e.session.Phase().String())
	e.publish(now)
	return tr, changed
}

func (e *Engine) record(ctx context.Context, tr session.Transition) {
	switch {
	case tr.From == model.PhaseIdle && tr.To == model.PhaseActive:
		e.current = &model.SessionRecord{
			ID:        e.newID(),
			StartedAt: tr.At,
			Goal:      e.session.Settings().StrokesGoal,
		}
	case tr.From == model.PhaseActive && tr.To == model.PhaseSuccess:
		e.finish(ctx, tr, model.OutcomeSuccess)
	case tr.From == model.PhaseActive && tr.To == model.PhaseIdle:
		e.finish(ctx, tr, model.OutcomeAbandoned)
	}
}

func (e *Engine) finish(ctx context.Context, tr session.Transition, outcome model.Outcome) {
	rec := e.current
	e.current = nil
	if rec == nil || e.journal == nil {
		return
	}
	rec.EndedAt = tr.At
	rec.Strokes = tr.Strokes
	rec.Outcome = outcome
	if err := e.journal.InsertSession(ctx, *rec); err != nil {
		e.logger.Error("failed to journal session", "id", rec.ID, "err", err)
	}
}

func (e *Engine) publish(now time.Time) {
	snap := e.session.Snapshot(now)
	e.snapshot.Store(&snap)
}
