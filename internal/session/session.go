// Package session implements the stroke session state machine.
package session

import (
	"time"

	"github.com/verte-zerg/strokebot/internal/detector"
	"github.com/verte-zerg/strokebot/internal/eventlog"
	"github.com/verte-zerg/strokebot/internal/model"
)

// Phase timing.
const (
	// ActivationAge is how fresh the last press must be to wake an idle session.
	ActivationAge = time.Second
	// IdleTimeout is how stale the last press must be to drop an active session.
	IdleTimeout = 30 * time.Second
	// SuccessHold is how long the success phase is shown.
	SuccessHold = 20 * time.Second
	// CooldownHold is how long the cooldown phase lasts before returning to idle.
	CooldownHold = 30 * time.Second
)

// Transition records a phase change made by Update.
type Transition struct {
	From model.Phase
	To   model.Phase
	At   time.Time
	// Strokes is the stroke count at the moment of the change.
	Strokes int
}

// Session owns the press log and all counters. It is not safe for concurrent
// use; a single owner drives it.
type Session struct {
	settings model.Settings

	phase       model.Phase
	strokeCount int
	progress    model.Progress
	cursor      int
	log         *eventlog.Log
	flags       *Flags

	// phaseDeadline arms the Success and Cooldown sub-states.
	phaseDeadline time.Time
}

// New creates an idle session with the given goals.
func New(settings model.Settings) *Session {
	return &Session{
		settings: settings,
		phase:    model.PhaseIdle,
		progress: model.ProgressActive,
		log:      eventlog.New(),
		flags:    &Flags{},
	}
}

// Settings returns the session goals.
func (s *Session) Settings() model.Settings { return s.settings }

// Phase returns the current phase.
func (s *Session) Phase() model.Phase { return s.phase }

// StrokeCount returns the strokes credited so far.
func (s *Session) StrokeCount() int { return s.strokeCount }

// Progress returns the current progress category.
func (s *Session) Progress() model.Progress { return s.progress }

// Cursor returns the evaluation cursor.
func (s *Session) Cursor() int { return s.cursor }

// Log returns the press log.
func (s *Session) Log() *eventlog.Log { return s.log }

// Flags returns the presentation flags shared with the consumers.
func (s *Session) Flags() *Flags { return s.flags }

// Append records a press.
func (s *Session) Append(ev model.PressEvent) {
	s.log.Append(ev)
}

// DetectResult reports what one detector pass did.
type DetectResult struct {
	detector.Result
	Credited  bool
	Compacted bool
}

// DetectStroke runs one scan from the cursor, credits at most one stroke and
// compacts the log.
func (s *Session) DetectStroke() DetectResult {
	res := DetectResult{Result: detector.Detect(s.log.Events(), s.cursor, s.settings.VelocityGoal)}
	if res.Matched {
		s.strokeCount++
		s.cursor = res.End
		s.progress = detector.ProgressFor(s.strokeCount, s.settings.StrokesGoal)
		if s.strokeCount < s.settings.StrokesGoal {
			s.flags.Raise()
		}
		res.Credited = true
	}
	if s.log.Compact() {
		s.cursor = 0
		res.Compacted = true
	}
	return res
}

// Update advances the phase for the tick at now. It never blocks; the success
// sequence is driven by deadlines checked on each call.
func (s *Session) Update(now time.Time) (Transition, bool) {
	from := s.phase
	switch s.phase {
	case model.PhaseIdle:
		last, ok := s.log.Last()
		if ok && now.Sub(last.At) < ActivationAge {
			s.reset()
			s.log.TruncateToLast()
			s.phase = model.PhaseActive
		}
	case model.PhaseActive:
		if s.strokeCount >= s.settings.StrokesGoal {
			s.phase = model.PhaseSuccess
			s.phaseDeadline = now.Add(SuccessHold)
			break
		}
		// Dropping to idle keeps the count and the log.
		if last, ok := s.log.Last(); ok && now.Sub(last.At) > IdleTimeout {
			s.phase = model.PhaseIdle
		}
	case model.PhaseSuccess:
		if !now.Before(s.phaseDeadline) {
			s.phase = model.PhaseCooldown
			s.phaseDeadline = now.Add(CooldownHold)
		}
	case model.PhaseCooldown:
		if !now.Before(s.phaseDeadline) {
			s.clear()
			s.phase = model.PhaseIdle
		}
	}
	if s.phase == from {
		return Transition{}, false
	}
	return Transition{From: from, To: s.phase, At: now, Strokes: s.strokeCount}, true
}

// Snapshot returns a read-only view of the session.
func (s *Session) Snapshot(now time.Time) model.Snapshot {
	return model.Snapshot{
		Phase:       s.phase,
		Progress:    s.progress,
		StrokeCount: s.strokeCount,
		StrokesGoal: s.settings.StrokesGoal,
		LogLen:      s.log.Len(),
		Cursor:      s.cursor,
		At:          now,
	}
}

func (s *Session) reset() {
	s.strokeCount = 0
	s.cursor = 0
	s.progress = model.ProgressActive
	s.phaseDeadline = time.Time{}
}

func (s *Session) clear() {
	s.reset()
	s.log.Clear()
}
