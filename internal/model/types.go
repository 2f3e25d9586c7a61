// Package model defines shared data structures.
package model

import "time"

// Role is the canonical position of a press in the three-step stroke pattern.
// Both button groups map onto the same three roles.
type Role int

// Stroke pattern roles in order.
const (
	RoleFirst Role = iota
	RoleSecond
	RoleThird
)

// PatternLen is the number of roles in one stroke.
const PatternLen = 3

// Valid reports whether r is one of the three pattern roles.
func (r Role) Valid() bool {
	return r >= RoleFirst && r <= RoleThird
}

// PressEvent is a single press notification. Immutable once appended.
type PressEvent struct {
	Role Role
	At   time.Time
}

// Phase is the coarse session lifecycle state.
type Phase int

// Session phases. Cooldown is the second half of the success sequence.
const (
	PhaseIdle Phase = iota
	PhaseActive
	PhaseSuccess
	PhaseCooldown
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseActive:
		return "active"
	case PhaseSuccess:
		return "success"
	case PhaseCooldown:
		return "cooldown"
	default:
		return "unknown"
	}
}

// Celebrating reports whether p is part of the success sequence.
func (p Phase) Celebrating() bool {
	return p == PhaseSuccess || p == PhaseCooldown
}

// Progress is the category derived from strokeCount/strokesGoal.
type Progress int

// Progress categories in increasing order.
const (
	ProgressActive Progress = iota
	ProgressLow
	ProgressMedium
	ProgressHigh
)

func (p Progress) String() string {
	switch p {
	case ProgressActive:
		return "active"
	case ProgressLow:
		return "low"
	case ProgressMedium:
		return "medium"
	case ProgressHigh:
		return "high"
	default:
		return "unknown"
	}
}

// Settings defines the tunable session goals.
type Settings struct {
	StrokesGoal  int
	VelocityGoal time.Duration
}

// DefaultSettings returns the stock goals: 40 strokes, 3 seconds per stroke.
func DefaultSettings() Settings {
	return Settings{
		StrokesGoal:  40,
		VelocityGoal: 3 * time.Second,
	}
}

// Snapshot is a read-only view of the session published after every tick.
type Snapshot struct {
	Phase       Phase
	Progress    Progress
	StrokeCount int
	StrokesGoal int
	LogLen      int
	Cursor      int
	At          time.Time
}

// Outcome describes how a journaled session ended.
type Outcome string

// Session outcomes.
const (
	OutcomeSuccess   Outcome = "success"
	OutcomeAbandoned Outcome = "abandoned"
)

// SessionRecord captures a finished session for the history journal.
type SessionRecord struct {
	ID        string
	StartedAt time.Time
	EndedAt   time.Time
	Strokes   int
	Goal      int
	Outcome   Outcome
}

// HistoryConfig defines filters for history output.
type HistoryConfig struct {
	Since *time.Time
	Last  int
}

// Tone is one segment of a synthesized phrase. Zero Freq means silence.
type Tone struct {
	Freq     float64
	Duration time.Duration
}
