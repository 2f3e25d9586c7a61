// Package eventlog holds the ordered press log consumed by the stroke detector.
package eventlog

import "github.com/verte-zerg/strokebot/internal/model"

// MaxLen is the length above which the log is compacted to its most recent event.
const MaxLen = 25

// Log is an append-only sequence of press events.
//
// Compaction is destructive: everything but the last event is dropped,
// including a pattern that was mid-match. This keeps memory constant.
type Log struct {
	events []model.PressEvent
}

// New returns an empty log.
func New() *Log {
	return &Log{events: make([]model.PressEvent, 0, MaxLen+1)}
}

// Append adds ev to the tail. Ordering is the producer's responsibility.
func (l *Log) Append(ev model.PressEvent) {
	l.events = append(l.events, ev)
}

// Len returns the number of events in the log.
func (l *Log) Len() int {
	return len(l.events)
}

// Events returns the backing events. Callers must not modify the slice.
func (l *Log) Events() []model.PressEvent {
	return l.events
}

// Last returns the most recent event, if any.
func (l *Log) Last() (model.PressEvent, bool) {
	if len(l.events) == 0 {
		return model.PressEvent{}, false
	}
	return l.events[len(l.events)-1], true
}

// Compact drops all but the last event when the log exceeds MaxLen.
// It reports whether compaction happened; callers reset their cursor when it did.
func (l *Log) Compact() bool {
	if len(l.events) <= MaxLen {
		return false
	}
	l.TruncateToLast()
	return true
}

// TruncateToLast keeps only the most recent event. An empty log stays empty.
func (l *Log) TruncateToLast() {
	if len(l.events) == 0 {
		return
	}
	last := l.events[len(l.events)-1]
	l.events = l.events[:0]
	l.events = append(l.events, last)
}

// Clear removes every event.
func (l *Log) Clear() {
	l.events = l.events[:0]
}

// CheckOrder returns the index of the first event whose timestamp is earlier
// than its predecessor, or -1 when timestamps are non-decreasing.
func (l *Log) CheckOrder() int {
	for i := 1; i < len(l.events); i++ {
		if l.events[i].At.Before(l.events[i-1].At) {
			return i
		}
	}
	return -1
}
