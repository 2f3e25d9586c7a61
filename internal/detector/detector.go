// Package detector recognizes strokes in the press log.
package detector

import (
	"time"

	"github.com/verte-zerg/strokebot/internal/model"
)

// pattern is the role expected at each match position.
var pattern = [model.PatternLen]model.Role{model.RoleFirst, model.RoleSecond, model.RoleThird}

// Result describes one scan attempt.
type Result struct {
	// Matched is true when the full pattern was seen inside the velocity window.
	Matched bool
	// Start is the index considered the start of the last attempt.
	Start int
	// End is the scan end index, one past the last scanned event.
	End int
	// Elapsed is the time from Start to the last scanned event when the pattern completed.
	Elapsed time.Duration
}

// Detect scans events from cursor looking for one complete stroke.
//
// A role-0 press always restarts the attempt. A press repeating the previously
// matched role is ignored, so bounced or doubled presses do not break a match.
// Any other out-of-order press moves the attempt start without resetting the
// match position.
func Detect(events []model.PressEvent, cursor int, window time.Duration) Result {
	if cursor < 0 {
		cursor = 0
	}
	i := cursor
	j := 0
	start := cursor
	for i < len(events) && j < model.PatternLen {
		role := events[i].Role
		switch {
		case role == pattern[0]:
			start = i
			j = 1
		case role == pattern[j]:
			j++
		case j > 0 && role == pattern[j-1]:
		case j == 0 && role == pattern[model.PatternLen-1]:
		default:
			start = i
		}
		i++
	}

	res := Result{Start: start, End: i}
	if j < model.PatternLen {
		return res
	}
	res.Elapsed = events[i-1].At.Sub(events[start].At)
	res.Matched = res.Elapsed < window
	return res
}

// ProgressFor maps a stroke count onto a progress category.
//
// Percentages in [0,5) are Active, [5,33) Low, [33,66) Medium and [66,100)
// High. Anything outside those intervals, including 100 and above, falls back
// to High.
func ProgressFor(strokes, goal int) model.Progress {
	if goal <= 0 {
		return model.ProgressHigh
	}
	pct := float64(strokes) / float64(goal) * 100
	switch {
	case pct >= 0 && pct < 5:
		return model.ProgressActive
	case pct >= 5 && pct < 33:
		return model.ProgressLow
	case pct >= 33 && pct < 66:
		return model.ProgressMedium
	case pct >= 66 && pct < 100:
		return model.ProgressHigh
	default:
		return model.ProgressHigh
	}
}
