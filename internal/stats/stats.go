// Package stats contains history calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"time"

	"golang.org/x/term"

	"github.com/verte-zerg/strokebot/internal/model"
)

const (
	sparkChars          = " .:-=+*#%@"
	terminalWidthBackup = 80
	sparkLabel          = "Strokes "
)

// StrokesPerMinute computes the stroke rate for a session.
func StrokesPerMinute(rec model.SessionRecord) float64 {
	d := rec.EndedAt.Sub(rec.StartedAt)
	if d <= 0 {
		return 0
	}
	return float64(rec.Strokes) / d.Minutes()
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal := values[0]
	maxVal := values[0]
	for _, v := range values[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkChars) {
			idx = len(sparkChars) - 1
		}
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// RenderSummary prints aggregate numbers for sessions.
func RenderSummary(w io.Writer, sessions []model.SessionRecord) error {
	if len(sessions) == 0 {
		_, err := fmt.Fprintln(w, "No sessions found.")
		return err
	}
	successes := 0
	best := 0
	var totalRate float64
	var played time.Duration
	for _, s := range sessions {
		if s.Outcome == model.OutcomeSuccess {
			successes++
		}
		if s.Strokes > best {
			best = s.Strokes
		}
		totalRate += StrokesPerMinute(s)
		played += s.EndedAt.Sub(s.StartedAt)
	}
	count := float64(len(sessions))
	lines := []string{
		"Summary",
		fmt.Sprintf("Sessions: %d", len(sessions)),
		fmt.Sprintf("Successes: %d (%.1f%%)", successes, float64(successes)/count*100),
		fmt.Sprintf("Best strokes: %d", best),
		fmt.Sprintf("Avg strokes/min: %.2f", totalRate/count),
		fmt.Sprintf("Time played: %s", played.Truncate(time.Second)),
		"",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderTrend prints a sparkline of strokes per session, fitted to width
// columns. A width of zero uses the terminal width.
func RenderTrend(w io.Writer, sessions []model.SessionRecord, window, width int) error {
	if len(sessions) == 0 {
		return nil
	}
	if width <= 0 {
		width = terminalWidth()
	}
	maxPoints := width - len(sparkLabel)
	if maxPoints < 1 {
		maxPoints = 1
	}
	values := make([]float64, len(sessions))
	for i, s := range sessions {
		values[i] = float64(s.Strokes)
	}
	values = MovingAverage(values, window)
	if len(values) > maxPoints {
		values = values[len(values)-maxPoints:]
	}
	if _, err := fmt.Fprintf(w, "%s%s\n\n", sparkLabel, Sparkline(values)); err != nil {
		return err
	}
	return nil
}

// RenderSessionTable prints one row per session, newest first, with times
// relative to now.
func RenderSessionTable(w io.Writer, sessions []model.SessionRecord, now time.Time) error {
	if len(sessions) == 0 {
		return nil
	}
	for _, line := range sessionTableLines(sessions, now) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}
