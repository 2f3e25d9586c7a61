package stats

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/strokebot/internal/model"
)

// sessionColumn renders one column of the history table.
type sessionColumn struct {
	header string
	right  bool
	cell   func(rec model.SessionRecord, now time.Time) string
}

var sessionColumns = []sessionColumn{
	{header: "Ended", cell: func(rec model.SessionRecord, now time.Time) string {
		return humanize.RelTime(rec.EndedAt, now, "ago", "from now")
	}},
	{header: "Outcome", cell: func(rec model.SessionRecord, _ time.Time) string {
		return string(rec.Outcome)
	}},
	{header: "Strokes", right: true, cell: func(rec model.SessionRecord, _ time.Time) string {
		return fmt.Sprintf("%d/%d", rec.Strokes, rec.Goal)
	}},
	{header: "Duration", right: true, cell: func(rec model.SessionRecord, _ time.Time) string {
		return rec.EndedAt.Sub(rec.StartedAt).Truncate(time.Second).String()
	}},
	{header: "Strokes/min", right: true, cell: func(rec model.SessionRecord, _ time.Time) string {
		return fmt.Sprintf("%.2f", StrokesPerMinute(rec))
	}},
}

// sessionTableLines lays out sessions newest first under a header line.
// Text columns are left aligned, numeric ones right aligned.
func sessionTableLines(sessions []model.SessionRecord, now time.Time) []string {
	cells := make([][]string, 0, len(sessions)+1)
	header := make([]string, len(sessionColumns))
	for c, col := range sessionColumns {
		header[c] = col.header
	}
	cells = append(cells, header)
	for i := len(sessions) - 1; i >= 0; i-- {
		row := make([]string, len(sessionColumns))
		for c, col := range sessionColumns {
			row[c] = col.cell(sessions[i], now)
		}
		cells = append(cells, row)
	}

	widths := make([]int, len(sessionColumns))
	for _, row := range cells {
		for c, cell := range row {
			widths[c] = max(widths[c], runewidth.StringWidth(cell))
		}
	}

	lines := make([]string, 0, len(cells))
	for _, row := range cells {
		parts := make([]string, len(row))
		for c, cell := range row {
			pad := strings.Repeat(" ", widths[c]-runewidth.StringWidth(cell))
			if sessionColumns[c].right {
				parts[c] = pad + cell
			} else {
				parts[c] = cell + pad
			}
		}
		lines = append(lines, strings.TrimRight(strings.Join(parts, "  "), " "))
	}
	return lines
}
