package detector

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/verte-zerg/strokebot/internal/model"
)

var base = time.Unix(1_700_000_000, 0)

// seq builds events from roles spaced step apart.
func seq(step time.Duration, roles ...model.Role) []model.PressEvent {
	events := make([]model.PressEvent, len(roles))
	for i, r := range roles {
		events[i] = model.PressEvent{Role: r, At: base.Add(time.Duration(i) * step)}
	}
	return events
}

func TestDetect_SimpleStroke(t *testing.T) {
	events := seq(500*time.Millisecond, 0, 1, 2)
	res := Detect(events, 0, 3*time.Second)
	assert.True(t, res.Matched)
	assert.Equal(t, 3, res.End)
	assert.Equal(t, 0, res.Start)
	assert.Equal(t, time.Second, res.Elapsed)
}

func TestDetect_RepeatsIgnored(t *testing.T) {
	events := seq(200*time.Millisecond, 0, 0, 1, 1, 2)
	res := Detect(events, 0, 3*time.Second)
	assert.True(t, res.Matched)
	assert.Equal(t, 5, res.End)
	assert.Equal(t, 1, res.Start, "second role-0 press restarts the attempt")
}

func TestDetect_TooSlow(t *testing.T) {
	events := seq(1500*time.Millisecond, 0, 1, 2)
	res := Detect(events, 0, 3*time.Second)
	assert.False(t, res.Matched, "elapsed equal to the window is not strictly less")
	assert.Equal(t, 3*time.Second, res.Elapsed)

	events = seq(2*time.Second, 0, 1, 2)
	res = Detect(events, 0, 3*time.Second)
	assert.False(t, res.Matched)
}

func TestDetect_Incomplete(t *testing.T) {
	res := Detect(seq(100*time.Millisecond, 0, 1), 0, 3*time.Second)
	assert.False(t, res.Matched)
	assert.Equal(t, 2, res.End)

	res = Detect(nil, 0, 3*time.Second)
	assert.False(t, res.Matched)
	assert.Equal(t, 0, res.End)
}

func TestDetect_StartsAtCursor(t *testing.T) {
	events := seq(100*time.Millisecond, 0, 1, 2, 0, 1, 2)
	res := Detect(events, 3, 3*time.Second)
	assert.True(t, res.Matched)
	assert.Equal(t, 3, res.Start)
	assert.Equal(t, 6, res.End)

	res = Detect(events, 6, 3*time.Second)
	assert.False(t, res.Matched, "cursor at the end scans nothing")
}

func TestDetect_RestartOnFirstRole(t *testing.T) {
	// 0,1 then a fresh 0 restarts; the window is measured from the last 0.
	events := []model.PressEvent{
		{Role: 0, At: base},
		{Role: 1, At: base.Add(time.Second)},
		{Role: 0, At: base.Add(5 * time.Second)},
		{Role: 1, At: base.Add(5500 * time.Millisecond)},
		{Role: 2, At: base.Add(6 * time.Second)},
	}
	res := Detect(events, 0, 3*time.Second)
	assert.True(t, res.Matched)
	assert.Equal(t, 2, res.Start)
	assert.Equal(t, time.Second, res.Elapsed)
}

func TestDetect_MismatchMovesStartOnly(t *testing.T) {
	// After 0, a 2 is neither expected (1) nor the previous role (0): the
	// attempt start moves to it but the match position stays at 1.
	events := []model.PressEvent{
		{Role: 0, At: base},
		{Role: 2, At: base.Add(4 * time.Second)},
		{Role: 1, At: base.Add(4500 * time.Millisecond)},
		{Role: 2, At: base.Add(5 * time.Second)},
	}
	res := Detect(events, 0, 3*time.Second)
	assert.True(t, res.Matched, "window is measured from the mismatching press")
	assert.Equal(t, 1, res.Start)
	assert.Equal(t, 4, res.End)
	assert.Equal(t, time.Second, res.Elapsed)
}

func TestDetect_LeadingNoiseBeforeFirstRole(t *testing.T) {
	res := Detect(seq(100*time.Millisecond, 2, 1, 0, 1, 2), 0, 3*time.Second)
	assert.True(t, res.Matched)
	assert.Equal(t, 2, res.Start)
	assert.Equal(t, 5, res.End)
}

func TestProgressFor(t *testing.T) {
	tests := []struct {
		strokes int
		goal    int
		want    model.Progress
	}{
		{0, 40, model.ProgressActive},
		{1, 40, model.ProgressActive},
		{2, 40, model.ProgressLow},
		{5, 100, model.ProgressLow},
		{32, 100, model.ProgressLow},
		{33, 100, model.ProgressMedium},
		{65, 100, model.ProgressMedium},
		{66, 100, model.ProgressHigh},
		{99, 100, model.ProgressHigh},
		{100, 100, model.ProgressHigh},
		{41, 40, model.ProgressHigh},
		{3, 0, model.ProgressHigh},
	}
	for _, tt := range tests {
		got := ProgressFor(tt.strokes, tt.goal)
		assert.Equal(t, tt.want, got, "strokes=%d goal=%d", tt.strokes, tt.goal)
	}
}
