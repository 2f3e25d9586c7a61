package engine

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/strokebot/internal/model"
	"github.com/verte-zerg/strokebot/internal/session"
)

var t0 = time.Unix(1_700_000_000, 0)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

type memJournal struct {
	records []model.SessionRecord
	err     error
}

func (j *memJournal) InsertSession(_ context.Context, rec model.SessionRecord) error {
	if j.err != nil {
		return j.err
	}
	j.records = append(j.records, rec)
	return nil
}

func newTestEngine(settings model.Settings, journal Journal) *Engine {
	ids := 0
	return New(session.New(settings), Options{
		Clock:   &fakeClock{now: t0},
		Journal: journal,
		NewID: func() string {
			ids++
			return "session-" + string(rune('0'+ids))
		},
	})
}

func ingestStroke(e *Engine, start time.Time) {
	e.Ingest(model.PressEvent{Role: model.RoleFirst, At: start})
	e.Ingest(model.PressEvent{Role: model.RoleSecond, At: start.Add(300 * time.Millisecond)})
	e.Ingest(model.PressEvent{Role: model.RoleThird, At: start.Add(600 * time.Millisecond)})
}

func TestEngine_InitialSnapshot(t *testing.T) {
	e := newTestEngine(model.DefaultSettings(), nil)
	snap := e.Snapshot()
	assert.Equal(t, model.PhaseIdle, snap.Phase)
	assert.Equal(t, 40, snap.StrokesGoal)
	assert.Equal(t, model.PhaseIdle, e.Phase())
}

func TestEngine_StepWakesAndCounts(t *testing.T) {
	e := newTestEngine(model.DefaultSettings(), nil)
	e.Ingest(model.PressEvent{Role: model.RoleFirst, At: t0})
	assert.Equal(t, 1, e.Snapshot().LogLen, "ingest publishes immediately")

	tr, ok := e.Step(context.Background(), t0.Add(200*time.Millisecond))
	require.True(t, ok)
	assert.Equal(t, model.PhaseActive, tr.To)

	ingestStroke(e, t0.Add(time.Second))
	_, ok = e.Step(context.Background(), t0.Add(2*time.Second))
	assert.False(t, ok)

	snap := e.Snapshot()
	assert.Equal(t, model.PhaseActive, snap.Phase)
	assert.Equal(t, 1, snap.StrokeCount)
	assert.Equal(t, 4, snap.Cursor)
	assert.True(t, e.Flags().TakeImage())
	assert.True(t, e.Flags().TakeAudio())
}

func TestEngine_JournalsSuccess(t *testing.T) {
	journal := &memJournal{}
	e := newTestEngine(model.Settings{StrokesGoal: 3, VelocityGoal: 3 * time.Second}, journal)
	ctx := context.Background()

	e.Ingest(model.PressEvent{Role: model.RoleFirst, At: t0})
	e.Step(ctx, t0.Add(100*time.Millisecond))
	for i := 0; i < 2; i++ {
		ingestStroke(e, t0.Add(time.Duration(i+1)*time.Second))
		_, ok := e.Step(ctx, t0.Add(time.Duration(i+1)*time.Second+700*time.Millisecond))
		require.False(t, ok)
	}
	require.Empty(t, journal.records)

	// The goal stroke is credited and the transition happens in the same pass.
	ingestStroke(e, t0.Add(4*time.Second))
	tr, ok := e.Step(ctx, t0.Add(5*time.Second))
	require.True(t, ok)
	assert.Equal(t, model.PhaseSuccess, tr.To)

	require.Len(t, journal.records, 1)
	rec := journal.records[0]
	assert.Equal(t, "session-1", rec.ID)
	assert.Equal(t, model.OutcomeSuccess, rec.Outcome)
	assert.Equal(t, 3, rec.Strokes)
	assert.Equal(t, 3, rec.Goal)
	assert.Equal(t, t0.Add(100*time.Millisecond), rec.StartedAt)
	assert.Equal(t, t0.Add(5*time.Second), rec.EndedAt)
}

func TestEngine_NoDetectionWhileCelebrating(t *testing.T) {
	e := newTestEngine(model.Settings{StrokesGoal: 1, VelocityGoal: 3 * time.Second}, nil)
	ctx := context.Background()
	e.Ingest(model.PressEvent{Role: model.RoleFirst, At: t0})
	e.Step(ctx, t0.Add(100*time.Millisecond))
	ingestStroke(e, t0.Add(time.Second))
	_, ok := e.Step(ctx, t0.Add(2*time.Second))
	require.True(t, ok)
	require.Equal(t, model.PhaseSuccess, e.Phase())

	ingestStroke(e, t0.Add(3*time.Second))
	e.Step(ctx, t0.Add(4*time.Second))
	assert.Equal(t, 1, e.Snapshot().StrokeCount)

	e.Step(ctx, t0.Add(2*time.Second+session.SuccessHold))
	assert.Equal(t, model.PhaseCooldown, e.Phase())
	e.Step(ctx, t0.Add(2*time.Second+session.SuccessHold+session.CooldownHold))
	snap := e.Snapshot()
	assert.Equal(t, model.PhaseIdle, snap.Phase)
	assert.Equal(t, 0, snap.StrokeCount)
	assert.Equal(t, 0, snap.LogLen)
}

func TestEngine_JournalsAbandoned(t *testing.T) {
	journal := &memJournal{}
	e := newTestEngine(model.DefaultSettings(), journal)
	ctx := context.Background()

	e.Ingest(model.PressEvent{Role: model.RoleFirst, At: t0})
	e.Step(ctx, t0.Add(100*time.Millisecond))
	ingestStroke(e, t0.Add(time.Second))
	e.Step(ctx, t0.Add(2*time.Second))

	tr, ok := e.Step(ctx, t0.Add(40*time.Second))
	require.True(t, ok)
	assert.Equal(t, model.PhaseIdle, tr.To)
	assert.Equal(t, 1, e.Snapshot().StrokeCount, "timeout keeps the count")

	require.Len(t, journal.records, 1)
	assert.Equal(t, model.OutcomeAbandoned, journal.records[0].Outcome)
	assert.Equal(t, 1, journal.records[0].Strokes)
}

func TestEngine_JournalErrorIsLogged(t *testing.T) {
	var buf bytes.Buffer
	e := New(session.New(model.Settings{StrokesGoal: 1, VelocityGoal: 3 * time.Second}), Options{
		Clock:   &fakeClock{now: t0},
		Journal: &memJournal{err: errors.New("disk full")},
		Logger:  slog.New(slog.NewTextHandler(&buf, nil)),
	})
	ctx := context.Background()
	e.Ingest(model.PressEvent{Role: model.RoleFirst, At: t0})
	e.Step(ctx, t0.Add(100*time.Millisecond))
	ingestStroke(e, t0.Add(time.Second))
	e.Step(ctx, t0.Add(2*time.Second))
	e.Step(ctx, t0.Add(3*time.Second))

	assert.Equal(t, model.PhaseSuccess, e.Phase())
	assert.True(t, strings.Contains(buf.String(), "failed to journal session"))
}

func TestEngine_CheckOrderWarns(t *testing.T) {
	var buf bytes.Buffer
	e := New(session.New(model.DefaultSettings()), Options{
		Clock:      &fakeClock{now: t0},
		Logger:     slog.New(slog.NewTextHandler(&buf, nil)),
		CheckOrder: true,
	})
	e.Ingest(model.PressEvent{Role: model.RoleFirst, At: t0.Add(time.Second)})
	e.Ingest(model.PressEvent{Role: model.RoleSecond, At: t0})
	e.Step(context.Background(), t0.Add(1100*time.Millisecond))
	assert.Contains(t, buf.String(), "press log out of order")
}

func TestEngine_RunDrainsPresses(t *testing.T) {
	clock := &fakeClock{now: t0}
	e := New(session.New(model.DefaultSettings()), Options{Clock: clock})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- e.Run(ctx) }()

	e.Presses() <- model.PressEvent{Role: model.RoleFirst, At: t0}
	e.Presses() <- model.PressEvent{Role: model.RoleSecond, At: t0.Add(100 * time.Millisecond)}

	assert.Eventually(t, func() bool {
		return e.Snapshot().LogLen == 2
	}, 2*time.Second, 10*time.Millisecond)
	assert.Eventually(t, func() bool {
		return e.Phase() == model.PhaseActive
	}, 3*time.Second, 50*time.Millisecond, "a tick wakes the session")

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
