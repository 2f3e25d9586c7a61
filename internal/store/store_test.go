package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/verte-zerg/strokebot/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "nested", "strokebot.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

func TestInsertAndListSessions(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, outcome := range []model.Outcome{model.OutcomeSuccess, model.OutcomeAbandoned, model.OutcomeSuccess} {
		start := base.Add(time.Duration(i) * time.Hour)
		rec := model.SessionRecord{
			ID:        string(rune('a' + i)),
			StartedAt: start,
			EndedAt:   start.Add(2 * time.Minute),
			Strokes:   40 - i,
			Goal:      40,
			Outcome:   outcome,
		}
		if err := st.InsertSession(ctx, rec); err != nil {
			t.Fatalf("insert session: %v", err)
		}
	}

	all, err := st.ListSessions(ctx, model.HistoryConfig{})
	if err != nil {
		t.Fatalf("list sessions: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 sessions, got %d", len(all))
	}
	if all[0].ID != "a" || all[2].ID != "c" {
		t.Fatalf("unexpected order: %+v", all)
	}
	if all[1].Outcome != model.OutcomeAbandoned || all[1].Strokes != 39 {
		t.Fatalf("unexpected record: %+v", all[1])
	}
	if !all[0].StartedAt.Equal(base) {
		t.Fatalf("started_at round trip: got %v", all[0].StartedAt)
	}

	last, err := st.ListSessions(ctx, model.HistoryConfig{Last: 2})
	if err != nil {
		t.Fatalf("list last: %v", err)
	}
	if len(last) != 2 || last[0].ID != "b" {
		t.Fatalf("unexpected last sessions: %+v", last)
	}

	since := base.Add(30 * time.Minute)
	recent, err := st.ListSessions(ctx, model.HistoryConfig{Since: &since})
	if err != nil {
		t.Fatalf("list since: %v", err)
	}
	if len(recent) != 2 || recent[0].ID != "b" {
		t.Fatalf("unexpected sessions since %v: %+v", since, recent)
	}
}

func TestInsertSessionRequiresID(t *testing.T) {
	st := openTestStore(t)
	if err := st.InsertSession(context.Background(), model.SessionRecord{}); err == nil {
		t.Fatalf("expected error for empty id")
	}
}

func TestInsertSessionDuplicateID(t *testing.T) {
	st := openTestStore(t)
	rec := model.SessionRecord{ID: "dup", StartedAt: time.Now(), EndedAt: time.Now(), Outcome: model.OutcomeSuccess}
	if err := st.InsertSession(context.Background(), rec); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := st.InsertSession(context.Background(), rec); err == nil {
		t.Fatalf("expected primary key violation")
	}
}
