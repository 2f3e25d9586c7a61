package stats

import (
	"context"
	"io"
	"time"

	"github.com/verte-zerg/strokebot/internal/model"
)

// Lister loads journaled sessions.
type Lister interface {
	ListSessions(ctx context.Context, cfg model.HistoryConfig) ([]model.SessionRecord, error)
}

// Report contains precomputed data for history rendering.
type Report struct {
	Sessions []model.SessionRecord
	// TrendWindow is the moving-average window for the strokes sparkline.
	TrendWindow int
}

// BuildReport loads and prepares data for history rendering.
func BuildReport(ctx context.Context, st Lister, cfg model.HistoryConfig, trendWindow int) (Report, error) {
	sessions, err := st.ListSessions(ctx, cfg)
	if err != nil {
		return Report{}, err
	}
	return Report{Sessions: sessions, TrendWindow: trendWindow}, nil
}

// Render writes the full history report.
func (r Report) Render(w io.Writer, now time.Time, width int) error {
	if err := RenderSummary(w, r.Sessions); err != nil {
		return err
	}
	if err := RenderTrend(w, r.Sessions, r.TrendWindow, width); err != nil {
		return err
	}
	return RenderSessionTable(w, r.Sessions, now)
}
