package stats

import (
	"context"
	"io"

	"github.com/verte-zerg/tuishi/internal/model"
	"github.com/verte-zerg/tuishi/internal/store"
)

// Report contains precomputed data for stats rendering.
type Report struct {
	Sessions []model.SessionAggregate
	CharAggs []model.CharAggregate
	Window   int
}

// BuildReport loads and prepares data for stats rendering.
func BuildReport(ctx context.Context, st *store.Store, cfg model.StatsConfig) (Report, error) {
	sessions, err := st.ListSessions(ctx, cfg)
	if err != nil {
		return Report{}, err
	}
	charAggs, err := st.ListCharAggregatesForSessions(ctx, sessionIDs(sessions))
	if err != nil {
		return Report{}, err
	}
	return Report{
		Sessions: sessions,
		CharAggs: charAggs,
		Window:   cfg.CurveWindow,
	}, nil
}

// Render writes the summary and the per-character table.
func (r Report) Render(w io.Writer, width, topChars int) error {
	if err := RenderSummary(w, r.Sessions, r.Window, width); err != nil {
		return err
	}
	if len(r.Sessions) == 0 {
		return nil
	}
	return RenderCharTable(w, r.CharAggs, topChars)
}

func sessionIDs(sessions []model.SessionAggregate) []int64 {
	ids := make([]int64, len(sessions))
	for i, s := range sessions {
		ids[i] = s.SessionID
	}
	return ids
}
