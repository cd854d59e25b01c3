package signals

import (
	"context"

	"github.com/rushteam/feedkit/core"
	"github.com/rushteam/feedkit/pipeline"
)

// Stage 在打分前回填内容统计信号。
//
// 只覆盖尚未携带覆盖值的候选，已有的运行时覆盖优先。
// 信号源失败时记录告警并放行，统计信号不是硬依赖。
type Stage struct {
	Provider Provider
}

func (s *Stage) Name() string { return "signals.stats" }

func (s *Stage) Kind() pipeline.Kind { return pipeline.KindAnnotate }

func (s *Stage) Process(ctx context.Context, fctx *core.FeedContext, items []*core.Item) ([]*core.Item, error) {
	if s.Provider == nil || len(items) == 0 {
		return items, nil
	}

	ids := make([]string, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		id := item.ContentID()
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return items, nil
	}

	stats, err := s.Provider.ContentStats(ctx, ids)
	if err != nil {
		fctx.Logger.Warn("content stats lookup failed", "error", err)
		return items, nil
	}

	for _, item := range items {
		st, ok := stats[item.ContentID()]
		if !ok {
			continue
		}
		if item.Metadata.ViewCount == nil && st.Views > 0 {
			v := st.Views
			item.Metadata.ViewCount = &v
		}
		if item.Metadata.KidsViews == nil && st.KidsViews > 0 {
			v := st.KidsViews
			item.Metadata.KidsViews = &v
		}
	}
	return items, nil
}
