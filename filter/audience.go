package filter

import (
	"context"

	"github.com/rushteam/feedkit/core"
	"github.com/rushteam/feedkit/pipeline"
)

// KidsAudience 按儿童受众约束过滤候选：已删除的内容、携带被禁止
// 告警标记的内容、超出年龄段最长时长的内容都会被剔除。
// 时长未知（0）的候选保留，由评分阶段给中性分。
type KidsAudience struct {
	// AgeGroup 覆盖配置中的年龄段（可选）
	AgeGroup string
}

func (f *KidsAudience) Name() string {
	return "filter.kids_audience"
}

func (f *KidsAudience) Kind() pipeline.Kind {
	return pipeline.KindFilter
}

func (f *KidsAudience) Process(
	_ context.Context,
	fctx *core.FeedContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(items) == 0 {
		return items, nil
	}

	ageGroup := f.AgeGroup
	if ageGroup == "" {
		ageGroup = fctx.Config.AgeGroup
	}
	profile := core.LookupAgeGroup(ageGroup)

	disallowed := make(map[string]struct{}, len(fctx.Config.DisallowedWarnings))
	for _, w := range fctx.Config.DisallowedWarnings {
		disallowed[w] = struct{}{}
	}

	out := make([]*core.Item, 0, len(items))
	for _, item := range items {
		c := item.Content
		if c == nil {
			out = append(out, item)
			continue
		}

		reason := ""
		fields := map[string]any(nil)
		switch {
		case c.Deleted:
			reason = "deleted"
		case c.Duration > 0 && c.Duration > profile.MaxDurationSeconds:
			reason = "duration-limit"
			fields = map[string]any{
				"duration": c.Duration,
				"limit":    profile.MaxDurationSeconds,
			}
		default:
			for _, w := range c.Warnings {
				if _, ok := disallowed[w]; ok {
					reason = "disallowed-warning"
					fields = map[string]any{"warning": w}
					break
				}
			}
		}

		if reason == "" {
			out = append(out, item)
			continue
		}

		item.Metadata.DroppedByStage = f.Name()
		fctx.AddWhy(core.WhyRecord{
			Stage:     f.Name(),
			Type:      "filter",
			Reason:    reason,
			ContentID: c.ID,
			Author:    c.Author,
			Fields:    fields,
		})
	}

	return out, nil
}
