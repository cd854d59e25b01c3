package filter

import (
	"context"

	"github.com/rushteam/feedkit/core"
	"github.com/rushteam/feedkit/pipeline"
	"github.com/rushteam/feedkit/pkg/utils"
)

// TagPreference 按观看者的标签偏好过滤候选。
//
// 规则（按优先级）：
//  1. 命中任何不感兴趣标签的候选被剔除（不感兴趣优先于兴趣命中）
//  2. EnforceInterests 为 true 时，兴趣列表非空而零命中的候选被剔除
//  3. 有兴趣命中的候选在 Metadata.MatchedInterests 记录命中集合，
//     顺序与兴趣列表一致
//
// 偏好不可用或两个列表都为空时整个 Stage 是零成本直通。
type TagPreference struct {
	// EnforceInterests 为 true 时要求候选至少命中一个兴趣标签
	EnforceInterests bool
}

// NewTagPreference 创建兴趣强制版本：零命中的候选被剔除。
func NewTagPreference() *TagPreference {
	return &TagPreference{EnforceInterests: true}
}

// NewDisinterest 创建仅剔除不感兴趣标签的版本。
func NewDisinterest() *TagPreference {
	return &TagPreference{}
}

func (f *TagPreference) Name() string {
	if f.EnforceInterests {
		return "filter.tag_preference"
	}
	return "filter.disinterest"
}

func (f *TagPreference) Kind() pipeline.Kind {
	return pipeline.KindFilter
}

func (f *TagPreference) Process(
	_ context.Context,
	fctx *core.FeedContext,
	items []*core.Item,
) ([]*core.Item, error) {
	prefs := fctx.RuntimeOrEmpty().TagPreferences
	if prefs == nil || !prefs.Available {
		return items, nil
	}

	interests := utils.NormalizeTagList(prefs.Interests)
	disinterests := utils.NormalizeTagSet(prefs.Disinterests)
	if len(interests) == 0 && len(disinterests) == 0 {
		return items, nil
	}

	out := make([]*core.Item, 0, len(items))
	for _, item := range items {
		c := item.Content
		if c == nil {
			out = append(out, item)
			continue
		}

		tags := itemTagSet(c)

		disliked := ""
		for tag := range disinterests {
			if _, ok := tags[tag]; ok {
				disliked = tag
				break
			}
		}
		if disliked != "" {
			item.Metadata.DroppedByStage = f.Name()
			fctx.AddWhy(core.WhyRecord{
				Stage:     f.Name(),
				Type:      "filter",
				Reason:    "disinterested-tag",
				ContentID: c.ID,
				Author:    c.Author,
				Fields:    map[string]any{"tag": disliked},
			})
			continue
		}

		var matched []string
		for _, tag := range interests {
			if _, ok := tags[tag]; ok {
				matched = append(matched, tag)
			}
		}

		if f.EnforceInterests && len(interests) > 0 && len(matched) == 0 {
			item.Metadata.DroppedByStage = f.Name()
			fctx.AddWhy(core.WhyRecord{
				Stage:     f.Name(),
				Type:      "filter",
				Reason:    "no-interest-match",
				ContentID: c.ID,
				Author:    c.Author,
			})
			continue
		}

		if len(matched) > 0 {
			item.Metadata.MatchedInterests = matched
			fctx.AddWhy(core.WhyRecord{
				Stage:     f.Name(),
				Type:      "annotate",
				Reason:    "matched-interests",
				ContentID: c.ID,
				Author:    c.Author,
				Fields:    map[string]any{"tags": matched},
			})
		}

		out = append(out, item)
	}

	return out, nil
}

// itemTagSet 合并主标签与备用 hashtag 列表，归一化为小写集合。
func itemTagSet(c *core.Content) map[string]struct{} {
	set := make(map[string]struct{}, len(c.Tags)+len(c.Hashtags))
	for _, t := range c.Tags {
		if n := utils.NormalizeHashtag(t); n != "" {
			set[n] = struct{}{}
		}
	}
	for _, t := range c.Hashtags {
		if n := utils.NormalizeHashtag(t); n != "" {
			set[n] = struct{}{}
		}
	}
	return set
}
