package rank

import (
	"context"
	"sort"

	"github.com/rushteam/feedkit/core"
	"github.com/rushteam/feedkit/pipeline"
)

// KidsScore 按儿童安全评分降序排序，没有评分的候选排在有评分的
// 候选之后，按时间最新在前。同分按时间、再按内容 ID 决胜。
type KidsScore struct{}

func (n *KidsScore) Name() string        { return "rank.kids_score" }
func (n *KidsScore) Kind() pipeline.Kind { return pipeline.KindSort }

func (n *KidsScore) Process(
	_ context.Context,
	_ *core.FeedContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(items) < 2 {
		return items, nil
	}

	var scored, unscored []*core.Item
	for _, item := range items {
		if item.Metadata.Kids != nil {
			scored = append(scored, item)
		} else {
			unscored = append(unscored, item)
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		a, b := scored[i], scored[j]
		as, bs := a.Metadata.Kids.Score, b.Metadata.Kids.Score
		if as != bs {
			return as > bs
		}
		at, bt := ResolveTimestamp(a), ResolveTimestamp(b)
		if at != bt {
			return at > bt
		}
		return a.ContentID() < b.ContentID()
	})

	sortMostRecentFirst(unscored)
	return append(scored, unscored...), nil
}
