// Package rank 提供决定 feed 最终顺序的排序 Stage。
package rank

import (
	"context"
	"math"
	"sort"

	"github.com/rushteam/feedkit/core"
	"github.com/rushteam/feedkit/pipeline"
)

// Chronological 按解析出的时间戳稳定排序。
//
// 时间戳解析链：显式 Resolver 覆盖 > hooks 的 known 提供者（按序）>
// 根发布时间 > 备用元数据源时间 > 本版本时间 > 负无穷。
// 被受信 mute 的候选无论时间戳如何都排在未被 mute 的候选之后，
// 最终以内容 ID 决胜，保证确定性。
type Chronological struct {
	// Resolver 显式时间戳解析覆盖（可选）
	Resolver func(item *core.Item) (int64, bool)
	// Ascending 为 true 时最旧在前，默认最新在前
	Ascending bool
}

func (n *Chronological) Name() string        { return "rank.chronological" }
func (n *Chronological) Kind() pipeline.Kind { return pipeline.KindSort }

func (n *Chronological) Process(
	_ context.Context,
	fctx *core.FeedContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(items) < 2 {
		return items, nil
	}

	out := make([]*core.Item, len(items))
	copy(out, items)

	known := fctx.Hooks.Timestamps.Known
	ts := make(map[*core.Item]int64, len(out))
	for _, item := range out {
		ts[item] = n.resolveTimestamp(item, known)
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]

		am, bm := trustedMuted(a), trustedMuted(b)
		if am != bm {
			return !am
		}

		at, bt := ts[a], ts[b]
		if at != bt {
			if n.Ascending {
				return at < bt
			}
			return at > bt
		}

		return a.ContentID() < b.ContentID()
	})

	return out, nil
}

func (n *Chronological) resolveTimestamp(item *core.Item, known []core.KnownPostedAtFunc) int64 {
	if n.Resolver != nil {
		if ts, ok := n.Resolver(item); ok {
			return ts
		}
	}
	c := item.Content
	if c == nil {
		return math.MinInt64
	}
	for _, fn := range known {
		if ts, ok := fn(c); ok && ts > 0 {
			return ts
		}
	}
	if c.RootCreatedAt > 0 {
		return c.RootCreatedAt
	}
	if c.AltCreatedAt > 0 {
		return c.AltCreatedAt
	}
	if c.CreatedAt > 0 {
		return c.CreatedAt
	}
	return math.MinInt64
}

func trustedMuted(item *core.Item) bool {
	if m := item.Metadata.Moderation; m != nil {
		return m.TrustedMuted
	}
	if item.Content != nil && item.Content.Moderation != nil {
		return item.Content.Moderation.TrustedMuted
	}
	return false
}

// ResolveTimestamp 暴露默认解析链，供其他排序器做相同的决胜规则。
func ResolveTimestamp(item *core.Item) int64 {
	return (&Chronological{}).resolveTimestamp(item, nil)
}
