package source

import (
	"context"
	"encoding/json"

	"github.com/rushteam/feedkit/core"
)

// Store 从 KeyValueStore 的时间线召回候选：有序集合里存内容 ID
//（分数为发布时间，降序取最新），Hash 里存内容 JSON。
type Store struct {
	KV core.KeyValueStore

	// TimelineKey 时间线有序集合的 key，默认 "feed:timeline"
	TimelineKey string
	// ContentKey 内容 Hash 的 key，默认 "feed:content"
	ContentKey string
	// MaxItems 单次召回上限，运行期 Limit 更小时以 Limit 为准
	MaxItems int64
}

func (s *Store) Name() string { return "source.store" }

func (s *Store) Fetch(ctx context.Context, fctx *core.FeedContext) ([]*core.Item, error) {
	if s.KV == nil {
		return nil, nil
	}

	timelineKey := s.TimelineKey
	if timelineKey == "" {
		timelineKey = "feed:timeline"
	}
	contentKey := s.ContentKey
	if contentKey == "" {
		contentKey = "feed:content"
	}

	limit := s.MaxItems
	if limit <= 0 {
		limit = 500
	}
	if rt := fctx.RuntimeOrEmpty(); rt.Limit > 0 && int64(rt.Limit) < limit {
		limit = int64(rt.Limit)
	}

	ids, err := s.KV.ZRange(ctx, timelineKey, 0, limit-1)
	if err != nil {
		if core.IsStoreNotFound(err) {
			return nil, nil
		}
		return nil, err
	}

	items := make([]*core.Item, 0, len(ids))
	for _, id := range ids {
		data, err := s.KV.HGet(ctx, contentKey, id)
		if err != nil {
			if !core.IsStoreNotFound(err) {
				fctx.Logger.Warn("content lookup failed", "contentId", id, "err", err)
			}
			continue
		}
		var c core.Content
		if err := json.Unmarshal(data, &c); err != nil {
			fctx.Logger.Warn("malformed content record", "contentId", id, "err", err)
			continue
		}
		if c.ID == "" {
			c.ID = id
		}
		item := core.NewItem(&c)
		item.Metadata.Source = s.Name()
		items = append(items, item)
	}
	return items, nil
}
