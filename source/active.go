package source

import (
	"context"

	"github.com/rushteam/feedkit/core"
)

// Active 从内容提供方拉取当前活跃内容。提供方失败时记录日志并
// 返回空候选集，不让整个 Run 失败。
type Active struct {
	Provider ContentProvider
}

func (s *Active) Name() string { return "source.active" }

func (s *Active) Fetch(ctx context.Context, fctx *core.FeedContext) ([]*core.Item, error) {
	if s.Provider == nil {
		return nil, nil
	}

	contents, err := s.Provider.ActiveContent(ctx, providerOptions(fctx))
	if err != nil {
		fctx.Logger.Warn("active source failed", "err", err)
		return nil, nil
	}

	items := make([]*core.Item, 0, len(contents))
	for _, c := range contents {
		if c == nil {
			continue
		}
		item := core.NewItem(c)
		item.Metadata.Source = "provider:active"
		items = append(items, item)
	}
	return items, nil
}
