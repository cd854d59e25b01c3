package source

import (
	"context"

	"github.com/rushteam/feedkit/core"
)

// PointerProvider 提供观看历史里排队的内容指针。
type PointerProvider interface {
	QueuedPointers(ctx context.Context, actor string) ([]*core.Pointer, error)
}

// WatchHistory 从观看历史指针生成候选。指针可能还没有解析出内容，
// 生成的候选只带 Pointer，由后续阶段或调用方解析。
type WatchHistory struct {
	Provider PointerProvider
	// Resolve 可选的指针解析钩子，能解析出内容时填充 Content
	Resolve func(ctx context.Context, p *core.Pointer) (*core.Content, error)
}

func (s *WatchHistory) Name() string { return "source.watch_history" }

func (s *WatchHistory) Fetch(ctx context.Context, fctx *core.FeedContext) ([]*core.Item, error) {
	if s.Provider == nil {
		return nil, nil
	}

	actor := fctx.RuntimeOrEmpty().Viewer
	pointers, err := s.Provider.QueuedPointers(ctx, actor)
	if err != nil {
		fctx.Logger.Warn("watch history pointers unavailable", "err", err)
		return nil, nil
	}

	items := make([]*core.Item, 0, len(pointers))
	for _, p := range pointers {
		if p == nil || p.Value == "" {
			continue
		}
		item := &core.Item{Pointer: p}
		item.Metadata.Source = "watch-history"
		item.Metadata.PointerKey = p.Key()
		if s.Resolve != nil {
			c, err := s.Resolve(ctx, p)
			if err != nil {
				fctx.Logger.Warn("pointer resolve failed", "pointer", p.Key(), "err", err)
			} else if c != nil {
				item.Content = c
			}
		}
		items = append(items, item)
	}
	return items, nil
}
