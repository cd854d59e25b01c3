package filter

import (
	"context"

	"github.com/rushteam/feedkit/core"
	"github.com/rushteam/feedkit/pipeline"
)

// WatchHistory 按观看历史抑制候选：抑制判定来自 hook，hook 缺席时
// 回退到运行期的已观看根集合。两者都没有时整个 Stage 是直通。
type WatchHistory struct {
	// ShouldSuppress 显式指定的抑制判定（可选），优先于 hook 与运行期集合
	ShouldSuppress func(rootKey string) bool
}

func (f *WatchHistory) Name() string {
	return "filter.watch_history"
}

func (f *WatchHistory) Kind() pipeline.Kind {
	return pipeline.KindFilter
}

func (f *WatchHistory) Process(
	_ context.Context,
	fctx *core.FeedContext,
	items []*core.Item,
) ([]*core.Item, error) {
	hook := f.resolveHook(fctx)
	if hook == nil {
		return items, nil
	}

	out := make([]*core.Item, 0, len(items))
	for _, item := range items {
		key := suppressionKey(item)
		if key == "" || !hook(key) {
			out = append(out, item)
			continue
		}

		item.Metadata.DroppedByStage = f.Name()
		rec := core.WhyRecord{
			Stage:  f.Name(),
			Type:   "filter",
			Reason: "watch-history",
		}
		if item.Content != nil {
			rec.ContentID = item.Content.ID
			rec.Author = item.Content.Author
		} else if item.Pointer != nil {
			rec.Fields = map[string]any{"pointerKey": item.Pointer.Key()}
		} else if item.Metadata.PointerKey != "" {
			rec.Fields = map[string]any{"pointerKey": item.Metadata.PointerKey}
		}
		fctx.AddWhy(rec)
	}

	return out, nil
}

func (f *WatchHistory) resolveHook(fctx *core.FeedContext) func(string) bool {
	if f.ShouldSuppress != nil {
		return f.ShouldSuppress
	}
	if fctx.Hooks.WatchHistory.ShouldSuppress != nil {
		return fctx.Hooks.WatchHistory.ShouldSuppress
	}
	rt := fctx.RuntimeOrEmpty()
	if len(rt.WatchedRoots) > 0 {
		watched := rt.WatchedRoots
		return func(rootKey string) bool {
			_, ok := watched[rootKey]
			return ok
		}
	}
	return nil
}

// suppressionKey 取候选的抑制键：先根 ID，再指针键。
func suppressionKey(item *core.Item) string {
	if item.Content != nil {
		return item.Content.RootKey()
	}
	if item.Pointer != nil {
		return item.Pointer.Key()
	}
	return item.Metadata.PointerKey
}
