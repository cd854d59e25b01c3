package filter

import (
	"context"

	"github.com/rushteam/feedkit/core"
	"github.com/rushteam/feedkit/pipeline"
)

// Blacklist 是黑名单过滤 Stage：剔除内容 ID 在黑名单中或作者被
// 拉黑的候选。黑名单来自运行期快照，可选叠加一份存储后端的名单。
// 没有内容对象的候选（纯指针）直接保留。
type Blacklist struct {
	// IDs 是内存中的静态黑名单（可选，与运行期快照取并集）
	IDs []string

	// Store 用于从存储中读取黑名单（可选）
	Store BlacklistStore

	// Key 是 Store 中的黑名单 key（可选）
	Key string

	// ShouldInclude 调用方自定义的保留判定，设置后取代默认的
	// 黑名单与作者拉黑检查
	ShouldInclude func(c *core.Content) bool
}

// BlacklistStore 是黑名单存储接口。
type BlacklistStore interface {
	// GetBlacklist 获取黑名单内容 ID 列表
	GetBlacklist(ctx context.Context, key string) ([]string, error)
}

// NewBlacklist 创建一个黑名单过滤 Stage。
func NewBlacklist(ids []string, storeAdapter *StoreAdapter, key string) *Blacklist {
	var store BlacklistStore
	if storeAdapter != nil {
		store = storeAdapter
	}
	return &Blacklist{IDs: ids, Store: store, Key: key}
}

func (f *Blacklist) Name() string {
	return "filter.blacklist"
}

func (f *Blacklist) Kind() pipeline.Kind {
	return pipeline.KindFilter
}

func (f *Blacklist) Process(
	ctx context.Context,
	fctx *core.FeedContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(items) == 0 {
		return items, nil
	}

	shouldInclude := f.ShouldInclude
	if shouldInclude == nil {
		rt := fctx.RuntimeOrEmpty()
		banned := make(map[string]struct{}, len(rt.BlacklistedIDs)+len(f.IDs))
		for id := range rt.BlacklistedIDs {
			banned[id] = struct{}{}
		}
		for _, id := range f.IDs {
			banned[id] = struct{}{}
		}
		if f.Store != nil && f.Key != "" {
			ids, err := f.Store.GetBlacklist(ctx, f.Key)
			if err != nil {
				// 存储不可用时退化为运行期名单
				fctx.Logger.Warn("blacklist store unavailable", "key", f.Key, "err", err)
			}
			for _, id := range ids {
				banned[id] = struct{}{}
			}
		}

		shouldInclude = func(c *core.Content) bool {
			if _, ok := banned[c.ID]; ok {
				return false
			}
			if rt.IsAuthorBlocked != nil && c.Author != "" && rt.IsAuthorBlocked(c.Author) {
				return false
			}
			return true
		}
	}

	out := make([]*core.Item, 0, len(items))
	for _, item := range items {
		c := item.Content
		if c == nil {
			out = append(out, item)
			continue
		}

		if !shouldInclude(c) {
			item.Metadata.DroppedByStage = f.Name()
			fctx.AddWhy(core.WhyRecord{
				Stage:     f.Name(),
				Type:      "filter",
				Reason:    "blacklist",
				ContentID: c.ID,
				Author:    c.Author,
			})
			continue
		}
		out = append(out, item)
	}

	return out, nil
}
