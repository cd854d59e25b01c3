package filter

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rushteam/feedkit/core"
)

// StoreAdapter 将 core.Store 适配为过滤阶段所需的存储接口。
type StoreAdapter struct {
	store core.Store
}

// NewStoreAdapter 创建一个 core.Store 适配器。
func NewStoreAdapter(s core.Store) *StoreAdapter {
	return &StoreAdapter{store: s}
}

// GetBlacklist 从 Store 读取黑名单（JSON 编码的 ID 列表）。
func (a *StoreAdapter) GetBlacklist(ctx context.Context, key string) ([]string, error) {
	data, err := a.store.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

// GetWatchedRoots 从 Store 读取观看历史，返回根键到观看时间的映射。
// 支持两种编码：简单的根键列表，或带时间戳的条目列表。
// timeWindow（秒）大于 0 时过滤掉窗口之外的记录。
func (a *StoreAdapter) GetWatchedRoots(ctx context.Context, viewer string, keyPrefix string, timeWindow int64) (map[string]int64, error) {
	if keyPrefix == "" {
		keyPrefix = "watch:history"
	}
	data, err := a.store.Get(ctx, keyPrefix+":"+viewer)
	if err != nil {
		return nil, err
	}

	// 简单根键列表
	var roots []string
	if err := json.Unmarshal(data, &roots); err == nil {
		out := make(map[string]int64, len(roots))
		for _, r := range roots {
			out[r] = 0
		}
		return out, nil
	}

	// 带时间戳的条目列表
	var entries []struct {
		Root      string `json:"root"`
		WatchedAt int64  `json:"watched_at"`
	}
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, err
	}

	cutoff := int64(0)
	if timeWindow > 0 {
		cutoff = time.Now().Unix() - timeWindow
	}
	out := make(map[string]int64, len(entries))
	for _, e := range entries {
		if e.Root == "" {
			continue
		}
		if cutoff > 0 && e.WatchedAt < cutoff {
			continue
		}
		out[e.Root] = e.WatchedAt
	}
	return out, nil
}

// GetSubscriptionAuthors 从 Store 读取观看者的订阅作者列表。
func (a *StoreAdapter) GetSubscriptionAuthors(ctx context.Context, viewer string, keyPrefix string) ([]string, error) {
	if keyPrefix == "" {
		keyPrefix = "subs:authors"
	}
	return a.GetBlacklist(ctx, keyPrefix+":"+viewer)
}
