package core

import "context"

// KnownPostedAtFunc 同步地从内容本身推断发布时间，ok 为 false 表示未知。
type KnownPostedAtFunc func(c *Content) (int64, bool)

// ResolvePostedAtFunc 异步解析发布时间（查询外部存储或网络）。
type ResolvePostedAtFunc func(ctx context.Context, c *Content) (int64, bool, error)

// TimestampHooks 时间戳解析钩子。
type TimestampHooks struct {
	Known   []KnownPostedAtFunc
	Resolve []ResolvePostedAtFunc
}

// WatchHistoryHooks 观看历史钩子。
type WatchHistoryHooks struct {
	// ShouldSuppress 返回 true 表示该 root 已看过且应从 feed 中隐去。
	ShouldSuppress func(rootKey string) bool
}

// SubscriptionHooks 订阅来源钩子。
type SubscriptionHooks struct {
	// ResolveAuthors 返回订阅作者集合，与配置及运行期集合取并集。
	ResolveAuthors func(ctx context.Context) ([]string, error)
}

// Hooks 聚合 feed 注册时声明的扩展点，Run 时可被调用方覆盖合并。
type Hooks struct {
	Timestamps    TimestampHooks
	WatchHistory  WatchHistoryHooks
	Subscriptions SubscriptionHooks
}

// MergeHooks 合并注册态与调用态 hooks，调用态的非空字段优先。
func MergeHooks(base Hooks, override *Hooks) Hooks {
	merged := base
	if override == nil {
		return merged
	}
	if len(override.Timestamps.Known) > 0 {
		merged.Timestamps.Known = override.Timestamps.Known
	}
	if len(override.Timestamps.Resolve) > 0 {
		merged.Timestamps.Resolve = override.Timestamps.Resolve
	}
	if override.WatchHistory.ShouldSuppress != nil {
		merged.WatchHistory.ShouldSuppress = override.WatchHistory.ShouldSuppress
	}
	if override.Subscriptions.ResolveAuthors != nil {
		merged.Subscriptions.ResolveAuthors = override.Subscriptions.ResolveAuthors
	}
	return merged
}
