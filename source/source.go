// Package source 提供生成初始候选集的 Source 实现。
package source

import (
	"context"
	"strings"

	"github.com/rushteam/feedkit/core"
)

// ProviderOptions 是内容提供方的查询选项。
type ProviderOptions struct {
	// BlacklistedIDs 提供方可以提前剔除的内容 ID 集合
	BlacklistedIDs map[string]struct{}
	// IsAuthorBlocked 作者拉黑判定
	IsAuthorBlocked func(author string) bool
	// Limit 大于 0 时限制返回条数
	Limit int
}

// ContentProvider 是候选内容的外部提供方。
type ContentProvider interface {
	// ActiveContent 返回当前活跃的内容集合
	ActiveContent(ctx context.Context, opts ProviderOptions) ([]*core.Content, error)

	// ActiveContentByAuthors 按作者集合返回活跃内容
	ActiveContentByAuthors(ctx context.Context, authors []string, opts ProviderOptions) ([]*core.Content, error)
}

func providerOptions(fctx *core.FeedContext) ProviderOptions {
	rt := fctx.RuntimeOrEmpty()
	return ProviderOptions{
		BlacklistedIDs:  rt.BlacklistedIDs,
		IsAuthorBlocked: rt.IsAuthorBlocked,
		Limit:           rt.Limit,
	}
}

func normalizeAuthor(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}
