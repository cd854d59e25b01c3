package source

import (
	"context"
	"sort"

	"github.com/rushteam/feedkit/core"
)

// SubscriptionAuthors 只返回订阅作者的内容。作者集合是运行期集合、
// 配置的作者白名单与订阅 hook 三者的并集；并集为空时直接返回空
// 候选集。结果按创建时间最新在前，运行期 Limit 生效。
type SubscriptionAuthors struct {
	Provider ContentProvider
}

func (s *SubscriptionAuthors) Name() string { return "source.subscriptions" }

func (s *SubscriptionAuthors) Fetch(ctx context.Context, fctx *core.FeedContext) ([]*core.Item, error) {
	if s.Provider == nil {
		return nil, nil
	}

	rt := fctx.RuntimeOrEmpty()
	authors := make(map[string]struct{})
	add := func(list []string) {
		for _, a := range list {
			if n := normalizeAuthor(a); n != "" {
				authors[n] = struct{}{}
			}
		}
	}
	add(rt.SubscriptionAuthors)
	add(fctx.Config.ActorFilters)
	if hook := fctx.Hooks.Subscriptions.ResolveAuthors; hook != nil {
		resolved, err := hook(ctx)
		if err != nil {
			fctx.Logger.Warn("subscription author hook failed", "err", err)
		} else {
			add(resolved)
		}
	}

	if len(authors) == 0 {
		return nil, nil
	}

	authorList := make([]string, 0, len(authors))
	for a := range authors {
		authorList = append(authorList, a)
	}
	sort.Strings(authorList)

	contents, err := s.Provider.ActiveContentByAuthors(ctx, authorList, providerOptions(fctx))
	if err != nil {
		fctx.Logger.Warn("subscriptions source failed", "err", err)
		return nil, nil
	}

	// 提供方实现可能宽松，这里再按作者集合过滤一遍
	filtered := make([]*core.Content, 0, len(contents))
	for _, c := range contents {
		if c == nil {
			continue
		}
		author := normalizeAuthor(c.Author)
		if author == "" {
			continue
		}
		if _, ok := authors[author]; ok {
			filtered = append(filtered, c)
		}
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].CreatedAt > filtered[j].CreatedAt
	})

	if rt.Limit > 0 && len(filtered) > rt.Limit {
		filtered = filtered[:rt.Limit]
	}

	items := make([]*core.Item, 0, len(filtered))
	for _, c := range filtered {
		item := core.NewItem(c)
		item.Metadata.Source = "provider:subscriptions"
		item.Metadata.Extra = map[string]any{"matchedAuthor": normalizeAuthor(c.Author)}
		items = append(items, item)
	}
	return items, nil
}
