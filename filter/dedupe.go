package filter

import (
	"context"

	"github.com/rushteam/feedkit/core"
	"github.com/rushteam/feedkit/pipeline"
)

// DedupeByRoot 对同根的多个版本只保留最新的一个。
//
// 先对内容对象做一次“每根取最新”归约，再按内容 ID 的幸存集合回推
// 哪些候选保留，输出顺序保持输入顺序。没有内容对象的候选一律保留。
// 归约结果为空时原样放行，避免归约缺陷把非空列表清空。
type DedupeByRoot struct {
	// Reduce 自定义归约函数（可选），默认按 RootCreatedAt/CreatedAt 取最新
	Reduce func(contents []*core.Content) []*core.Content
}

func (f *DedupeByRoot) Name() string {
	return "filter.dedupe_by_root"
}

func (f *DedupeByRoot) Kind() pipeline.Kind {
	return pipeline.KindFilter
}

func (f *DedupeByRoot) Process(
	_ context.Context,
	fctx *core.FeedContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(items) == 0 {
		return items, nil
	}

	contents := make([]*core.Content, 0, len(items))
	for _, item := range items {
		if item.Content != nil {
			contents = append(contents, item.Content)
		}
	}

	reduce := f.Reduce
	if reduce == nil {
		reduce = newestPerRoot
	}
	survivors := reduce(contents)
	if len(survivors) == 0 {
		return items, nil
	}

	allowed := make(map[string]struct{}, len(survivors))
	for _, c := range survivors {
		if c != nil && c.ID != "" {
			allowed[c.ID] = struct{}{}
		}
	}

	out := make([]*core.Item, 0, len(items))
	for _, item := range items {
		c := item.Content
		if c == nil || c.ID == "" {
			out = append(out, item)
			continue
		}
		if _, ok := allowed[c.ID]; ok {
			out = append(out, item)
			continue
		}

		item.Metadata.DroppedByStage = f.Name()
		fctx.AddWhy(core.WhyRecord{
			Stage:     f.Name(),
			Type:      "dedupe",
			Reason:    "older-root-version",
			ContentID: c.ID,
			Author:    c.Author,
			Fields:    map[string]any{"rootId": c.RootKey()},
		})
	}

	return out, nil
}

// newestPerRoot 每个根只保留创建时间最新的版本。
func newestPerRoot(contents []*core.Content) []*core.Content {
	newest := make(map[string]*core.Content, len(contents))
	order := make([]string, 0, len(contents))
	for _, c := range contents {
		if c == nil {
			continue
		}
		root := c.RootKey()
		if root == "" {
			continue
		}
		cur, ok := newest[root]
		if !ok {
			newest[root] = c
			order = append(order, root)
			continue
		}
		if contentTimestamp(c) > contentTimestamp(cur) {
			newest[root] = c
		}
	}

	out := make([]*core.Content, 0, len(order))
	for _, root := range order {
		out = append(out, newest[root])
	}
	return out
}

func contentTimestamp(c *core.Content) int64 {
	if c.RootCreatedAt > 0 {
		return c.RootCreatedAt
	}
	if c.CreatedAt > 0 {
		return c.CreatedAt
	}
	return c.AltCreatedAt
}
