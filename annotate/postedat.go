// Package annotate 提供只补充元数据、不增删候选的 Stage。
package annotate

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rushteam/feedkit/core"
	"github.com/rushteam/feedkit/pipeline"
)

// PostedAt 为缺少根发布时间的候选回填时间戳。
//
// 解析分两族：known 提供者同步执行，按顺序取第一个有答案的；
// 都没有答案时才走 resolve 提供者（异步，可能访问外部存储）。
// 已携带时间戳的候选完全跳过。写入遵循“只向更早移动”的规则：
// 新值只有在比现有值更早（或现有值缺失）时才覆盖。
//
// 各候选的异步解析相互独立并发执行，单个失败记录日志后跳过，
// 不影响其他候选。
type PostedAt struct {
	// MaxConcurrent 异步解析的最大并发数（非正值表示无限制）
	MaxConcurrent int
	// Timeout 单个异步解析的超时时间
	Timeout time.Duration
}

func (n *PostedAt) Name() string        { return "annotate.posted_at" }
func (n *PostedAt) Kind() pipeline.Kind { return pipeline.KindAnnotate }

func (n *PostedAt) Process(
	ctx context.Context,
	fctx *core.FeedContext,
	items []*core.Item,
) ([]*core.Item, error) {
	known := fctx.Hooks.Timestamps.Known
	resolvers := fctx.Hooks.Timestamps.Resolve
	if len(known) == 0 && len(resolvers) == 0 {
		return items, nil
	}

	var pending []*core.Item
	for _, item := range items {
		c := item.Content
		if c == nil || c.RootCreatedAt > 0 {
			continue
		}

		if ts, ok := firstKnown(known, c); ok {
			writePostedAt(c, ts)
			continue
		}
		if len(resolvers) > 0 {
			pending = append(pending, item)
		}
	}

	if len(pending) == 0 {
		return items, nil
	}

	var (
		mu    sync.Mutex
		eg, _ = errgroup.WithContext(ctx)
	)

	// 非正值（含负数）一律视为无限制
	var sem chan struct{}
	if n.MaxConcurrent > 0 {
		sem = make(chan struct{}, n.MaxConcurrent)
	}

	for _, item := range pending {
		c := item.Content

		eg.Go(func() error {
			if sem != nil {
				sem <- struct{}{}
				defer func() { <-sem }()
			}

			resolveCtx := ctx
			if n.Timeout > 0 {
				var cancel context.CancelFunc
				resolveCtx, cancel = context.WithTimeout(ctx, n.Timeout)
				defer cancel()
			}

			for _, resolve := range resolvers {
				ts, ok, err := resolve(resolveCtx, c)
				if err != nil {
					// 单个解析器失败不阻断，继续下一个
					fctx.Logger.Warn("posted-at resolver failed",
						"contentId", c.ID, "err", err)
					continue
				}
				if ok && ts > 0 {
					mu.Lock()
					writePostedAt(c, ts)
					mu.Unlock()
					break
				}
			}
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return items, nil
	}
	return items, nil
}

func firstKnown(known []core.KnownPostedAtFunc, c *core.Content) (int64, bool) {
	for _, fn := range known {
		if ts, ok := fn(c); ok && ts > 0 {
			return ts, true
		}
	}
	return 0, false
}

// writePostedAt 写入根发布时间，只允许把时间戳向更早移动。
func writePostedAt(c *core.Content, ts int64) {
	if c.RootCreatedAt > 0 && c.RootCreatedAt <= ts {
		return
	}
	c.RootCreatedAt = ts
}
