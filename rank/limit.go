package rank

import (
	"context"

	"github.com/rushteam/feedkit/core"
	"github.com/rushteam/feedkit/pipeline"
)

// Limit 在排序之后截取前 N 条，控制最终返回数量。
// N <= 0 时回退到运行期的 Limit，两者都未设置则不截断。
type Limit struct {
	N int
}

func (n *Limit) Name() string        { return "decorate.limit" }
func (n *Limit) Kind() pipeline.Kind { return pipeline.KindDecorate }

func (n *Limit) Process(
	_ context.Context,
	fctx *core.FeedContext,
	items []*core.Item,
) ([]*core.Item, error) {
	limit := n.N
	if limit <= 0 {
		limit = fctx.RuntimeOrEmpty().Limit
	}
	if limit <= 0 || len(items) <= limit {
		return items, nil
	}
	return items[:limit], nil
}
