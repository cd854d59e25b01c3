package filter

import (
	"context"

	"github.com/rushteam/feedkit/core"
	"github.com/rushteam/feedkit/pipeline"
)

// Node 是过滤 Stage，可以组合多个过滤器进行过滤。
// 如果任何一个过滤器返回 true，该候选就会被过滤掉。
type Node struct {
	StageName string
	Filters   []Filter
}

func (n *Node) Name() string {
	if n.StageName != "" {
		return n.StageName
	}
	return "filter.node"
}

func (n *Node) Kind() pipeline.Kind {
	return pipeline.KindFilter
}

func (n *Node) Process(
	ctx context.Context,
	fctx *core.FeedContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(n.Filters) == 0 || len(items) == 0 {
		return items, nil
	}

	out := make([]*core.Item, 0, len(items))

	for _, item := range items {
		if item == nil {
			continue
		}

		dropped := false
		droppedBy := ""

		// 依次检查每个过滤器，过滤器自身的错误不阻断流程
		for _, f := range n.Filters {
			ok, err := f.ShouldFilter(ctx, fctx, item)
			if err != nil {
				continue
			}
			if ok {
				dropped = true
				droppedBy = f.Name()
				break
			}
		}

		if dropped {
			item.Metadata.DroppedByStage = n.Name()
			fctx.AddWhy(core.WhyRecord{
				Stage:     n.Name(),
				Type:      "filter",
				Reason:    droppedBy,
				ContentID: item.ContentID(),
				Author:    item.Author(),
			})
			continue
		}

		out = append(out, item)
	}

	return out, nil
}
