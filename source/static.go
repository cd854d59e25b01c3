package source

import (
	"context"

	"github.com/rushteam/feedkit/core"
)

// Static 返回固定的内容集合，用于示例与测试。
type Static struct {
	SourceName string
	Contents   []*core.Content
}

func (s *Static) Name() string {
	if s.SourceName != "" {
		return s.SourceName
	}
	return "source.static"
}

func (s *Static) Fetch(_ context.Context, _ *core.FeedContext) ([]*core.Item, error) {
	items := make([]*core.Item, 0, len(s.Contents))
	for _, c := range s.Contents {
		if c == nil {
			continue
		}
		item := core.NewItem(c)
		item.Metadata.Source = s.Name()
		items = append(items, item)
	}
	return items, nil
}
