package pipeline_test

import (
	"context"
	"testing"

	"github.com/rushteam/feedkit/core"
	"github.com/rushteam/feedkit/filter"
	"github.com/rushteam/feedkit/pipeline"
	"github.com/rushteam/feedkit/rank"
	"github.com/rushteam/feedkit/source"
)

// 端到端：黑名单过滤 + 时间排序的最小组装。
func TestRun_BlacklistThenChronological(t *testing.T) {
	e := pipeline.New()
	_, err := e.RegisterFeed(pipeline.FeedDefinition{
		Name: "recent",
		Source: &source.Static{Contents: []*core.Content{
			{ID: "old", Author: "alice", CreatedAt: 100, RootCreatedAt: 100},
			{ID: "banned", Author: "mallory", CreatedAt: 300, RootCreatedAt: 300},
			{ID: "new", Author: "bob", CreatedAt: 150, RootCreatedAt: 200},
		}},
		Stages: []pipeline.Stage{
			filter.NewBlacklist([]string{"banned"}, nil, ""),
			&rank.Chronological{},
		},
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	result, err := e.Run(context.Background(), "recent", nil)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if len(result.Items) != 2 {
		t.Fatalf("got %d items, want 2 after blacklist", len(result.Items))
	}
	// 根发布时间优先于本版本时间
	if result.Items[0].ContentID() != "new" || result.Items[1].ContentID() != "old" {
		t.Errorf("order = [%s %s], want newest root first",
			result.Items[0].ContentID(), result.Items[1].ContentID())
	}

	found := false
	for _, rec := range result.Why {
		if rec.Type == "filter" && rec.ContentID == "banned" {
			found = true
		}
	}
	if !found {
		t.Error("missing filter why record for the blacklisted item")
	}
}
