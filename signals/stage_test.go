package signals

import (
	"context"
	"errors"
	"testing"

	"github.com/rushteam/feedkit/core"
)

type fakeProvider struct {
	stats   map[string]ContentStats
	err     error
	lastIDs []string
}

func (p *fakeProvider) ContentStats(_ context.Context, ids []string) (map[string]ContentStats, error) {
	p.lastIDs = ids
	return p.stats, p.err
}

func (p *fakeProvider) Close() {}

func signalsContext() *core.FeedContext {
	return core.NewFeedContext("test", core.DefaultFeedConfig(), nil)
}

func TestStage_BackfillsViewCounts(t *testing.T) {
	provider := &fakeProvider{
		stats: map[string]ContentStats{
			"a": {Views: 120, KidsViews: 40},
		},
	}
	item := core.NewItem(&core.Content{ID: "a"})

	if _, err := (&Stage{Provider: provider}).Process(context.Background(), signalsContext(), []*core.Item{item}); err != nil {
		t.Fatalf("process failed: %v", err)
	}
	if item.Metadata.ViewCount == nil || *item.Metadata.ViewCount != 120 {
		t.Errorf("viewCount = %v, want 120", item.Metadata.ViewCount)
	}
	if item.Metadata.KidsViews == nil || *item.Metadata.KidsViews != 40 {
		t.Errorf("kidsViews = %v, want 40", item.Metadata.KidsViews)
	}
}

func TestStage_ExistingOverridesWin(t *testing.T) {
	provider := &fakeProvider{
		stats: map[string]ContentStats{"a": {Views: 999}},
	}
	item := core.NewItem(&core.Content{ID: "a"})
	existing := int64(5)
	item.Metadata.ViewCount = &existing

	if _, err := (&Stage{Provider: provider}).Process(context.Background(), signalsContext(), []*core.Item{item}); err != nil {
		t.Fatalf("process failed: %v", err)
	}
	if *item.Metadata.ViewCount != 5 {
		t.Errorf("viewCount = %d, existing override must not be clobbered", *item.Metadata.ViewCount)
	}
}

func TestStage_DedupesLookupIDs(t *testing.T) {
	provider := &fakeProvider{}
	items := []*core.Item{
		core.NewItem(&core.Content{ID: "a"}),
		core.NewItem(&core.Content{ID: "a"}),
		core.NewItem(nil),
		core.NewItem(&core.Content{ID: "b"}),
	}

	if _, err := (&Stage{Provider: provider}).Process(context.Background(), signalsContext(), items); err != nil {
		t.Fatalf("process failed: %v", err)
	}
	if len(provider.lastIDs) != 2 {
		t.Errorf("lookup ids = %v, want deduped [a b]", provider.lastIDs)
	}
}

func TestStage_ProviderFailureDegrades(t *testing.T) {
	provider := &fakeProvider{err: errors.New("feature store down")}
	item := core.NewItem(&core.Content{ID: "a"})

	out, err := (&Stage{Provider: provider}).Process(context.Background(), signalsContext(), []*core.Item{item})
	if err != nil {
		t.Fatalf("provider failure must degrade, got: %v", err)
	}
	if len(out) != 1 || out[0].Metadata.ViewCount != nil {
		t.Error("items must pass through unmodified on provider failure")
	}
}

func TestStage_ZeroStatsIgnored(t *testing.T) {
	provider := &fakeProvider{
		stats: map[string]ContentStats{"a": {Views: 0, KidsViews: 0}},
	}
	item := core.NewItem(&core.Content{ID: "a"})

	if _, err := (&Stage{Provider: provider}).Process(context.Background(), signalsContext(), []*core.Item{item}); err != nil {
		t.Fatalf("process failed: %v", err)
	}
	// 0 视为未知，不写入覆盖值
	if item.Metadata.ViewCount != nil || item.Metadata.KidsViews != nil {
		t.Error("zero stats must not be written as overrides")
	}
}
