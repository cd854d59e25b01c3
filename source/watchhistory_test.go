package source

import (
	"context"
	"errors"
	"testing"

	"github.com/rushteam/feedkit/core"
)

type fakePointerProvider struct {
	pointers  []*core.Pointer
	err       error
	lastActor string
}

func (p *fakePointerProvider) QueuedPointers(_ context.Context, actor string) ([]*core.Pointer, error) {
	p.lastActor = actor
	return p.pointers, p.err
}

func TestWatchHistory_PointerOnlyItems(t *testing.T) {
	provider := &fakePointerProvider{
		pointers: []*core.Pointer{
			{Type: "e", Value: "ev1"},
			nil,
			{Value: ""},
			{Type: "a", Value: "addr1"},
		},
	}
	s := &WatchHistory{Provider: provider}

	fctx := sourceContext()
	fctx.Runtime = &core.Runtime{Viewer: "alice"}

	items, err := s.Fetch(context.Background(), fctx)
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if provider.lastActor != "alice" {
		t.Errorf("actor = %q, want viewer from runtime", provider.lastActor)
	}
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2 (nil and empty pointers skipped)", len(items))
	}
	if items[0].Content != nil {
		t.Error("content must stay nil without a resolver")
	}
	if items[0].Metadata.Source != "watch-history" {
		t.Errorf("source = %q, want watch-history", items[0].Metadata.Source)
	}
	if items[0].Metadata.PointerKey != "e:ev1" {
		t.Errorf("pointer key = %q, want e:ev1", items[0].Metadata.PointerKey)
	}
	if items[1].Metadata.PointerKey != "a:addr1" {
		t.Errorf("pointer key = %q, want a:addr1", items[1].Metadata.PointerKey)
	}
}

func TestWatchHistory_ResolverFillsContent(t *testing.T) {
	provider := &fakePointerProvider{
		pointers: []*core.Pointer{
			{Type: "e", Value: "ev1"},
			{Type: "e", Value: "ev2"},
		},
	}
	s := &WatchHistory{
		Provider: provider,
		Resolve: func(_ context.Context, p *core.Pointer) (*core.Content, error) {
			if p.Value == "ev2" {
				return nil, errors.New("not indexed")
			}
			return &core.Content{ID: p.Value}, nil
		},
	}

	items, err := s.Fetch(context.Background(), sourceContext())
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2", len(items))
	}
	if items[0].Content == nil || items[0].Content.ID != "ev1" {
		t.Error("resolved pointer must carry its content")
	}
	// 解析失败不丢候选，留给后续阶段处理
	if items[1].Content != nil {
		t.Error("failed resolve must leave content nil")
	}
}

func TestWatchHistory_ProviderFailureDegrades(t *testing.T) {
	s := &WatchHistory{Provider: &fakePointerProvider{err: errors.New("history down")}}

	items, err := s.Fetch(context.Background(), sourceContext())
	if err != nil {
		t.Fatalf("fetch must degrade, got error: %v", err)
	}
	if items != nil {
		t.Errorf("items = %v, want nil on provider failure", itemIDs(items))
	}
}
