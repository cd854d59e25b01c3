package source

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/rushteam/feedkit/core"
	"github.com/rushteam/feedkit/store"
)

func seedTimeline(t *testing.T, kv core.KeyValueStore, contents ...*core.Content) {
	t.Helper()
	ctx := context.Background()
	for _, c := range contents {
		data, err := json.Marshal(c)
		if err != nil {
			t.Fatalf("marshal content: %v", err)
		}
		if err := kv.HSet(ctx, "feed:content", c.ID, data); err != nil {
			t.Fatalf("hset: %v", err)
		}
		if err := kv.ZAdd(ctx, "feed:timeline", float64(c.CreatedAt), c.ID); err != nil {
			t.Fatalf("zadd: %v", err)
		}
	}
}

func TestStoreSource_TimelineRecall(t *testing.T) {
	kv := store.NewMemoryStore()
	defer kv.Close()
	seedTimeline(t, kv,
		&core.Content{ID: "old", Author: "alice", CreatedAt: 100},
		&core.Content{ID: "new", Author: "bob", CreatedAt: 300},
		&core.Content{ID: "mid", Author: "carol", CreatedAt: 200},
	)

	s := &Store{KV: kv}
	items, err := s.Fetch(context.Background(), sourceContext())
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}

	got := itemIDs(items)
	if len(got) != 3 || got[0] != "new" || got[2] != "old" {
		t.Errorf("items = %v, want newest first from the timeline", got)
	}
	if items[0].Metadata.Source != "source.store" {
		t.Errorf("source = %q, want source.store", items[0].Metadata.Source)
	}
	if items[0].Content.Author != "bob" {
		t.Errorf("author = %q, hash payload must round-trip", items[0].Content.Author)
	}
}

func TestStoreSource_RuntimeLimitCapsRecall(t *testing.T) {
	kv := store.NewMemoryStore()
	defer kv.Close()
	seedTimeline(t, kv,
		&core.Content{ID: "a", CreatedAt: 100},
		&core.Content{ID: "b", CreatedAt: 200},
		&core.Content{ID: "c", CreatedAt: 300},
	)

	s := &Store{KV: kv, MaxItems: 10}
	fctx := sourceContext()
	fctx.Runtime = &core.Runtime{Limit: 1}

	items, err := s.Fetch(context.Background(), fctx)
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if got := itemIDs(items); len(got) != 1 || got[0] != "c" {
		t.Errorf("items = %v, want just the newest entry", got)
	}
}

func TestStoreSource_MissingHashEntriesSkipped(t *testing.T) {
	kv := store.NewMemoryStore()
	defer kv.Close()
	seedTimeline(t, kv, &core.Content{ID: "a", CreatedAt: 100})
	// 时间线里有 ID 但 Hash 里没有对应内容
	if err := kv.ZAdd(context.Background(), "feed:timeline", 200, "ghost"); err != nil {
		t.Fatalf("zadd: %v", err)
	}

	s := &Store{KV: kv}
	items, err := s.Fetch(context.Background(), sourceContext())
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if got := itemIDs(items); len(got) != 1 || got[0] != "a" {
		t.Errorf("items = %v, want dangling timeline entries skipped", got)
	}
}

func TestStoreSource_EmptyStoreYieldsEmpty(t *testing.T) {
	kv := store.NewMemoryStore()
	defer kv.Close()

	s := &Store{KV: kv}
	items, err := s.Fetch(context.Background(), sourceContext())
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("got %d items, want none", len(items))
	}
}
