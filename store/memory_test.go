package store

import (
	"context"
	"reflect"
	"testing"

	"github.com/rushteam/feedkit/core"
)

func TestMemoryStore_SetGetDelete(t *testing.T) {
	ms := NewMemoryStore()
	defer ms.Close()
	ctx := context.Background()

	if _, err := ms.Get(ctx, "missing"); !core.IsStoreNotFound(err) {
		t.Errorf("get missing key: err = %v, want store-not-found", err)
	}

	if err := ms.Set(ctx, "k", []byte("v")); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	got, err := ms.Get(ctx, "k")
	if err != nil || string(got) != "v" {
		t.Errorf("get = %q, %v, want v", got, err)
	}

	if err := ms.Delete(ctx, "k"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := ms.Get(ctx, "k"); !core.IsStoreNotFound(err) {
		t.Errorf("get after delete: err = %v, want store-not-found", err)
	}
}

func TestMemoryStore_BatchOps(t *testing.T) {
	ms := NewMemoryStore()
	defer ms.Close()
	ctx := context.Background()

	kvs := map[string][]byte{"a": []byte("1"), "b": []byte("2")}
	if err := ms.BatchSet(ctx, kvs); err != nil {
		t.Fatalf("batch set failed: %v", err)
	}

	got, err := ms.BatchGet(ctx, []string{"a", "b", "missing"})
	if err != nil {
		t.Fatalf("batch get failed: %v", err)
	}
	// 缺失的 key 被跳过而不是报错
	if !reflect.DeepEqual(got, kvs) {
		t.Errorf("batch get = %v, want %v", got, kvs)
	}
}

func TestMemoryStore_ZSetNewestFirst(t *testing.T) {
	ms := NewMemoryStore()
	defer ms.Close()
	ctx := context.Background()

	for member, score := range map[string]float64{"old": 100, "new": 300, "mid": 200} {
		if err := ms.ZAdd(ctx, "timeline", score, member); err != nil {
			t.Fatalf("zadd failed: %v", err)
		}
	}

	got, err := ms.ZRange(ctx, "timeline", 0, -1)
	if err != nil {
		t.Fatalf("zrange failed: %v", err)
	}
	if !reflect.DeepEqual(got, []string{"new", "mid", "old"}) {
		t.Errorf("zrange = %v, want score descending", got)
	}

	got, err = ms.ZRange(ctx, "timeline", 0, 1)
	if err != nil {
		t.Fatalf("zrange failed: %v", err)
	}
	if !reflect.DeepEqual(got, []string{"new", "mid"}) {
		t.Errorf("zrange slice = %v, want top two", got)
	}

	score, err := ms.ZScore(ctx, "timeline", "mid")
	if err != nil || score != 200 {
		t.Errorf("zscore = %v, %v, want 200", score, err)
	}
	if _, err := ms.ZScore(ctx, "timeline", "ghost"); !core.IsStoreNotFound(err) {
		t.Errorf("zscore missing member: err = %v, want store-not-found", err)
	}
}

func TestMemoryStore_ZRangeTieBreak(t *testing.T) {
	ms := NewMemoryStore()
	defer ms.Close()
	ctx := context.Background()

	for _, member := range []string{"b", "a", "c"} {
		if err := ms.ZAdd(ctx, "z", 100, member); err != nil {
			t.Fatalf("zadd failed: %v", err)
		}
	}

	got, err := ms.ZRange(ctx, "z", 0, -1)
	if err != nil {
		t.Fatalf("zrange failed: %v", err)
	}
	if !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Errorf("zrange = %v, want member tie-break", got)
	}
}

func TestMemoryStore_HashOps(t *testing.T) {
	ms := NewMemoryStore()
	defer ms.Close()
	ctx := context.Background()

	if err := ms.HSet(ctx, "h", "f1", []byte("v1")); err != nil {
		t.Fatalf("hset failed: %v", err)
	}
	if err := ms.HSet(ctx, "h", "f2", []byte("v2")); err != nil {
		t.Fatalf("hset failed: %v", err)
	}

	got, err := ms.HGet(ctx, "h", "f1")
	if err != nil || string(got) != "v1" {
		t.Errorf("hget = %q, %v, want v1", got, err)
	}
	if _, err := ms.HGet(ctx, "h", "ghost"); !core.IsStoreNotFound(err) {
		t.Errorf("hget missing field: err = %v, want store-not-found", err)
	}

	all, err := ms.HGetAll(ctx, "h")
	if err != nil {
		t.Fatalf("hgetall failed: %v", err)
	}
	want := map[string][]byte{"f1": []byte("v1"), "f2": []byte("v2")}
	if !reflect.DeepEqual(all, want) {
		t.Errorf("hgetall = %v, want %v", all, want)
	}
}
