package filter

import (
	"context"
	"testing"

	"github.com/rushteam/feedkit/core"
)

func tagContext(prefs *core.TagPreferences) *core.FeedContext {
	fctx := core.NewFeedContext("test", core.DefaultFeedConfig(), nil)
	fctx.Runtime = &core.Runtime{TagPreferences: prefs}
	return fctx
}

func TestTagPreference_DisinterestWinsOverInterest(t *testing.T) {
	fctx := tagContext(&core.TagPreferences{
		Interests:    []string{"music"},
		Disinterests: []string{"gaming"},
		Available:    true,
	})

	// 同时命中兴趣与不感兴趣：不感兴趣优先，候选被剔除
	item := core.NewItem(&core.Content{ID: "v1", Tags: []string{"music", "gaming"}})
	out, err := NewTagPreference().Process(context.Background(), fctx, []*core.Item{item})
	if err != nil {
		t.Fatalf("process failed: %v", err)
	}
	if len(out) != 0 {
		t.Fatal("disinterest hit must win over interest hit")
	}

	why := fctx.Why()
	if len(why) != 1 || why[0].Reason != "disinterested-tag" || why[0].Fields["tag"] != "gaming" {
		t.Errorf("unexpected why records: %+v", why)
	}
}

func TestTagPreference_EnforceInterests(t *testing.T) {
	fctx := tagContext(&core.TagPreferences{
		Interests: []string{"music", "art"},
		Available: true,
	})

	match := core.NewItem(&core.Content{ID: "v1", Tags: []string{"Art"}})
	miss := core.NewItem(&core.Content{ID: "v2", Tags: []string{"gaming"}})

	out, err := NewTagPreference().Process(context.Background(), fctx, []*core.Item{match, miss})
	if err != nil {
		t.Fatalf("process failed: %v", err)
	}
	if len(out) != 1 || out[0].ContentID() != "v1" {
		t.Fatalf("got %d items, want only v1", len(out))
	}
	if got := out[0].Metadata.MatchedInterests; len(got) != 1 || got[0] != "art" {
		t.Errorf("matched interests = %v, want [art]", got)
	}
}

func TestTagPreference_DisinterestOnlyKeepsNonMatching(t *testing.T) {
	fctx := tagContext(&core.TagPreferences{
		Interests:    []string{"music"},
		Disinterests: []string{"gaming"},
		Available:    true,
	})

	// 非强制版本：零兴趣命中也保留
	item := core.NewItem(&core.Content{ID: "v1", Tags: []string{"cooking"}})
	out, err := NewDisinterest().Process(context.Background(), fctx, []*core.Item{item})
	if err != nil {
		t.Fatalf("process failed: %v", err)
	}
	if len(out) != 1 {
		t.Fatal("disinterest-only filter must keep items without interest hits")
	}
}

func TestTagPreference_UnavailablePrefsPassThrough(t *testing.T) {
	tests := []struct {
		name  string
		prefs *core.TagPreferences
	}{
		{"nil prefs", nil},
		{"not available", &core.TagPreferences{Interests: []string{"music"}, Available: false}},
		{"empty lists", &core.TagPreferences{Available: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fctx := tagContext(tt.prefs)
			item := core.NewItem(&core.Content{ID: "v1", Tags: []string{"anything"}})
			out, err := NewTagPreference().Process(context.Background(), fctx, []*core.Item{item})
			if err != nil {
				t.Fatalf("process failed: %v", err)
			}
			if len(out) != 1 {
				t.Error("filter must pass through when preferences are unusable")
			}
		})
	}
}

func TestTagPreference_HashtagFallbackMatches(t *testing.T) {
	fctx := tagContext(&core.TagPreferences{
		Interests: []string{"#Music"},
		Available: true,
	})

	item := core.NewItem(&core.Content{ID: "v1", Hashtags: []string{"MUSIC"}})
	out, err := NewTagPreference().Process(context.Background(), fctx, []*core.Item{item})
	if err != nil {
		t.Fatalf("process failed: %v", err)
	}
	if len(out) != 1 {
		t.Fatal("hashtag list must participate in matching after normalization")
	}
}
