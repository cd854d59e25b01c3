package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rushteam/feedkit/core"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return path
}

func testFactory() *StageFactory {
	f := NewStageFactory()
	f.RegisterSource("source.test", func(cfg map[string]any) (Source, error) {
		return staticSource(&core.Content{ID: "a", CreatedAt: 100}), nil
	})
	f.Register("stage.noop", func(cfg map[string]any) (Stage, error) {
		return StageFunc{
			StageName: "stage.noop",
			StageKind: KindAnnotate,
			Fn: func(_ context.Context, _ *core.FeedContext, items []*core.Item) ([]*core.Item, error) {
				return items, nil
			},
		}, nil
	})
	return f
}

func TestLoadFromYAML(t *testing.T) {
	path := writeTempFile(t, "feeds.yaml", `
feeds:
  - name: recent
    description: newest first
    source:
      type: source.test
    stages:
      - type: stage.noop
    config:
      timeWindow: 24h
      ageGroup: preschool
`)

	cfg, err := LoadFromYAML(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(cfg.Feeds) != 1 {
		t.Fatalf("got %d feeds, want 1", len(cfg.Feeds))
	}

	fc := cfg.Feeds[0]
	if fc.Name != "recent" || fc.Source.Type != "source.test" || len(fc.Stages) != 1 {
		t.Errorf("unexpected feed entry: %+v", fc)
	}
}

func TestLoadFromYAML_BadFile(t *testing.T) {
	if _, err := LoadFromYAML(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected an error for a missing file")
	}

	path := writeTempFile(t, "broken.yaml", "feeds: [unclosed")
	if _, err := LoadFromYAML(path); err == nil {
		t.Error("expected a parse error")
	}
}

func TestLoadFromJSON(t *testing.T) {
	path := writeTempFile(t, "feeds.json", `{
  "feeds": [
    {"name": "recent", "source": {"type": "source.test"}}
  ]
}`)

	cfg, err := LoadFromJSON(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(cfg.Feeds) != 1 || cfg.Feeds[0].Name != "recent" {
		t.Errorf("unexpected config: %+v", cfg)
	}
}

func TestDecodeFeedConfig_TimeWindow(t *testing.T) {
	tests := []struct {
		name    string
		value   any
		want    time.Duration
		wantErr bool
	}{
		{"duration string", "24h", 24 * time.Hour, false},
		{"int seconds", 3600, time.Hour, false},
		{"nil ignored", nil, 0, false},
		{"bad string", "soon", 0, true},
		{"unsupported type", 1.5, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := DecodeFeedConfig(map[string]any{"timeWindow": tt.value})
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("decode failed: %v", err)
			}
			if cfg.TimeWindow != tt.want {
				t.Errorf("timeWindow = %v, want %v", cfg.TimeWindow, tt.want)
			}
		})
	}
}

func TestDecodeFeedConfig_Fields(t *testing.T) {
	cfg, err := DecodeFeedConfig(map[string]any{
		"sortOrder":          "recent",
		"ageGroup":           "toddler",
		"actorFilters":       []any{"alice", "bob"},
		"educationalTags":    []string{"abc"},
		"disallowedWarnings": []any{"nsfw"},
		"custom":             42,
	})
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	if cfg.SortOrder != "recent" || cfg.AgeGroup != "toddler" {
		t.Errorf("scalar fields not decoded: %+v", cfg)
	}
	if len(cfg.ActorFilters) != 2 || cfg.ActorFilters[0] != "alice" {
		t.Errorf("actorFilters = %v", cfg.ActorFilters)
	}
	if len(cfg.EducationalTags) != 1 || len(cfg.DisallowedWarnings) != 1 {
		t.Errorf("list fields not decoded: %+v", cfg)
	}
	// 未知键落入 Extra 透传给自定义阶段
	if cfg.Extra["custom"] != 42 {
		t.Errorf("extra = %v, want custom key preserved", cfg.Extra)
	}
}

func TestConfigRegister_BuildsAndRegisters(t *testing.T) {
	cfg := &Config{
		Feeds: []FeedConfigEntry{
			{
				Name:   "recent",
				Source: StageConfig{Type: "source.test"},
				Stages: []StageConfig{{Type: "stage.noop"}},
				Config: map[string]any{"ageGroup": "preschool"},
			},
		},
	}

	e := New()
	if err := cfg.Register(e, testFactory()); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	result, err := e.Run(context.Background(), "recent", nil)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if len(result.Items) != 1 {
		t.Errorf("got %d items, want 1", len(result.Items))
	}
	if result.Config.AgeGroup != "preschool" {
		t.Errorf("ageGroup = %q, want preschool", result.Config.AgeGroup)
	}
}

func TestStageFactory_UnknownTypes(t *testing.T) {
	f := testFactory()

	if _, err := f.Build("stage.nope", nil); err == nil {
		t.Error("expected an error for an unknown stage type")
	}
	if _, err := f.BuildSource("source.nope", nil); err == nil {
		t.Error("expected an error for an unknown source type")
	}

	cfg := &Config{
		Feeds: []FeedConfigEntry{
			{Name: "broken", Source: StageConfig{Type: "source.nope"}},
		},
	}
	if err := cfg.Register(New(), f); err == nil {
		t.Error("register must surface builder errors")
	}
}
