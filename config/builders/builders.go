// Package builders 在 init 中注册所有内置 Stage 的配置构建器。
// 配置驱动的应用以空白导入方式引入：
//
//	import _ "github.com/rushteam/feedkit/config/builders"
//
// 需要外部依赖的候选源（内容服务、KV 存储、观看队列）不在此注册，
// 由应用侧用 config.RegisterSource 注册闭包。
package builders

import (
	"fmt"
	"time"

	"github.com/rushteam/feedkit/annotate"
	"github.com/rushteam/feedkit/config"
	"github.com/rushteam/feedkit/core"
	"github.com/rushteam/feedkit/filter"
	"github.com/rushteam/feedkit/moderation"
	"github.com/rushteam/feedkit/pipeline"
	"github.com/rushteam/feedkit/pkg/conv"
	"github.com/rushteam/feedkit/rank"
	"github.com/rushteam/feedkit/score"
	"github.com/rushteam/feedkit/source"
)

func init() {
	config.Register("filter.blacklist", BuildBlacklist)
	config.Register("filter.tag_preference", BuildTagPreference)
	config.Register("filter.disinterest", BuildDisinterest)
	config.Register("filter.dedupe_by_root", BuildDedupeByRoot)
	config.Register("filter.watch_history", BuildWatchHistory)
	config.Register("filter.kids_audience", BuildKidsAudience)
	config.Register("filter.expr", BuildExpr)
	config.Register("moderation.stage", BuildModeration)
	config.Register("annotate.posted_at", BuildPostedAt)
	config.Register("score.kids", BuildKidsScore)
	config.Register("score.explore", BuildExploreScore)
	config.Register("rank.chronological", BuildChronological)
	config.Register("rank.diversity", BuildDiversity)
	config.Register("rank.kids_score", BuildKidsRank)
	config.Register("decorate.limit", BuildLimit)

	config.RegisterSource("source.static", BuildStaticSource)
}

func BuildBlacklist(cfg map[string]any) (pipeline.Stage, error) {
	ids := conv.SliceAnyToString(cfg["ids"])
	if ids == nil {
		ids = []string{}
	}
	key := conv.ConfigGet(cfg, "key", "")
	return filter.NewBlacklist(ids, nil, key), nil
}

func BuildTagPreference(map[string]any) (pipeline.Stage, error) {
	return filter.NewTagPreference(), nil
}

func BuildDisinterest(map[string]any) (pipeline.Stage, error) {
	return filter.NewDisinterest(), nil
}

func BuildDedupeByRoot(map[string]any) (pipeline.Stage, error) {
	return &filter.DedupeByRoot{}, nil
}

func BuildWatchHistory(map[string]any) (pipeline.Stage, error) {
	return &filter.WatchHistory{}, nil
}

func BuildKidsAudience(cfg map[string]any) (pipeline.Stage, error) {
	return &filter.KidsAudience{
		AgeGroup: conv.ConfigGet(cfg, "age_group", ""),
	}, nil
}

func BuildExpr(cfg map[string]any) (pipeline.Stage, error) {
	expr := conv.ConfigGet(cfg, "expr", "")
	if expr == "" {
		return nil, fmt.Errorf("expr not found")
	}
	f, err := filter.NewExpr(expr)
	if err != nil {
		return nil, fmt.Errorf("compile expr: %w", err)
	}
	return &filter.Node{
		StageName: conv.ConfigGet(cfg, "name", "filter.expr"),
		Filters:   []filter.Filter{f},
	}, nil
}

func BuildModeration(cfg map[string]any) (pipeline.Stage, error) {
	return &moderation.Stage{
		AutoplayBlockThreshold:     int(conv.ConfigGetInt64(cfg, "autoplay_block_threshold", 0)),
		BlurThreshold:              int(conv.ConfigGetInt64(cfg, "blur_threshold", 0)),
		TrustedMuteHideThreshold:   int(conv.ConfigGetInt64(cfg, "trusted_mute_hide_threshold", 0)),
		TrustedReportHideThreshold: int(conv.ConfigGetInt64(cfg, "trusted_report_hide_threshold", 0)),
	}, nil
}

func BuildPostedAt(cfg map[string]any) (pipeline.Stage, error) {
	n := &annotate.PostedAt{
		MaxConcurrent: int(conv.ConfigGetInt64(cfg, "max_concurrent", 0)),
	}
	if sec := conv.ConfigGetInt64(cfg, "timeout", 0); sec > 0 {
		n.Timeout = time.Duration(sec) * time.Second
	}
	return n, nil
}

func BuildKidsScore(cfg map[string]any) (pipeline.Stage, error) {
	return &score.Kids{
		AgeGroup:              conv.ConfigGet(cfg, "age_group", ""),
		EducationalTags:       conv.SliceAnyToString(cfg["educational_tags"]),
		FreshnessHalfLifeDays: conv.ConfigGetFloat64(cfg, "freshness_half_life_days", 0),
		PopularityMax:         conv.ConfigGetFloat64(cfg, "popularity_max", 0),
	}, nil
}

func BuildExploreScore(cfg map[string]any) (pipeline.Stage, error) {
	return &score.Explore{
		FreshnessHalfLifeDays: conv.ConfigGetFloat64(cfg, "freshness_half_life_days", 0),
		PopularityMax:         conv.ConfigGetFloat64(cfg, "popularity_max", 0),
	}, nil
}

func BuildChronological(cfg map[string]any) (pipeline.Stage, error) {
	return &rank.Chronological{
		Ascending: conv.ConfigGet(cfg, "ascending", false),
	}, nil
}

func BuildDiversity(cfg map[string]any) (pipeline.Stage, error) {
	if v, ok := cfg["lambda"]; ok {
		lambda, ok := conv.ToFloat64(v)
		if !ok {
			return nil, fmt.Errorf("lambda: unsupported type %T", v)
		}
		return rank.NewDiversity(lambda), nil
	}
	return &rank.Diversity{}, nil
}

func BuildKidsRank(map[string]any) (pipeline.Stage, error) {
	return &rank.KidsScore{}, nil
}

func BuildLimit(cfg map[string]any) (pipeline.Stage, error) {
	return &rank.Limit{
		N: int(conv.ConfigGetInt64(cfg, "n", 0)),
	}, nil
}

func BuildStaticSource(cfg map[string]any) (pipeline.Source, error) {
	rows, ok := cfg["contents"].([]any)
	if !ok {
		return nil, fmt.Errorf("contents not found or invalid")
	}
	contents := make([]*core.Content, 0, len(rows))
	for _, row := range rows {
		m, ok := row.(map[string]any)
		if !ok {
			continue
		}
		contents = append(contents, &core.Content{
			ID:        conv.ConfigGet(m, "id", ""),
			RootID:    conv.ConfigGet(m, "root_id", ""),
			Author:    conv.ConfigGet(m, "author", ""),
			Title:     conv.ConfigGet(m, "title", ""),
			Tags:      conv.SliceAnyToString(m["tags"]),
			Hashtags:  conv.SliceAnyToString(m["hashtags"]),
			Duration:  conv.ConfigGetInt64(m, "duration", 0),
			CreatedAt: conv.ConfigGetInt64(m, "created_at", 0),
		})
	}
	return &source.Static{
		SourceName: conv.ConfigGet(cfg, "name", ""),
		Contents:   contents,
	}, nil
}
