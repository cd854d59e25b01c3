package core

import "time"

// FeedConfig 是单个 feed 的运行配置，注册时的默认值与调用方覆盖合并后
// 进入 FeedContext（调用方优先）。
type FeedConfig struct {
	TimeWindow         time.Duration // 0 表示不限制时间窗口
	ActorFilters       []string      // 可选的作者白名单
	TagFilters         []string
	SortOrder          string // 目前只有 "recent"
	AgeGroup           string // 儿童 feed 专用
	EducationalTags    []string
	DisallowedWarnings []string
	Extra              map[string]any
}

// DefaultFeedConfig 返回引擎级默认配置。
func DefaultFeedConfig() FeedConfig {
	return FeedConfig{
		TimeWindow:   0,
		ActorFilters: []string{},
		TagFilters:   []string{},
		SortOrder:    "recent",
	}
}

// MergeConfig 合并默认配置与覆盖项，覆盖项的非零字段优先。
func MergeConfig(base FeedConfig, override *FeedConfig) FeedConfig {
	merged := base
	if override == nil {
		return merged
	}
	if override.TimeWindow != 0 {
		merged.TimeWindow = override.TimeWindow
	}
	if override.ActorFilters != nil {
		merged.ActorFilters = override.ActorFilters
	}
	if override.TagFilters != nil {
		merged.TagFilters = override.TagFilters
	}
	if override.SortOrder != "" {
		merged.SortOrder = override.SortOrder
	}
	if override.AgeGroup != "" {
		merged.AgeGroup = override.AgeGroup
	}
	if override.EducationalTags != nil {
		merged.EducationalTags = override.EducationalTags
	}
	if override.DisallowedWarnings != nil {
		merged.DisallowedWarnings = override.DisallowedWarnings
	}
	if override.Extra != nil {
		if merged.Extra == nil {
			merged.Extra = make(map[string]any, len(override.Extra))
		}
		for k, v := range override.Extra {
			merged.Extra[k] = v
		}
	}
	return merged
}

// SchemaField 描述一个配置字段，用于对外暴露 feed 的可配置面。
type SchemaField struct {
	Type        string   `yaml:"type" json:"type"`
	Description string   `yaml:"description" json:"description"`
	Values      []string `yaml:"values,omitempty" json:"values,omitempty"`
	Default     any      `yaml:"default" json:"default"`
}

// ConfigSchema 是字段名到描述的映射。
type ConfigSchema map[string]SchemaField

// DefaultConfigSchema 返回引擎级默认配置 schema。
func DefaultConfigSchema() ConfigSchema {
	return ConfigSchema{
		"timeWindow": {
			Type:        "relative-window",
			Description: "Restrict results to a rolling time window (e.g., last 24 hours).",
			Default:     nil,
		},
		"actorFilters": {
			Type:        "string[]",
			Description: "Optional list of author pubkeys to include in the feed.",
			Default:     []string{},
		},
		"tagFilters": {
			Type:        "string[]",
			Description: "Optional list of tag identifiers to include in the feed.",
			Default:     []string{},
		},
		"sortOrder": {
			Type:        "enum",
			Values:      []string{"recent"},
			Description: "Controls the final ordering of the feed. Currently only 'recent' is implemented.",
			Default:     "recent",
		},
	}
}

// Clone 返回 schema 的浅拷贝，避免对外暴露可写内部表。
func (s ConfigSchema) Clone() ConfigSchema {
	if s == nil {
		return nil
	}
	out := make(ConfigSchema, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}
