package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/rushteam/feedkit/core"
)

// Config 是 feed 注册表的配置结构（支持 YAML/JSON）。
type Config struct {
	Feeds []FeedConfigEntry `yaml:"feeds" json:"feeds"`
}

// FeedConfigEntry 是单个 feed 的声明式定义。
type FeedConfigEntry struct {
	Name        string            `yaml:"name" json:"name"`
	Description string            `yaml:"description" json:"description"`
	Source      StageConfig       `yaml:"source" json:"source"`
	Stages      []StageConfig     `yaml:"stages" json:"stages"`
	Sorter      *StageConfig      `yaml:"sorter" json:"sorter"`
	Decorators  []StageConfig     `yaml:"decorators" json:"decorators"`
	Config      map[string]any    `yaml:"config" json:"config"`
	Schema      core.ConfigSchema `yaml:"schema" json:"schema"`
}

// StageConfig 是单个 Stage/Source 的配置。
type StageConfig struct {
	Type   string         `yaml:"type" json:"type"`     // filter.blacklist / rank.chronological 等
	Config map[string]any `yaml:"config" json:"config"` // Stage 特定配置
}

// LoadFromYAML 从 YAML 文件加载 feed 配置。
func LoadFromYAML(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}

	return &cfg, nil
}

// LoadFromJSON 从 JSON 文件加载 feed 配置。
func LoadFromJSON(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}

	return &cfg, nil
}

// Register 把配置中的全部 feed 构建并注册到引擎。
// 注意：factory 的构建器注册在独立的 config 包中，避免循环依赖。
func (c *Config) Register(e *Engine, factory *StageFactory) error {
	for _, fc := range c.Feeds {
		def, err := fc.Build(factory)
		if err != nil {
			return fmt.Errorf("build feed %s: %w", fc.Name, err)
		}
		if _, err := e.RegisterFeed(*def); err != nil {
			return err
		}
	}
	return nil
}

// Build 根据声明式配置构建 FeedDefinition。
func (fc *FeedConfigEntry) Build(factory *StageFactory) (*FeedDefinition, error) {
	def := &FeedDefinition{
		Name:        fc.Name,
		Description: fc.Description,
		Schema:      fc.Schema,
	}

	if fc.Source.Type != "" {
		src, err := factory.BuildSource(fc.Source.Type, fc.Source.Config)
		if err != nil {
			return nil, fmt.Errorf("build source %s: %w", fc.Source.Type, err)
		}
		def.Source = src
	}

	for _, sc := range fc.Stages {
		st, err := factory.Build(sc.Type, sc.Config)
		if err != nil {
			return nil, fmt.Errorf("build stage %s: %w", sc.Type, err)
		}
		def.Stages = append(def.Stages, st)
	}

	if fc.Sorter != nil {
		st, err := factory.Build(fc.Sorter.Type, fc.Sorter.Config)
		if err != nil {
			return nil, fmt.Errorf("build sorter %s: %w", fc.Sorter.Type, err)
		}
		def.Sorter = st
	}

	for _, sc := range fc.Decorators {
		st, err := factory.Build(sc.Type, sc.Config)
		if err != nil {
			return nil, fmt.Errorf("build decorator %s: %w", sc.Type, err)
		}
		def.Decorators = append(def.Decorators, st)
	}

	if fc.Config != nil {
		cfg, err := DecodeFeedConfig(fc.Config)
		if err != nil {
			return nil, fmt.Errorf("decode config for feed %s: %w", fc.Name, err)
		}
		def.Config = cfg
	}

	return def, nil
}

// DecodeFeedConfig 把松散的 map 配置解析为 FeedConfig。
func DecodeFeedConfig(m map[string]any) (*core.FeedConfig, error) {
	cfg := &core.FeedConfig{}
	for k, v := range m {
		switch k {
		case "timeWindow":
			switch tv := v.(type) {
			case string:
				d, err := time.ParseDuration(tv)
				if err != nil {
					return nil, fmt.Errorf("timeWindow: %w", err)
				}
				cfg.TimeWindow = d
			case int:
				cfg.TimeWindow = time.Duration(tv) * time.Second
			case nil:
			default:
				return nil, fmt.Errorf("timeWindow: unsupported type %T", v)
			}
		case "actorFilters":
			cfg.ActorFilters = toStringSlice(v)
		case "tagFilters":
			cfg.TagFilters = toStringSlice(v)
		case "sortOrder":
			if s, ok := v.(string); ok {
				cfg.SortOrder = s
			}
		case "ageGroup":
			if s, ok := v.(string); ok {
				cfg.AgeGroup = s
			}
		case "educationalTags":
			cfg.EducationalTags = toStringSlice(v)
		case "disallowedWarnings":
			cfg.DisallowedWarnings = toStringSlice(v)
		default:
			if cfg.Extra == nil {
				cfg.Extra = make(map[string]any)
			}
			cfg.Extra[k] = v
		}
	}
	return cfg, nil
}

func toStringSlice(v any) []string {
	switch sv := v.(type) {
	case []string:
		return sv
	case []any:
		out := make([]string, 0, len(sv))
		for _, e := range sv {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// StageFactory 用于根据配置构建 Stage/Source 实例。
type StageFactory struct {
	stages  map[string]func(map[string]any) (Stage, error)
	sources map[string]func(map[string]any) (Source, error)
}

func NewStageFactory() *StageFactory {
	return &StageFactory{
		stages:  make(map[string]func(map[string]any) (Stage, error)),
		sources: make(map[string]func(map[string]any) (Source, error)),
	}
}

// Register 注册 Stage 构建器。
func (f *StageFactory) Register(stageType string, builder func(map[string]any) (Stage, error)) {
	f.stages[stageType] = builder
}

// RegisterSource 注册 Source 构建器。
func (f *StageFactory) RegisterSource(sourceType string, builder func(map[string]any) (Source, error)) {
	f.sources[sourceType] = builder
}

// Build 根据类型和配置构建 Stage。
func (f *StageFactory) Build(stageType string, config map[string]any) (Stage, error) {
	builder, ok := f.stages[stageType]
	if !ok {
		return nil, fmt.Errorf("unknown stage type: %s", stageType)
	}
	return builder(config)
}

// BuildSource 根据类型和配置构建 Source。
func (f *StageFactory) BuildSource(sourceType string, config map[string]any) (Source, error) {
	builder, ok := f.sources[sourceType]
	if !ok {
		return nil, fmt.Errorf("unknown source type: %s", sourceType)
	}
	return builder(config)
}
