package config

import (
	"fmt"
	"sort"
	"sync"

	"github.com/rushteam/feedkit/pipeline"
)

// 使用配置驱动时，需在 main 或入口处 import _ "github.com/rushteam/feedkit/config/builders"
// 以触发内置 Stage（filter.blacklist、moderation.stage、score.kids、
// rank.chronological 等）的 init 注册。

// StageBuilder 根据配置构建 Stage，各组件在 init 中调用
// Register(typeName, builder) 即可被配置驱动。
type StageBuilder = func(map[string]any) (pipeline.Stage, error)

// SourceBuilder 根据配置构建候选源。
type SourceBuilder = func(map[string]any) (pipeline.Source, error)

var (
	defaultStages  = make(map[string]StageBuilder)
	defaultSources = make(map[string]SourceBuilder)
	defaultMu      sync.RWMutex
)

// Register 注册一种 Stage 的构建逻辑，供 DefaultFactory 与配置驱动使用。
// 建议在各组件的 init 中调用，
// 例如：func init() { config.Register("filter.dedupe_by_root", BuildDedupeByRoot) }
func Register(typeName string, builder StageBuilder) {
	if typeName == "" || builder == nil {
		return
	}
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultStages[typeName] = builder
}

// RegisterSource 注册一种候选源的构建逻辑。
// 需要外部依赖（内容服务、存储连接）的源由应用侧在此注册闭包。
func RegisterSource(typeName string, builder SourceBuilder) {
	if typeName == "" || builder == nil {
		return
	}
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultSources[typeName] = builder
}

// SupportedTypes 返回当前已注册的 Stage 类型列表（排序），用于错误提示与校验。
func SupportedTypes() []string {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	types := make([]string, 0, len(defaultStages))
	for t := range defaultStages {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// SupportedSources 返回当前已注册的候选源类型列表（排序）。
func SupportedSources() []string {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	types := make([]string, 0, len(defaultSources))
	for t := range defaultSources {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// DefaultFactory 返回基于当前注册表构建的 StageFactory，
// 包含所有通过 Register / RegisterSource 注册的类型。
func DefaultFactory() *pipeline.StageFactory {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	f := pipeline.NewStageFactory()
	for typeName, builder := range defaultStages {
		f.Register(typeName, builder)
	}
	for typeName, builder := range defaultSources {
		f.RegisterSource(typeName, builder)
	}
	return f
}

// ValidateConfig 校验配置中所有 stage/source 类型均已注册；
// 有未支持类型时返回包含已支持列表的错误。
func ValidateConfig(cfg *pipeline.Config) error {
	if cfg == nil {
		return nil
	}
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	for _, feed := range cfg.Feeds {
		if feed.Source.Type != "" {
			if _, ok := defaultSources[feed.Source.Type]; !ok {
				return fmt.Errorf("feed %q: unsupported source type %q (supported: %v)",
					feed.Name, feed.Source.Type, sortedKeys(defaultSources))
			}
		}
		stageConfigs := make([]pipeline.StageConfig, 0, len(feed.Stages)+len(feed.Decorators)+1)
		stageConfigs = append(stageConfigs, feed.Stages...)
		if feed.Sorter != nil {
			stageConfigs = append(stageConfigs, *feed.Sorter)
		}
		stageConfigs = append(stageConfigs, feed.Decorators...)
		for _, sc := range stageConfigs {
			if sc.Type == "" {
				continue
			}
			if _, ok := defaultStages[sc.Type]; !ok {
				return fmt.Errorf("feed %q: unsupported stage type %q (supported: %v)",
					feed.Name, sc.Type, sortedKeys(defaultStages))
			}
		}
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
