package pipeline

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"github.com/rushteam/feedkit/core"
)

// FeedDefinition 是注册一个 feed 所需的全部内容。
type FeedDefinition struct {
	Name        string
	Description string

	Source     Source
	Stages     []Stage
	Sorter     Stage
	Decorators []Stage

	// Config 注册态默认配置，Run 时与调用方覆盖合并。
	Config *core.FeedConfig
	// Schema 对外暴露的可配置面，缺省使用引擎默认 schema。
	Schema core.ConfigSchema
	// Hooks 注册态钩子，Run 时可被调用方覆盖。
	Hooks core.Hooks
}

// PublicDefinition 是 feed 的对外只读描述。返回的是副本，
// 调用方改动不会影响注册态。
type PublicDefinition struct {
	Name        string
	Description string
	Config      core.FeedConfig
	Schema      core.ConfigSchema
}

// RunOptions 是一次 Run 的调用方覆盖项，全部可选。
type RunOptions struct {
	Config  *core.FeedConfig
	Hooks   *core.Hooks
	Runtime *core.Runtime
}

// Result 是一次 Run 的输出：最终条目、投影出的内容列表、合并后的
// 配置与 why-log 快照。
type Result struct {
	Feed    string
	Items   []*core.Item
	Content []*core.Content
	Config  core.FeedConfig
	Why     []core.WhyRecord
}

type registration struct {
	def    FeedDefinition
	config core.FeedConfig
	schema core.ConfigSchema
}

// Engine 维护 feed 注册表并驱动管道执行。
// 注册通常发生在启动期，Run 并发安全。
type Engine struct {
	mu         sync.RWMutex
	feeds      map[string]*registration
	logger     *slog.Logger
	moderation core.ModerationService
}

// Option 配置 Engine。
type Option func(*Engine)

// WithLogger 注入结构化日志。
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// WithModerationService 注入审核信号服务，供审核阶段使用。
func WithModerationService(svc core.ModerationService) Option {
	return func(e *Engine) { e.moderation = svc }
}

// New 创建引擎。
func New(opts ...Option) *Engine {
	e := &Engine{
		feeds:  make(map[string]*registration),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// RegisterFeed 注册一个 feed，返回注册后的对外描述副本。
// 同名重复注册返回 DUPLICATE_FEED（注册不是幂等操作），
// 缺少来源返回 MISSING_SOURCE。
func (e *Engine) RegisterFeed(def FeedDefinition) (*PublicDefinition, error) {
	if def.Name == "" {
		return nil, core.NewDomainError(core.ModuleEngine, core.ErrorCodeInvalidInput,
			"feed name must not be empty")
	}
	if def.Source == nil {
		return nil, core.NewDomainError(core.ModuleEngine, core.ErrorCodeMissingSource,
			"feed "+def.Name+" has no source")
	}

	// 阶段列表在注册时压缩掉 nil 项，执行期不再防御
	def.Stages = compactStages(def.Stages)
	def.Decorators = compactStages(def.Decorators)

	cfg := core.DefaultFeedConfig()
	cfg = core.MergeConfig(cfg, def.Config)
	schema := def.Schema
	if schema == nil {
		schema = core.DefaultConfigSchema()
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.feeds[def.Name]; ok {
		return nil, core.NewDuplicateFeedError(def.Name)
	}
	reg := &registration{def: def, config: cfg, schema: schema}
	e.feeds[def.Name] = reg
	return reg.public(), nil
}

// GetFeedDefinition 返回 feed 的对外描述副本。
func (e *Engine) GetFeedDefinition(name string) (*PublicDefinition, error) {
	e.mu.RLock()
	reg, ok := e.feeds[name]
	e.mu.RUnlock()
	if !ok {
		return nil, core.NewUnknownFeedError(name)
	}
	return reg.public(), nil
}

// ListFeeds 返回全部已注册 feed 的描述，按名称排序。
func (e *Engine) ListFeeds() []PublicDefinition {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]PublicDefinition, 0, len(e.feeds))
	for _, reg := range e.feeds {
		out = append(out, *reg.public())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (r *registration) public() *PublicDefinition {
	cfg := r.config
	cfg.ActorFilters = append([]string(nil), r.config.ActorFilters...)
	cfg.TagFilters = append([]string(nil), r.config.TagFilters...)
	cfg.EducationalTags = append([]string(nil), r.config.EducationalTags...)
	cfg.DisallowedWarnings = append([]string(nil), r.config.DisallowedWarnings...)
	return &PublicDefinition{
		Name:        r.def.Name,
		Description: r.def.Description,
		Config:      cfg,
		Schema:      r.schema.Clone(),
	}
}

// Run 执行指定 feed 的完整管道：来源 -> 各阶段 -> 排序 -> 修饰。
//
// 容错契约：阶段返回错误时记录日志并沿用上一阶段的结果继续；
// 阶段返回 nil（无错误）同样沿用上一阶段结果。配置类错误
//（未知 feed）同步返回。
func (e *Engine) Run(ctx context.Context, name string, opts *RunOptions) (*Result, error) {
	e.mu.RLock()
	reg, ok := e.feeds[name]
	e.mu.RUnlock()
	if !ok {
		return nil, core.NewUnknownFeedError(name)
	}

	if opts == nil {
		opts = &RunOptions{}
	}

	fctx := core.NewFeedContext(name, core.MergeConfig(reg.config, opts.Config), e.logger)
	fctx.Hooks = core.MergeHooks(reg.def.Hooks, opts.Hooks)
	if opts.Runtime != nil {
		fctx.Runtime = opts.Runtime
	}
	fctx.Moderation = e.moderation

	items, err := reg.def.Source.Fetch(ctx, fctx)
	if err != nil {
		fctx.Logger.Warn("source failed, starting with empty candidates",
			"source", reg.def.Source.Name(), "err", err)
		fctx.AddWhy(core.WhyRecord{
			Stage:  reg.def.Source.Name(),
			Type:   "stage-error",
			Reason: err.Error(),
		})
		items = nil
	}
	items = normalize(items)

	items = e.fold(ctx, fctx, reg.def.Stages, items)
	if reg.def.Sorter != nil {
		items = e.fold(ctx, fctx, []Stage{reg.def.Sorter}, items)
	}
	items = e.fold(ctx, fctx, reg.def.Decorators, items)

	content := make([]*core.Content, 0, len(items))
	for _, it := range items {
		if it.Content != nil {
			content = append(content, it.Content)
		}
	}

	return &Result{
		Feed:    name,
		Items:   items,
		Content: content,
		Config:  fctx.Config,
		Why:     fctx.Why(),
	}, nil
}

// compactStages 返回去掉 nil 项的副本，空结果返回 nil。
func compactStages(stages []Stage) []Stage {
	out := make([]Stage, 0, len(stages))
	for _, st := range stages {
		if st != nil {
			out = append(out, st)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func (e *Engine) fold(ctx context.Context, fctx *core.FeedContext, stages []Stage, items []*core.Item) []*core.Item {
	cur := items
	for _, st := range stages {
		next, err := st.Process(ctx, fctx, cur)
		if err != nil {
			fctx.Logger.Warn("stage failed, keeping previous items",
				"stage", st.Name(), "kind", string(st.Kind()), "err", err)
			fctx.AddWhy(core.WhyRecord{
				Stage:  st.Name(),
				Type:   "stage-error",
				Reason: err.Error(),
			})
			continue
		}
		if next == nil {
			continue
		}
		cur = normalize(next)
	}
	return cur
}

// normalize 丢弃既无内容又无指针的候选。
func normalize(items []*core.Item) []*core.Item {
	out := items[:0]
	for _, it := range items {
		if it == nil || (it.Content == nil && it.Pointer == nil) {
			continue
		}
		out = append(out, it)
	}
	return out
}
