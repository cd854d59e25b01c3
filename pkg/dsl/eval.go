package dsl

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/rushteam/feedkit/core"
)

var (
	// celEnv 是全局的 CEL 环境，线程安全，可复用
	celEnv     *cel.Env
	celEnvOnce sync.Once
)

// initCELEnv 初始化 CEL 环境，定义变量
func initCELEnv() (*cel.Env, error) {
	env, err := cel.NewEnv(
		cel.Variable("item", cel.DynType),
		cel.Variable("content", cel.DynType),
		cel.Variable("runtime", cel.DynType),
		cel.Variable("config", cel.DynType),
	)
	return env, err
}

// getCELEnv 获取或创建 CEL 环境
func getCELEnv() (*cel.Env, error) {
	var err error
	celEnvOnce.Do(func() {
		celEnv, err = initCELEnv()
	})
	return celEnv, err
}

// Program 是编译后的过滤表达式，可对多个候选复用。
// 表达式使用 CEL (Common Expression Language) 语法。
//
// 示例：
//   - `content.duration > 600` → 时长超过 10 分钟
//   - `"music" in content.tags && content.viewCount > 100`
//   - `runtime.feedVariant == "home"`
//   - `item.source == "subscriptions"`
type Program struct {
	expr string
	prg  cel.Program
}

// Compile 编译表达式。空表达式编译为恒真程序。
func Compile(expr string) (*Program, error) {
	if expr == "" {
		return &Program{expr: expr}, nil
	}

	env, err := getCELEnv()
	if err != nil {
		return nil, fmt.Errorf("cel env: %w", err)
	}

	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compile error: %v", issues.Err())
	}

	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("program error: %v", err)
	}

	return &Program{expr: expr, prg: prg}, nil
}

// Expr 返回原始表达式文本。
func (p *Program) Expr() string {
	return p.expr
}

// Evaluate 对单个候选执行表达式，返回布尔结果。
// 访问不存在的 key 会返回错误，调用方可按“无答案”宽容处理。
func (p *Program) Evaluate(item *core.Item, fctx *core.FeedContext) (bool, error) {
	if p.prg == nil {
		return true, nil
	}

	out, _, err := p.prg.Eval(buildInput(item, fctx))
	if err != nil {
		return false, fmt.Errorf("eval error: %v", err)
	}

	result, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("expression must return boolean, got %T", out.Value())
	}
	return result, nil
}

// buildInput 构建 CEL 表达式的输入数据
func buildInput(item *core.Item, fctx *core.FeedContext) map[string]any {
	content := map[string]any{}
	if c := item.Content; c != nil {
		content = map[string]any{
			"id":            c.ID,
			"rootId":        c.RootKey(),
			"author":        c.Author,
			"title":         c.Title,
			"tags":          c.Tags,
			"hashtags":      c.Hashtags,
			"duration":      c.Duration,
			"createdAt":     c.CreatedAt,
			"rootCreatedAt": c.RootCreatedAt,
			"viewCount":     c.ViewCount,
			"warnings":      c.Warnings,
			"deleted":       c.Deleted,
		}
	}

	itemMap := map[string]any{
		"source":           item.Metadata.Source,
		"pointerKey":       item.Metadata.PointerKey,
		"matchedInterests": item.Metadata.MatchedInterests,
		"extra":            item.Metadata.Extra,
	}
	if k := item.Metadata.Kids; k != nil {
		itemMap["kidsScore"] = k.Score
	}
	if e := item.Metadata.Explore; e != nil {
		itemMap["exploreScore"] = e.Score
	}

	rt := fctx.RuntimeOrEmpty()
	runtimeMap := map[string]any{
		"now":         rt.Now,
		"feedVariant": rt.FeedVariant,
		"limit":       rt.Limit,
		"extra":       rt.Extra,
	}

	configMap := map[string]any{
		"sortOrder":    fctx.Config.SortOrder,
		"ageGroup":     fctx.Config.AgeGroup,
		"actorFilters": fctx.Config.ActorFilters,
		"tagFilters":   fctx.Config.TagFilters,
	}

	return map[string]any{
		"item":    itemMap,
		"content": content,
		"runtime": runtimeMap,
		"config":  configMap,
	}
}
