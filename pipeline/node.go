package pipeline

import (
	"context"

	"github.com/rushteam/feedkit/core"
)

// Kind 用于标记 Stage 类型，方便观测/治理/编排（例如按阶段打点）。
type Kind string

const (
	KindSource   Kind = "source"   // 来源阶段：生成候选集
	KindFilter   Kind = "filter"   // 过滤阶段：剔除不符合约束的候选
	KindAnnotate Kind = "annotate" // 注解阶段：补充元数据（时间戳、外部信号）
	KindScore    Kind = "score"    // 评分阶段：为候选写入分数
	KindSort     Kind = "sort"     // 排序阶段：决定最终顺序
	KindDecorate Kind = "decorate" // 修饰阶段：对排好序的结果做最后修饰
)

// Stage 是 feed 管道的最小可扩展单元。
// 统一采用“输入 items -> 输出 items”的形态：过滤返回子集，注解原地
// 改写后返回原切片，排序返回重排后的切片。返回 nil（且无错误）表示
// 本阶段放弃输出，引擎沿用上一阶段的结果。
type Stage interface {
	Name() string
	Kind() Kind

	Process(
		ctx context.Context,
		fctx *core.FeedContext,
		items []*core.Item,
	) ([]*core.Item, error)
}

// Source 生成初始候选集。和 Stage 分开定义：来源没有输入 items。
type Source interface {
	Name() string
	Fetch(ctx context.Context, fctx *core.FeedContext) ([]*core.Item, error)
}

// StageFunc 把函数适配成 Stage，便于临时阶段和测试。
type StageFunc struct {
	StageName string
	StageKind Kind
	Fn        func(ctx context.Context, fctx *core.FeedContext, items []*core.Item) ([]*core.Item, error)
}

func (s StageFunc) Name() string { return s.StageName }
func (s StageFunc) Kind() Kind   { return s.StageKind }

func (s StageFunc) Process(ctx context.Context, fctx *core.FeedContext, items []*core.Item) ([]*core.Item, error) {
	return s.Fn(ctx, fctx, items)
}

// SourceFunc 把函数适配成 Source。
type SourceFunc struct {
	SourceName string
	Fn         func(ctx context.Context, fctx *core.FeedContext) ([]*core.Item, error)
}

func (s SourceFunc) Name() string { return s.SourceName }

func (s SourceFunc) Fetch(ctx context.Context, fctx *core.FeedContext) ([]*core.Item, error) {
	return s.Fn(ctx, fctx)
}
