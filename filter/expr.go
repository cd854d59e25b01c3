package filter

import (
	"context"

	"github.com/rushteam/feedkit/core"
	"github.com/rushteam/feedkit/pkg/dsl"
)

// Expr 是表达式过滤器：表达式求值为 true 的候选被剔除。
// 通常挂在 Node 里和其他过滤器组合使用。
type Expr struct {
	program *dsl.Program
}

// NewExpr 编译表达式并创建过滤器。
func NewExpr(expr string) (*Expr, error) {
	prg, err := dsl.Compile(expr)
	if err != nil {
		return nil, err
	}
	return &Expr{program: prg}, nil
}

func (f *Expr) Name() string {
	return "filter.expr"
}

// ShouldFilter 表达式求值为 true 时过滤该候选。求值错误按“无答案”
// 处理，候选保留。
func (f *Expr) ShouldFilter(_ context.Context, fctx *core.FeedContext, item *core.Item) (bool, error) {
	if item == nil {
		return true, nil
	}
	matched, err := f.program.Evaluate(item, fctx)
	if err != nil {
		return false, err
	}
	return matched, nil
}
