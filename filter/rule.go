package filter

import (
	"context"

	"github.com/rushteam/movierec/core"
	"github.com/rushteam/movierec/pkg/dsl"
)

// RuleFilter 是基于 CEL 表达式的规则过滤器。
// 表达式对候选求值，结果为 true 时过滤掉该候选。
//
// 示例：
//   - `label.genres.contains("Horror")` → 剔除恐怖片
//   - `item.score < 0.05` → 剔除低分候选
//
// 表达式求值出错时保留候选（规则失效不应清空推荐结果）。
type RuleFilter struct {
	// Expr 是 CEL 表达式；空表达式不过滤任何候选
	Expr string
}

func NewRuleFilter(expr string) *RuleFilter {
	return &RuleFilter{Expr: expr}
}

func (f *RuleFilter) Name() string {
	return "filter.rule"
}

func (f *RuleFilter) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil {
		return true, nil
	}
	if f.Expr == "" {
		return false, nil
	}

	matched, err := dsl.NewEval(item, rctx).Evaluate(f.Expr)
	if err != nil {
		return false, nil
	}
	return matched, nil
}
