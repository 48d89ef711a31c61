// Package recall 实现各推荐源：协同过滤、内容、热门与加权融合。
// 每个推荐源同时满足 core.Recommender（直接问答式调用）
// 和 Source（Pipeline fan-out）两种用法。
package recall

import (
	"context"

	"github.com/rushteam/movierec/core"
	"github.com/rushteam/movierec/pipeline"
)

// Source 表示一个可复用的召回源（热门/CF/内容/融合/...）。
// 你可以把它理解为"可并发 fan-out 的策略单元"。
type Source interface {
	Name() string
	Recall(ctx context.Context, rctx *core.RecommendContext) ([]*core.Item, error)
}

// SourceNode 把任意 Source 包装成 Pipeline Node，作为召回阶段使用。
type SourceNode struct {
	Source Source
}

func (n *SourceNode) Name() string        { return n.Source.Name() }
func (n *SourceNode) Kind() pipeline.Kind { return pipeline.KindRecall }

func (n *SourceNode) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Item,
) ([]*core.Item, error) {
	return n.Source.Recall(ctx, rctx)
}

// contextN 取请求里的推荐条数，未设置时用默认。
func contextN(rctx *core.RecommendContext) int {
	if rctx != nil && rctx.N > 0 {
		return rctx.N
	}
	return core.DefaultTopN
}
