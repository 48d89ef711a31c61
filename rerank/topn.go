// Package rerank 实现重排阶段的 Node：确定性 TopN 截断与类型多样性。
package rerank

import (
	"context"

	"github.com/rushteam/movierec/core"
	"github.com/rushteam/movierec/pipeline"
)

// TopN 是 TopN 截断节点：先按确定性顺序（分数降序，同分按 movieId 升序）
// 排序，再截取前 N 个。通常放在 Pipeline 末端控制返回数量。
//
// N <= 0 时只排序不截断。
type TopN struct {
	N int
}

func (n *TopN) Name() string {
	return "rerank.topn"
}

func (n *TopN) Kind() pipeline.Kind {
	return pipeline.KindReRank
}

func (n *TopN) Process(
	_ context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	core.SortItems(items)

	limit := n.N
	if limit <= 0 && rctx != nil && rctx.N > 0 {
		limit = rctx.N
	}
	if limit <= 0 {
		return items, nil
	}
	return core.TruncateItems(items, limit), nil
}
