package pipeline

import (
	"context"
	"fmt"

	"github.com/rushteam/movierec/core"
)

// Pipeline 是推荐链路的核心抽象：把推荐逻辑拆成可组合的 Node 链。
// 典型编排：recall.Fanout → filter.FilterNode → rerank.TopN。
type Pipeline struct {
	Nodes []Node
}

func (p *Pipeline) Run(
	ctx context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	cur := items
	for _, node := range p.Nodes {
		next, err := node.Process(ctx, rctx, cur)
		if err != nil {
			return nil, fmt.Errorf("node %s: %w", node.Name(), err)
		}
		cur = next
	}
	return cur, nil
}
