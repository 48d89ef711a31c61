package filter

import (
	"context"

	"github.com/rushteam/movierec/core"
	"github.com/rushteam/movierec/dataset"
)

// SeenFilter 过滤掉请求用户已经评过分的电影。
// 各推荐源内部已经排除了已评分电影，这个过滤器是 Pipeline 编排时的
// 兜底：自定义召回源可能不掌握评分数据。
type SeenFilter struct {
	Matrix *dataset.Matrix
}

func NewSeenFilter(m *dataset.Matrix) *SeenFilter {
	return &SeenFilter{Matrix: m}
}

func (f *SeenFilter) Name() string {
	return "filter.seen"
}

func (f *SeenFilter) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil {
		return true, nil
	}
	if f.Matrix == nil || rctx == nil {
		return false, nil
	}
	_, rated := f.Matrix.Rating(rctx.UserID, item.MovieID)
	return rated, nil
}
