package recall

import (
	"context"
	"math"

	"github.com/rushteam/movierec/core"
	"github.com/rushteam/movierec/dataset"
	"github.com/rushteam/movierec/pkg/utils"
	"github.com/rushteam/movierec/similarity"
)

// ItemCF 是基于物品的协同过滤模型（Item-based Collaborative Filtering）。
//
// 核心思想："被同一批用户喜欢的电影，相互相似"
//
// 打分：对每部用户未评分的候选电影 c，
//
//	score(c) = Σ sim(c,j)·r(u,j) / Σ |sim(c,j)|
//
// j 取 c 的 TopK 邻居中用户评过分的电影。分母是所用相似度的绝对值和，
// 保证分数落回用户自己的评分尺度。
//
// 冷启动：训练数据中不存在的用户降级为全局热门榜。
// 这是一条一等公民的行为路径，不是错误。
type ItemCF struct {
	Matrix *dataset.Matrix
	Index  *similarity.Index

	// Fallback 冷启动降级源；为 nil 时按 Matrix 现算热门榜
	Fallback *Popularity
}

func (r *ItemCF) Name() string { return "cf" }

// RecommendItems 实现 core.Recommender。
func (r *ItemCF) RecommendItems(ctx context.Context, userID int64, n int) ([]*core.Item, error) {
	if n == 0 {
		return []*core.Item{}, nil
	}
	if n < 0 {
		return nil, core.NewDomainError(core.ModuleRecall, core.ErrorCodeInvalidInput,
			"recall: n must be >= 0")
	}
	if r.Matrix == nil || r.Index == nil {
		return nil, core.NewDomainError(core.ModuleRecall, core.ErrorCodeInvalidInput,
			"recall: item-cf requires matrix and similarity index")
	}

	if !r.Matrix.HasUser(userID) {
		return r.coldStart(ctx, userID, n)
	}

	userRatings := r.Matrix.UserRatings(userID)
	out := make([]*core.Item, 0, n)
	for _, candidate := range r.Matrix.Movies() {
		if _, rated := userRatings[candidate]; rated {
			continue
		}
		var num, den float64
		for _, nb := range r.Index.Lookup(candidate) {
			rating, ok := userRatings[nb.MovieID]
			if !ok {
				continue
			}
			num += nb.Score * rating
			den += math.Abs(nb.Score)
		}
		// 没有可用邻居的候选没有可计算分数，不用零分凑数
		if den == 0 {
			continue
		}
		it := core.NewItem(candidate)
		it.Score = num / den
		it.PutLabel(core.LabelModel, utils.Label{Value: "cf", Source: "recall"})
		it.PutLabel(core.LabelMetric, utils.Label{Value: string(r.Index.Metric), Source: "recall"})
		out = append(out, it)
	}

	core.SortItems(out)
	return core.TruncateItems(out, n), nil
}

func (r *ItemCF) coldStart(ctx context.Context, userID int64, n int) ([]*core.Item, error) {
	fallback := r.Fallback
	if fallback == nil {
		fallback = &Popularity{Matrix: r.Matrix}
	}
	items, err := fallback.RecommendItems(ctx, userID, n)
	if err != nil {
		return nil, err
	}
	for _, it := range items {
		it.PutLabel(core.LabelModel, utils.Label{Value: "cf", Source: "recall"})
	}
	return items, nil
}

// Recall 实现 Source 接口。
func (r *ItemCF) Recall(ctx context.Context, rctx *core.RecommendContext) ([]*core.Item, error) {
	if rctx == nil {
		return nil, nil
	}
	return r.RecommendItems(ctx, rctx.UserID, contextN(rctx))
}
