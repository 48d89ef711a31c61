package recall

import (
	"context"

	"github.com/rushteam/movierec/core"
	"github.com/rushteam/movierec/dataset"
	"github.com/rushteam/movierec/pkg/utils"
	"github.com/rushteam/movierec/similarity"
)

// LatentCF 是基于 ALS 低秩分解的协同过滤模型。
//
// 打分：score = 用户隐向量 · 电影隐向量（离线训练，在线查表）。
// 冷启动语义与 ItemCF 一致：未知用户降级为全局热门榜。
type LatentCF struct {
	Matrix  *dataset.Matrix
	Factors *similarity.Factors

	// Fallback 冷启动降级源；为 nil 时按 Matrix 现算热门榜
	Fallback *Popularity
}

func (r *LatentCF) Name() string { return "cf" }

// RecommendItems 实现 core.Recommender。
func (r *LatentCF) RecommendItems(ctx context.Context, userID int64, n int) ([]*core.Item, error) {
	if n == 0 {
		return []*core.Item{}, nil
	}
	if n < 0 {
		return nil, core.NewDomainError(core.ModuleRecall, core.ErrorCodeInvalidInput,
			"recall: n must be >= 0")
	}
	if r.Matrix == nil || r.Factors == nil {
		return nil, core.NewDomainError(core.ModuleRecall, core.ErrorCodeInvalidInput,
			"recall: latent-cf requires matrix and factors")
	}

	if _, ok := r.Factors.UserVecs[userID]; !ok {
		return r.coldStart(ctx, userID, n)
	}

	rated := r.Matrix.RatedMovies(userID)
	out := make([]*core.Item, 0, n)
	for _, candidate := range r.Matrix.Movies() {
		if _, ok := rated[candidate]; ok {
			continue
		}
		score, ok := r.Factors.Predict(userID, candidate)
		if !ok {
			continue
		}
		it := core.NewItem(candidate)
		it.Score = score
		it.PutLabel(core.LabelModel, utils.Label{Value: "cf", Source: "recall"})
		it.PutLabel(core.LabelMetric, utils.Label{Value: "latent", Source: "recall"})
		out = append(out, it)
	}

	core.SortItems(out)
	return core.TruncateItems(out, n), nil
}

func (r *LatentCF) coldStart(ctx context.Context, userID int64, n int) ([]*core.Item, error) {
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
func (r *LatentCF) Recall(ctx context.Context, rctx *core.RecommendContext) ([]*core.Item, error) {
	if rctx == nil {
		return nil, nil
	}
	return r.RecommendItems(ctx, rctx.UserID, contextN(rctx))
}
