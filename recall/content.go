package recall

import (
	"context"
	"strings"

	"github.com/rushteam/movierec/core"
	"github.com/rushteam/movierec/dataset"
	"github.com/rushteam/movierec/pkg/utils"
	"github.com/rushteam/movierec/similarity"
)

// Content 是基于内容的推荐模型（Content-Based Recommendation）。
//
// 核心思想："用户喜欢具有某些特征的电影，推荐具有相似特征的其他电影"
//
// 画像：把用户评过分的电影的类型 TF-IDF 向量按 (rating - 用户均值)
// 加权聚合。减均值让低于个人均值的评分产生负贡献，画像同时表达
// 喜欢与不喜欢。
//
// 打分：候选电影特征向量与画像的余弦相似度，只保留正分候选。
//
// 没有评分的用户返回空列表——内容模型没有推荐依据，
// 冷启动降级是融合层的职责，不在这里处理。
type Content struct {
	Matrix *dataset.Matrix
	Movies *dataset.MovieSet
}

func (r *Content) Name() string { return "content" }

// BuildProfile 按需构建用户画像，不做增量维护。
func (r *Content) BuildProfile(userID int64) *core.UserProfile {
	profile := core.NewUserProfile(userID)
	if r.Matrix == nil || r.Movies == nil {
		return profile
	}
	mean, ok := r.Matrix.UserMean(userID)
	if !ok {
		return profile
	}
	profile.MeanRating = mean
	for movieID, rating := range r.Matrix.UserRatings(userID) {
		features := r.Movies.Features(movieID)
		if len(features) == 0 {
			continue
		}
		profile.Add(features, rating)
	}
	return profile
}

// RecommendItems 实现 core.Recommender。
func (r *Content) RecommendItems(ctx context.Context, userID int64, n int) ([]*core.Item, error) {
	if n == 0 {
		return []*core.Item{}, nil
	}
	if n < 0 {
		return nil, core.NewDomainError(core.ModuleRecall, core.ErrorCodeInvalidInput,
			"recall: n must be >= 0")
	}
	if r.Matrix == nil || r.Movies == nil {
		return nil, core.NewDomainError(core.ModuleRecall, core.ErrorCodeInvalidInput,
			"recall: content model requires matrix and movie set")
	}

	profile := r.BuildProfile(userID)
	if profile.Norm() == 0 {
		return []*core.Item{}, nil
	}

	rated := r.Matrix.RatedMovies(userID)
	out := make([]*core.Item, 0, n)
	for _, candidate := range r.Movies.IDs() {
		if _, ok := rated[candidate]; ok {
			continue
		}
		features := r.Movies.Features(candidate)
		if len(features) == 0 {
			continue
		}
		score := similarity.CosineMap(profile.GenreWeights, features)
		if score <= 0 {
			continue
		}
		it := core.NewItem(candidate)
		it.Score = score
		it.Title = r.Movies.Title(candidate)
		it.PutLabel(core.LabelModel, utils.Label{Value: "content", Source: "recall"})
		if mv, ok := r.Movies.Get(candidate); ok && len(mv.Genres) > 0 {
			it.PutLabel(core.LabelGenres, utils.Label{Value: strings.Join(mv.Genres, "|"), Source: "recall"})
		}
		out = append(out, it)
	}

	core.SortItems(out)
	return core.TruncateItems(out, n), nil
}

// Recall 实现 Source 接口。
func (r *Content) Recall(ctx context.Context, rctx *core.RecommendContext) ([]*core.Item, error) {
	if rctx == nil {
		return nil, nil
	}
	return r.RecommendItems(ctx, rctx.UserID, contextN(rctx))
}
