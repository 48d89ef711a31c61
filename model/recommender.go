package model

import (
	"context"

	"github.com/rushteam/movierec/core"
	"github.com/rushteam/movierec/dataset"
	"github.com/rushteam/movierec/recall"
)

// TrainedModel 是从快照重建的可服务模型。
//
// 重建是纯查表操作：矩阵从快照内嵌的评分重建，相似度索引/隐向量、
// 热门榜直接取快照字段，不重新训练。同一份快照重建出的模型
// 对同一查询永远给出同一结果。
type TrainedModel struct {
	Snapshot *Snapshot
	Matrix   *dataset.Matrix
	Movies   *dataset.MovieSet

	Popularity *recall.Popularity
	CF         core.Recommender
	Content    *recall.Content
	Hybrid     *recall.Hybrid
}

// Build 从快照重建可服务模型。
// 快照缺内容侧（无电影元数据）时退化为纯 CF，不是错误。
func (s *Snapshot) Build() (*TrainedModel, error) {
	if !s.Method.Valid() {
		return nil, core.NewDomainError(core.ModuleModel, core.ErrorCodeModelVersion,
			"model: snapshot carries unknown scoring method "+string(s.Method))
	}

	scale := s.Scale
	if scale == (core.RatingScale{}) {
		scale = core.DefaultRatingScale()
	}
	matrix := dataset.NewMatrix(s.Ratings, scale)

	m := &TrainedModel{
		Snapshot: s,
		Matrix:   matrix,
	}
	m.Popularity = &recall.Popularity{
		Matrix:         matrix,
		MinRatingCount: s.MinRatingCount,
		Fixed:          s.Popularity,
	}

	switch s.Method {
	case CosineItemBased, PearsonItemBased:
		if s.Index == nil {
			return nil, core.NewDomainError(core.ModuleModel, core.ErrorCodeModelVersion,
				"model: item-based snapshot is missing its similarity index")
		}
		m.CF = &recall.ItemCF{Matrix: matrix, Index: s.Index, Fallback: m.Popularity}
	case LatentFactor:
		if s.Factors == nil {
			return nil, core.NewDomainError(core.ModuleModel, core.ErrorCodeModelVersion,
				"model: latent-factor snapshot is missing its factors")
		}
		m.CF = &recall.LatentCF{Matrix: matrix, Factors: s.Factors, Fallback: m.Popularity}
	}

	if len(s.Movies) > 0 {
		m.Movies = dataset.NewMovieSet(s.Movies)
		m.Content = &recall.Content{Matrix: matrix, Movies: m.Movies}
		m.Hybrid = &recall.Hybrid{
			CF:       m.CF,
			Content:  m.Content,
			Alpha:    s.Alpha,
			AlphaSet: true,
		}
	}
	return m, nil
}

func (m *TrainedModel) Name() string {
	if m.Hybrid != nil {
		return m.Hybrid.Name()
	}
	return m.CF.Name()
}

// RecommendItems 实现 core.Recommender：有内容侧时走融合，否则走纯 CF。
func (m *TrainedModel) RecommendItems(ctx context.Context, userID int64, n int) ([]*core.Item, error) {
	if m.Hybrid != nil {
		return m.Hybrid.RecommendItems(ctx, userID, n)
	}
	return m.CF.RecommendItems(ctx, userID, n)
}

// Recall 实现 recall.Source，训练产物可直接挂进召回管道。
func (m *TrainedModel) Recall(ctx context.Context, rctx *core.RecommendContext) ([]*core.Item, error) {
	if rctx == nil {
		return nil, nil
	}
	n := rctx.N
	if n <= 0 {
		n = core.DefaultTopN
	}
	return m.RecommendItems(ctx, rctx.UserID, n)
}
