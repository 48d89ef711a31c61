package model

import (
	"context"
	"time"

	"github.com/rushteam/movierec/core"
	"github.com/rushteam/movierec/dataset"
	"github.com/rushteam/movierec/recall"
	"github.com/rushteam/movierec/similarity"
)

// TrainConfig 控制一次训练运行。零值字段回退到 core 默认。
type TrainConfig struct {
	// Method 打分方式，默认 cosine_item_based
	Method ScoringMethod

	// TopK 相似度索引每部电影保留的邻居数上限
	TopK int

	// MinCoRatings 计算相似度的最小共同评分人数
	MinCoRatings int

	// Alpha 融合权重；AlphaSet 表达显式 0
	Alpha    float64
	AlphaSet bool

	// MinRatingCount 热门榜最低评分数门槛
	MinRatingCount int

	// Scale 评分值域，零值取 MovieLens 的 [0.5, 5.0]
	Scale core.RatingScale

	// ALS 仅 latent_factor 方式使用
	ALS similarity.ALSOptions

	// Parallelism 索引构建并发度
	Parallelism int
}

// Trainer 把评分与电影元数据变成一份不可变的训练快照。
//
// 每次 Train 从头构建全部产物：矩阵、相似度索引（或隐向量）、
// 热门榜。没有增量更新，重新训练就是重新产出一份快照，
// 换模型靠换快照，不靠原地修改。
type Trainer struct {
	Config TrainConfig
}

// NewTrainer 创建训练器。
func NewTrainer(cfg TrainConfig) *Trainer {
	return &Trainer{Config: cfg}
}

// Train 执行一次完整训练，返回可序列化的快照。
//
// 输入评分先过一遍校验：越界/非法行丢弃计数，不中断训练；
// movies 可以为 nil，此时快照不含内容侧，重建出的模型退化为纯 CF。
func (t *Trainer) Train(ctx context.Context, ratings []dataset.Rating, movies *dataset.MovieSet) (*Snapshot, error) {
	cfg := t.Config
	method := cfg.Method
	if method == "" {
		method = CosineItemBased
	}
	if !method.Valid() {
		return nil, core.NewDomainError(core.ModuleModel, core.ErrorCodeInvalidInput,
			"model: unknown scoring method "+string(method))
	}
	scale := cfg.Scale
	if scale == (core.RatingScale{}) {
		scale = core.DefaultRatingScale()
	}

	kept, _ := dataset.ValidateRecords(ratings, scale)
	if len(kept) == 0 {
		return nil, core.NewDomainError(core.ModuleModel, core.ErrorCodeInvalidInput,
			"model: no valid ratings to train on")
	}
	matrix := dataset.NewMatrix(kept, scale)

	snap := &Snapshot{
		Version:        SchemaVersion,
		Method:         method,
		TrainedAt:      time.Now().UTC(),
		UserCount:      matrix.UserCount(),
		MovieCount:     matrix.MovieCount(),
		Scale:          scale,
		Ratings:        kept,
		Alpha:          t.alpha(),
		MinRatingCount: cfg.MinRatingCount,
	}

	switch method {
	case CosineItemBased, PearsonItemBased:
		metric := similarity.MetricCosine
		if method == PearsonItemBased {
			metric = similarity.MetricPearson
		}
		idx, err := similarity.Build(ctx, matrix, similarity.BuildOptions{
			Metric:       metric,
			K:            cfg.TopK,
			MinCoRatings: cfg.MinCoRatings,
			Parallelism:  cfg.Parallelism,
		})
		if err != nil {
			return nil, err
		}
		snap.Index = idx
	case LatentFactor:
		factors, err := similarity.TrainALS(ctx, matrix, cfg.ALS)
		if err != nil {
			return nil, err
		}
		snap.Factors = factors
	}

	pop := &recall.Popularity{Matrix: matrix, MinRatingCount: cfg.MinRatingCount}
	snap.Popularity = pop.Table()

	if movies != nil {
		ids := movies.IDs()
		snap.Movies = make([]*dataset.Movie, 0, len(ids))
		for _, id := range ids {
			if mv, ok := movies.Get(id); ok {
				snap.Movies = append(snap.Movies, mv)
			}
		}
	}
	return snap, nil
}

func (t *Trainer) alpha() float64 {
	if !t.Config.AlphaSet && t.Config.Alpha == 0 {
		return core.DefaultAlpha
	}
	return t.Config.Alpha
}
