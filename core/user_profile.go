package core

import "math"

// UserProfile 是内容侧的用户画像：按评分加权聚合已评分电影的特征向量。
// 按需重算，不增量维护，也不落入训练快照（快照持有物品特征与用户评分，
// 画像可随时从二者重建）。
type UserProfile struct {
	UserID int64

	// MeanRating 用户评分均值，聚合时用于去掉个人打分基线
	MeanRating float64

	// RatedCount 参与聚合的评分条数
	RatedCount int

	// GenreWeights 特征权重向量：key 是类型特征（如 "Comedy"），
	// value 是 (rating - MeanRating) 加权累积
	GenreWeights map[string]float64
}

func NewUserProfile(userID int64) *UserProfile {
	return &UserProfile{
		UserID:       userID,
		GenreWeights: make(map[string]float64),
	}
}

// Add 将一部已评分电影的特征按 (rating - MeanRating) 权重累入画像。
// MeanRating 需要在 Add 之前设置。
func (p *UserProfile) Add(features map[string]float64, rating float64) {
	w := rating - p.MeanRating
	if w == 0 {
		return
	}
	for k, v := range features {
		p.GenreWeights[k] += w * v
	}
	p.RatedCount++
}

// Norm 返回画像向量的 L2 范数。范数为 0 表示画像无信息量
// （用户没有评分，或评分全部等于个人均值）。
func (p *UserProfile) Norm() float64 {
	var sum float64
	for _, v := range p.GenreWeights {
		sum += v * v
	}
	return math.Sqrt(sum)
}
