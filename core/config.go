package core

// 引擎级默认参数。
// 这些值是可配置项的兜底，不是确认过的最优解；
// 各字段为零值时，相关组件回退到这里的默认。
const (
	// DefaultTopKNeighbors 相似度索引中每个物品保留的邻居数上限
	DefaultTopKNeighbors = 50

	// DefaultMinCoRatings 两部电影至少被多少个共同用户评分才计算相似度，
	// 避免极小重叠产生的虚高相似度
	DefaultMinCoRatings = 2

	// DefaultTopN 默认推荐条数（对齐原服务层 n_recommendations=10）
	DefaultTopN = 10

	// DefaultAlpha 融合权重：final = alpha*CF + (1-alpha)*Content
	DefaultAlpha = 0.7

	// DefaultMinRatingCount 热门榜的最低评分数门槛，
	// 避免单条高分评分霸榜
	DefaultMinRatingCount = 3

	// DefaultRelevanceThreshold 评估时判定"相关"的评分阈值
	DefaultRelevanceThreshold = 4.0
)

// RatingScale 是评分值域。MovieLens 为 [0.5, 5.0]。
type RatingScale struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// DefaultRatingScale 返回 MovieLens 风格的评分值域。
func DefaultRatingScale() RatingScale {
	return RatingScale{Min: 0.5, Max: 5.0}
}

// Contains 判断评分是否在值域内。
func (s RatingScale) Contains(rating float64) bool {
	return rating >= s.Min && rating <= s.Max
}
