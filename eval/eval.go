// Package eval 提供离线 Top-N 评估：对留出集计算
// Precision@K / Recall@K / HitRate@K。
//
// 评估协议：
//   - 留出集中评分 >= 阈值的条目视为"相关"
//   - 只对至少有一条相关留出条目的用户计算指标，再取平均；
//     没有相关条目的用户指标无定义，直接跳过而不是记零
//   - 推荐列表由被评模型产出，评估器不关心模型内部
package eval

import (
	"context"
	"sort"

	"github.com/rushteam/movierec/core"
	"github.com/rushteam/movierec/dataset"
)

// Metrics 是一次评估的汇总指标，各项都是参与用户的平均值。
type Metrics struct {
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	HitRate   float64 `json:"hit_rate"`

	// Users 参与平均的用户数（有相关留出条目的用户）
	Users int `json:"users"`
}

// Export 导出指标映射，便于日志与上报。
func (m Metrics) Export() map[string]float64 {
	return map[string]float64{
		"precision": m.Precision,
		"recall":    m.Recall,
		"hit_rate":  m.HitRate,
		"users":     float64(m.Users),
	}
}

// Options 控制评估。零值字段回退到 core 默认。
type Options struct {
	K         int     // 推荐列表长度，默认 core.DefaultTopN
	Threshold float64 // 相关性评分阈值，默认 core.DefaultRelevanceThreshold
}

// Evaluate 对留出集评估一个推荐模型。
//
// 留出集用户在训练数据中不存在时，模型会走自己的冷启动路径，
// 评估照常进行——降级推荐的质量本来就是要被度量的行为。
func Evaluate(ctx context.Context, rec core.Recommender, heldout []dataset.Rating, opts Options) (Metrics, error) {
	k := opts.K
	if k <= 0 {
		k = core.DefaultTopN
	}
	threshold := opts.Threshold
	if threshold == 0 {
		threshold = core.DefaultRelevanceThreshold
	}
	if rec == nil {
		return Metrics{}, core.NewDomainError(core.ModuleModel, core.ErrorCodeInvalidInput,
			"eval: recommender is nil")
	}

	relevant := make(map[int64]map[int64]struct{})
	for _, r := range heldout {
		if r.Rating < threshold {
			continue
		}
		set, ok := relevant[r.UserID]
		if !ok {
			set = make(map[int64]struct{})
			relevant[r.UserID] = set
		}
		set[r.MovieID] = struct{}{}
	}
	if len(relevant) == 0 {
		return Metrics{}, nil
	}

	// 按 userId 升序遍历，评估结果与 map 迭代顺序无关
	users := make([]int64, 0, len(relevant))
	for userID := range relevant {
		users = append(users, userID)
	}
	sort.Slice(users, func(i, j int) bool { return users[i] < users[j] })

	var sumPrecision, sumRecall, sumHit float64
	for _, userID := range users {
		items, err := rec.RecommendItems(ctx, userID, k)
		if err != nil {
			return Metrics{}, err
		}
		hits := 0
		for _, it := range items {
			if _, ok := relevant[userID][it.MovieID]; ok {
				hits++
			}
		}
		sumPrecision += float64(hits) / float64(k)
		sumRecall += float64(hits) / float64(len(relevant[userID]))
		if hits > 0 {
			sumHit++
		}
	}

	n := float64(len(users))
	return Metrics{
		Precision: sumPrecision / n,
		Recall:    sumRecall / n,
		HitRate:   sumHit / n,
		Users:     len(users),
	}, nil
}
