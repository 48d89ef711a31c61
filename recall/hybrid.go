package recall

import (
	"context"

	"github.com/rushteam/movierec/core"
	"github.com/rushteam/movierec/pkg/utils"
)

// Hybrid 把协同过滤与内容模型的分数做加权融合。
//
// 这是引擎中唯一需要调和两套独立量纲的地方：CF 分数落在评分尺度
// （如 [0.5, 5.0]），内容分数是余弦（[0, 1]）。直接加权会让量纲大的
// 一方仅仅因为度量选择而主导结果，所以融合前先对每个子模型的分数
// 在候选集上独立做 min-max 归一化到 [0, 1]，再按 α 加权：
//
//	final = α·cf_norm + (1-α)·content_norm
//
// 候选集是两个子模型输出的并集；只出现在一侧的候选，另一侧按 0 计
// （显式设计选择，不是缺数据错误）。边界权重例外：α=1（或 α=0）时
// 零权一侧的独占候选不进入并集，否则它们会以 0 分挤占有效候选的
// 截断名额。归一化和融合都是纯函数：固定 α 与子模型输出，结果完全
// 确定；α=1 还原 CF 排序，α=0 还原内容排序。
type Hybrid struct {
	CF      core.Recommender
	Content core.Recommender

	// Alpha 是 CF 权重，(1-Alpha) 是内容权重。
	// 零值回退到 core.DefaultAlpha；显式 0 用 AlphaSet 表达。
	Alpha    float64
	AlphaSet bool

	// CandidateFactor 从每个子模型取 n·factor 个候选再融合，
	// 扩大候选并集；<= 0 时取 2
	CandidateFactor int
}

func (r *Hybrid) Name() string { return "hybrid" }

func (r *Hybrid) alpha() float64 {
	if !r.AlphaSet && r.Alpha == 0 {
		return core.DefaultAlpha
	}
	return r.Alpha
}

// RecommendItems 实现 core.Recommender。
func (r *Hybrid) RecommendItems(ctx context.Context, userID int64, n int) ([]*core.Item, error) {
	if n == 0 {
		return []*core.Item{}, nil
	}
	if n < 0 {
		return nil, core.NewDomainError(core.ModuleRecall, core.ErrorCodeInvalidInput,
			"recall: n must be >= 0")
	}
	if r.CF == nil || r.Content == nil {
		return nil, core.NewDomainError(core.ModuleRecall, core.ErrorCodeInvalidInput,
			"recall: hybrid requires both cf and content sub-models")
	}

	factor := r.CandidateFactor
	if factor <= 0 {
		factor = 2
	}
	wide := n * factor

	cfItems, err := r.CF.RecommendItems(ctx, userID, wide)
	if err != nil {
		return nil, err
	}
	contentItems, err := r.Content.RecommendItems(ctx, userID, wide)
	if err != nil {
		return nil, err
	}

	cfNorm := normalize(cfItems)
	contentNorm := normalize(contentItems)

	alpha := r.alpha()
	union := make(map[int64]*core.Item, len(cfNorm)+len(contentNorm))
	blend := func(movieID int64) *core.Item {
		it, ok := union[movieID]
		if !ok {
			it = core.NewItem(movieID)
			it.PutLabel(core.LabelModel, utils.Label{Value: "hybrid", Source: "recall"})
			union[movieID] = it
		}
		return it
	}
	for movieID, score := range cfNorm {
		if alpha == 0 {
			if _, shared := contentNorm[movieID]; !shared {
				continue
			}
		}
		it := blend(movieID)
		it.Features["cf_norm"] = score
		it.Score += alpha * score
	}
	for movieID, score := range contentNorm {
		if alpha == 1 {
			if _, shared := cfNorm[movieID]; !shared {
				continue
			}
		}
		it := blend(movieID)
		it.Features["content_norm"] = score
		it.Score += (1 - alpha) * score
	}

	// 回填标题等元信息：子模型可能已经带上
	for _, src := range [][]*core.Item{cfItems, contentItems} {
		for _, it := range src {
			if merged, ok := union[it.MovieID]; ok && merged.Title == "" {
				merged.Title = it.Title
			}
		}
	}

	out := make([]*core.Item, 0, len(union))
	for _, it := range union {
		out = append(out, it)
	}
	core.SortItems(out)
	return core.TruncateItems(out, n), nil
}

// normalize 在候选集上做 min-max 归一化。
// 所有分数相等（含单候选）时全部记 1：候选在场即满贡献。
func normalize(items []*core.Item) map[int64]float64 {
	if len(items) == 0 {
		return map[int64]float64{}
	}
	min, max := items[0].Score, items[0].Score
	for _, it := range items[1:] {
		if it.Score < min {
			min = it.Score
		}
		if it.Score > max {
			max = it.Score
		}
	}

	out := make(map[int64]float64, len(items))
	for _, it := range items {
		if max == min {
			out[it.MovieID] = 1
			continue
		}
		out[it.MovieID] = (it.Score - min) / (max - min)
	}
	return out
}

// Recall 实现 Source 接口。
func (r *Hybrid) Recall(ctx context.Context, rctx *core.RecommendContext) ([]*core.Item, error) {
	if rctx == nil {
		return nil, nil
	}
	return r.RecommendItems(ctx, rctx.UserID, contextN(rctx))
}
