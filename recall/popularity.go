package recall

import (
	"context"
	"strconv"

	"github.com/rushteam/movierec/core"
	"github.com/rushteam/movierec/dataset"
	"github.com/rushteam/movierec/pkg/utils"
)

// Popularity 是全局热门推荐源，也是协同过滤的冷启动降级路径。
//
// 打分：score = mean · c/(c+m)，c 是评分数，m 是最低评分数门槛。
// 评分数不足 m 的电影直接排除，收缩因子再压低刚过门槛的电影，
// 避免一两条高分评分霸榜。
//
// 可选地把榜单发布到 KeyValueStore 的有序集合（SyncToStore），
// 供无矩阵的在线进程用 ZRange 读取。
type Popularity struct {
	Matrix *dataset.Matrix

	// MinRatingCount 最低评分数门槛，<= 0 时取 core.DefaultMinRatingCount
	MinRatingCount int

	// Fixed 是预计算的榜单（movieId -> 分数），来自训练快照。
	// 设置后直接用它打分，不再从 Matrix 现算
	Fixed map[int64]float64

	// Store / Key 可选：榜单的有序集合存储位置
	Store core.KeyValueStore
	Key   string
}

func (p *Popularity) Name() string { return "popularity" }

// RecommendItems 实现 core.Recommender。已知用户会排除其已评分的电影；
// 未知用户得到完整榜单，这正是冷启动语义。
func (p *Popularity) RecommendItems(ctx context.Context, userID int64, n int) ([]*core.Item, error) {
	if n == 0 {
		return []*core.Item{}, nil
	}
	if n < 0 {
		return nil, core.NewDomainError(core.ModuleRecall, core.ErrorCodeInvalidInput,
			"recall: n must be >= 0")
	}

	var exclude map[int64]struct{}
	if p.Matrix != nil {
		exclude = p.Matrix.RatedMovies(userID)
	}

	items, err := p.ranking(ctx, exclude)
	if err != nil {
		return nil, err
	}
	core.SortItems(items)
	return core.TruncateItems(items, n), nil
}

// Recall 实现 Source 接口。
func (p *Popularity) Recall(ctx context.Context, rctx *core.RecommendContext) ([]*core.Item, error) {
	var userID int64
	if rctx != nil {
		userID = rctx.UserID
	}
	return p.RecommendItems(ctx, userID, contextN(rctx))
}

func (p *Popularity) ranking(ctx context.Context, exclude map[int64]struct{}) ([]*core.Item, error) {
	if p.Fixed != nil {
		return p.rankFromFixed(exclude), nil
	}
	if p.Matrix != nil {
		return p.rankFromMatrix(exclude), nil
	}
	if p.Store != nil && p.Key != "" {
		return p.rankFromStore(ctx, exclude)
	}
	return []*core.Item{}, nil
}

func (p *Popularity) rankFromFixed(exclude map[int64]struct{}) []*core.Item {
	out := make([]*core.Item, 0, len(p.Fixed))
	for movieID, score := range p.Fixed {
		if _, ok := exclude[movieID]; ok {
			continue
		}
		it := core.NewItem(movieID)
		it.Score = score
		it.PutLabel(core.LabelModel, utils.Label{Value: "popularity", Source: "recall"})
		out = append(out, it)
	}
	return out
}

func (p *Popularity) rankFromMatrix(exclude map[int64]struct{}) []*core.Item {
	minCount := p.MinRatingCount
	if minCount <= 0 {
		minCount = core.DefaultMinRatingCount
	}

	out := make([]*core.Item, 0, p.Matrix.MovieCount())
	for _, movieID := range p.Matrix.Movies() {
		if _, ok := exclude[movieID]; ok {
			continue
		}
		mean, count := p.Matrix.MovieStats(movieID)
		if count < minCount {
			continue
		}
		it := core.NewItem(movieID)
		it.Score = mean * float64(count) / float64(count+minCount)
		it.PutLabel(core.LabelModel, utils.Label{Value: "popularity", Source: "recall"})
		out = append(out, it)
	}
	return out
}

func (p *Popularity) rankFromStore(ctx context.Context, exclude map[int64]struct{}) ([]*core.Item, error) {
	members, err := p.Store.ZRange(ctx, p.Key, 0, -1)
	if err != nil {
		if core.IsStoreNotFound(err) {
			return []*core.Item{}, nil
		}
		return nil, err
	}

	out := make([]*core.Item, 0, len(members))
	for _, member := range members {
		movieID, err := strconv.ParseInt(member, 10, 64)
		if err != nil {
			continue
		}
		if _, ok := exclude[movieID]; ok {
			continue
		}
		score, err := p.Store.ZScore(ctx, p.Key, member)
		if err != nil {
			continue
		}
		it := core.NewItem(movieID)
		it.Score = score
		it.PutLabel(core.LabelModel, utils.Label{Value: "popularity", Source: "recall"})
		out = append(out, it)
	}
	return out, nil
}

// SyncToStore 把当前榜单写入有序集合，覆盖已有分数。
// 需要同时配置 Matrix 与 Store/Key。
func (p *Popularity) SyncToStore(ctx context.Context) error {
	if (p.Matrix == nil && p.Fixed == nil) || p.Store == nil || p.Key == "" {
		return core.NewDomainError(core.ModuleRecall, core.ErrorCodeInvalidInput,
			"recall: popularity sync requires a ranking source and store key")
	}
	for movieID, score := range p.Table() {
		member := strconv.FormatInt(movieID, 10)
		if err := p.Store.ZAdd(ctx, p.Key, score, member); err != nil {
			return err
		}
	}
	return nil
}

// Table 导出 movieId -> 热门分数的完整映射，供训练快照持久化。
func (p *Popularity) Table() map[int64]float64 {
	if p.Fixed != nil {
		return p.Fixed
	}
	if p.Matrix == nil {
		return map[int64]float64{}
	}
	items := p.rankFromMatrix(nil)
	out := make(map[int64]float64, len(items))
	for _, it := range items {
		out[it.MovieID] = it.Score
	}
	return out
}
