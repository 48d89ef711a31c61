package similarity

import (
	"context"
	"math"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/rushteam/movierec/core"
	"github.com/rushteam/movierec/dataset"
)

// Neighbor 是邻居表中的一项：相邻电影、相似度分数、共同评分人数。
type Neighbor struct {
	MovieID   int64   `json:"movie_id"`
	Score     float64 `json:"score"`
	CoRatings int     `json:"co_ratings"`
}

// Index 是物品-物品相似度索引：movieId -> TopK 邻居（有序）。
//
// 不变式：
//   - 相似度对称：sim(i,j) == sim(j,i)
//   - 分数是 [-1, 1] 内的有限实数
//   - 共同评分人数不足 MinCoRatings 的电影对互不出现在对方邻居表中
//   - 零方差 / 零共现的电影邻居表为空（不是错误）
//   - 邻居表内排序：分数降序，同分按共同评分数降序，再按 movieId 升序
//
// 构建完成后只读。
type Index struct {
	Metric       Metric               `json:"metric"`
	K            int                  `json:"k"`
	MinCoRatings int                  `json:"min_co_ratings"`
	Neighbors    map[int64][]Neighbor `json:"neighbors"`
}

// BuildOptions 控制索引构建。零值字段回退到 core 默认。
type BuildOptions struct {
	Metric       Metric
	K            int // 每部电影保留的邻居数上限
	MinCoRatings int // 最小共同评分人数
	Parallelism  int // 构建并发度，<= 0 时取 GOMAXPROCS
}

// Build 对全量矩阵批量计算物品-物品相似度索引。
// 每部电影的邻居表独立计算，用 errgroup 并发。相似度函数本身对称，
// 因此重复计算 (i,j) 与 (j,i) 得到同一分数，索引天然对称。
func Build(ctx context.Context, m *dataset.Matrix, opts BuildOptions) (*Index, error) {
	metric := opts.Metric
	if metric == "" {
		metric = MetricCosine
	}
	if !metric.Valid() {
		return nil, core.NewDomainError(core.ModuleRecall, core.ErrorCodeInvalidInput,
			"similarity: unsupported metric "+string(metric))
	}
	k := opts.K
	if k <= 0 {
		k = core.DefaultTopKNeighbors
	}
	minCo := opts.MinCoRatings
	if minCo <= 0 {
		minCo = core.DefaultMinCoRatings
	}
	parallelism := opts.Parallelism
	if parallelism <= 0 {
		parallelism = runtime.GOMAXPROCS(0)
	}

	idx := &Index{
		Metric:       metric,
		K:            k,
		MinCoRatings: minCo,
		Neighbors:    make(map[int64][]Neighbor, m.MovieCount()),
	}

	movies := m.Movies()
	lists := make([][]Neighbor, len(movies))

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(parallelism)
	for i := range movies {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			lists[i] = buildNeighborList(m, movies, i, metric, k, minCo)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	for i, id := range movies {
		if len(lists[i]) > 0 {
			idx.Neighbors[id] = lists[i]
		}
	}
	return idx, nil
}

func buildNeighborList(m *dataset.Matrix, movies []int64, i int, metric Metric, k, minCo int) []Neighbor {
	target := m.MovieRatings(movies[i])
	if len(target) == 0 {
		return nil
	}

	neighbors := make([]Neighbor, 0, k)
	for j, other := range movies {
		if j == i {
			continue
		}
		sim, co := pairSimilarity(m, target, other, metric)
		if co < minCo || sim == 0 || math.IsNaN(sim) || math.IsInf(sim, 0) {
			continue
		}
		neighbors = append(neighbors, Neighbor{MovieID: other, Score: sim, CoRatings: co})
	}

	sort.Slice(neighbors, func(a, b int) bool {
		if neighbors[a].Score != neighbors[b].Score {
			return neighbors[a].Score > neighbors[b].Score
		}
		if neighbors[a].CoRatings != neighbors[b].CoRatings {
			return neighbors[a].CoRatings > neighbors[b].CoRatings
		}
		return neighbors[a].MovieID < neighbors[b].MovieID
	})
	if len(neighbors) > k {
		neighbors = neighbors[:k]
	}
	return neighbors
}

// pairSimilarity 计算目标电影与另一部电影在共同评分用户上的相似度。
// pearson 度量下先减去各用户的评分均值。
func pairSimilarity(m *dataset.Matrix, target map[int64]float64, otherID int64, metric Metric) (float64, int) {
	other := m.MovieRatings(otherID)
	if len(other) == 0 {
		return 0, 0
	}

	var x, y []float64
	for userID, rt := range target {
		ro, ok := other[userID]
		if !ok {
			continue
		}
		if metric == MetricPearson {
			mean, _ := m.UserMean(userID)
			rt -= mean
			ro -= mean
		}
		x = append(x, rt)
		y = append(y, ro)
	}
	if len(x) == 0 {
		return 0, 0
	}
	return Cosine(x, y), len(x)
}

// Lookup 返回电影的邻居表。无邻居的电影返回 nil（空表，不是错误）。
func (idx *Index) Lookup(movieID int64) []Neighbor {
	return idx.Neighbors[movieID]
}

// Len 返回索引中有非空邻居表的电影数。
func (idx *Index) Len() int { return len(idx.Neighbors) }
