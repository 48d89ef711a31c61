package similarity

import (
	"context"
	"math"
	"testing"

	"github.com/rushteam/movierec/core"
	"github.com/rushteam/movierec/dataset"
)

func testMatrix() *dataset.Matrix {
	return dataset.NewMatrix([]dataset.Rating{
		{UserID: 1, MovieID: 10, Rating: 5.0},
		{UserID: 1, MovieID: 20, Rating: 3.0},
		{UserID: 2, MovieID: 10, Rating: 4.0},
		{UserID: 2, MovieID: 30, Rating: 5.0},
	}, core.DefaultRatingScale())
}

func lookupScore(idx *Index, from, to int64) (float64, bool) {
	for _, nb := range idx.Lookup(from) {
		if nb.MovieID == to {
			return nb.Score, true
		}
	}
	return 0, false
}

func TestBuild_Cosine(t *testing.T) {
	idx, err := Build(context.Background(), testMatrix(), BuildOptions{
		Metric:       MetricCosine,
		K:            10,
		MinCoRatings: 1,
	})
	if err != nil {
		t.Fatalf("构建失败: %v", err)
	}

	// 电影 10 和 20 只有用户 1 共同评分：cos([5],[3]) = 1
	if s, ok := lookupScore(idx, 10, 20); !ok || math.Abs(s-1.0) > 1e-9 {
		t.Errorf("sim(10,20) 期望 1.0，实际 %v/%v", s, ok)
	}
	// 电影 20 和 30 没有共同评分用户，互不出现在邻居表中
	if _, ok := lookupScore(idx, 20, 30); ok {
		t.Error("无共同评分的电影对不应互为邻居")
	}
}

func TestBuild_Symmetry(t *testing.T) {
	idx, err := Build(context.Background(), testMatrix(), BuildOptions{
		Metric:       MetricCosine,
		K:            10,
		MinCoRatings: 1,
	})
	if err != nil {
		t.Fatalf("构建失败: %v", err)
	}

	pairs := [][2]int64{{10, 20}, {10, 30}}
	for _, p := range pairs {
		a, okA := lookupScore(idx, p[0], p[1])
		b, okB := lookupScore(idx, p[1], p[0])
		if okA != okB || math.Abs(a-b) > 1e-9 {
			t.Errorf("sim(%d,%d)=%v 与 sim(%d,%d)=%v 应对称", p[0], p[1], a, p[1], p[0], b)
		}
	}
}

func TestBuild_MinCoRatings(t *testing.T) {
	// 所有电影对的共同评分人数都是 1，门槛 2 时索引应为空
	idx, err := Build(context.Background(), testMatrix(), BuildOptions{
		Metric:       MetricCosine,
		K:            10,
		MinCoRatings: 2,
	})
	if err != nil {
		t.Fatalf("构建失败: %v", err)
	}
	if idx.Len() != 0 {
		t.Errorf("共同评分不足门槛时索引应为空，实际 %d 部电影有邻居", idx.Len())
	}
}

func TestBuild_Pearson(t *testing.T) {
	idx, err := Build(context.Background(), testMatrix(), BuildOptions{
		Metric:       MetricPearson,
		K:            10,
		MinCoRatings: 1,
	})
	if err != nil {
		t.Fatalf("构建失败: %v", err)
	}

	// 用户 1 均值 4.0：电影 10 修正为 +1，电影 20 修正为 -1 → sim = -1
	if s, ok := lookupScore(idx, 10, 20); !ok || math.Abs(s-(-1.0)) > 1e-9 {
		t.Errorf("pearson sim(10,20) 期望 -1.0，实际 %v/%v", s, ok)
	}
}

func TestBuild_ZeroVarianceExcluded(t *testing.T) {
	// 用户评分恰为自己的均值时 pearson 修正后向量为零，相似度 0，应被排除
	m := dataset.NewMatrix([]dataset.Rating{
		{UserID: 1, MovieID: 10, Rating: 4.0},
		{UserID: 1, MovieID: 20, Rating: 4.0},
	}, core.DefaultRatingScale())
	idx, err := Build(context.Background(), m, BuildOptions{
		Metric:       MetricPearson,
		K:            10,
		MinCoRatings: 1,
	})
	if err != nil {
		t.Fatalf("构建失败: %v", err)
	}
	if idx.Len() != 0 {
		t.Errorf("零方差电影对不应互为邻居，实际 %d", idx.Len())
	}
}

func TestBuild_TopKTruncation(t *testing.T) {
	// 用户 1 评了 4 部电影，每部电影有 3 个候选邻居，K=1 只保留最好的
	m := dataset.NewMatrix([]dataset.Rating{
		{UserID: 1, MovieID: 10, Rating: 5.0},
		{UserID: 1, MovieID: 20, Rating: 4.0},
		{UserID: 1, MovieID: 30, Rating: 3.0},
		{UserID: 1, MovieID: 40, Rating: 2.0},
	}, core.DefaultRatingScale())
	idx, err := Build(context.Background(), m, BuildOptions{
		Metric:       MetricCosine,
		K:            1,
		MinCoRatings: 1,
	})
	if err != nil {
		t.Fatalf("构建失败: %v", err)
	}
	for _, movieID := range m.Movies() {
		if n := len(idx.Lookup(movieID)); n > 1 {
			t.Errorf("电影 %d 的邻居表应截断到 1，实际 %d", movieID, n)
		}
	}
	// 单用户共同评分下全部 sim=1（同分），同分按共同评分数再按 movieId 升序
	nbs := idx.Lookup(40)
	if len(nbs) != 1 || nbs[0].MovieID != 10 {
		t.Errorf("同分邻居应按 movieId 升序取首个，实际 %+v", nbs)
	}
}

func TestBuild_InvalidMetric(t *testing.T) {
	_, err := Build(context.Background(), testMatrix(), BuildOptions{Metric: "jaccard"})
	if err == nil {
		t.Fatal("未知度量方式应返回错误")
	}
}

func TestBuild_Deterministic(t *testing.T) {
	opts := BuildOptions{Metric: MetricCosine, K: 5, MinCoRatings: 1, Parallelism: 4}
	a, err := Build(context.Background(), testMatrix(), opts)
	if err != nil {
		t.Fatalf("构建失败: %v", err)
	}
	b, err := Build(context.Background(), testMatrix(), opts)
	if err != nil {
		t.Fatalf("构建失败: %v", err)
	}
	if a.Len() != b.Len() {
		t.Fatalf("两次构建结果应一致: %d vs %d", a.Len(), b.Len())
	}
	for movieID, nbs := range a.Neighbors {
		other := b.Neighbors[movieID]
		if len(nbs) != len(other) {
			t.Fatalf("电影 %d 邻居数不一致", movieID)
		}
		for i := range nbs {
			if nbs[i] != other[i] {
				t.Errorf("电影 %d 第 %d 个邻居不一致: %+v vs %+v", movieID, i, nbs[i], other[i])
			}
		}
	}
}
