package recall

import (
	"context"
	"math"
	"testing"

	"github.com/rushteam/movierec/core"
	"github.com/rushteam/movierec/dataset"
	"github.com/rushteam/movierec/similarity"
)

func buildItemCF(t *testing.T, ratings []dataset.Rating, k int) *ItemCF {
	t.Helper()
	m := dataset.NewMatrix(ratings, core.DefaultRatingScale())
	idx, err := similarity.Build(context.Background(), m, similarity.BuildOptions{
		Metric:       similarity.MetricCosine,
		K:            k,
		MinCoRatings: 1,
	})
	if err != nil {
		t.Fatalf("构建索引失败: %v", err)
	}
	return &ItemCF{Matrix: m, Index: idx}
}

func TestItemCF_EndToEnd(t *testing.T) {
	// 两个用户都喜欢电影 10；用户 2 还喜欢电影 30。
	// 用用户 2 作桥梁，应为用户 1 推出电影 30。
	cf := buildItemCF(t, []dataset.Rating{
		{UserID: 1, MovieID: 10, Rating: 5.0},
		{UserID: 1, MovieID: 20, Rating: 3.0},
		{UserID: 2, MovieID: 10, Rating: 4.0},
		{UserID: 2, MovieID: 30, Rating: 5.0},
	}, 1)

	items, err := cf.RecommendItems(context.Background(), 1, 10)
	if err != nil {
		t.Fatalf("推荐失败: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("用户 1 只有电影 30 一个候选，实际 %d 个", len(items))
	}
	if items[0].MovieID != 30 {
		t.Fatalf("期望推出电影 30，实际 %d", items[0].MovieID)
	}
	// 唯一可用邻居是电影 10（sim=1，评分 5.0）：score = 5.0
	if math.Abs(items[0].Score-5.0) > 1e-9 {
		t.Errorf("期望分数 5.0，实际 %v", items[0].Score)
	}
}

func TestItemCF_NeverRecommendsRated(t *testing.T) {
	cf := buildItemCF(t, []dataset.Rating{
		{UserID: 1, MovieID: 10, Rating: 5.0},
		{UserID: 1, MovieID: 20, Rating: 3.0},
		{UserID: 2, MovieID: 10, Rating: 4.0},
		{UserID: 2, MovieID: 20, Rating: 4.5},
		{UserID: 2, MovieID: 30, Rating: 5.0},
	}, 10)

	items, err := cf.RecommendItems(context.Background(), 1, 10)
	if err != nil {
		t.Fatalf("推荐失败: %v", err)
	}
	for _, it := range items {
		if it.MovieID == 10 || it.MovieID == 20 {
			t.Errorf("不应推荐用户已评分的电影 %d", it.MovieID)
		}
	}
}

func TestItemCF_SortedAndTruncated(t *testing.T) {
	cf := buildItemCF(t, []dataset.Rating{
		{UserID: 1, MovieID: 10, Rating: 5.0},
		{UserID: 2, MovieID: 10, Rating: 4.0},
		{UserID: 2, MovieID: 30, Rating: 5.0},
		{UserID: 2, MovieID: 40, Rating: 3.0},
		{UserID: 2, MovieID: 50, Rating: 4.0},
	}, 10)

	items, err := cf.RecommendItems(context.Background(), 1, 2)
	if err != nil {
		t.Fatalf("推荐失败: %v", err)
	}
	if len(items) > 2 {
		t.Fatalf("结果应截断至 2 个，实际 %d 个", len(items))
	}
	for i := 1; i < len(items); i++ {
		if items[i-1].Score < items[i].Score {
			t.Error("结果应按分数降序")
		}
		if items[i-1].Score == items[i].Score && items[i-1].MovieID >= items[i].MovieID {
			t.Error("同分应按 movieId 升序")
		}
	}
}

func TestItemCF_ColdStartFallsBackToPopularity(t *testing.T) {
	ratings := []dataset.Rating{
		{UserID: 1, MovieID: 10, Rating: 5.0},
		{UserID: 2, MovieID: 10, Rating: 4.0},
		{UserID: 3, MovieID: 10, Rating: 4.5},
		{UserID: 1, MovieID: 20, Rating: 3.0},
		{UserID: 2, MovieID: 20, Rating: 3.5},
		{UserID: 3, MovieID: 20, Rating: 4.0},
	}
	cf := buildItemCF(t, ratings, 10)

	items, err := cf.RecommendItems(context.Background(), 999, 10)
	if err != nil {
		t.Fatalf("冷启动不是错误: %v", err)
	}

	m := dataset.NewMatrix(ratings, core.DefaultRatingScale())
	pop := &Popularity{Matrix: m, MinRatingCount: 3}
	want, err := pop.RecommendItems(context.Background(), 999, 10)
	if err != nil {
		t.Fatalf("热门榜失败: %v", err)
	}
	if len(items) != len(want) {
		t.Fatalf("冷启动结果应与热门榜一致: %d vs %d", len(items), len(want))
	}
	for i := range items {
		if items[i].MovieID != want[i].MovieID {
			t.Errorf("第 %d 位期望电影 %d，实际 %d", i, want[i].MovieID, items[i].MovieID)
		}
		if label, ok := items[i].GetLabel(core.LabelModel); !ok || label.Value != "cf" {
			t.Errorf("冷启动结果应带 cf 模型标签，实际 %+v", label)
		}
	}
}

func TestItemCF_EdgeN(t *testing.T) {
	cf := buildItemCF(t, []dataset.Rating{
		{UserID: 1, MovieID: 10, Rating: 5.0},
		{UserID: 2, MovieID: 10, Rating: 4.0},
	}, 10)

	items, err := cf.RecommendItems(context.Background(), 1, 0)
	if err != nil || len(items) != 0 {
		t.Errorf("n=0 应返回空列表: items=%v err=%v", items, err)
	}
	if _, err := cf.RecommendItems(context.Background(), 1, -1); err == nil {
		t.Error("n<0 应返回错误")
	}
}

func TestItemCF_NoComputableScore(t *testing.T) {
	// 用户 1 与电影 30 没有任何邻居桥梁时，不应用零分凑数
	cf := buildItemCF(t, []dataset.Rating{
		{UserID: 1, MovieID: 10, Rating: 5.0},
		{UserID: 2, MovieID: 30, Rating: 4.0},
	}, 10)

	items, err := cf.RecommendItems(context.Background(), 1, 10)
	if err != nil {
		t.Fatalf("推荐失败: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("无可计算分数的候选应被跳过，实际 %+v", items)
	}
}
