package rerank

import (
	"context"
	"testing"

	"github.com/rushteam/movierec/core"
	"github.com/rushteam/movierec/pkg/utils"
)

func item(movieID int64, score float64) *core.Item {
	it := core.NewItem(movieID)
	it.Score = score
	return it
}

func genreItem(movieID int64, score float64, genres string) *core.Item {
	it := item(movieID, score)
	it.PutLabel(core.LabelGenres, utils.Label{Value: genres, Source: "recall"})
	return it
}

func TestTopN(t *testing.T) {
	node := &TopN{N: 2}
	items := []*core.Item{item(20, 0.5), item(10, 0.9), item(30, 0.5)}
	out, err := node.Process(context.Background(), nil, items)
	if err != nil {
		t.Fatalf("重排失败: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("应截断至 2 个，实际 %d", len(out))
	}
	// 分数降序；同分（20 与 30）按 movieId 升序，20 在前
	if out[0].MovieID != 10 || out[1].MovieID != 20 {
		t.Errorf("排序错误: %d, %d", out[0].MovieID, out[1].MovieID)
	}
}

func TestTopN_UsesContextN(t *testing.T) {
	node := &TopN{}
	items := []*core.Item{item(10, 0.9), item(20, 0.5), item(30, 0.1)}
	out, err := node.Process(context.Background(), &core.RecommendContext{N: 1}, items)
	if err != nil {
		t.Fatalf("重排失败: %v", err)
	}
	if len(out) != 1 {
		t.Errorf("应按请求 N 截断，实际 %d", len(out))
	}
}

func TestTopN_NoLimit(t *testing.T) {
	node := &TopN{}
	items := []*core.Item{item(10, 0.9), item(20, 0.5)}
	out, err := node.Process(context.Background(), nil, items)
	if err != nil || len(out) != 2 {
		t.Errorf("无限制时应只排序不截断: %d", len(out))
	}
}

func TestDiversity(t *testing.T) {
	node := &Diversity{MaxPerGenre: 2}
	items := []*core.Item{
		genreItem(10, 0.9, "Action|Crime"),
		genreItem(20, 0.8, "Action"),
		genreItem(30, 0.7, "Action|Thriller"), // 第三部 Action，被压掉
		genreItem(40, 0.6, "Drama"),
		item(50, 0.5), // 无类型标签，不受限制
	}
	out, err := node.Process(context.Background(), nil, items)
	if err != nil {
		t.Fatalf("重排失败: %v", err)
	}
	ids := make([]int64, 0, len(out))
	for _, it := range out {
		ids = append(ids, it.MovieID)
	}
	want := []int64{10, 20, 40, 50}
	if len(ids) != len(want) {
		t.Fatalf("期望 %v，实际 %v", want, ids)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("期望 %v，实际 %v", want, ids)
			break
		}
	}
}

func TestDiversity_Empty(t *testing.T) {
	node := &Diversity{}
	out, err := node.Process(context.Background(), nil, nil)
	if err != nil || len(out) != 0 {
		t.Errorf("空输入应返回空: %v/%v", out, err)
	}
}
