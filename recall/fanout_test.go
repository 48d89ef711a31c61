package recall

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rushteam/movierec/core"
)

// stubSource 是测试用的召回源。
type stubSource struct {
	name  string
	items []*core.Item
	err   error
	delay time.Duration
}

func (s *stubSource) Name() string { return s.name }

func (s *stubSource) Recall(ctx context.Context, _ *core.RecommendContext) ([]*core.Item, error) {
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if s.err != nil {
		return nil, s.err
	}
	return s.items, nil
}

func scoredItem(movieID int64, score float64) *core.Item {
	it := core.NewItem(movieID)
	it.Score = score
	return it
}

func TestFanout_MergeMax(t *testing.T) {
	f := &Fanout{
		Sources: []Source{
			&stubSource{name: "a", items: []*core.Item{scoredItem(10, 0.3), scoredItem(20, 0.9)}},
			&stubSource{name: "b", items: []*core.Item{scoredItem(10, 0.8)}},
		},
	}
	items, err := f.Process(context.Background(), &core.RecommendContext{UserID: 1}, nil)
	if err != nil {
		t.Fatalf("fanout 失败: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("去重后应剩 2 个候选，实际 %d", len(items))
	}
	for _, it := range items {
		if it.MovieID == 10 && it.Score != 0.8 {
			t.Errorf("重复候选应保留更高分数，实际 %v", it.Score)
		}
	}
}

func TestFanout_ErrorDropsOnlyThatSource(t *testing.T) {
	f := &Fanout{
		Sources: []Source{
			&stubSource{name: "bad", err: errors.New("boom")},
			&stubSource{name: "good", items: []*core.Item{scoredItem(10, 1.0)}},
		},
	}
	items, err := f.Process(context.Background(), &core.RecommendContext{UserID: 1}, nil)
	if err != nil {
		t.Fatalf("单源失败不应中断: %v", err)
	}
	if len(items) != 1 || items[0].MovieID != 10 {
		t.Errorf("应保留正常源的结果，实际 %+v", items)
	}
}

func TestFanout_Timeout(t *testing.T) {
	f := &Fanout{
		Timeout: 10 * time.Millisecond,
		Sources: []Source{
			&stubSource{name: "slow", delay: time.Second, items: []*core.Item{scoredItem(20, 1.0)}},
			&stubSource{name: "fast", items: []*core.Item{scoredItem(10, 0.5)}},
		},
	}
	start := time.Now()
	items, err := f.Process(context.Background(), &core.RecommendContext{UserID: 1}, nil)
	if err != nil {
		t.Fatalf("超时源不应中断: %v", err)
	}
	if time.Since(start) > 500*time.Millisecond {
		t.Error("超时控制未生效")
	}
	if len(items) != 1 || items[0].MovieID != 10 {
		t.Errorf("只应保留按时返回的结果，实际 %+v", items)
	}
}

func TestFanout_RecallSourceLabel(t *testing.T) {
	f := &Fanout{
		Sources: []Source{
			&stubSource{name: "popularity", items: []*core.Item{scoredItem(10, 1.0)}},
		},
	}
	items, err := f.Process(context.Background(), &core.RecommendContext{UserID: 1}, nil)
	if err != nil {
		t.Fatalf("fanout 失败: %v", err)
	}
	if label, ok := items[0].GetLabel("recall_source"); !ok || label.Value != "popularity" {
		t.Errorf("候选应带 recall_source 标签，实际 %+v", label)
	}
}
