package recall

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rushteam/movierec/core"
	"github.com/rushteam/movierec/pipeline"
	"github.com/rushteam/movierec/pkg/utils"
)

// 合并策略。
const (
	// MergeMax 按 MovieID 去重，保留分数更高的（默认）
	MergeMax = "max"

	// MergeFirst 按 MovieID 去重，保留先注册的召回源产出的
	MergeFirst = "first"

	// MergeUnion 不去重，保留所有来源的结果
	MergeUnion = "union"
)

// Fanout 是一个召回 Node：并发执行多个召回源，并合并结果。
// 单个召回源超时或出错只会丢掉它自己的结果，不中断其他源。
type Fanout struct {
	Sources       []Source
	Timeout       time.Duration // 每个召回源的超时时间
	MaxConcurrent int           // 最大并发数（0 表示无限制）
	MergeStrategy string        // max / first / union
}

func (n *Fanout) Name() string        { return "recall.fanout" }
func (n *Fanout) Kind() pipeline.Kind { return pipeline.KindRecall }

func (n *Fanout) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Item,
) ([]*core.Item, error) {
	if len(n.Sources) == 0 {
		return nil, nil
	}

	// 每个源的结果独立落位，合并顺序与 Sources 顺序一致，结果确定
	results := make([][]*core.Item, len(n.Sources))

	var mu sync.Mutex
	eg, egCtx := errgroup.WithContext(ctx)
	if n.MaxConcurrent > 0 {
		eg.SetLimit(n.MaxConcurrent)
	}

	for i, src := range n.Sources {
		eg.Go(func() error {
			recallCtx := egCtx
			if n.Timeout > 0 {
				var cancel context.CancelFunc
				recallCtx, cancel = context.WithTimeout(egCtx, n.Timeout)
				defer cancel()
			}

			items, err := src.Recall(recallCtx, rctx)
			if err != nil {
				// 超时或错误时返回空结果，不中断其他召回源
				return nil
			}

			// 记录召回来源 label，方便 explain / 观测
			for _, it := range items {
				it.PutLabel("recall_source", utils.Label{Value: src.Name(), Source: "recall"})
			}

			mu.Lock()
			results[i] = items
			mu.Unlock()
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	all := make([]*core.Item, 0)
	for _, items := range results {
		all = append(all, items...)
	}

	switch n.MergeStrategy {
	case MergeUnion:
		return all, nil
	case MergeFirst:
		return n.mergeFirst(all), nil
	default:
		return n.mergeMax(all), nil
	}
}

// mergeFirst 按 MovieID 去重，保留第一个出现的。
func (n *Fanout) mergeFirst(all []*core.Item) []*core.Item {
	seen := make(map[int64]*core.Item, len(all))
	out := make([]*core.Item, 0, len(all))
	for _, it := range all {
		if it == nil {
			continue
		}
		if old, ok := seen[it.MovieID]; ok {
			for k, v := range it.Labels {
				old.PutLabel(k, v)
			}
			continue
		}
		seen[it.MovieID] = it
		out = append(out, it)
	}
	return out
}

// mergeMax 按 MovieID 去重，保留分数更高的；labels 合并保留历史。
func (n *Fanout) mergeMax(all []*core.Item) []*core.Item {
	seen := make(map[int64]*core.Item, len(all))
	order := make([]int64, 0, len(all))
	for _, it := range all {
		if it == nil {
			continue
		}
		old, ok := seen[it.MovieID]
		if !ok {
			seen[it.MovieID] = it
			order = append(order, it.MovieID)
			continue
		}
		if it.Score > old.Score {
			for k, v := range old.Labels {
				it.PutLabel(k, v)
			}
			seen[it.MovieID] = it
		} else {
			for k, v := range it.Labels {
				old.PutLabel(k, v)
			}
		}
	}
	out := make([]*core.Item, 0, len(seen))
	for _, id := range order {
		out = append(out, seen[id])
	}
	return out
}
