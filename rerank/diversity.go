package rerank

import (
	"context"
	"strings"

	"github.com/rushteam/movierec/core"
	"github.com/rushteam/movierec/pipeline"
)

// Diversity 是类型多样性重排节点：限制同一主类型（genres label 的首个类型）
// 连续霸榜，每个主类型至多保留 MaxPerGenre 部。
// 没有 genres label 的候选不受限制。
type Diversity struct {
	// MaxPerGenre 每个主类型保留的上限，<= 0 时取 2
	MaxPerGenre int
}

func (n *Diversity) Name() string {
	return "rerank.diversity"
}

func (n *Diversity) Kind() pipeline.Kind {
	return pipeline.KindReRank
}

func (n *Diversity) Process(
	_ context.Context,
	_ *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(items) == 0 {
		return items, nil
	}

	max := n.MaxPerGenre
	if max <= 0 {
		max = 2
	}

	counts := make(map[string]int, 16)
	out := make([]*core.Item, 0, len(items))
	for _, it := range items {
		if it == nil {
			continue
		}
		genre := primaryGenre(it)
		if genre == "" {
			out = append(out, it)
			continue
		}
		if counts[genre] >= max {
			continue
		}
		counts[genre]++
		out = append(out, it)
	}
	return out, nil
}

func primaryGenre(it *core.Item) string {
	lbl, ok := it.GetLabel(core.LabelGenres)
	if !ok || lbl.Value == "" {
		return ""
	}
	if i := strings.IndexByte(lbl.Value, '|'); i >= 0 {
		return lbl.Value[:i]
	}
	return lbl.Value
}
