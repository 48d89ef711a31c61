package core

import (
	"sort"

	"github.com/rushteam/movierec/pkg/utils"
)

// Item 是推荐链路中的统一承载结构：一部候选电影及其预测分数。
// Labels 用于解释与策略驱动（来源模型、度量方式等）；Score 用于排序决策。
type Item struct {
	MovieID  int64
	Score    float64
	Title    string
	Features map[string]float64 // 内容特征（类型权重），由内容模型或元数据补充
	Labels   map[string]utils.Label
}

func NewItem(movieID int64) *Item {
	return &Item{
		MovieID:  movieID,
		Score:    0,
		Features: make(map[string]float64),
		Labels:   make(map[string]utils.Label),
	}
}

// PutLabel 写入 Label；若已存在同名 key，则按默认 Merge 规则累积。
func (it *Item) PutLabel(key string, lbl utils.Label) {
	if it.Labels == nil {
		it.Labels = make(map[string]utils.Label)
	}
	if old, ok := it.Labels[key]; ok {
		it.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	it.Labels[key] = lbl
}

// GetLabel 获取 Label。
func (it *Item) GetLabel(key string) (utils.Label, bool) {
	if it.Labels == nil {
		return utils.Label{}, false
	}
	lbl, ok := it.Labels[key]
	return lbl, ok
}

// SortItems 对候选列表做确定性排序：分数降序，同分按 MovieID 升序。
// 所有推荐源在返回前都必须经过该排序，保证同一输入产生同一输出。
func SortItems(items []*Item) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].Score != items[j].Score {
			return items[i].Score > items[j].Score
		}
		return items[i].MovieID < items[j].MovieID
	})
}

// TruncateItems 截取前 n 个候选。n < 0 表示不截断；n == 0 返回空列表。
func TruncateItems(items []*Item, n int) []*Item {
	if n < 0 || len(items) <= n {
		return items
	}
	return items[:n]
}

// 标准 Label key（全链路统一，便于 explain / 过滤 / 观测）。
const (
	LabelModel  = "model"  // 来源模型：cf / content / hybrid / popularity
	LabelMetric = "metric" // 度量方式：cosine / pearson / latent
	LabelGenres = "genres" // 电影类型，'|' 分隔
)
