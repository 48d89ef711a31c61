// Package similarity 负责物品间相似度的批量计算：
// TopK 邻居索引（cosine / 用户均值修正的 pearson）与 ALS 低秩分解。
// 训练是一次性的全量批计算，产出只读结构。
package similarity

import "math"

// Metric 是相似度度量方式。
type Metric string

const (
	// MetricCosine 在共同评分向量上计算余弦相似度
	MetricCosine Metric = "cosine"

	// MetricPearson 先按用户均值修正评分再计算余弦，
	// 削弱"打分普遍偏高的用户"带来的热门偏置
	MetricPearson Metric = "pearson"
)

// Valid 判断度量方式是否受支持。
func (m Metric) Valid() bool {
	return m == MetricCosine || m == MetricPearson
}

// Cosine 计算两个对齐向量的余弦相似度。
// 任一向量为零向量时返回 0（零方差物品没有可定义的邻居）。
func Cosine(x, y []float64) float64 {
	if len(x) != len(y) || len(x) == 0 {
		return 0
	}
	var dot, nx, ny float64
	for i := range x {
		dot += x[i] * y[i]
		nx += x[i] * x[i]
		ny += y[i] * y[i]
	}
	if nx == 0 || ny == 0 {
		return 0
	}
	return dot / (math.Sqrt(nx) * math.Sqrt(ny))
}

// CosineMap 计算两个稀疏特征向量（key -> 权重）的余弦相似度。
// 缺失 key 视为 0。
func CosineMap(a, b map[string]float64) float64 {
	var dot, na, nb float64
	for k, va := range a {
		na += va * va
		if vb, ok := b[k]; ok {
			dot += va * vb
		}
	}
	for _, vb := range b {
		nb += vb * vb
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// Dot 计算两个隐向量的点积，作为分解方法下的"相似度"。
func Dot(x, y []float64) float64 {
	n := len(x)
	if len(y) < n {
		n = len(y)
	}
	var sum float64
	for i := 0; i < n; i++ {
		sum += x[i] * y[i]
	}
	return sum
}
