// Package movierec 是一个电影推荐引擎（MovieLens 风格数据）。
//
// 设计要点：
// - Snapshot-first: 训练产出不可变快照（评分矩阵 + 相似度索引 + 热门榜），换模型靠换快照
// - 确定性: 固定输入与参数，训练与推理结果完全可复现（分数降序，同分按 movieId 升序）
// - Pipeline 可编排: 召回（CF/内容/热门/融合）→ 过滤 → 重排 均是可插拔 Node
package movierec

import (
	"github.com/rushteam/movierec/core"
	"github.com/rushteam/movierec/pipeline"
)

// 轻量 facade：便于用户直接 import "movierec" 使用核心抽象。
type Item = core.Item
type RecommendContext = core.RecommendContext
type Recommender = core.Recommender
type Pipeline = pipeline.Pipeline
type Node = pipeline.Node
type Kind = pipeline.Kind

const (
	KindRecall      = pipeline.KindRecall
	KindFilter      = pipeline.KindFilter
	KindReRank      = pipeline.KindReRank
	KindPostProcess = pipeline.KindPostProcess
)
