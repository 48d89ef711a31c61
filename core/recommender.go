package core

import "context"

// Recommender 是推荐模型的领域接口：给用户算 TopN 候选电影。
//
// 设计原则：
//   - 定义在领域层（core），由 recall / model 包实现
//   - 返回值已按分数降序排序（同分按 MovieID 升序），长度 <= n
//   - 空列表是合法返回，不是错误：冷启动无内容画像、候选集为空
//     都走该路径；n == 0 返回空列表
//   - 绝不返回用户已评分的电影
//
// 实现：
//   - recall.ItemCF / recall.LatentCF（协同过滤，未知用户降级为热门）
//   - recall.Content（基于内容）
//   - recall.Hybrid（加权融合）
//   - recall.Popularity（全局热门）
type Recommender interface {
	// Name 返回模型名称（用于日志/指标导出）
	Name() string

	// RecommendItems 为 userID 计算至多 n 个推荐
	RecommendItems(ctx context.Context, userID int64, n int) ([]*Item, error)
}
