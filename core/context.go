package core

import "github.com/rushteam/movierec/pkg/utils"

// RecommendContext 承载一次推荐请求的用户/场景信息，贯穿整个 Pipeline 透传。
type RecommendContext struct {
	UserID int64
	Scene  string

	// N 是期望返回的推荐数量；<= 0 时由各 Node 使用默认值。
	N int

	// Labels 是用户级标签，可驱动整个 Pipeline 行为。
	// 例如：新用户（冷启动）、重度用户等。
	Labels map[string]utils.Label

	// Params 请求级上下文参数（query、device_type 等），
	// 供 RuleFilter 等策略节点读取。
	Params map[string]any
}

// PutLabel 写入用户级 Label。
func (rctx *RecommendContext) PutLabel(key string, lbl utils.Label) {
	if rctx.Labels == nil {
		rctx.Labels = make(map[string]utils.Label)
	}
	if old, ok := rctx.Labels[key]; ok {
		rctx.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	rctx.Labels[key] = lbl
}

// GetLabel 获取用户级 Label。
func (rctx *RecommendContext) GetLabel(key string) (utils.Label, bool) {
	if rctx.Labels == nil {
		return utils.Label{}, false
	}
	lbl, ok := rctx.Labels[key]
	return lbl, ok
}
