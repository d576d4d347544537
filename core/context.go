package core

import "github.com/rushteam/matchkit/pkg/utils"

// SearchContext 承载请求者/查询词/场景信息，贯穿整个 Pipeline 透传。
// 请求级只读：Pipeline 不在请求之间共享可变状态。
type SearchContext struct {
	UserID int64  // 请求者 ID
	Term   string // 检索词（已通过校验门）
	Scene  string // search / swipe / ...

	// Premium 请求者是否为付费用户（影响部分规则）
	Premium bool

	// Labels 是请求级标签，可驱动整个 Pipeline 行为
	Labels map[string]utils.Label

	// Params 请求级上下文参数：limit、mixing_coefficient、exclude_ids 等
	Params map[string]any
}

// PutLabel 写入请求级 Label。
func (sctx *SearchContext) PutLabel(key string, lbl utils.Label) {
	if sctx.Labels == nil {
		sctx.Labels = make(map[string]utils.Label)
	}
	if old, ok := sctx.Labels[key]; ok {
		sctx.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	sctx.Labels[key] = lbl
}

// GetLabel 获取请求级 Label。
func (sctx *SearchContext) GetLabel(key string) (utils.Label, bool) {
	if sctx.Labels == nil {
		return utils.Label{}, false
	}
	lbl, ok := sctx.Labels[key]
	return lbl, ok
}
