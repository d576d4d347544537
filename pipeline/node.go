package pipeline

import (
	"context"

	"github.com/rushteam/matchkit/core"
)

// Kind 用于标记 Node 类型，方便观测/治理/编排（例如按阶段打点）。
type Kind string

const (
	KindValidate    Kind = "validate"    // 校验阶段：检索词门禁，失败即拒绝请求
	KindRecall      Kind = "recall"      // 召回阶段：生成候选集
	KindFilter      Kind = "filter"      // 过滤阶段：剔除不符合约束的候选
	KindEnrich      Kind = "enrich"      // 补全阶段：注入公开资料与社交状态
	KindRank        Kind = "rank"        // 排序阶段：对候选打分并排序
	KindReRank      Kind = "rerank"      // 重排阶段：两路混合/截断
	KindPostProcess Kind = "postprocess" // 后处理阶段：投影公开形态等
)

// Node 是 Pipeline 的最小可扩展单元。
// 统一采用“输入 candidates -> 输出 candidates”的形态，方便 Recall 生成、
// Filter 截断、ReRank 重排等操作。
type Node interface {
	Name() string
	Kind() Kind

	Process(
		ctx context.Context,
		sctx *core.SearchContext,
		candidates []*core.Candidate,
	) ([]*core.Candidate, error)
}
