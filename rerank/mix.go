package rerank

import (
	"context"
	"sort"

	"github.com/rushteam/matchkit/core"
	"github.com/rushteam/matchkit/pipeline"
	"github.com/rushteam/matchkit/pkg/conv"
)

// MixNode 把两路已打分的候选列表混合为一个全局有序列表。
//
// Coefficient 是混合系数 c ∈ [0,1]：排序前 related 路的有效分为
// score*c、unknown 路为 score*(1-c)。c=0.5 时两路等权，等价于纯按分数
// 降序排序。有效分只作为排序键，candidate.Score 保留来源分供观测。
//
// 排序是稳定的降序，保证同分时结果可复现。
type MixNode struct {
	// Coefficient 混合系数；NaN/未设置时用 0.5
	Coefficient float64

	// CoefficientSet 区分 0 值与未设置
	CoefficientSet bool
}

func (n *MixNode) Name() string        { return "rerank.mix" }
func (n *MixNode) Kind() pipeline.Kind { return pipeline.KindReRank }

// Process 接收两路合并后的候选（来源由 candidate.Source 标记）。
// 请求 Params 里的 mixing_coefficient 可覆盖 Node 配置。
func (n *MixNode) Process(
	_ context.Context,
	sctx *core.SearchContext,
	candidates []*core.Candidate,
) ([]*core.Candidate, error) {
	c := 0.5
	if n.CoefficientSet {
		c = n.Coefficient
	}
	if sctx != nil {
		if v, ok := conv.ToFloat64(sctx.Params["mixing_coefficient"]); ok {
			c = v
		}
	}
	return MixSorted(candidates, c), nil
}

// MixLists 混合两个各自按分数降序的列表，返回全局降序的单一列表。
func MixLists(related, unknown []*core.Candidate, coefficient float64) []*core.Candidate {
	combined := make([]*core.Candidate, 0, len(related)+len(unknown))
	combined = append(combined, related...)
	combined = append(combined, unknown...)
	return MixSorted(combined, coefficient)
}

// MixSorted 对合并后的候选按有效分稳定降序排序。
func MixSorted(candidates []*core.Candidate, coefficient float64) []*core.Candidate {
	if coefficient < 0 {
		coefficient = 0
	}
	if coefficient > 1 {
		coefficient = 1
	}
	out := make([]*core.Candidate, 0, len(candidates))
	for _, c := range candidates {
		if c != nil {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return effectiveScore(out[i], coefficient) > effectiveScore(out[j], coefficient)
	})
	return out
}

func effectiveScore(c *core.Candidate, coefficient float64) float64 {
	if c.Source == core.SourceRelated {
		return c.Score * coefficient
	}
	return c.Score * (1 - coefficient)
}
