package rank

import (
	"context"
	"sort"

	"github.com/rushteam/matchkit/core"
	"github.com/rushteam/matchkit/pipeline"
	"github.com/rushteam/matchkit/pkg/utils"
)

// WeightedNode 是 WeightTable 加权打分的排序 Node。
// - 写入 labels：rank_model
// - 更新 candidate.Score 并按分数降序稳定排序
//
// BaseFromWeight 区分两个调用点：社交搜索以关系权重为基础分，
// 通用打分从零开始。两者都是配置，不是写死的分支。
type WeightedNode struct {
	Table *WeightTable

	// BaseFromWeight 为 true 时以 candidate.Weight 作为基础分
	BaseFromWeight bool
}

func (n *WeightedNode) Name() string        { return "rank.weighted" }
func (n *WeightedNode) Kind() pipeline.Kind { return pipeline.KindRank }

func (n *WeightedNode) Process(
	_ context.Context,
	_ *core.SearchContext,
	candidates []*core.Candidate,
) ([]*core.Candidate, error) {
	if n.Table == nil || len(candidates) == 0 {
		return candidates, nil
	}

	for _, c := range candidates {
		if c == nil {
			continue
		}
		base := 0.0
		if n.BaseFromWeight {
			base = c.Weight
		}
		c.Score = n.Table.Score(c, base)
		c.PutLabel("rank_model", utils.Label{Value: "weight_table", Source: "rank"})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i] == nil {
			return false
		}
		if candidates[j] == nil {
			return true
		}
		return candidates[i].Score > candidates[j].Score
	})
	return candidates, nil
}
