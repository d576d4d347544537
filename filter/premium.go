package filter

import (
	"context"

	"github.com/rushteam/matchkit/core"
	"github.com/rushteam/matchkit/pipeline"
	"github.com/rushteam/matchkit/pkg/utils"
)

// PremiumCapNode 限制付费用户的数量：超出 Max 的付费候选被丢弃，
// 其余候选顺序不变。带状态的计数过滤，所以是独立 Node 而不是
// 无状态 Filter。只挂在熟人子管道里，补全之后、打分之前。
type PremiumCapNode struct {
	// Max 付费用户上限；<=0 表示不限制
	Max int
}

func (n *PremiumCapNode) Name() string        { return "filter.premium_cap" }
func (n *PremiumCapNode) Kind() pipeline.Kind { return pipeline.KindPostProcess }

func (n *PremiumCapNode) Process(
	_ context.Context,
	_ *core.SearchContext,
	candidates []*core.Candidate,
) ([]*core.Candidate, error) {
	if n.Max <= 0 {
		return candidates, nil
	}
	out := make([]*core.Candidate, 0, len(candidates))
	premium := 0
	for _, c := range candidates {
		if c == nil {
			continue
		}
		if c.Premium {
			if premium >= n.Max {
				c.PutLabel("filtered", utils.Label{Value: "true", Source: n.Name()})
				continue
			}
			premium++
		}
		out = append(out, c)
	}
	return out, nil
}
