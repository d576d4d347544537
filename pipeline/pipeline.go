package pipeline

import (
	"context"

	"github.com/rushteam/matchkit/core"
)

// Pipeline 是 matchkit 的核心抽象：把检索/推荐逻辑拆成可组合的 Node 链。
type Pipeline struct {
	Nodes []Node
}

func (p *Pipeline) Run(
	ctx context.Context,
	sctx *core.SearchContext,
	candidates []*core.Candidate,
) ([]*core.Candidate, error) {
	cur := candidates
	for _, node := range p.Nodes {
		next, err := node.Process(ctx, sctx, cur)
		if err != nil {
			return nil, err
		}
		cur = next
	}
	return cur, nil
}
