package filter

import (
	"context"

	"github.com/rushteam/matchkit/core"
	"github.com/rushteam/matchkit/pkg/dsl"
)

// RuleFilter 是表达式驱动的过滤器：部署方用 CEL 表达式描述候选合规规则，
// 表达式为真时过滤。例如：
//
//	candidate.muted && !candidate.you_follow
//	label.recall_source == "unknown" && candidate.score < 0.1
type RuleFilter struct {
	// Expr 是 CEL 表达式；空表达式不过滤任何候选
	Expr string
}

func (f *RuleFilter) Name() string {
	return "filter.rule"
}

func (f *RuleFilter) ShouldFilter(
	_ context.Context,
	sctx *core.SearchContext,
	c *core.Candidate,
) (bool, error) {
	if f.Expr == "" || c == nil {
		return false, nil
	}
	return dsl.NewEval(c, sctx).Evaluate(f.Expr)
}
