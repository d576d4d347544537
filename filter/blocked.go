package filter

import (
	"context"

	"github.com/rushteam/matchkit/core"
)

// Blocked 是拉黑过滤器：候选相对请求者处于拉黑关系时整条移除。
// 安全过滤的第一步，投影（search.Project）之前必须先过这里。
//
// 候选补全阶段已经把 Blocked 标志写进候选；Store 可选，用于补全
// 缺失标志时的兜底查询。
type Blocked struct {
	// Store 可选的社交状态兜底查询
	Store core.UserStore
}

func (f *Blocked) Name() string {
	return "filter.blocked"
}

func (f *Blocked) ShouldFilter(
	ctx context.Context,
	sctx *core.SearchContext,
	c *core.Candidate,
) (bool, error) {
	if c == nil {
		return true, nil
	}
	if c.Blocked {
		return true, nil
	}
	if f.Store != nil && sctx != nil && sctx.UserID != 0 {
		blocked, err := f.Store.IsBlocked(ctx, sctx.UserID, c.ID)
		if err != nil {
			// 查询失败按未拉黑处理，依赖补全阶段的标志
			return false, nil
		}
		return blocked, nil
	}
	return false, nil
}
