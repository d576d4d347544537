package filter

import (
	"context"
	"time"

	"github.com/rushteam/matchkit/core"
)

// Seen 是已交互过滤器：剔除请求者已经滑过/看过的实体。
// 审核子系统的集成契约是一个 ID 排除集合：IDs 直接给集合，
// 或者通过 Store 从交互事件里取。
type Seen struct {
	// IDs 内存中的排除集合（上游已算好时直接传入）
	IDs map[int64]struct{}

	// Store 可选：从交互事件推导排除集合
	Store core.InteractionStore

	// Kind 交互实体命名空间
	Kind core.EntityKind

	// TimeWindow 只考虑该窗口内的交互；0 表示全部历史
	TimeWindow time.Duration
}

func (f *Seen) Name() string {
	return "filter.seen"
}

func (f *Seen) ShouldFilter(
	ctx context.Context,
	sctx *core.SearchContext,
	c *core.Candidate,
) (bool, error) {
	if c == nil {
		return true, nil
	}
	if f.IDs != nil {
		if _, ok := f.IDs[c.ID]; ok {
			return true, nil
		}
	}
	if f.Store != nil && sctx != nil && sctx.UserID != 0 {
		since := time.Time{}
		if f.TimeWindow > 0 {
			since = time.Now().Add(-f.TimeWindow)
		}
		ids, err := f.Store.InteractedEntityIDs(ctx, sctx.UserID, f.Kind, since)
		if err != nil {
			return false, nil
		}
		for _, id := range ids {
			if id == c.ID {
				return true, nil
			}
		}
	}
	return false, nil
}
