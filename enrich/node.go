// Package enrich 提供候选补全 Node：并发读取用户资料与社交状态，
// 把布尔准则字段填到候选上，供后续 WeightTable 加权。
package enrich

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/rushteam/matchkit/core"
	"github.com/rushteam/matchkit/pipeline"
)

// Stats 是特征库侧的用户统计量，比主存储里的快照更新鲜。
type Stats struct {
	Followers int64
}

// StatsProvider 批量读取用户统计特征。feast.StatsProvider 实现此接口。
type StatsProvider interface {
	BatchStats(ctx context.Context, userIDs []int64) (map[int64]Stats, error)
}

// Node 是补全节点：每个候选的资料/拉黑/关注/订阅读取相互独立，
// 按候选并发发起，结果写回各自的下标位置，与完成顺序无关。
// 单个候选的读失败只影响该候选的对应字段，不中断链路。
type Node struct {
	Users core.UserStore

	// Stats 可选的特征库统计源，命中时覆盖 Followers
	Stats StatsProvider

	// MaxConcurrent 并发读取上限；<=0 时为 8
	MaxConcurrent int
}

func (n *Node) Name() string        { return "enrich.profile" }
func (n *Node) Kind() pipeline.Kind { return pipeline.KindEnrich }

func (n *Node) Process(
	ctx context.Context,
	sctx *core.SearchContext,
	candidates []*core.Candidate,
) ([]*core.Candidate, error) {
	if len(candidates) == 0 || n.Users == nil {
		return candidates, nil
	}

	limit := n.MaxConcurrent
	if limit <= 0 {
		limit = 8
	}
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(limit)

	for _, c := range candidates {
		c := c
		eg.Go(func() error {
			n.hydrate(egCtx, sctx, c)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return candidates, err
	}

	n.applyStats(ctx, candidates)
	return candidates, nil
}

func (n *Node) hydrate(ctx context.Context, sctx *core.SearchContext, c *core.Candidate) {
	if c.Username == "" {
		if rec, err := n.Users.GetUser(ctx, c.ID); err == nil {
			c.Username = rec.Username
			c.Name = rec.Name
			c.Verified = rec.Verified
			c.Muted = rec.Muted
			c.ProfilePicture = rec.ProfilePicture
			c.HasProfilePicture = rec.ProfilePicture != ""
			c.Followers = rec.Followers
		}
	}
	if blocked, err := n.Users.IsBlocked(ctx, sctx.UserID, c.ID); err == nil {
		c.Blocked = blocked
	}
	if following, err := n.Users.IsFollowing(ctx, sctx.UserID, c.ID); err == nil {
		c.YouFollow = following
	}
	if follows, err := n.Users.IsFollowing(ctx, c.ID, sctx.UserID); err == nil {
		c.FollowYou = follows
	}
	if premium, err := n.Users.IsPremium(ctx, c.ID); err == nil {
		c.Premium = premium
	}
}

// applyStats 用特征库统计覆盖快照值，读不到时保留原值。
func (n *Node) applyStats(ctx context.Context, candidates []*core.Candidate) {
	if n.Stats == nil {
		return
	}
	ids := make([]int64, 0, len(candidates))
	for _, c := range candidates {
		ids = append(ids, c.ID)
	}
	stats, err := n.Stats.BatchStats(ctx, ids)
	if err != nil {
		return
	}
	for _, c := range candidates {
		if s, ok := stats[c.ID]; ok {
			c.Followers = s.Followers
		}
	}
}
