package recall

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/rushteam/matchkit/core"
	"github.com/rushteam/matchkit/rank"
)

// ClusterMatcher 在用户没有任何聚类排名时做冷启动匹配：
// 由用户向量对质心做最近邻，产出临时排名行。
// cluster.Matcher 实现此接口。
type ClusterMatcher interface {
	Match(ctx context.Context, userID int64) ([]core.ClusterRank, error)
}

// Unknown 是聚类/向量相似度召回源：为请求者补充没有直接社交关系的
// “陌生”候选，用于 discovery。候选必须排除 related 路已覆盖的 ID
//（由 Exclude 或请求 Params 里的 exclude_ids 传入）以及请求者自身。
//
// 排名依据是外部任务预先算好的 ClusterRank 行，各分项随候选写入
// Meta，由 rank.ClusterRankNode 读取排序。
type Unknown struct {
	Clusters core.ClusterStore
	Users    core.UserStore // 可为 nil：纯 ID 场景（swipe）不取资料

	// Matcher 冷启动兜底，可为 nil
	Matcher ClusterMatcher

	// Exclude 是排除的候选 ID 集合（related 路结果、已看过的实体）
	Exclude map[int64]struct{}

	// MaxClusters 取排名最高的前 N 个活跃聚类；<=0 时为 3
	MaxClusters int

	// MaxResults 候选数量上限；<=0 表示不限制
	MaxResults int

	// RecentWindow / RecentLimit 是候选池为空时的兜底：
	// 最近 RecentWindow 内创建的用户，不足时取最近 RecentLimit 个。
	// 零值分别回落到 24h / 100。
	RecentWindow time.Duration
	RecentLimit  int
}

func (s *Unknown) Name() string { return "recall.unknown" }

func (s *Unknown) Recall(ctx context.Context, sctx *core.SearchContext) ([]*core.Candidate, error) {
	excluded := s.excludedSet(sctx)

	ranks, err := s.topRanks(ctx, sctx.UserID)
	if err != nil {
		return nil, err
	}

	out := make([]*core.Candidate, 0, s.MaxResults)
	for _, r := range ranks {
		members, err := s.Clusters.ClusterMembers(ctx, r.ClusterID)
		if err != nil {
			// 单个聚类读失败不中断整路召回
			continue
		}
		for _, id := range members {
			if id == sctx.UserID {
				continue
			}
			if _, ok := excluded[id]; ok {
				continue
			}
			excluded[id] = struct{}{}

			c, err := s.hydrate(ctx, id, sctx.Term)
			if err != nil || c == nil {
				continue
			}
			c.Meta[rank.MetaClusterID] = r.ClusterID
			c.Meta[rank.MetaClusterScore] = r.Score
			c.Meta[rank.MetaSimilarity] = r.Similarity
			c.Meta[rank.MetaInteractionScore] = r.InteractionScore
			c.Meta[rank.MetaMatchScore] = r.MatchScore
			out = append(out, c)
			if s.MaxResults > 0 && len(out) >= s.MaxResults {
				return out, nil
			}
		}
	}

	if len(out) == 0 {
		return s.recentFallback(ctx, sctx, excluded)
	}
	return out, nil
}

// topRanks 返回请求者排名最高的活跃聚类，没有排名时走冷启动匹配。
func (s *Unknown) topRanks(ctx context.Context, userID int64) ([]core.ClusterRank, error) {
	ranks, err := s.Clusters.UserClusterRanks(ctx, userID)
	if err != nil {
		return nil, err
	}
	active := ranks[:0:0]
	for _, r := range ranks {
		if r.IsActive {
			active = append(active, r)
		}
	}
	if len(active) == 0 && s.Matcher != nil {
		matched, err := s.Matcher.Match(ctx, userID)
		if err == nil {
			active = matched
		}
	}
	sort.SliceStable(active, func(i, j int) bool {
		return active[i].Score > active[j].Score
	})
	max := s.MaxClusters
	if max <= 0 {
		max = 3
	}
	if len(active) > max {
		active = active[:max]
	}
	return active, nil
}

// recentFallback 用最近注册的用户兜底填充候选池。
func (s *Unknown) recentFallback(ctx context.Context, sctx *core.SearchContext, excluded map[int64]struct{}) ([]*core.Candidate, error) {
	if s.Users == nil {
		return nil, nil
	}
	window := s.RecentWindow
	if window <= 0 {
		window = 24 * time.Hour
	}
	limit := s.RecentLimit
	if limit <= 0 {
		limit = 100
	}
	ids, err := s.Users.RecentUserIDs(ctx, time.Now().Add(-window), limit)
	if err != nil {
		return nil, err
	}
	var out []*core.Candidate
	for _, id := range ids {
		if id == sctx.UserID {
			continue
		}
		if _, ok := excluded[id]; ok {
			continue
		}
		c, err := s.hydrate(ctx, id, sctx.Term)
		if err != nil || c == nil {
			continue
		}
		out = append(out, c)
		if s.MaxResults > 0 && len(out) >= s.MaxResults {
			break
		}
	}
	return out, nil
}

func (s *Unknown) excludedSet(sctx *core.SearchContext) map[int64]struct{} {
	excluded := make(map[int64]struct{}, len(s.Exclude))
	for id := range s.Exclude {
		excluded[id] = struct{}{}
	}
	if ids, ok := sctx.Params["exclude_ids"].([]int64); ok {
		for _, id := range ids {
			excluded[id] = struct{}{}
		}
	}
	return excluded
}

// hydrate 读取公开资料并做检索词过滤；Users 未配置时返回裸候选。
func (s *Unknown) hydrate(ctx context.Context, id int64, term string) (*core.Candidate, error) {
	if s.Users == nil {
		return core.NewCandidate(id, core.SourceUnknown), nil
	}
	rec, err := s.Users.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if term != "" && !strings.Contains(rec.Username, term) && !strings.Contains(rec.Name, term) {
		return nil, nil
	}
	c := core.NewCandidate(rec.ID, core.SourceUnknown)
	c.Username = rec.Username
	c.Name = rec.Name
	c.Verified = rec.Verified
	c.Muted = rec.Muted
	c.ProfilePicture = rec.ProfilePicture
	c.HasProfilePicture = rec.ProfilePicture != ""
	c.Followers = rec.Followers
	return c, nil
}
