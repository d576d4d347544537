package recall

import (
	"context"
	"strings"

	"github.com/rushteam/matchkit/core"
	"github.com/rushteam/matchkit/graph"
)

// Related 是社交关系图谱召回源：请求者的关系边按权重降序取出，
// 边的目标即候选，边权作为后续加权评分的基础分。
//
// 检索词的匹配是大小写敏感的包含匹配（不做模糊），对 username 和
// name 任一命中即保留。请求者没有任何关系边时返回空列表，
// 链路靠 unknown 路继续。
type Related struct {
	Relations core.RelationStore
	Users     core.UserStore

	// MinWeight 低于该权重的边不产生候选
	MinWeight float64

	// MaxResults 候选数量上限；<=0 表示不限制
	MaxResults int

	// Depth 图谱扩散深度；<=1 只取直接关系，>1 走迭代 BFS
	Depth int

	// MaxNodes BFS 的发现节点上限（Depth>1 时生效）
	MaxNodes int
}

func (s *Related) Name() string { return "recall.related" }

func (s *Related) Recall(ctx context.Context, sctx *core.SearchContext) ([]*core.Candidate, error) {
	reaches, err := s.reach(ctx, sctx.UserID)
	if err != nil {
		return nil, err
	}

	seen := make(map[int64]struct{}, len(reaches))
	out := make([]*core.Candidate, 0, len(reaches))
	for _, r := range reaches {
		if r.UserID == sctx.UserID {
			continue
		}
		if _, ok := seen[r.UserID]; ok {
			continue
		}
		seen[r.UserID] = struct{}{}

		c, err := s.hydrate(ctx, r, sctx.Term)
		if err != nil || c == nil {
			// 单个候选的资料读失败按不存在处理，不中断整路召回
			continue
		}
		out = append(out, c)
		if s.MaxResults > 0 && len(out) >= s.MaxResults {
			break
		}
	}
	return out, nil
}

// reach 取出请求者可达的目标集合：直接关系或 BFS 扩散。
func (s *Related) reach(ctx context.Context, userID int64) ([]graph.Reach, error) {
	if s.Depth > 1 {
		tr := &graph.Traversal{
			Store:     s.Relations,
			MaxDepth:  s.Depth,
			MaxNodes:  s.MaxNodes,
			MinWeight: s.MinWeight,
		}
		return tr.Run(ctx, userID)
	}

	edges, err := s.Relations.Edges(ctx, userID)
	if err != nil {
		return nil, err
	}
	reaches := make([]graph.Reach, 0, len(edges))
	for _, e := range edges {
		// 权重非正视为边已删除
		if e.Weight <= 0 || e.Weight < s.MinWeight {
			continue
		}
		reaches = append(reaches, graph.Reach{UserID: e.RelatedUserID, Depth: 1, Weight: e.Weight})
	}
	return reaches, nil
}

// hydrate 读取公开资料并做检索词过滤，未命中返回 (nil, nil)。
func (s *Related) hydrate(ctx context.Context, r graph.Reach, term string) (*core.Candidate, error) {
	rec, err := s.Users.GetUser(ctx, r.UserID)
	if err != nil {
		return nil, err
	}
	if term != "" && !strings.Contains(rec.Username, term) && !strings.Contains(rec.Name, term) {
		return nil, nil
	}

	c := core.NewCandidate(rec.ID, core.SourceRelated)
	c.Username = rec.Username
	c.Name = rec.Name
	c.Verified = rec.Verified
	c.Muted = rec.Muted
	c.ProfilePicture = rec.ProfilePicture
	c.HasProfilePicture = rec.ProfilePicture != ""
	c.Followers = rec.Followers
	c.Weight = r.Weight
	return c, nil
}
