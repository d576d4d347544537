// Package cluster 提供聚类侧的计算：冷启动的最近质心匹配，
// 以及交互事件的时间衰减聚合。聚类与排名行本身由外部任务产出，
// 本包只读。
package cluster

import (
	"context"
	"sort"
	"time"

	"github.com/rushteam/matchkit/core"
	"github.com/rushteam/matchkit/pkg/vector"
)

const (
	// DefaultMinMatchThreshold 低于该相似度的聚类不算命中
	DefaultMinMatchThreshold = 0.2

	// DefaultMaxClusters 一次匹配最多返回的聚类数
	DefaultMaxClusters = 3
)

// Matcher 把用户向量对全部聚类质心做余弦最近邻，为没有任何
// 排名行的用户产出临时 ClusterRank（冷启动路径）。
type Matcher struct {
	Embeddings core.EmbeddingStore
	Clusters   core.ClusterStore
	Kind       core.EntityKind

	// MinMatchThreshold 相似度下限；0 值回落到 DefaultMinMatchThreshold
	MinMatchThreshold float64

	// MaxClusters 返回数上限；<=0 时为 DefaultMaxClusters
	MaxClusters int
}

// Match 返回与用户向量最近的聚类，按相似度降序。
// 用户没有向量、或所有质心都低于阈值时返回空列表。
// 质心维度不一致或退化的聚类跳过，不让单个坏质心毁掉整次匹配。
func (m *Matcher) Match(ctx context.Context, userID int64) ([]core.ClusterRank, error) {
	emb, err := m.Embeddings.GetEmbedding(ctx, m.Kind, userID)
	if err != nil {
		if core.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	if vector.Degenerate(emb.Values) {
		return nil, nil
	}

	clusters, err := m.Clusters.ListClusters(ctx, m.Kind)
	if err != nil {
		return nil, err
	}

	threshold := m.MinMatchThreshold
	if threshold <= 0 {
		threshold = DefaultMinMatchThreshold
	}

	query := vector.Normalize(emb.Values)
	now := time.Now()
	var ranks []core.ClusterRank
	for _, cl := range clusters {
		if len(cl.Centroid) != len(query) || vector.Degenerate(cl.Centroid) {
			continue
		}
		sim, err := vector.Cosine(query, vector.Normalize(cl.Centroid))
		if err != nil {
			continue
		}
		if sim < threshold {
			continue
		}
		ranks = append(ranks, core.ClusterRank{
			UserID:              userID,
			ClusterID:           cl.ID,
			Score:               sim,
			Similarity:          sim,
			MatchScore:          sim,
			IsActive:            true,
			LastInteractionDate: now,
		})
	}

	sort.SliceStable(ranks, func(i, j int) bool {
		return ranks[i].Similarity > ranks[j].Similarity
	})
	max := m.MaxClusters
	if max <= 0 {
		max = DefaultMaxClusters
	}
	if len(ranks) > max {
		ranks = ranks[:max]
	}
	return ranks, nil
}
