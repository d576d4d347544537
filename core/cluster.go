package core

import (
	"context"
	"time"
)

// Cluster 是一组表示空间上相近的实体，带质心向量。
// 不变量：MemberIDs 无重复；实体在同一命名空间（kind）内至多属于一个聚类。
type Cluster struct {
	ID       int64      `json:"id"`
	Kind     EntityKind `json:"kind"`
	Name     string     `json:"name"`
	Centroid []float64  `json:"centroid"`
	Topics   []string   `json:"topics"`
	Size     int        `json:"size"`
	Density  float64    `json:"density"`
}

// ClusterRank 是 (user, cluster) 粒度的排名行，由外部周期性任务重算，本引擎只读。
// 唯一键：(UserID, ClusterID)。
type ClusterRank struct {
	UserID              int64     `json:"user_id"`
	ClusterID           int64     `json:"cluster_id"`
	Score               float64   `json:"score"`
	Similarity          float64   `json:"similarity"`
	InteractionScore    float64   `json:"interaction_score"`
	MatchScore          float64   `json:"match_score"`
	IsActive            bool      `json:"is_active"`
	LastInteractionDate time.Time `json:"last_interaction_date"`
}

// ClusterStore 是聚类/排名存储的领域接口。
//
// 实现：
//   - store.ClusterAdapter 实现此接口（基于 core.Store）
type ClusterStore interface {
	// ListClusters 列出某命名空间下的全部聚类（含质心）
	ListClusters(ctx context.Context, kind EntityKind) ([]Cluster, error)

	// ClusterMembers 读取聚类成员 ID 集合
	ClusterMembers(ctx context.Context, clusterID int64) ([]int64, error)

	// UserClusterRanks 读取某用户的全部聚类排名行
	UserClusterRanks(ctx context.Context, userID int64) ([]ClusterRank, error)
}
