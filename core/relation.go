package core

import "context"

// RelationEdge 是社交关系图谱的有向边。
// 不变量：UserID != RelatedUserID；每个有序对至多一条边；Weight 非负、
// 由交互行为通过 auto-add 合并累积。
type RelationEdge struct {
	UserID        int64   `json:"user_id"`
	RelatedUserID int64   `json:"related_user_id"`
	Weight        float64 `json:"weight"`
}

// RelationStore 是关系边存储的领域接口。
//
// 注意：权重累积不在存储层做隐式自增，由 relation.Repository 以显式
// 读-改-写完成，存储层只提供 Get/Put。
//
// 实现：
//   - store.RelationAdapter 实现此接口（基于 core.KeyValueStore）
type RelationStore interface {
	// Edges 读取某用户的全部出边，按权重降序
	Edges(ctx context.Context, userID int64) ([]RelationEdge, error)

	// GetEdge 读取单条边；不存在时返回 NOT_FOUND
	GetEdge(ctx context.Context, userID, relatedUserID int64) (*RelationEdge, error)

	// PutEdge 写入（覆盖）单条边
	PutEdge(ctx context.Context, edge RelationEdge) error
}
