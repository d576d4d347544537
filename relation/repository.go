// Package relation 管理社交关系边的写路径：交互驱动的权重累积、
// 显式创建与编辑。读路径（召回用）直接走 core.RelationStore。
package relation

import (
	"context"
	"fmt"

	"github.com/rushteam/matchkit/core"
)

// DefaultIncrement 是一次交互对边权的默认增量。
const DefaultIncrement = 1

// Repository 是关系边的写侧仓储，所有权重累积都在这里以显式
// 读-改-写完成，存储层不做隐式自增。
type Repository struct {
	Store core.RelationStore
}

func NewRepository(store core.RelationStore) *Repository {
	return &Repository{Store: store}
}

// AutoAdd 由交互事件触发：边已存在则权重累加 increment，
// 不存在则以 increment 为初始权重创建。自指关系直接拒绝。
func (r *Repository) AutoAdd(ctx context.Context, userID, relatedUserID int64, increment float64) (*core.RelationEdge, error) {
	if err := validatePair(userID, relatedUserID); err != nil {
		return nil, err
	}
	if increment <= 0 {
		increment = DefaultIncrement
	}

	edge, err := r.Store.GetEdge(ctx, userID, relatedUserID)
	switch {
	case err == nil:
		edge.Weight += increment
	case core.IsNotFound(err):
		edge = &core.RelationEdge{UserID: userID, RelatedUserID: relatedUserID, Weight: increment}
	default:
		return nil, err
	}

	if err := r.Store.PutEdge(ctx, *edge); err != nil {
		return nil, err
	}
	return edge, nil
}

// Create 显式创建一条边；已存在时拒绝（与 AutoAdd 的合并语义区分开）。
func (r *Repository) Create(ctx context.Context, edge core.RelationEdge) error {
	if err := validatePair(edge.UserID, edge.RelatedUserID); err != nil {
		return err
	}
	if edge.Weight < 0 {
		return core.NewDomainError(core.ModuleRelation, core.ErrorCodeInvalidInput,
			"relation weight must be non-negative")
	}

	_, err := r.Store.GetEdge(ctx, edge.UserID, edge.RelatedUserID)
	if err == nil {
		return core.NewDomainError(core.ModuleRelation, core.ErrorCodeInvalidInput,
			fmt.Sprintf("relation %d -> %d already exists", edge.UserID, edge.RelatedUserID))
	}
	if !core.IsNotFound(err) {
		return err
	}
	return r.Store.PutEdge(ctx, edge)
}

// Edit 覆盖已存在边的权重；边不存在时返回 NOT_FOUND，调用方可分支处理。
func (r *Repository) Edit(ctx context.Context, edge core.RelationEdge) error {
	if err := validatePair(edge.UserID, edge.RelatedUserID); err != nil {
		return err
	}
	if edge.Weight < 0 {
		return core.NewDomainError(core.ModuleRelation, core.ErrorCodeInvalidInput,
			"relation weight must be non-negative")
	}

	if _, err := r.Store.GetEdge(ctx, edge.UserID, edge.RelatedUserID); err != nil {
		return err
	}
	return r.Store.PutEdge(ctx, edge)
}

// Delete 删除一条边：以零权重覆盖。存储层没有物理删除语义时，
// 零权重边会被召回的 MinWeight 下限挡掉。
func (r *Repository) Delete(ctx context.Context, userID, relatedUserID int64) error {
	if err := validatePair(userID, relatedUserID); err != nil {
		return err
	}
	if _, err := r.Store.GetEdge(ctx, userID, relatedUserID); err != nil {
		return err
	}
	return r.Store.PutEdge(ctx, core.RelationEdge{UserID: userID, RelatedUserID: relatedUserID})
}

func validatePair(userID, relatedUserID int64) error {
	if userID <= 0 || relatedUserID <= 0 {
		return core.NewDomainError(core.ModuleRelation, core.ErrorCodeInvalidInput,
			"relation endpoints must be positive ids")
	}
	if userID == relatedUserID {
		return core.NewDomainError(core.ModuleRelation, core.ErrorCodeInvalidInput,
			"self relation is not allowed")
	}
	return nil
}
