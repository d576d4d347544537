package core

import (
	"context"
	"time"
)

// EntityKind 区分嵌入向量与聚类的实体命名空间。
// 用户聚类与内容聚类互相独立：一个实体在每个命名空间至多属于一个聚类。
type EntityKind string

const (
	EntityUser EntityKind = "user"
	EntityPost EntityKind = "post"
)

// Embedding 是实体的定长数值向量表示（由外部生成任务产出，本引擎只读）。
// 不变量：Dimension == len(Values)。存储的向量可 L2 归一化但不强制。
type Embedding struct {
	OwnerID   int64             `json:"owner_id"`
	Dimension int               `json:"dimension"`
	Values    []float64         `json:"values"`
	Metadata  EmbeddingMetadata `json:"metadata"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// EmbeddingMetadata 记录向量的来源信息，便于追踪模型版本。
type EmbeddingMetadata struct {
	Source       string    `json:"source"`
	ModelVersion string    `json:"model_version"`
	GeneratedAt  time.Time `json:"generated_at"`
}

// Validate 校验维度不变量。
func (e *Embedding) Validate() error {
	if e.Dimension <= 0 || e.Dimension != len(e.Values) {
		return NewDomainError(ModuleVector, ErrorCodeDimensionMismatch,
			"embedding: dimension does not match values length")
	}
	return nil
}

// EmbeddingStore 是嵌入向量存储的领域接口。
//
// 写入全部来自范围外的批处理任务，本引擎只需要快照一致的单行读取。
//
// 实现：
//   - store.EmbeddingAdapter 实现此接口（基于 core.Store）
type EmbeddingStore interface {
	// GetEmbedding 读取实体的嵌入向量；不存在时返回 NOT_FOUND
	GetEmbedding(ctx context.Context, kind EntityKind, ownerID int64) (*Embedding, error)

	// BatchGetEmbeddings 批量读取（all-pairs 相似度计算前的取数）
	BatchGetEmbeddings(ctx context.Context, kind EntityKind, ownerIDs []int64) (map[int64]*Embedding, error)
}
