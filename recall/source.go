// Package recall 提供候选召回源：社交关系图谱（related）与
// 聚类/向量相似度（unknown），以及并发 fan-out 的 Recall Node。
package recall

import (
	"context"

	"github.com/rushteam/matchkit/core"
)

// Source 表示一个可复用的召回源（关系图谱/聚类/...）。
// 可以把它理解为“可并发 fan-out 的策略单元”。
type Source interface {
	Name() string
	Recall(ctx context.Context, sctx *core.SearchContext) ([]*core.Candidate, error)
}
