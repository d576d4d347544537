package filter

import (
	"context"

	"github.com/rushteam/matchkit/core"
	"github.com/rushteam/matchkit/pipeline"
)

// Dedup 是按 ID 去重的 Node：保留首次出现，剩余元素保持输入顺序（稳定）。
// 幂等：对自身输出再跑一次结果不变。
//
// 每路召回源在打分前各自独立去重，因为同一来源可能合法地产出重复 ID
//（例如多条关系边在别处聚合）。
type Dedup struct{}

func (n *Dedup) Name() string        { return "filter.dedup" }
func (n *Dedup) Kind() pipeline.Kind { return pipeline.KindFilter }

func (n *Dedup) Process(
	_ context.Context,
	_ *core.SearchContext,
	candidates []*core.Candidate,
) ([]*core.Candidate, error) {
	return Deduplicate(candidates), nil
}

// Deduplicate 是去重的纯函数形态，供 Node 之外的调用点复用。
func Deduplicate(candidates []*core.Candidate) []*core.Candidate {
	seen := make(map[int64]struct{}, len(candidates))
	out := make([]*core.Candidate, 0, len(candidates))
	for _, c := range candidates {
		if c == nil {
			continue
		}
		if _, ok := seen[c.ID]; ok {
			continue
		}
		seen[c.ID] = struct{}{}
		out = append(out, c)
	}
	return out
}
