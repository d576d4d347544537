// Package graph 提供社交关系图谱的迭代式广度优先遍历。
// 不用递归：显式 frontier 队列 + visited 集合 + 深度上限，
// 图中存在环或者超深链路时也不会栈溢出或死循环。
package graph

import (
	"context"

	"github.com/rushteam/matchkit/core"
)

// Reach 是一次遍历中被发现的节点：首次发现时的深度与沿途累积权重。
type Reach struct {
	UserID int64
	Depth  int
	Weight float64
}

// Traversal 配置一次 BFS 遍历。
type Traversal struct {
	Store core.RelationStore

	// MaxDepth 扩散深度上限；<=0 时按 1 处理（只取直接关系）
	MaxDepth int

	// MaxNodes 发现节点数上限，防止超级节点把请求撑爆；<=0 表示不限制
	MaxNodes int

	// Attenuation 每加深一跳的权重衰减系数，(0,1]；0 值回落到 0.5
	Attenuation float64

	// MinWeight 低于该权重的边不再继续扩散
	MinWeight float64
}

// Run 从 rootID 出发做 BFS，返回除 root 外所有被发现的节点，
// 顺序为发现顺序（同深度内按存储返回的权重降序）。
// 每个节点只记录首次发现的那条路径。
func (t *Traversal) Run(ctx context.Context, rootID int64) ([]Reach, error) {
	maxDepth := t.MaxDepth
	if maxDepth <= 0 {
		maxDepth = 1
	}
	attenuation := t.Attenuation
	if attenuation <= 0 || attenuation > 1 {
		attenuation = 0.5
	}

	visited := map[int64]struct{}{rootID: {}}
	frontier := []Reach{{UserID: rootID, Depth: 0, Weight: 1}}
	var out []Reach

	for depth := 1; depth <= maxDepth && len(frontier) > 0; depth++ {
		var next []Reach
		for _, node := range frontier {
			if err := ctx.Err(); err != nil {
				return out, err
			}
			edges, err := t.Store.Edges(ctx, node.UserID)
			if err != nil {
				// 单个节点的边读失败只影响该分支
				if node.Depth == 0 {
					return nil, err
				}
				continue
			}
			for _, edge := range edges {
				if _, ok := visited[edge.RelatedUserID]; ok {
					continue
				}
				// 权重非正视为边已删除
				if edge.Weight <= 0 || edge.Weight < t.MinWeight {
					continue
				}
				visited[edge.RelatedUserID] = struct{}{}

				weight := edge.Weight
				if depth > 1 {
					weight = node.Weight * edge.Weight * attenuation
				}
				reach := Reach{UserID: edge.RelatedUserID, Depth: depth, Weight: weight}
				out = append(out, reach)
				next = append(next, reach)

				if t.MaxNodes > 0 && len(out) >= t.MaxNodes {
					return out, nil
				}
			}
		}
		frontier = next
	}
	return out, nil
}
