package rank

import (
	"context"
	"sort"

	"github.com/rushteam/matchkit/core"
	"github.com/rushteam/matchkit/pipeline"
	"github.com/rushteam/matchkit/pkg/conv"
	"github.com/rushteam/matchkit/pkg/utils"
)

// unknown 候选在 Meta 中携带的聚类排名分项，供观测与本 Node 排序使用。
const (
	MetaClusterID        = "cluster_id"
	MetaClusterScore     = "cluster_score"
	MetaSimilarity       = "similarity"
	MetaInteractionScore = "interaction_score"
	MetaMatchScore       = "match_score"
)

// ClusterRankNode 按聚类排名分项对候选排序。
// unknown 来源的候选没有直接的关系权重，排序由 ClusterRank 的
// score/similarity/interaction_score/match_score 驱动，而不是布尔加权表。
type ClusterRankNode struct{}

func (n *ClusterRankNode) Name() string        { return "rank.cluster_rank" }
func (n *ClusterRankNode) Kind() pipeline.Kind { return pipeline.KindRank }

func (n *ClusterRankNode) Process(
	_ context.Context,
	_ *core.SearchContext,
	candidates []*core.Candidate,
) ([]*core.Candidate, error) {
	if len(candidates) == 0 {
		return candidates, nil
	}

	for _, c := range candidates {
		if c == nil {
			continue
		}
		if score, ok := conv.ToFloat64(c.Meta[MetaClusterScore]); ok {
			c.Score = score
		}
		c.PutLabel("rank_model", utils.Label{Value: "cluster_rank", Source: "rank"})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i] == nil {
			return false
		}
		if candidates[j] == nil {
			return true
		}
		if candidates[i].Score != candidates[j].Score {
			return candidates[i].Score > candidates[j].Score
		}
		// 同分时按相似度分项决胜
		si, _ := conv.ToFloat64(candidates[i].Meta[MetaSimilarity])
		sj, _ := conv.ToFloat64(candidates[j].Meta[MetaSimilarity])
		return si > sj
	})
	return candidates, nil
}
