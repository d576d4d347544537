package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/rushteam/matchkit/cluster"
	"github.com/rushteam/matchkit/core"
	"github.com/rushteam/matchkit/filter"
	"github.com/rushteam/matchkit/pipeline"
	"github.com/rushteam/matchkit/pkg/conv"
	"github.com/rushteam/matchkit/rank"
	"github.com/rushteam/matchkit/recall"
	"github.com/rushteam/matchkit/rerank"
)

// SwipeItem 是滑动推荐结果的一条：实体 ID 加上排序用到的各分项，
// 分项随结果返回以便观测与解释。
type SwipeItem struct {
	EntityID         int64   `json:"entity_id"`
	ClusterID        int64   `json:"cluster_id"`
	Score            float64 `json:"score"`
	Similarity       float64 `json:"similarity"`
	InteractionScore float64 `json:"interaction_score"`
	MatchScore       float64 `json:"match_score"`
}

// SwipeDeps 汇集滑动推荐引擎的协作方。
type SwipeDeps struct {
	Clusters     core.ClusterStore
	Embeddings   core.EmbeddingStore
	Interactions core.InteractionStore

	// Cache 可选的 feed 结果缓存（core.Store 后端）
	Cache    core.Store
	CacheTTL time.Duration

	// FeedSize 一次返回的条数；<=0 时为 20
	FeedSize int

	Logger zerolog.Logger
}

// SwipeEngine 编排滑动推荐 feed：聚类/向量路召回、按聚类排名分项
// 排序、排除已交互实体，结果带 TTL 缓存。
type SwipeEngine struct {
	deps SwipeDeps
	pipe *pipeline.Pipeline
	log  zerolog.Logger
}

func NewSwipeEngine(deps SwipeDeps) *SwipeEngine {
	if deps.FeedSize <= 0 {
		deps.FeedSize = 20
	}
	if deps.CacheTTL <= 0 {
		deps.CacheTTL = 5 * time.Minute
	}

	matcher := &cluster.Matcher{
		Embeddings: deps.Embeddings,
		Clusters:   deps.Clusters,
		Kind:       core.EntityUser,
	}

	pipe := &pipeline.Pipeline{Nodes: []pipeline.Node{
		&recall.Fanout{
			Sources: []recall.Source{&recall.Unknown{
				Clusters: deps.Clusters,
				Matcher:  matcher,
			}},
			Dedup: true,
		},
		&filter.Dedup{},
		&filter.FilterNode{Filters: []filter.Filter{
			&filter.Seen{Store: deps.Interactions, Kind: core.EntityUser},
		}},
		&rank.ClusterRankNode{},
		&rerank.TopNNode{N: deps.FeedSize},
	}}

	return &SwipeEngine{
		deps: deps,
		pipe: pipe,
		log:  deps.Logger.With().Str("component", "swipe_engine").Logger(),
	}
}

// Feed 返回请求者的滑动推荐列表。命中缓存直接返回；
// 缓存读写失败静默降级为实时计算。
func (e *SwipeEngine) Feed(ctx context.Context, userID int64) ([]SwipeItem, error) {
	key := feedCacheKey(userID)
	if e.deps.Cache != nil {
		if data, err := e.deps.Cache.Get(ctx, key); err == nil {
			var items []SwipeItem
			if json.Unmarshal(data, &items) == nil {
				e.log.Debug().Int64("user_id", userID).Msg("swipe feed cache hit")
				return items, nil
			}
		}
	}

	sctx := &core.SearchContext{UserID: userID, Scene: "swipe"}
	candidates, err := e.pipe.Run(ctx, sctx, nil)
	if err != nil {
		return nil, err
	}

	items := make([]SwipeItem, 0, len(candidates))
	for _, c := range candidates {
		if c == nil {
			continue
		}
		item := SwipeItem{EntityID: c.ID, Score: c.Score}
		if v, ok := conv.ToInt(c.Meta[rank.MetaClusterID]); ok {
			item.ClusterID = int64(v)
		}
		item.Similarity, _ = conv.ToFloat64(c.Meta[rank.MetaSimilarity])
		item.InteractionScore, _ = conv.ToFloat64(c.Meta[rank.MetaInteractionScore])
		item.MatchScore, _ = conv.ToFloat64(c.Meta[rank.MetaMatchScore])
		items = append(items, item)
	}

	if e.deps.Cache != nil {
		if data, err := json.Marshal(items); err == nil {
			ttl := int(e.deps.CacheTTL.Seconds())
			if err := e.deps.Cache.Set(ctx, key, data, ttl); err != nil {
				e.log.Warn().Err(err).Msg("swipe feed cache write failed")
			}
		}
	}

	e.log.Debug().Int64("user_id", userID).Int("returned", len(items)).Msg("swipe feed computed")
	return items, nil
}

// Record 记录一次滑动交互，并让缓存失效以便下次重算。
func (e *SwipeEngine) Record(ctx context.Context, ev core.InteractionEvent) error {
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now()
	}
	if err := e.deps.Interactions.Append(ctx, ev); err != nil {
		return err
	}
	if e.deps.Cache != nil {
		_ = e.deps.Cache.Delete(ctx, feedCacheKey(ev.UserID))
	}
	return nil
}

func feedCacheKey(userID int64) string {
	return fmt.Sprintf("swipe:feed:%d", userID)
}
