// Package engine 提供两个顶层编排器：社交搜索（SearchEngine）与
// 滑动推荐（SwipeEngine）。编排器负责校验门、两路召回的并发执行、
// 混排、安全过滤与公开投影；各阶段的具体逻辑全部在 Node 里。
package engine

import (
	"context"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/rushteam/matchkit/cluster"
	"github.com/rushteam/matchkit/core"
	"github.com/rushteam/matchkit/enrich"
	"github.com/rushteam/matchkit/filter"
	"github.com/rushteam/matchkit/pipeline"
	"github.com/rushteam/matchkit/rank"
	"github.com/rushteam/matchkit/recall"
	"github.com/rushteam/matchkit/rerank"
	"github.com/rushteam/matchkit/search"
)

// SearchDeps 汇集搜索引擎依赖的协作方，全部通过注入传入。
type SearchDeps struct {
	Relations  core.RelationStore
	Users      core.UserStore
	Clusters   core.ClusterStore
	Embeddings core.EmbeddingStore
	Stats      enrich.StatsProvider // 可为 nil
	Table      *rank.WeightTable
	Rules      search.Rules
	Logger     zerolog.Logger
}

// SearchEngine 编排一次“搜人”请求：
//
//	Received → Validated → Sourced → Deduplicated → Enriched → Scored
//	        → Mixed → Filtered → Returned
//
// 校验失败进入 Rejected 终态；校验之后任何一路失败都按空子列表降级，
// 不中断整个请求。
type SearchEngine struct {
	deps      SearchDeps
	validator *search.Validator
	related   *pipeline.Pipeline
	unknown   *pipeline.Pipeline
	log       zerolog.Logger
}

func NewSearchEngine(deps SearchDeps) *SearchEngine {
	if deps.Rules.MaxSearchLength == 0 {
		deps.Rules = search.DefaultRules()
	}

	matcher := &cluster.Matcher{
		Embeddings: deps.Embeddings,
		Clusters:   deps.Clusters,
		Kind:       core.EntityUser,
	}

	related := &pipeline.Pipeline{Nodes: []pipeline.Node{
		&recall.Fanout{
			Sources: []recall.Source{&recall.Related{
				Relations:  deps.Relations,
				Users:      deps.Users,
				MinWeight:  deps.Rules.MinRelationWeight,
				MaxResults: deps.Rules.MaxRelatedCandidates,
			}},
			Dedup:   true,
			Timeout: deps.Rules.Timeout(),
		},
		&filter.Dedup{},
		&enrich.Node{Users: deps.Users, Stats: deps.Stats},
		// premium 上限只作用于熟人列表，陌生人路不受限
		&filter.PremiumCapNode{Max: deps.Rules.MaxPremiumUsers},
		&rank.WeightedNode{Table: deps.Table, BaseFromWeight: true},
	}}

	unknown := &pipeline.Pipeline{Nodes: []pipeline.Node{
		&recall.Fanout{
			Sources: []recall.Source{&recall.Unknown{
				Clusters:   deps.Clusters,
				Users:      deps.Users,
				Matcher:    matcher,
				MaxResults: deps.Rules.MaxUnknownCandidates,
			}},
			Dedup:   true,
			Timeout: deps.Rules.Timeout(),
		},
		&filter.Dedup{},
		&enrich.Node{Users: deps.Users, Stats: deps.Stats},
		&rank.ClusterRankNode{},
	}}

	return &SearchEngine{
		deps:      deps,
		validator: search.NewValidator(deps.Rules),
		related:   related,
		unknown:   unknown,
		log:       deps.Logger.With().Str("component", "search_engine").Logger(),
	}
}

// Search 执行一次搜人请求，返回公开形态的有序结果。
// 检索词非法时返回 INVALID_INPUT 领域错误。
func (e *SearchEngine) Search(ctx context.Context, userID int64, term string) ([]core.Profile, error) {
	res := e.validator.Validate(term)
	if !res.Valid {
		e.log.Debug().Int64("user_id", userID).Str("reason", res.Message).Msg("search term rejected")
		return nil, core.NewDomainError(core.ModuleSearch, core.ErrorCodeInvalidInput, res.Message)
	}

	ctx, cancel := context.WithTimeout(ctx, e.deps.Rules.Timeout())
	defer cancel()

	sctx := &core.SearchContext{UserID: userID, Term: res.Term, Scene: "search"}

	relatedList, unknownList := e.source(ctx, sctx)

	// 混排：related 乘 c、unknown 乘 1-c 后稳定降序
	mixed := rerank.MixLists(relatedList, unknownList, e.deps.Rules.MixingCoefficient)
	mixed = filter.Deduplicate(mixed)

	post := &pipeline.Pipeline{Nodes: []pipeline.Node{
		&filter.FilterNode{Filters: []filter.Filter{&filter.Blocked{Store: e.deps.Users}}},
		&rerank.TopNNode{N: e.deps.Rules.MaxResultsPerPage},
	}}
	final, err := post.Run(ctx, sctx, mixed)
	if err != nil {
		return nil, err
	}

	e.log.Debug().
		Int64("user_id", userID).
		Int("related", len(relatedList)).
		Int("unknown", len(unknownList)).
		Int("returned", len(final)).
		Msg("search completed")
	return search.Project(final), nil
}

// source 并发执行两路召回子 Pipeline；任一路失败按空列表降级。
func (e *SearchEngine) source(ctx context.Context, sctx *core.SearchContext) (related, unknown []*core.Candidate) {
	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		related = e.runSub(egCtx, "related", e.related, sctx)
		return nil
	})
	eg.Go(func() error {
		// unknown 路用请求级上下文的副本，避免并发写 Labels
		sub := &core.SearchContext{
			UserID:  sctx.UserID,
			Term:    sctx.Term,
			Scene:   sctx.Scene,
			Premium: sctx.Premium,
			Params:  sctx.Params,
		}
		unknown = e.runSub(egCtx, "unknown", e.unknown, sub)
		return nil
	})
	_ = eg.Wait()
	return related, unknown
}

func (e *SearchEngine) runSub(ctx context.Context, name string, p *pipeline.Pipeline, sctx *core.SearchContext) []*core.Candidate {
	out, err := p.Run(ctx, sctx, nil)
	if err != nil {
		e.log.Warn().Err(err).Str("source", name).Msg("candidate source degraded to empty list")
		return nil
	}
	return out
}
