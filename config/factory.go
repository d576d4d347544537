// Package config 提供配置驱动的 Pipeline 组装：Node 注册表 +
// 按依赖注入构建的 NodeFactory。
//
// 存储协作方通过 Deps 显式注入，不走全局注册表；只有无依赖的
// 扩展 Node 才适合用 Register 的 init 注册方式。
package config

import (
	"fmt"
	"time"

	"github.com/rushteam/matchkit/cluster"
	"github.com/rushteam/matchkit/core"
	"github.com/rushteam/matchkit/enrich"
	"github.com/rushteam/matchkit/filter"
	"github.com/rushteam/matchkit/pipeline"
	"github.com/rushteam/matchkit/pkg/conv"
	"github.com/rushteam/matchkit/rank"
	"github.com/rushteam/matchkit/recall"
	"github.com/rushteam/matchkit/rerank"
	"github.com/rushteam/matchkit/search"
)

// Deps 是配置驱动组装时注入的协作方集合。
type Deps struct {
	Relations    core.RelationStore
	Users        core.UserStore
	Clusters     core.ClusterStore
	Embeddings   core.EmbeddingStore
	Interactions core.InteractionStore
	Stats        enrich.StatsProvider
	Rules        search.Rules
}

// NewFactory 返回包含全部内置 Node 的工厂，外加注册表里的扩展 Node。
func NewFactory(deps Deps) *pipeline.NodeFactory {
	if deps.Rules.MaxSearchLength == 0 {
		deps.Rules = search.DefaultRules()
	}

	factory := pipeline.NewNodeFactory()

	factory.Register("search.validate", func(cfg map[string]interface{}) (pipeline.Node, error) {
		return &search.ValidateNode{Validator: search.NewValidator(deps.Rules)}, nil
	})

	factory.Register("recall.fanout", deps.buildFanout)

	factory.Register("filter", deps.buildFilter)
	factory.Register("filter.dedup", func(cfg map[string]interface{}) (pipeline.Node, error) {
		return &filter.Dedup{}, nil
	})
	factory.Register("filter.premium_cap", func(cfg map[string]interface{}) (pipeline.Node, error) {
		max := int(conv.ConfigGetInt64(cfg, "max", int64(deps.Rules.MaxPremiumUsers)))
		return &filter.PremiumCapNode{Max: max}, nil
	})

	factory.Register("enrich.profile", func(cfg map[string]interface{}) (pipeline.Node, error) {
		if deps.Users == nil {
			return nil, fmt.Errorf("enrich.profile requires a user store")
		}
		n := &enrich.Node{Users: deps.Users, Stats: deps.Stats}
		if c := conv.ConfigGetInt64(cfg, "max_concurrent", 0); c > 0 {
			n.MaxConcurrent = int(c)
		}
		return n, nil
	})

	factory.Register("rank.weighted", buildWeightedNode)
	factory.Register("rank.cluster_rank", func(cfg map[string]interface{}) (pipeline.Node, error) {
		return &rank.ClusterRankNode{}, nil
	})

	factory.Register("rerank.mix", func(cfg map[string]interface{}) (pipeline.Node, error) {
		n := &rerank.MixNode{}
		if v, ok := cfg["coefficient"]; ok {
			c, ok := conv.ToFloat64(v)
			if !ok || c < 0 || c > 1 {
				return nil, fmt.Errorf("coefficient must be a number in [0,1]")
			}
			n.Coefficient = c
			n.CoefficientSet = true
		}
		return n, nil
	})
	factory.Register("rerank.topn", func(cfg map[string]interface{}) (pipeline.Node, error) {
		return &rerank.TopNNode{N: int(conv.ConfigGetInt64(cfg, "n", 0))}, nil
	})

	// 注册表里的扩展 Node
	defaultBuildersMu.RLock()
	for typeName, builder := range defaultBuilders {
		factory.Register(typeName, builder)
	}
	defaultBuildersMu.RUnlock()

	return factory
}

func (d Deps) buildFanout(cfg map[string]interface{}) (pipeline.Node, error) {
	sourcesConfig, ok := cfg["sources"].([]interface{})
	if !ok {
		return nil, fmt.Errorf("sources not found or invalid")
	}

	sources := make([]recall.Source, 0, len(sourcesConfig))
	for _, sc := range sourcesConfig {
		sourceMap, ok := sc.(map[string]interface{})
		if !ok {
			continue
		}
		sourceType := conv.ConfigGet[string](sourceMap, "type", "")
		src, err := d.buildSource(sourceType, sourceMap)
		if err != nil {
			return nil, err
		}
		sources = append(sources, src)
	}

	fanout := &recall.Fanout{
		Sources:       sources,
		Dedup:         conv.ConfigGet[bool](cfg, "dedup", true),
		MergeStrategy: conv.ConfigGet[string](cfg, "merge_strategy", ""),
	}
	if sec := conv.ConfigGetInt64(cfg, "timeout", 0); sec > 0 {
		fanout.Timeout = time.Duration(sec) * time.Second
	}
	if n := conv.ConfigGetInt64(cfg, "max_concurrent", 0); n > 0 {
		fanout.MaxConcurrent = int(n)
	}
	return fanout, nil
}

func (d Deps) buildSource(sourceType string, cfg map[string]interface{}) (recall.Source, error) {
	switch sourceType {
	case "related":
		if d.Relations == nil || d.Users == nil {
			return nil, fmt.Errorf("related source requires relation and user stores")
		}
		return &recall.Related{
			Relations:  d.Relations,
			Users:      d.Users,
			MinWeight:  conv.ConfigGet[float64](cfg, "min_weight", d.Rules.MinRelationWeight),
			MaxResults: int(conv.ConfigGetInt64(cfg, "max_results", int64(d.Rules.MaxRelatedCandidates))),
			Depth:      int(conv.ConfigGetInt64(cfg, "depth", 1)),
			MaxNodes:   int(conv.ConfigGetInt64(cfg, "max_nodes", 0)),
		}, nil
	case "unknown":
		if d.Clusters == nil {
			return nil, fmt.Errorf("unknown source requires a cluster store")
		}
		src := &recall.Unknown{
			Clusters:    d.Clusters,
			Users:       d.Users,
			MaxClusters: int(conv.ConfigGetInt64(cfg, "max_clusters", 0)),
			MaxResults:  int(conv.ConfigGetInt64(cfg, "max_results", int64(d.Rules.MaxUnknownCandidates))),
		}
		if d.Embeddings != nil {
			src.Matcher = &cluster.Matcher{
				Embeddings: d.Embeddings,
				Clusters:   d.Clusters,
				Kind:       core.EntityUser,
			}
		}
		return src, nil
	default:
		return nil, fmt.Errorf("unknown source type: %s", sourceType)
	}
}

func (d Deps) buildFilter(cfg map[string]interface{}) (pipeline.Node, error) {
	filtersConfig, ok := cfg["filters"].([]interface{})
	if !ok {
		return nil, fmt.Errorf("filters not found or invalid")
	}

	filters := make([]filter.Filter, 0, len(filtersConfig))
	for _, fc := range filtersConfig {
		filterMap, ok := fc.(map[string]interface{})
		if !ok {
			continue
		}
		switch filterType := conv.ConfigGet[string](filterMap, "type", ""); filterType {
		case "blocked":
			filters = append(filters, &filter.Blocked{Store: d.Users})
		case "seen":
			f := &filter.Seen{Store: d.Interactions, Kind: core.EntityUser}
			if sec := conv.ConfigGetInt64(filterMap, "time_window", 0); sec > 0 {
				f.TimeWindow = time.Duration(sec) * time.Second
			}
			filters = append(filters, f)
		case "rule":
			expr := conv.ConfigGet[string](filterMap, "expr", "")
			if expr == "" {
				return nil, fmt.Errorf("rule filter requires expr")
			}
			filters = append(filters, &filter.RuleFilter{Expr: expr})
		default:
			return nil, fmt.Errorf("unknown filter type: %s", filterType)
		}
	}
	return &filter.FilterNode{Filters: filters}, nil
}

func buildWeightedNode(cfg map[string]interface{}) (pipeline.Node, error) {
	weightsMap, ok := cfg["weights"].(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("weights not found")
	}
	table, err := rank.NewWeightTable(conv.MapToFloat64(weightsMap))
	if err != nil {
		return nil, err
	}
	return &rank.WeightedNode{
		Table:          table,
		BaseFromWeight: conv.ConfigGet[bool](cfg, "base_from_weight", false),
	}, nil
}
