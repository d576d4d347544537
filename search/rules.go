// Package search 提供检索入口的规则配置、检索词校验门与公开形态投影。
package search

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Rules 是检索引擎的部署级规则，进程启动时加载一次，请求处理期间只读。
type Rules struct {
	MinSearchLength      int     `yaml:"min_search_length" json:"min_search_length"`
	MaxSearchLength      int     `yaml:"max_search_length" json:"max_search_length"`
	MaxRelatedCandidates int     `yaml:"max_related_candidates" json:"max_related_candidates"`
	MaxUnknownCandidates int     `yaml:"max_unknown_candidates" json:"max_unknown_candidates"`
	MinRelationWeight    float64 `yaml:"min_relation_weight" json:"min_relation_weight"`
	MaxPremiumUsers      int     `yaml:"max_premium_users" json:"max_premium_users"`
	MaxResultsPerPage    int     `yaml:"max_results_per_page" json:"max_results_per_page"`
	TimeoutMS            int     `yaml:"timeout_ms" json:"timeout_ms"`

	// MixingCoefficient 是 related/unknown 两路的相对权重，取值 [0,1]。
	// 0.5 表示两路等权（等价于纯按分数排序）。
	MixingCoefficient float64 `yaml:"mixing_coefficient" json:"mixing_coefficient"`
}

// DefaultRules 返回线上默认规则。
func DefaultRules() Rules {
	return Rules{
		MinSearchLength:      1,
		MaxSearchLength:      50,
		MaxRelatedCandidates: 200,
		MaxUnknownCandidates: 100,
		MinRelationWeight:    0,
		MaxPremiumUsers:      10,
		MaxResultsPerPage:    20,
		TimeoutMS:            2000,
		MixingCoefficient:    0.5,
	}
}

// LoadRules 从 YAML 文件加载规则，缺省字段回落到 DefaultRules。
func LoadRules(path string) (Rules, error) {
	rules := DefaultRules()
	data, err := os.ReadFile(path)
	if err != nil {
		return rules, fmt.Errorf("read rules: %w", err)
	}
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return rules, fmt.Errorf("parse rules: %w", err)
	}
	if err := rules.Validate(); err != nil {
		return rules, err
	}
	return rules, nil
}

// Validate 做基本一致性检查。
func (r Rules) Validate() error {
	if r.MinSearchLength < 1 || r.MaxSearchLength < r.MinSearchLength {
		return fmt.Errorf("rules: invalid search length bounds [%d, %d]", r.MinSearchLength, r.MaxSearchLength)
	}
	if r.MixingCoefficient < 0 || r.MixingCoefficient > 1 {
		return fmt.Errorf("rules: mixing_coefficient %v outside [0,1]", r.MixingCoefficient)
	}
	return nil
}

// Timeout 返回每路召回的超时时间。
func (r Rules) Timeout() time.Duration {
	if r.TimeoutMS <= 0 {
		return 2 * time.Second
	}
	return time.Duration(r.TimeoutMS) * time.Millisecond
}
