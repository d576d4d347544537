// Package rank 提供候选打分与排序 Node：WeightTable 加权、聚类排名排序。
package rank

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/rushteam/matchkit/core"
)

// Entry 是 WeightTable 的一项：准则名 -> 标量权重。
type Entry struct {
	Criterion string
	Weight    float64
}

// WeightTable 是外部配置的加权表：布尔准则命中时累加对应权重。
// 进程启动时加载一次，请求处理期间只读。迭代枚举的准则列表而不是
// 动态对象键，顺序无关（加法可交换）。
type WeightTable struct {
	entries []Entry
}

// NewWeightTable 从准则->权重映射构建加权表。
// 准则名必须属于 core 的固定枚举，未知准则名报错。
func NewWeightTable(weights map[string]float64) (*WeightTable, error) {
	probe := core.Candidate{}
	entries := make([]Entry, 0, len(weights))
	// map 迭代顺序随机，但加权求和与顺序无关
	for name, w := range weights {
		if _, ok := probe.Criterion(name); !ok {
			return nil, fmt.Errorf("weight table: unknown criterion %q", name)
		}
		entries = append(entries, Entry{Criterion: name, Weight: w})
	}
	return &WeightTable{entries: entries}, nil
}

// 加权表文件形态：{ criterion_name: { weight: number } }
type weightFile map[string]struct {
	Weight float64 `yaml:"weight" json:"weight"`
}

// LoadWeightTable 从 YAML 文件加载加权表。
func LoadWeightTable(path string) (*WeightTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read weight table: %w", err)
	}
	var file weightFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse weight table: %w", err)
	}
	weights := make(map[string]float64, len(file))
	for name, entry := range file {
		weights[name] = entry.Weight
	}
	return NewWeightTable(weights)
}

// Entries 返回加权表的准则列表（只读视图）。
func (t *WeightTable) Entries() []Entry {
	return t.entries
}

// Score 计算候选的加权和：候选定义了准则且值为真时累加权重，否则加 0；
// 候选未定义的准则跳过（不惩罚）。base 是起始分：社交搜索传关系权重，
// 通用场景传 0。纯函数，无副作用。
func (t *WeightTable) Score(c *core.Candidate, base float64) float64 {
	total := base
	for _, e := range t.entries {
		value, ok := c.Criterion(e.Criterion)
		if !ok {
			continue
		}
		if value {
			total += e.Weight
		}
	}
	return total
}
