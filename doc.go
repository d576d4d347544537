// Package matchkit 是一个候选排序与相似度引擎（Match Kit），
// 同时支撑“搜人”与滑动推荐两条链路。
//
// 设计要点：
// - Pipeline-first: 检索逻辑通过 Node 串联（Validate → Recall → Filter → Enrich → Rank → ReRank → PostProcess）
// - 双路召回: 社交关系图谱（related）与聚类/向量相似度（unknown）并发召回后按系数混排
// - Labels-first: labels 全链路透传与标准化 merge，支持 explain / 观测 / 策略驱动
// - Node 可扩展: 自定义 Node 即可插拔扩展
package matchkit

import "github.com/rushteam/matchkit/pipeline"

// 轻量 facade：便于用户直接 import "matchkit" 使用核心抽象。
type Pipeline = pipeline.Pipeline
type Node = pipeline.Node
type Kind = pipeline.Kind

const (
	KindValidate    = pipeline.KindValidate
	KindRecall      = pipeline.KindRecall
	KindFilter      = pipeline.KindFilter
	KindEnrich      = pipeline.KindEnrich
	KindRank        = pipeline.KindRank
	KindReRank      = pipeline.KindReRank
	KindPostProcess = pipeline.KindPostProcess
)
