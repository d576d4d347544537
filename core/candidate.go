package core

import "github.com/rushteam/matchkit/pkg/utils"

// SourceTag 标记候选的来源通道。
type SourceTag string

const (
	SourceRelated SourceTag = "related" // 社交关系图谱召回
	SourceUnknown SourceTag = "unknown" // 聚类/向量相似度召回
)

// 评分准则的固定枚举。WeightTable 的 key 只允许出现在这里
// （含历史拼写 verifyed，它是持久化的准则名，不可改）。
const (
	CriterionVerified          = "verifyed"
	CriterionHasProfilePicture = "has_profile_picture"
	CriterionYouFollow         = "you_follow"
	CriterionFollowYou         = "follow_you"
	CriterionPremium           = "is_premium"
	CriterionMuted             = "muted"
)

// Candidate 是检索链路中的统一承载结构：一次请求内产生、响应后丢弃。
// Score 用于排序决策；Labels 用于解释与观测；布尔准则字段驱动 WeightTable 加权。
type Candidate struct {
	ID       int64
	Username string
	Name     string
	Score    float64
	Source   SourceTag

	// Weight 是关系边的亲和度权重，社交搜索场景作为基础分。
	Weight float64

	// 布尔准则（相对请求者）
	Verified          bool
	Muted             bool
	Blocked           bool
	YouFollow         bool
	FollowYou         bool
	Premium           bool
	HasProfilePicture bool

	ProfilePicture string // tiny_resolution 引用
	Followers      int64

	Meta   map[string]any
	Labels map[string]utils.Label
}

func NewCandidate(id int64, source SourceTag) *Candidate {
	return &Candidate{
		ID:     id,
		Source: source,
		Meta:   make(map[string]any),
		Labels: make(map[string]utils.Label),
	}
}

// Criterion 按准则名读取布尔准则值。枚举之外的名字返回 (false, false)，
// 调用方按“候选未定义该准则”处理（不加分也不减分）。
func (c *Candidate) Criterion(name string) (value bool, ok bool) {
	switch name {
	case CriterionVerified:
		return c.Verified, true
	case CriterionHasProfilePicture:
		return c.HasProfilePicture, true
	case CriterionYouFollow:
		return c.YouFollow, true
	case CriterionFollowYou:
		return c.FollowYou, true
	case CriterionPremium:
		return c.Premium, true
	case CriterionMuted:
		return c.Muted, true
	}
	return false, false
}

// PutLabel 写入 Label；若已存在同名 key，则按默认 Merge 规则累积。
func (c *Candidate) PutLabel(key string, lbl utils.Label) {
	if c.Labels == nil {
		c.Labels = make(map[string]utils.Label)
	}
	if old, ok := c.Labels[key]; ok {
		c.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	c.Labels[key] = lbl
}

// Profile 是安全过滤后对外暴露的公开形态。
// score、blocked 等内部字段绝不出现在这里。
type Profile struct {
	ID             int64          `json:"id"`
	Username       string         `json:"username"`
	Name           string         `json:"name"`
	Verified       bool           `json:"verifyed"`
	YouFollow      bool           `json:"you_follow"`
	ProfilePicture ProfilePicture `json:"profile_picture"`
	Statistics     Statistics     `json:"statistics"`
}

type ProfilePicture struct {
	TinyResolution string `json:"tiny_resolution"`
}

type Statistics struct {
	TotalFollowersNum int64 `json:"total_followers_num"`
}
