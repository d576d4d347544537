package search

import (
	"context"

	"github.com/rushteam/matchkit/core"
	"github.com/rushteam/matchkit/pipeline"
)

// Project 将候选投影为公开形态；score、blocked、muted 等内部字段在这里被剥离。
// 输入顺序保持不变。
func Project(candidates []*core.Candidate) []core.Profile {
	out := make([]core.Profile, 0, len(candidates))
	for _, c := range candidates {
		if c == nil {
			continue
		}
		out = append(out, core.Profile{
			ID:        c.ID,
			Username:  c.Username,
			Name:      c.Name,
			Verified:  c.Verified,
			YouFollow: c.YouFollow,
			ProfilePicture: core.ProfilePicture{
				TinyResolution: c.ProfilePicture,
			},
			Statistics: core.Statistics{
				TotalFollowersNum: c.Followers,
			},
		})
	}
	return out
}

// ValidateNode 是检索词校验门的 Node 形态，放在检索 Pipeline 的最前端。
// 校验失败返回 INVALID_INPUT 领域错误，请求进入 Rejected 终态；
// 这是链路中唯一会整体拒绝请求的失败。
type ValidateNode struct {
	Validator *Validator
}

func (n *ValidateNode) Name() string        { return "search.validate" }
func (n *ValidateNode) Kind() pipeline.Kind { return pipeline.KindValidate }

func (n *ValidateNode) Process(
	_ context.Context,
	sctx *core.SearchContext,
	candidates []*core.Candidate,
) ([]*core.Candidate, error) {
	v := n.Validator
	if v == nil {
		v = NewValidator(DefaultRules())
	}
	res := v.Validate(sctx.Term)
	if !res.Valid {
		return nil, core.NewDomainError(core.ModuleSearch, core.ErrorCodeInvalidInput, res.Message)
	}
	sctx.Term = res.Term
	return candidates, nil
}
