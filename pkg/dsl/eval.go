package dsl

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/rushteam/matchkit/core"
)

var (
	// celEnv 是全局的 CEL 环境，线程安全，可复用
	celEnv     *cel.Env
	celEnvOnce sync.Once
)

// initCELEnv 初始化 CEL 环境，定义变量和函数
func initCELEnv() (*cel.Env, error) {
	env, err := cel.NewEnv(
		// 定义变量类型
		cel.Variable("candidate", cel.DynType),
		cel.Variable("label", cel.DynType),
		cel.Variable("sctx", cel.DynType),
	)
	return env, err
}

// getCELEnv 获取或创建 CEL 环境
func getCELEnv() (*cel.Env, error) {
	var err error
	celEnvOnce.Do(func() {
		celEnv, err = initCELEnv()
	})
	return celEnv, err
}

// Eval 是候选规则 DSL 解释器，使用 CEL (Common Expression Language) 实现。
// CEL 是 Google 开发的表达式语言，具有类型安全、高性能、线程安全等特性。
//
// 表达式语法（CEL 标准语法）：
//   - 基础：label.recall_source == "related" / candidate.verified
//   - 数值：candidate.score > 0.7 / candidate.followers >= 100
//   - 逻辑：candidate.muted && !candidate.you_follow
//   - 存在性：label.recall_source != null
//   - 包含：label.recall_source.contains("unknown")
type Eval struct {
	candidate *core.Candidate
	sctx      *core.SearchContext
	env       *cel.Env
}

// NewEval 创建一个新的 DSL 解释器。
func NewEval(candidate *core.Candidate, sctx *core.SearchContext) *Eval {
	env, _ := getCELEnv()
	return &Eval{
		candidate: candidate,
		sctx:      sctx,
		env:       env,
	}
}

// Evaluate 解析并执行 DSL 表达式，返回布尔结果。
// 注意：has(label.key) 可以用 label.key != null 替代
func (e *Eval) Evaluate(expr string) (bool, error) {
	if expr == "" {
		return true, nil
	}
	if e.env == nil {
		return false, fmt.Errorf("cel env not initialized")
	}

	ast, issues := e.env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return false, fmt.Errorf("compile error: %v", issues.Err())
	}

	prg, err := e.env.Program(ast)
	if err != nil {
		return false, fmt.Errorf("program error: %v", err)
	}

	out, _, err := prg.Eval(e.buildInput())
	if err != nil {
		// 对于不存在的 key，CEL 会返回错误
		// 用户应该使用 label.key != null 来检查存在性，而不是直接访问
		return false, fmt.Errorf("eval error: %v", err)
	}

	result, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("expression must return boolean, got %T", out.Value())
	}

	return result, nil
}

// buildInput 构建 CEL 表达式的输入数据
func (e *Eval) buildInput() map[string]interface{} {
	labels := make(map[string]interface{})
	labelAccessor := make(map[string]interface{})
	if e.candidate != nil {
		for k, v := range e.candidate.Labels {
			labels[k] = map[string]interface{}{
				"value":  v.Value,
				"source": v.Source,
			}
			// label.recall_source 直接返回 value，兼容简写语法
			labelAccessor[k] = v.Value
		}
	}

	candidate := map[string]interface{}{}
	if e.candidate != nil {
		candidate = map[string]interface{}{
			"id":                  e.candidate.ID,
			"username":            e.candidate.Username,
			"score":               e.candidate.Score,
			"source":              string(e.candidate.Source),
			"weight":              e.candidate.Weight,
			"verified":            e.candidate.Verified,
			"muted":               e.candidate.Muted,
			"blocked":             e.candidate.Blocked,
			"you_follow":          e.candidate.YouFollow,
			"follow_you":          e.candidate.FollowYou,
			"is_premium":          e.candidate.Premium,
			"has_profile_picture": e.candidate.HasProfilePicture,
			"followers":           e.candidate.Followers,
			"meta":                e.candidate.Meta,
			"labels":              labels,
		}
	}

	sctx := map[string]interface{}{}
	if e.sctx != nil {
		sctx = map[string]interface{}{
			"user_id": e.sctx.UserID,
			"term":    e.sctx.Term,
			"scene":   e.sctx.Scene,
			"premium": e.sctx.Premium,
			"params":  e.sctx.Params,
		}
	}

	return map[string]interface{}{
		"candidate": candidate,
		"label":     labelAccessor,
		"sctx":      sctx,
	}
}
