package search

import (
	"fmt"
	"regexp"
	"strings"
)

// 只允许字母、数字与空白；注入风险字符单独列出以给出更明确的提示。
var (
	allowedCharacters = regexp.MustCompile(`^[a-zA-Z0-9\s]+$`)
	injectionPattern  = regexp.MustCompile(`['"%;()<>]`)
)

// Result 是校验结果：失败以结构化形式返回，不抛错给调用方。
type Result struct {
	Valid   bool
	Message string
	// Term 是通过校验后的规范化检索词（去除首尾空白）
	Term string
}

// Validator 是检索词校验门。任何使用原始检索词的存储查询之前都必须先过这道门。
type Validator struct {
	Rules Rules
}

// NewValidator 创建校验器；零值 Rules 回落到默认规则。
func NewValidator(rules Rules) *Validator {
	if rules.MaxSearchLength == 0 {
		rules = DefaultRules()
	}
	return &Validator{Rules: rules}
}

// Validate 依次检查：空串、长度界限、字符白名单、注入风险模式。
// 检查顺序与失败消息保持对外稳定。
func (v *Validator) Validate(term string) Result {
	if strings.TrimSpace(term) == "" {
		return Result{Valid: false, Message: "search term cannot be empty"}
	}

	if len(term) < v.Rules.MinSearchLength || len(term) > v.Rules.MaxSearchLength {
		return Result{
			Valid: false,
			Message: fmt.Sprintf("search term must be between %d and %d characters",
				v.Rules.MinSearchLength, v.Rules.MaxSearchLength),
		}
	}

	if !allowedCharacters.MatchString(term) {
		return Result{
			Valid:   false,
			Message: "search term contains invalid characters; only letters, numbers, and spaces are allowed",
		}
	}

	if injectionPattern.MatchString(term) {
		return Result{Valid: false, Message: `search term contains forbidden characters (' " % ; ( ) < >)`}
	}

	return Result{Valid: true, Term: strings.TrimSpace(term)}
}
