package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/komerce-shop/komerce/config"
)

// Required 字段必须存在且非空
func Required() Rule { return Rule{Kind: KindRequired} }

// MinLen / MaxLen 固定长度边界（按 rune 计数）
func MinLen(n int) Rule { return Rule{Kind: KindMinLen, Len: n} }
func MaxLen(n int) Rule { return Rule{Kind: KindMaxLen, Len: n} }

// LimitFor 长度边界取配置中对应字段类的 min/max
func LimitFor(key string) Rule { return Rule{Kind: KindLimit, LimitKey: key} }

// Pattern 正则匹配。name 决定违规码，如 email → string.email
func Pattern(re *regexp.Regexp, name string) Rule {
	return Rule{Kind: KindPattern, Pattern: re, PatternName: name}
}

// Range 数值范围（闭区间）
func Range(min, max float64) Rule { return Rule{Kind: KindRange, Min: min, Max: max} }

// OneOf 枚举约束
func OneOf(choices ...string) Rule { return Rule{Kind: KindOneOf, Choices: choices} }

// Precision 小数位数上限
func Precision(decimals int) Rule { return Rule{Kind: KindPrecision, Decimals: decimals} }

// Custom 业务规则校验器
func Custom(fn CustomFunc) Rule { return Rule{Kind: KindCustom, Fn: fn} }

// applyRule 对单个值应用一条规则，返回（可能归一化的）值与违规项。
// Required 在字段层处理，这里跳过
func applyRule(rule Rule, path string, value any) (any, *Violation) {
	switch rule.Kind {
	case KindRequired:
		return value, nil
	case KindMinLen:
		if s, ok := value.(string); ok && utf8.RuneCountInString(s) < rule.Len {
			return value, &Violation{
				Field:   path,
				Message: fmt.Sprintf("must be at least %d characters", rule.Len),
				Code:    "string.min",
			}
		}
	case KindMaxLen:
		if s, ok := value.(string); ok && utf8.RuneCountInString(s) > rule.Len {
			return value, &Violation{
				Field:   path,
				Message: fmt.Sprintf("must be at most %d characters", rule.Len),
				Code:    "string.max",
			}
		}
	case KindLimit:
		s, ok := value.(string)
		if !ok {
			return value, nil
		}
		limit, known := config.GetLimit(rule.LimitKey)
		if !known {
			return value, nil
		}
		n := utf8.RuneCountInString(s)
		if n < limit.Min {
			return value, &Violation{
				Field:   path,
				Message: fmt.Sprintf("must be at least %d characters", limit.Min),
				Code:    "string.min",
			}
		}
		if n > limit.Max {
			return value, &Violation{
				Field:   path,
				Message: fmt.Sprintf("must be at most %d characters", limit.Max),
				Code:    "string.max",
			}
		}
	case KindPattern:
		if s, ok := value.(string); ok && !rule.Pattern.MatchString(s) {
			code := "string.pattern"
			msg := "has an invalid format"
			if rule.PatternName != "" {
				code = "string." + rule.PatternName
				msg = "must be a valid " + rule.PatternName
			}
			return value, &Violation{Field: path, Message: msg, Code: code}
		}
	case KindRange:
		n, ok := asNumber(value)
		if !ok {
			return value, nil
		}
		if n < rule.Min {
			return value, &Violation{
				Field:   path,
				Message: fmt.Sprintf("must be at least %v", rule.Min),
				Code:    "number.min",
			}
		}
		if n > rule.Max {
			return value, &Violation{
				Field:   path,
				Message: fmt.Sprintf("must be at most %v", rule.Max),
				Code:    "number.max",
			}
		}
	case KindOneOf:
		s, ok := value.(string)
		if !ok || !contains(rule.Choices, s) {
			return value, &Violation{
				Field:   path,
				Message: "must be one of: " + strings.Join(rule.Choices, ", "),
				Code:    "any.only",
			}
		}
	case KindPrecision:
		n, ok := asNumber(value)
		if !ok {
			return value, nil
		}
		if !hasPrecision(n, rule.Decimals) {
			return value, &Violation{
				Field:   path,
				Message: fmt.Sprintf("must have at most %d decimal places", rule.Decimals),
				Code:    "number.precision",
			}
		}
	case KindCustom:
		return rule.Fn(path, value)
	}
	return value, nil
}

func asNumber(value any) (float64, bool) {
	switch n := value.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

// hasPrecision 判断小数位数不超过 decimals（用字符串表示避免浮点误差）
func hasPrecision(n float64, decimals int) bool {
	s := strings.TrimRight(fmt.Sprintf("%.10f", n), "0")
	dot := strings.IndexByte(s, '.')
	if dot < 0 {
		return true
	}
	return len(s)-dot-1 <= decimals
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
