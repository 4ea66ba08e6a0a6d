package sanitize

import (
	"regexp"
	"strings"
)

var (
	scriptBlockPattern = regexp.MustCompile(`(?is)<script\b[^>]*>.*?</script\s*>`)
	scriptOpenPattern  = regexp.MustCompile(`(?is)</?script\b[^>]*>`)
	jsSchemePattern    = regexp.MustCompile(`(?i)javascript\s*:`)
	eventAttrPattern   = regexp.MustCompile(`(?i)\bon\w+\s*=\s*("[^"]*"|'[^']*'|[^\s>]+)`)
)

// Clean 递归清洗输入：字符串按固定顺序替换，切片逐元素、
// map 逐值处理（保留键），其余类型原样返回。无失败路径
func Clean(value any) any {
	switch v := value.(type) {
	case string:
		return CleanString(v)
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = Clean(item)
		}
		return out
	case []string:
		out := make([]string, len(v))
		for i, item := range v {
			out[i] = CleanString(item)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, item := range v {
			out[k] = Clean(item)
		}
		return out
	case map[string]string:
		out := make(map[string]string, len(v))
		for k, item := range v {
			out[k] = CleanString(item)
		}
		return out
	default:
		return value
	}
}

// CleanString 对单个字符串做替换链，循环至不动点以保证幂等
// （拼接类绕过如 "javajavascript:script:" 单轮替换后会再次出现危险片段）。
// 每轮替换只删不增，字符串严格变短，必然终止
func CleanString(s string) string {
	for {
		next := cleanOnce(s)
		if next == s {
			return next
		}
		s = next
	}
}

func cleanOnce(s string) string {
	s = scriptBlockPattern.ReplaceAllString(s, "")
	s = scriptOpenPattern.ReplaceAllString(s, "")
	s = jsSchemePattern.ReplaceAllString(s, "")
	s = eventAttrPattern.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}
