package faults

import (
	"regexp"

	"github.com/komerce-shop/komerce/config"
)

var (
	secretAssignPattern = regexp.MustCompile(`(?i)\b(password|token|secret|key)\s*=\s*[^\s&]+`)
	filePathPattern     = regexp.MustCompile(`(?:/[A-Za-z0-9_.~-]+){2,}/([A-Za-z0-9_.~-]+)`)
)

// RedactMessage 对外暴露前的文案脱敏：敏感赋值打码、多级文件路径折叠。
// 可通过配置整体关闭（messages.sanitize_messages）
func RedactMessage(message string) string {
	if !config.GetMessages().SanitizeMessages {
		return message
	}
	message = secretAssignPattern.ReplaceAllString(message, "$1: [REDACTED]")
	message = filePathPattern.ReplaceAllString(message, ".../$1")
	return message
}
