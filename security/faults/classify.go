package faults

import (
	"net/http"

	"github.com/komerce-shop/komerce/config"
)

// Severity 分类失败的紧急程度，决定日志级别
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Category 失败归属的子系统
type Category string

const (
	CategoryValidation     Category = "validation"
	CategoryAuthentication Category = "authentication"
	CategoryAuthorization  Category = "authorization"
	CategoryDatabase       Category = "database"
	CategoryFile           Category = "file"
	CategoryTemplate       Category = "template"
	CategoryNetwork        Category = "network"
	CategorySystem         Category = "system"
	CategoryClient         Category = "client"
)

// Classified 由 Failure 确定性推导出的分类结果，产生后不再修改
type Classified struct {
	Severity    Severity `json:"severity"`
	Category    Category `json:"category"`
	StatusCode  int      `json:"status_code"`
	Code        string   `json:"code"`
	SafeMessage string   `json:"message"`
}

// Classify 纯查表分类，优先级自上而下，首个匹配生效。
// responseStatus 为响应上已设置的状态码（默认分支使用，200 视为未设置）
func Classify(f *Failure, responseStatus int) Classified {
	switch f.Kind {
	case KindConnection, KindServerSelection:
		return withSafeMessage(f, Classified{
			Severity:   SeverityCritical,
			Category:   CategoryDatabase,
			StatusCode: http.StatusServiceUnavailable,
			Code:       "SERVICE_UNAVAILABLE",
		})

	case KindSchema, KindCast, KindValidation:
		return withSafeMessage(f, Classified{
			Severity:   SeverityHigh,
			Category:   CategoryValidation,
			StatusCode: http.StatusBadRequest,
			Code:       "VALIDATION_FAILED",
		})

	case KindDuplicateKey:
		c := Classified{
			Severity:   SeverityHigh,
			Category:   CategoryDatabase,
			StatusCode: http.StatusBadRequest,
			Code:       "DUPLICATE_KEY",
		}
		if field := f.FirstConflictKey(); field != "" {
			c.SafeMessage = field + " already exists"
			return c
		}
		return withSafeMessage(f, c)

	case KindAuthTokenInvalid, KindAuthTokenExpired:
		return withSafeMessage(f, Classified{
			Severity:   SeverityMedium,
			Category:   CategoryAuthentication,
			StatusCode: http.StatusUnauthorized,
			Code:       "AUTHENTICATION_FAILED",
		})

	case KindPayloadTooLarge, KindTooManyParts:
		return withSafeMessage(f, Classified{
			Severity:   SeverityMedium,
			Category:   CategoryFile,
			StatusCode: http.StatusBadRequest,
			Code:       "FILE_REJECTED",
		})

	case KindTemplateMissing:
		return withSafeMessage(f, Classified{
			Severity:   SeverityHigh,
			Category:   CategoryTemplate,
			StatusCode: http.StatusInternalServerError,
			Code:       "TEMPLATE_ERROR",
		})

	case KindNotFound:
		return withSafeMessage(f, Classified{
			Severity:   SeverityLow,
			Category:   CategoryClient,
			StatusCode: http.StatusNotFound,
			Code:       "NOT_FOUND",
		})
	}

	// 默认分支：沿用响应上已设置的非 200 状态码，否则取配置的默认值
	status := responseStatus
	if status == 0 || status == http.StatusOK {
		status = config.GetMessages().DefaultStatusCode
	}
	return withSafeMessage(f, Classified{
		Severity:   SeverityLow,
		Category:   CategorySystem,
		StatusCode: status,
		Code:       "INTERNAL_ERROR",
	})
}

// withSafeMessage 按类别取配置文案，缺省取 Default
func withSafeMessage(f *Failure, c Classified) Classified {
	msg := config.GetMessages()
	if text, ok := msg.ByCategory[string(c.Category)]; ok {
		c.SafeMessage = text
	} else {
		c.SafeMessage = msg.Default
	}
	return c
}

// LogLevelFor 严重度到日志级别名的映射
func LogLevelFor(s Severity) string {
	switch s {
	case SeverityCritical, SeverityHigh:
		return "error"
	case SeverityMedium:
		return "warn"
	default:
		return "info"
	}
}
