package auditlog

import (
	"context"
	"log/slog"

	"github.com/komerce-shop/komerce/config"
	"github.com/komerce-shop/komerce/security/faults"
	"github.com/komerce-shop/komerce/security/validation"
)

// RequestInfo 单次请求的日志上下文
type RequestInfo struct {
	Method    string
	URL       string
	Path      string
	Query     string
	Params    map[string]string
	IP        string
	UserAgent string
}

// UserInfo 已解析的当前用户，仅用于日志归因
type UserInfo struct {
	ID       string
	Username string
	Role     string
}

var logger = slog.Default

// SetLogger 替换底层 slog，仅供测试
func SetLogger(l *slog.Logger) {
	logger = func() *slog.Logger { return l }
}

// LogClassifiedError 对每个分类后的错误写一条结构化记录。
// 原始文案写入前同样过脱敏；写入不阻塞响应路径的组装
func LogClassifiedError(f *faults.Failure, c faults.Classified, req RequestInfo, user *UserInfo, requestID string, stack []byte) {
	logging := config.GetLogging()
	if !logging.Enabled {
		return
	}

	attrs := []slog.Attr{
		slog.String("severity", string(c.Severity)),
		slog.String("category", string(c.Category)),
		slog.Int("status", c.StatusCode),
		slog.String("request_id", requestID),
		slog.Group("error",
			slog.String("name", string(f.Kind)),
			slog.String("message", faults.RedactMessage(f.Message)),
			slog.String("code", c.Code),
		),
	}
	attrs = append(attrs, requestAttrs(req, logging)...)
	if user != nil {
		attrs = append(attrs, slog.Group("user",
			slog.String("id", user.ID),
			slog.String("username", user.Username),
			slog.String("role", user.Role),
		))
	}
	if logging.IncludeStack && len(stack) > 0 {
		attrs = append(attrs, slog.String("stack", string(stack)))
	}

	logger().LogAttrs(context.Background(), levelFor(c.Severity), "request failed", attrs...)
}

// LogValidationFailure 对每次校验失败写一条记录，附完整违规列表
func LogValidationFailure(entity string, violations []validation.Violation, req RequestInfo, requestID string) {
	logging := config.GetLogging()
	if !logging.Enabled {
		return
	}

	fields := make([]string, len(violations))
	for i, v := range violations {
		fields[i] = v.Field + "/" + v.Code
	}
	attrs := []slog.Attr{
		slog.String("severity", string(faults.SeverityLow)),
		slog.String("category", string(faults.CategoryValidation)),
		slog.String("entity", entity),
		slog.Int("violation_count", len(violations)),
		slog.Any("violations", fields),
		slog.String("request_id", requestID),
	}
	attrs = append(attrs, requestAttrs(req, logging)...)

	logger().LogAttrs(context.Background(), slog.LevelInfo, "validation failed", attrs...)
}

func requestAttrs(req RequestInfo, logging config.LoggingConfig) []slog.Attr {
	group := []any{
		slog.String("method", req.Method),
		slog.String("url", req.URL),
		slog.String("path", req.Path),
	}
	if req.Query != "" {
		group = append(group, slog.String("query", req.Query))
	}
	if len(req.Params) > 0 {
		group = append(group, slog.Any("params", req.Params))
	}
	if logging.IncludeClientIP && req.IP != "" {
		group = append(group, slog.String("ip", req.IP))
	}
	if logging.IncludeUserAgent && req.UserAgent != "" {
		group = append(group, slog.String("user_agent", req.UserAgent))
	}
	return []slog.Attr{slog.Group("request", group...)}
}

func levelFor(s faults.Severity) slog.Level {
	switch faults.LogLevelFor(s) {
	case "error":
		return slog.LevelError
	case "warn":
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}
