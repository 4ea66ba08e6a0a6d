package middleware

import (
	"errors"
	"log/slog"
	"runtime/debug"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/komerce-shop/komerce/api"
	"github.com/komerce-shop/komerce/auditlog"
	"github.com/komerce-shop/komerce/config"
	"github.com/komerce-shop/komerce/security/faults"
	"github.com/komerce-shop/komerce/security/ratelimit"
	"github.com/komerce-shop/komerce/ws"
)

// ErrorBoundary 框架顶层错误边界：捕获 panic 与处理器上报的失败，
// 分类 → 限流裁决 → 结构化日志 → 组装响应。
// 这是最后一道防线，自身绝不允许再抛出
func ErrorBoundary() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				HandleFailure(c, faults.FromPanic(r), debug.Stack())
			}
		}()
		c.Next()

		if len(c.Errors) > 0 && !c.Writer.Written() {
			HandleFailure(c, extractFailure(c.Errors.Last().Err), nil)
		}
	}
}

// NoRoute 未匹配路由：合成一个 404 失败交给错误边界
func NoRoute() gin.HandlerFunc {
	return func(c *gin.Context) {
		HandleFailure(c, faults.NotFound(c.Request.URL.Path), nil)
	}
}

// HandleFailure 单个失败的完整处理路径。任何内部 panic 都会被
// 收敛为一个极简 500 JSON，保证边界本身不再失败
func HandleFailure(c *gin.Context, f *faults.Failure, stack []byte) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("error boundary itself failed", "panic", r)
			if !c.Writer.Written() {
				c.JSON(500, gin.H{"success": false, "error": gin.H{
					"message": "An unexpected error occurred",
					"code":    "INTERNAL_ERROR",
				}})
			}
			c.Abort()
		}
	}()

	cls := faults.Classify(f, c.Writer.Status())

	limited := false
	if config.GetRateLimit().Enabled {
		limiter := ratelimit.Default()
		key := c.ClientIP()
		limited = limiter.ShouldLimit(key)
		// 响应即将发出，此时才记录
		limiter.Record(key)
	}

	var user *auditlog.UserInfo
	if u := api.CurrentUser(c); u != nil {
		user = &auditlog.UserInfo{
			ID:       strconv.FormatUint(uint64(u.ID), 10),
			Username: u.Username,
			Role:     u.Role,
		}
	}
	auditlog.LogClassifiedError(f, cls, requestInfo(c), user, api.RequestID(c), stack)

	// 高危失败推送到管理端实时流
	if cls.Severity == faults.SeverityHigh || cls.Severity == faults.SeverityCritical {
		ws.PublishFailure(f, cls, api.RequestID(c), c.Request.URL.Path)
	}

	api.Compose(f, cls, limited, api.MetaFrom(c), stack).Send(c)
	c.Abort()
}

func extractFailure(err error) *faults.Failure {
	var f *faults.Failure
	if errors.As(err, &f) {
		return f
	}
	return faults.Internal(err)
}

func requestInfo(c *gin.Context) auditlog.RequestInfo {
	params := make(map[string]string, len(c.Params))
	for _, p := range c.Params {
		params[p.Key] = p.Value
	}
	return auditlog.RequestInfo{
		Method:    c.Request.Method,
		URL:       c.Request.RequestURI,
		Path:      c.Request.URL.Path,
		Query:     c.Request.URL.RawQuery,
		Params:    params,
		IP:        c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}
}
