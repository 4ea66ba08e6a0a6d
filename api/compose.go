package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/komerce-shop/komerce/config"
	"github.com/komerce-shop/komerce/security/faults"
)

// ComposeKind 响应的线格式决策
type ComposeKind int

const (
	ComposeJSON     ComposeKind = iota // 结构化错误体
	ComposeView                        // 渲染失败页面
	ComposeRedirect                    // 表单回跳 + 闪存消息
)

// ComposedResponse 组装结果。先决策后发送，便于单测决策本身
type ComposedResponse struct {
	Kind      ComposeKind
	Status    int
	Body      gin.H
	ViewModel gin.H
	Location  string
	Flash     string
}

// Compose 根据分类、限流裁决与请求元信息决定响应形态。
// 被限流时无条件 429 JSON，跳过正常的分类渲染
func Compose(f *faults.Failure, cls faults.Classified, rateLimited bool, meta RequestMeta, stack []byte) ComposedResponse {
	now := time.Now().UTC().Format(time.RFC3339)

	if rateLimited {
		return ComposedResponse{
			Kind:   ComposeJSON,
			Status: http.StatusTooManyRequests,
			Body: gin.H{
				"success": false,
				"error": gin.H{
					"message":   config.GetMessages().RateLimited,
					"code":      "RATE_LIMITED",
					"timestamp": now,
				},
			},
		}
	}

	// 表单提交的校验失败：回跳并把违规文案放入闪存
	if meta.Format == FormatForm && f.Kind == faults.KindValidation {
		messages := make([]string, len(f.Violations))
		for i, v := range f.Violations {
			messages[i] = v.Field + " " + v.Message
		}
		location := meta.Referer
		if location == "" {
			location = "/"
		}
		return ComposedResponse{
			Kind:     ComposeRedirect,
			Status:   http.StatusFound,
			Location: location,
			Flash:    strings.Join(messages, "; "),
		}
	}

	// 只有声明结构化载荷的请求拿 JSON，表单客户端的
	// 非校验失败与浏览器一样落到失败页面
	if meta.Format == FormatJSON {
		errBody := gin.H{
			"message":    cls.SafeMessage,
			"code":       cls.Code,
			"category":   string(cls.Category),
			"severity":   string(cls.Severity),
			"timestamp":  now,
			"request_id": meta.RequestID,
		}
		if f.Kind == faults.KindValidation {
			errBody["violations"] = f.Violations
		}
		if len(stack) > 0 && config.IsDebug() && config.GetLogging().IncludeStack {
			errBody["stack"] = string(stack)
		}
		return ComposedResponse{
			Kind:   ComposeJSON,
			Status: cls.StatusCode,
			Body:   gin.H{"success": false, "error": errBody},
		}
	}

	vm := gin.H{
		"title":       titleFor(cls.StatusCode),
		"message":     cls.SafeMessage,
		"status_code": cls.StatusCode,
		"request_id":  meta.RequestID,
	}
	if config.IsDebug() {
		// 完整错误对象仅在开发模式下进入页面
		vm["error"] = f
	}
	return ComposedResponse{
		Kind:      ComposeView,
		Status:    cls.StatusCode,
		ViewModel: vm,
	}
}

// Send 把组装结果落到响应上
func (r ComposedResponse) Send(c *gin.Context) {
	switch r.Kind {
	case ComposeJSON:
		c.JSON(r.Status, r.Body)
	case ComposeView:
		c.HTML(r.Status, "error.tmpl", r.ViewModel)
	case ComposeRedirect:
		SetFlash(c, r.Flash)
		c.Redirect(r.Status, r.Location)
	}
}

func titleFor(status int) string {
	switch status {
	case http.StatusNotFound:
		return "Page not found"
	case http.StatusUnauthorized:
		return "Authentication required"
	case http.StatusForbidden:
		return "Access denied"
	case http.StatusServiceUnavailable:
		return "Service unavailable"
	default:
		return "Something went wrong"
	}
}
