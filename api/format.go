package api

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// ResponseFormat 响应格式，按一组显式信号在请求入口解析一次，
// 不在各处做散落的字符串包含判断
type ResponseFormat int

const (
	FormatJSON ResponseFormat = iota // 结构化客户端
	FormatHTML                       // 浏览器页面
	FormatForm                       // 表单提交（失败时重定向回跳）
)

// RequestMeta 组装响应所需的请求元信息
type RequestMeta struct {
	Format    ResponseFormat
	Method    string
	Path      string
	Referer   string
	RequestID string
}

// ResolveFormat 解析响应格式。信号优先级：
// XHR 标记或 JSON Accept → JSON；表单 POST → Form；否则 HTML
func ResolveFormat(c *gin.Context) ResponseFormat {
	if c.GetHeader("X-Requested-With") == "XMLHttpRequest" {
		return FormatJSON
	}
	accept := c.GetHeader("Accept")
	if strings.Contains(accept, "application/json") {
		return FormatJSON
	}
	if strings.HasPrefix(c.Request.URL.Path, "/api/") {
		return FormatJSON
	}
	if c.Request.Method != "GET" {
		contentType := c.GetHeader("Content-Type")
		if strings.Contains(contentType, "application/x-www-form-urlencoded") ||
			strings.Contains(contentType, "multipart/form-data") {
			return FormatForm
		}
	}
	return FormatHTML
}

// MetaFrom 从 gin 上下文提取组装所需元信息
func MetaFrom(c *gin.Context) RequestMeta {
	return RequestMeta{
		Format:    ResolveFormat(c),
		Method:    c.Request.Method,
		Path:      c.Request.URL.Path,
		Referer:   c.GetHeader("Referer"),
		RequestID: RequestID(c),
	}
}
