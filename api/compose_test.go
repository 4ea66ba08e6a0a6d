package api

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/komerce-shop/komerce/config"
	"github.com/komerce-shop/komerce/security/faults"
	"github.com/komerce-shop/komerce/security/validation"
)

func loadTestConfig(t *testing.T) {
	t.Helper()
	config.Reset()
	require.NoError(t, config.LoadFrom(func(string) string { return "" }))
}

func TestCompose(t *testing.T) {
	loadTestConfig(t)

	t.Run("限流裁决压过一切分类", func(t *testing.T) {
		f := faults.Connection(nil)
		cls := faults.Classify(f, 0)
		resp := Compose(f, cls, true, RequestMeta{Format: FormatJSON}, nil)

		assert.Equal(t, ComposeJSON, resp.Kind)
		assert.Equal(t, http.StatusTooManyRequests, resp.Status)
		errBody := resp.Body["error"].(gin.H)
		assert.Equal(t, "RATE_LIMITED", errBody["code"])
	})

	t.Run("JSON 请求拿到完整结构化错误体", func(t *testing.T) {
		f := faults.MissingResource("product")
		cls := faults.Classify(f, 0)
		meta := RequestMeta{Format: FormatJSON, RequestID: "req-1"}
		resp := Compose(f, cls, false, meta, nil)

		assert.Equal(t, ComposeJSON, resp.Kind)
		assert.Equal(t, http.StatusNotFound, resp.Status)
		assert.Equal(t, false, resp.Body["success"])
		errBody := resp.Body["error"].(gin.H)
		assert.Equal(t, "NOT_FOUND", errBody["code"])
		assert.Equal(t, "client", errBody["category"])
		assert.Equal(t, "req-1", errBody["request_id"])
	})

	t.Run("校验失败的 JSON 响应附带违规列表", func(t *testing.T) {
		f := faults.Validation([]validation.Violation{
			{Field: "email", Message: "must be a valid email", Code: "string.email"},
		})
		cls := faults.Classify(f, 0)
		resp := Compose(f, cls, false, RequestMeta{Format: FormatJSON}, nil)

		errBody := resp.Body["error"].(gin.H)
		violations := errBody["violations"].([]validation.Violation)
		require.Len(t, violations, 1)
		assert.Equal(t, "email", violations[0].Field)
	})

	t.Run("表单校验失败回跳来源页", func(t *testing.T) {
		f := faults.Validation([]validation.Violation{
			{Field: "rating", Message: "must be between 1 and 5", Code: "number.max"},
		})
		cls := faults.Classify(f, 0)
		meta := RequestMeta{Format: FormatForm, Referer: "/products/7"}
		resp := Compose(f, cls, false, meta, nil)

		assert.Equal(t, ComposeRedirect, resp.Kind)
		assert.Equal(t, http.StatusFound, resp.Status)
		assert.Equal(t, "/products/7", resp.Location)
		assert.Contains(t, resp.Flash, "rating")
	})

	t.Run("无来源页时回跳首页", func(t *testing.T) {
		f := faults.Validation([]validation.Violation{
			{Field: "title", Message: "is required", Code: "any.required"},
		})
		cls := faults.Classify(f, 0)
		resp := Compose(f, cls, false, RequestMeta{Format: FormatForm}, nil)

		assert.Equal(t, "/", resp.Location)
	})

	t.Run("表单客户端的运行时失败渲染页面而非 JSON", func(t *testing.T) {
		f := faults.Connection(nil)
		cls := faults.Classify(f, 0)
		meta := RequestMeta{Format: FormatForm, Method: "POST"}
		resp := Compose(f, cls, false, meta, nil)

		assert.Equal(t, ComposeView, resp.Kind)
		assert.Equal(t, http.StatusServiceUnavailable, resp.Status)
		assert.Equal(t, "Service unavailable", resp.ViewModel["title"])
	})

	t.Run("浏览器请求渲染错误页面", func(t *testing.T) {
		f := faults.MissingResource("page")
		cls := faults.Classify(f, 0)
		resp := Compose(f, cls, false, RequestMeta{Format: FormatHTML, RequestID: "req-2"}, nil)

		assert.Equal(t, ComposeView, resp.Kind)
		assert.Equal(t, "Page not found", resp.ViewModel["title"])
		assert.Equal(t, "req-2", resp.ViewModel["request_id"])
		// 生产模式下不携带原始错误对象
		assert.NotContains(t, resp.ViewModel, "error")
	})

	t.Run("非调试模式不泄漏堆栈", func(t *testing.T) {
		f := faults.Internal(nil)
		cls := faults.Classify(f, 0)
		stack := []byte("goroutine 1 [running]")
		resp := Compose(f, cls, false, RequestMeta{Format: FormatJSON}, stack)

		errBody := resp.Body["error"].(gin.H)
		assert.NotContains(t, errBody, "stack")
	})
}
