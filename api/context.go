package api

import (
	"github.com/gin-gonic/gin"

	"github.com/komerce-shop/komerce/database/models"
)

// gin 上下文键
const (
	ContextRequestID   = "komerce_request_id"
	ContextCurrentUser = "komerce_current_user"
	ContextValidated   = "komerce_validated"
)

// RequestID 当前请求的追踪 ID（RequestID 中间件写入）
func RequestID(c *gin.Context) string {
	return c.GetString(ContextRequestID)
}

// CurrentUser 已解析的当前用户，未登录返回 nil
func CurrentUser(c *gin.Context) *models.User {
	v, ok := c.Get(ContextCurrentUser)
	if !ok {
		return nil
	}
	user, ok := v.(*models.User)
	if !ok {
		return nil
	}
	return user
}

// Validated 校验中间件写入的清洗后请求体
func Validated(c *gin.Context) (map[string]any, bool) {
	v, ok := c.Get(ContextValidated)
	if !ok {
		return nil, false
	}
	value, ok := v.(map[string]any)
	return value, ok
}
