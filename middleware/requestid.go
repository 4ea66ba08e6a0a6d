package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/komerce-shop/komerce/api"
)

// RequestID 为每个请求分配追踪 ID，沿用客户端携带的 X-Request-ID
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(api.ContextRequestID, id)
		c.Header("X-Request-ID", id)
		c.Next()
	}
}
