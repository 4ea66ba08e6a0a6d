package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/komerce-shop/komerce/config"
)

// BodyLimit 限制请求体大小。超限在读取体时触发 MaxBytesError，
// 由解析方转换为 payload_too_large 失败
func BodyLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := config.GetSecurity().MaxUploadSizeBytes
		if limit > 0 {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		}
		c.Next()
	}
}
