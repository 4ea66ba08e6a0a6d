package api

import "github.com/gin-gonic/gin"

// RespondSuccess 统一成功响应
func RespondSuccess(c *gin.Context, data any) {
	c.JSON(200, gin.H{
		"status": "success",
		"data":   data,
	})
}

// RespondError 统一错误响应（简单场景；经过错误边界的失败
// 由 Compose 按协商格式产生响应体）
func RespondError(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{
		"status":  "error",
		"message": message,
	})
}
