package admin

import (
	"github.com/gin-gonic/gin"

	"github.com/komerce-shop/komerce/api"
	"github.com/komerce-shop/komerce/security/ratelimit"
	"github.com/komerce-shop/komerce/security/validation"
	"github.com/komerce-shop/komerce/ws"
)

// GET /api/admin/errors/stats
func GetErrorStats(c *gin.Context) {
	api.RespondSuccess(c, gin.H{
		"rate_limit":       ratelimit.Default().GetStats(),
		"feed_subscribers": ws.SubscriberCount(),
	})
}

// POST /api/admin/errors/clear
// 清空限流追踪表，解除所有客户端的 429
func ClearErrorTracking(c *gin.Context) {
	ratelimit.Default().Clear()
	api.RespondSuccess(c, gin.H{"cleared": true})
}

// GET /api/admin/validation/stats
func GetValidationStats(c *gin.Context) {
	api.RespondSuccess(c, gin.H{
		"stats":    validation.GetStats(),
		"entities": validation.Entities(),
	})
}

// POST /api/admin/validation/reset
func ResetValidationStats(c *gin.Context) {
	validation.ResetStats()
	api.RespondSuccess(c, gin.H{"reset": true})
}
