package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/komerce-shop/komerce/database/dbcore"
)

// GET /api/health
// 存储探活失败时降级上报，不经过错误边界
func Health(c *gin.Context) {
	status := "ok"
	code := http.StatusOK

	db := dbcore.GetDBInstance()
	if sqlDB, err := db.DB(); err != nil || sqlDB.Ping() != nil {
		status = "degraded"
		code = http.StatusServiceUnavailable
	}

	c.JSON(code, gin.H{
		"status":  status,
		"service": "komerce",
	})
}
