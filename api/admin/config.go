package admin

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/komerce-shop/komerce/api"
	"github.com/komerce-shop/komerce/config"
)

// GET /api/admin/config
func GetConfig(c *gin.Context) {
	api.RespondSuccess(c, gin.H{
		"limits":   config.GetLimits(),
		"security": config.GetSecurity(),
		"payment":  config.GetPayment(),
		"messages": config.GetMessages(),
	})
}

// POST /api/admin/config
// 仅白名单段（limits / security / payment / messages）会被合并
func UpdateConfig(c *gin.Context) {
	var req config.Partial
	if err := c.ShouldBindJSON(&req); err != nil {
		api.RespondError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	// 允许逗号分隔的字符串形式
	if req.Security != nil {
		req.Security.AllowedFileExtensions = normalizeList(req.Security.AllowedFileExtensions)
		req.Security.AllowedURLDomains = normalizeList(req.Security.AllowedURLDomains)
	}
	if req.Payment != nil {
		req.Payment.AllowedMethods = normalizeList(req.Payment.AllowedMethods)
	}
	config.Update(req)
	api.RespondSuccess(c, gin.H{"updated": true})
}

// GET /api/admin/config/limits
func GetLimits(c *gin.Context) {
	api.RespondSuccess(c, config.GetLimits())
}

// POST /api/admin/config/limits
func UpdateLimits(c *gin.Context) {
	var req map[string]config.Limit
	if err := c.ShouldBindJSON(&req); err != nil {
		api.RespondError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	config.Update(config.Partial{Limits: req})
	api.RespondSuccess(c, config.GetLimits())
}

func normalizeList(list []string) []string {
	if len(list) == 1 && strings.Contains(list[0], ",") {
		list = strings.Split(list[0], ",")
	}
	var res []string
	for _, item := range list {
		item = strings.TrimSpace(item)
		if item != "" {
			res = append(res, item)
		}
	}
	return res
}
