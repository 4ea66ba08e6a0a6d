package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/komerce-shop/komerce/api"
	"github.com/komerce-shop/komerce/database/sessions"
)

// ResolveUser 从会话 cookie 解析当前用户写入上下文。
// 解析失败不拦截请求，只为日志归属与后续守卫提供用户
func ResolveUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, err := c.Cookie(api.SessionCookie); err == nil && token != "" {
			if user, err := sessions.GetUser(token); err == nil {
				c.Set(api.ContextCurrentUser, user)
			}
		}
		c.Next()
	}
}

// RequireUser 需要已登录用户的路由守卫
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if api.CurrentUser(c) == nil {
			api.RespondError(c, 401, "Authentication required")
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireAdmin 仅管理员可达的路由守卫
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := api.CurrentUser(c)
		if user == nil {
			api.RespondError(c, 401, "Authentication required")
			c.Abort()
			return
		}
		if user.Role != "admin" {
			api.RespondError(c, 403, "Admin access required")
			c.Abort()
			return
		}
		c.Next()
	}
}
