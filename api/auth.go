package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/komerce-shop/komerce/database/sessions"
	"github.com/komerce-shop/komerce/database/users"
)

// SessionCookie 会话令牌的 cookie 名
const SessionCookie = "komerce_session"

const sessionTTL = 7 * 24 * time.Hour

func asString(m map[string]any, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

// POST /api/auth/register
// 请求体已由校验中间件净化并验证
func Register(c *gin.Context) {
	body, ok := Validated(c)
	if !ok {
		RespondError(c, http.StatusBadRequest, "Missing request body")
		return
	}

	user, err := users.Create(
		asString(body, "username"),
		asString(body, "email"),
		asString(body, "password"),
		asString(body, "firstName"),
		asString(body, "lastName"),
		asString(body, "phone"),
		asString(body, "address"),
	)
	if err != nil {
		c.Error(err)
		return
	}

	if err := openSession(c, user.ID); err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"status": "success", "data": user})
}

// POST /api/auth/login
func Login(c *gin.Context) {
	body, ok := Validated(c)
	if !ok {
		RespondError(c, http.StatusBadRequest, "Missing request body")
		return
	}

	user, err := users.Authenticate(asString(body, "email"), asString(body, "password"))
	if err != nil {
		if err == users.ErrInvalidCredentials {
			RespondError(c, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		c.Error(err)
		return
	}

	if err := openSession(c, user.ID); err != nil {
		c.Error(err)
		return
	}
	RespondSuccess(c, user)
}

// POST /api/auth/logout
func Logout(c *gin.Context) {
	if token, err := c.Cookie(SessionCookie); err == nil && token != "" {
		sessions.Delete(token)
	}
	c.SetCookie(SessionCookie, "", -1, "/", "", false, true)
	RespondSuccess(c, gin.H{"logged_out": true})
}

// GET /api/auth/me
func Me(c *gin.Context) {
	RespondSuccess(c, CurrentUser(c))
}

func openSession(c *gin.Context, userID uint) error {
	token, err := sessions.Create(userID, sessionTTL)
	if err != nil {
		return err
	}
	c.SetCookie(SessionCookie, token, int(sessionTTL.Seconds()), "/", "", false, true)
	return nil
}
