package admin

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/komerce-shop/komerce/config"
)

func setupAdminRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	config.Reset()
	require.NoError(t, config.LoadFrom(func(string) string { return "" }))

	router := gin.New()
	router.GET("/config", GetConfig)
	router.POST("/config", UpdateConfig)
	router.GET("/config/limits", GetLimits)
	router.POST("/config/limits", UpdateLimits)
	return router
}

func TestUpdateConfig(t *testing.T) {
	t.Run("白名单段被合并", func(t *testing.T) {
		router := setupAdminRouter(t)
		body := map[string]any{
			"limits": map[string]any{
				"username": map[string]any{"min": 5, "max": 20},
			},
			"payment": map[string]any{
				"allowed_methods": []string{"credit_card", "pix"},
			},
		}
		jsonBody, _ := json.Marshal(body)
		req, _ := http.NewRequest("POST", "/config", bytes.NewBuffer(jsonBody))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		limit, ok := config.GetLimit("username")
		require.True(t, ok)
		assert.Equal(t, 5, limit.Min)
		assert.Equal(t, 20, limit.Max)
		assert.Equal(t, []string{"credit_card", "pix"}, config.GetPayment().AllowedMethods)
	})

	t.Run("逗号分隔的列表被拆分", func(t *testing.T) {
		router := setupAdminRouter(t)
		body := map[string]any{
			"payment": map[string]any{
				"allowed_methods": []string{"credit_card, paypal , cash_on_delivery"},
			},
		}
		jsonBody, _ := json.Marshal(body)
		req, _ := http.NewRequest("POST", "/config", bytes.NewBuffer(jsonBody))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, []string{"credit_card", "paypal", "cash_on_delivery"},
			config.GetPayment().AllowedMethods)
	})

	t.Run("非白名单段被忽略", func(t *testing.T) {
		router := setupAdminRouter(t)
		before := config.GetRateLimit()
		body := map[string]any{
			"rate_limit": map[string]any{"enabled": false, "max_errors": 1},
			"debug":      true,
		}
		jsonBody, _ := json.Marshal(body)
		req, _ := http.NewRequest("POST", "/config", bytes.NewBuffer(jsonBody))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, before, config.GetRateLimit())
		assert.False(t, config.IsDebug())
	})

	t.Run("非法请求体拒绝", func(t *testing.T) {
		router := setupAdminRouter(t)
		req, _ := http.NewRequest("POST", "/config", bytes.NewBufferString("{bad"))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestUpdateLimits(t *testing.T) {
	router := setupAdminRouter(t)
	body := map[string]any{
		"password": map[string]any{"min": 12, "max": 64},
		"unknown":  map[string]any{"min": 1, "max": 2},
	}
	jsonBody, _ := json.Marshal(body)
	req, _ := http.NewRequest("POST", "/config/limits", bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	limit, ok := config.GetLimit("password")
	require.True(t, ok)
	assert.Equal(t, 12, limit.Min)
	// 未知键不会被创建
	_, ok = config.GetLimit("unknown")
	assert.False(t, ok)
}
