package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envFrom(kv map[string]string) func(string) string {
	return func(key string) string { return kv[key] }
}

func TestLoadDefaults(t *testing.T) {
	defer Reset()
	require.NoError(t, LoadFrom(envFrom(nil)))

	limit, ok := GetLimit("username")
	assert.True(t, ok)
	assert.Equal(t, 3, limit.Min)
	assert.Equal(t, 30, limit.Max)

	assert.True(t, GetSecurity().SanitizeInput)
	assert.Contains(t, GetPayment().AllowedMethods, "paypal")
	assert.Equal(t, 500, GetMessages().DefaultStatusCode)
	assert.Equal(t, 60, GetRateLimit().WindowSeconds)
	assert.Equal(t, 100, GetRateLimit().MaxErrors)
}

func TestLoadFromEnv(t *testing.T) {
	defer Reset()
	err := LoadFrom(envFrom(map[string]string{
		"KOMERCE_LIMIT_USERNAME_MIN":      "5",
		"KOMERCE_LIMIT_USERNAME_MAX":      "20",
		"KOMERCE_PAYMENT_ALLOWED_METHODS": "paypal, credit_card",
		"KOMERCE_SECURITY_SANITIZE_INPUT": "false",
		"KOMERCE_RATE_LIMIT_MAX_ERRORS":   "3",
		"KOMERCE_DEBUG":                   "true",
	}))
	require.NoError(t, err)

	limit, _ := GetLimit("username")
	assert.Equal(t, Limit{Min: 5, Max: 20}, limit)
	assert.Equal(t, []string{"paypal", "credit_card"}, GetPayment().AllowedMethods)
	assert.False(t, GetSecurity().SanitizeInput)
	assert.Equal(t, 3, GetRateLimit().MaxErrors)
	assert.True(t, IsDebug())
}

func TestLoadInvalidLimitFatal(t *testing.T) {
	defer Reset()
	err := LoadFrom(envFrom(map[string]string{
		"KOMERCE_LIMIT_PASSWORD_MIN": "50",
		"KOMERCE_LIMIT_PASSWORD_MAX": "10",
	}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "password")
}

func TestAccessBeforeLoadPanics(t *testing.T) {
	Reset()
	assert.Panics(t, func() { GetLimits() })
	assert.Panics(t, func() { Update(Partial{}) })
}

func TestUpdateAllowList(t *testing.T) {
	defer Reset()
	require.NoError(t, LoadFrom(envFrom(nil)))

	before := GetLogging()
	Update(Partial{
		Limits: map[string]Limit{
			"title":  {Min: 5, Max: 80},
			"bogus":  {Min: 1, Max: 2}, // 未知字段类，忽略
			"phone":  {Min: 10, Max: 5}, // 非法边界，忽略
		},
		Payment: &PaymentConfig{AllowedMethods: []string{"paypal"}},
		// logging 不在白名单内，必须被静默忽略
		Logging:   &LoggingConfig{Enabled: false, Level: "error"},
		RateLimit: &RateLimitConfig{Enabled: false, WindowSeconds: 1, MaxErrors: 1},
	})

	limit, _ := GetLimit("title")
	assert.Equal(t, Limit{Min: 5, Max: 80}, limit)
	_, ok := GetLimit("bogus")
	assert.False(t, ok)
	phone, _ := GetLimit("phone")
	assert.Equal(t, Limit{Min: 7, Max: 20}, phone)

	assert.Equal(t, []string{"paypal"}, GetPayment().AllowedMethods)
	assert.Equal(t, before, GetLogging())
	assert.Equal(t, 60, GetRateLimit().WindowSeconds)
}

func TestUpdateMessages(t *testing.T) {
	defer Reset()
	require.NoError(t, LoadFrom(envFrom(nil)))

	Update(Partial{
		Messages: &MessagesPartial{
			ByCategory:        map[string]string{"database": "Storage unavailable", "nonsense": "x"},
			DefaultStatusCode: 502,
		},
	})

	msg := GetMessages()
	assert.Equal(t, "Storage unavailable", msg.ByCategory["database"])
	assert.NotContains(t, msg.ByCategory, "nonsense")
	assert.Equal(t, 502, msg.DefaultStatusCode)
}

func TestUpdateMessagesKeepsSanitizeToggle(t *testing.T) {
	defer Reset()
	require.NoError(t, LoadFrom(envFrom(nil)))
	require.True(t, GetMessages().SanitizeMessages)

	// 只改文案不携带开关：脱敏保持开启
	Update(Partial{Messages: &MessagesPartial{Default: "custom default"}})
	assert.Equal(t, "custom default", GetMessages().Default)
	assert.True(t, GetMessages().SanitizeMessages)

	// 显式携带才生效
	off := false
	Update(Partial{Messages: &MessagesPartial{SanitizeMessages: &off}})
	assert.False(t, GetMessages().SanitizeMessages)

	on := true
	Update(Partial{Messages: &MessagesPartial{SanitizeMessages: &on}})
	assert.True(t, GetMessages().SanitizeMessages)
}
