package auditlog

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/komerce-shop/komerce/config"
	"github.com/komerce-shop/komerce/security/faults"
	"github.com/komerce-shop/komerce/security/validation"
)

func captureJSON(t *testing.T) *bytes.Buffer {
	t.Helper()
	buf := &bytes.Buffer{}
	SetLogger(slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { SetLogger(slog.Default()) })
	return buf
}

func loadConfig(t *testing.T, env map[string]string) {
	t.Helper()
	require.NoError(t, config.LoadFrom(func(key string) string { return env[key] }))
	t.Cleanup(config.Reset)
}

func TestLogClassifiedError(t *testing.T) {
	loadConfig(t, nil)
	buf := captureJSON(t)

	f := faults.ServerSelection(errors.New("no node in 30000ms"))
	c := faults.Classify(f, 200)
	LogClassifiedError(f, c, RequestInfo{
		Method:    "POST",
		URL:       "/api/orders?src=app",
		Path:      "/api/orders",
		IP:        "203.0.113.9",
		UserAgent: "curl/8.0",
	}, &UserInfo{ID: "u1", Username: "ana", Role: "customer"}, "req-123", nil)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "ERROR", entry["level"])
	assert.Equal(t, "critical", entry["severity"])
	assert.Equal(t, "database", entry["category"])
	assert.Equal(t, "req-123", entry["request_id"])

	errObj := entry["error"].(map[string]any)
	assert.Equal(t, "server_selection", errObj["name"])
	assert.Equal(t, "SERVICE_UNAVAILABLE", errObj["code"])

	reqObj := entry["request"].(map[string]any)
	assert.Equal(t, "203.0.113.9", reqObj["ip"])
	assert.Equal(t, "curl/8.0", reqObj["user_agent"])

	userObj := entry["user"].(map[string]any)
	assert.Equal(t, "ana", userObj["username"])
}

func TestLogRedactsMessage(t *testing.T) {
	loadConfig(t, nil)
	buf := captureJSON(t)

	f := faults.Internal(errors.New("login with password=hunter2 rejected"))
	LogClassifiedError(f, faults.Classify(f, 200), RequestInfo{Method: "POST", Path: "/login"}, nil, "r", nil)

	assert.Contains(t, buf.String(), "password: [REDACTED]")
	assert.NotContains(t, buf.String(), "hunter2")
}

func TestLogRespectsIncludeToggles(t *testing.T) {
	loadConfig(t, map[string]string{
		"KOMERCE_LOG_INCLUDE_CLIENT_IP":  "false",
		"KOMERCE_LOG_INCLUDE_USER_AGENT": "false",
	})
	buf := captureJSON(t)

	f := faults.NotFound("/missing")
	LogClassifiedError(f, faults.Classify(f, 200), RequestInfo{
		Method: "GET", Path: "/missing", IP: "203.0.113.9", UserAgent: "curl",
	}, nil, "r", nil)

	assert.NotContains(t, buf.String(), "203.0.113.9")
	assert.NotContains(t, buf.String(), "curl")
}

func TestLogDisabled(t *testing.T) {
	loadConfig(t, map[string]string{"KOMERCE_LOG_ENABLED": "false"})
	buf := captureJSON(t)

	f := faults.NotFound("/x")
	LogClassifiedError(f, faults.Classify(f, 200), RequestInfo{}, nil, "r", nil)
	LogValidationFailure("login", nil, RequestInfo{}, "r")
	assert.Zero(t, buf.Len())
}

func TestLogValidationFailure(t *testing.T) {
	loadConfig(t, nil)
	buf := captureJSON(t)

	LogValidationFailure("order", []validation.Violation{
		{Field: "zipCode", Code: "string.zip", Message: "must be a valid zip"},
		{Field: "paymentMethod", Code: "any.only", Message: "must be one of: paypal"},
	}, RequestInfo{Method: "POST", Path: "/api/orders"}, "req-9")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "validation failed", entry["msg"])
	assert.Equal(t, "order", entry["entity"])
	assert.Equal(t, float64(2), entry["violation_count"])
}
